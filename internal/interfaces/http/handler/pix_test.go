package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pixapp "github.com/varejo/backend/internal/application/pix"
)

func newPixTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewPixHandler(pixapp.NewPayloadService())

	engine := gin.New()
	group := engine.Group("/api/v1")
	handler.RegisterRoutes(group)
	return engine
}

func TestPixHandler_BuildPayload(t *testing.T) {
	t.Run("builds a payload for a phone key", func(t *testing.T) {
		engine := newPixTestRouter(t)

		body := map[string]any{
			"key":              "11999998888",
			"beneficiary_name": "Mercearia do Bairro",
			"city":             "Sao Paulo",
			"amount":           "49.70",
			"transaction_id":   "VENDA0001",
		}

		w := performRequest(engine, http.MethodPost, "/api/v1/pix/payloads", body, nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                        `json:"success"`
			Data    pixapp.BuildPayloadResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "PHONE", resp.Data.KeyType)
		assert.Contains(t, resp.Data.Payload, "000201")
		assert.Contains(t, resp.Data.Payload, "+5511999998888")
	})

	t.Run("rejects missing beneficiary", func(t *testing.T) {
		engine := newPixTestRouter(t)

		body := map[string]any{
			"key":  "11999998888",
			"city": "Sao Paulo",
		}

		w := performRequest(engine, http.MethodPost, "/api/v1/pix/payloads", body, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects empty key as validation error", func(t *testing.T) {
		engine := newPixTestRouter(t)

		body := map[string]any{
			"key":              "   ",
			"beneficiary_name": "Mercearia do Bairro",
			"city":             "Sao Paulo",
		}

		w := performRequest(engine, http.MethodPost, "/api/v1/pix/payloads", body, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
	})
}
