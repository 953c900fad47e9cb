package pix

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayloadService_Build(t *testing.T) {
	service := NewPayloadService()

	t.Run("builds payload for a mobile key", func(t *testing.T) {
		amount := decimal.NewFromFloat(49.90)
		resp, err := service.Build(BuildPayloadRequest{
			Key:             "11999998888",
			BeneficiaryName: "Padaria São João",
			City:            "São Paulo",
			Amount:          &amount,
		})

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Payload, "000201"))
		assert.Contains(t, resp.Payload, "+5511999998888")
		assert.Equal(t, "PHONE", resp.KeyType)
		assert.Equal(t, "+55 (11) 99999-8888", resp.KeyDisplay)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		resp, err := service.Build(BuildPayloadRequest{
			Key:             "   ",
			BeneficiaryName: "Loja",
			City:            "Campinas",
		})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
