package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/shared"
)

// maxAuthorityResponseSize limits the response body size to prevent memory exhaustion
const maxAuthorityResponseSize = 10 * 1024 * 1024 // 10MB max response

// ClientConfig holds the tax authority endpoint configuration
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Validate checks the client configuration
func (c ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return shared.NewDomainError("CONFIGURATION_ERROR", "Tax authority URL is not configured")
	}
	return nil
}

// AuthorityClient implements the TaxAuthorityGateway port over HTTP JSON.
// Transport failures and authority rejections both surface as
// EXTERNAL_SERVICE_ERROR carrying the reported message.
type AuthorityClient struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewAuthorityClient creates a new AuthorityClient
func NewAuthorityClient(config ClientConfig) (*AuthorityClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AuthorityClient{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type submitResponse struct {
	Authorized  bool   `json:"authorized"`
	AccessKey   string `json:"access_key"`
	Protocol    string `json:"protocol"`
	RawDocument string `json:"raw_document"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

type cancellationRequest struct {
	AccessKey     string `json:"access_key"`
	Protocol      string `json:"protocol"`
	Justification string `json:"justification"`
	IssuerTaxID   string `json:"issuer_tax_id"`
}

type cancellationResponse struct {
	Accepted bool   `json:"accepted"`
	Protocol string `json:"protocol"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Submit sends a document submission to the authority's authorization endpoint
func (c *AuthorityClient) Submit(ctx context.Context, submission fiscal.DocumentSubmission) (*fiscal.Authorization, error) {
	respBody, err := c.doRequest(ctx, "/documents", submission)
	if err != nil {
		return nil, err
	}

	var resp submitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("Malformed authority response: %v", err))
	}
	if !resp.Authorized {
		return nil, shared.NewExternalServiceError(authorityMessage(resp.Code, resp.Message))
	}

	return &fiscal.Authorization{
		AccessKey:   resp.AccessKey,
		Protocol:    resp.Protocol,
		RawDocument: resp.RawDocument,
	}, nil
}

// SubmitCancellation sends a cancellation event for an authorized document
func (c *AuthorityClient) SubmitCancellation(ctx context.Context, accessKey, protocol, justification, issuerTaxID string) (*fiscal.Cancellation, error) {
	respBody, err := c.doRequest(ctx, "/cancellations", cancellationRequest{
		AccessKey:     accessKey,
		Protocol:      protocol,
		Justification: justification,
		IssuerTaxID:   issuerTaxID,
	})
	if err != nil {
		return nil, err
	}

	var resp cancellationResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("Malformed authority response: %v", err))
	}
	if !resp.Accepted {
		return nil, shared.NewExternalServiceError(authorityMessage(resp.Code, resp.Message))
	}

	return &fiscal.Cancellation{Protocol: resp.Protocol}, nil
}

func (c *AuthorityClient) doRequest(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("authority: failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("authority: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("Tax authority unreachable: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthorityResponseSize))
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("Failed to read authority response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &failure); err == nil && failure.Message != "" {
			return nil, shared.NewExternalServiceError(authorityMessage(failure.Code, failure.Message))
		}
		return nil, shared.NewExternalServiceError(fmt.Sprintf("Tax authority returned status %d", resp.StatusCode))
	}

	return respBody, nil
}

func authorityMessage(code, message string) string {
	if message == "" {
		message = "Tax authority refused the request"
	}
	if code != "" {
		return fmt.Sprintf("%s - %s", code, message)
	}
	return message
}

// Ensure AuthorityClient implements TaxAuthorityGateway
var _ fiscal.TaxAuthorityGateway = (*AuthorityClient)(nil)
