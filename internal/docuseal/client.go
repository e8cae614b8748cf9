package docuseal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/config"
	apperrors "github.com/webvision/quoting-api/pkg/errors"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new DocuSeal API client
func NewClient(cfg config.DocuSealConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Submitter is one party of a signing session
type Submitter struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// SubmissionRequest represents the submission creation payload
type SubmissionRequest struct {
	TemplateID string      `json:"template_id"`
	SendEmail  bool        `json:"send_email"`
	Submitters []Submitter `json:"submitters"`
}

// SubmitterRecord is one per-submitter slot of the provider's response
type SubmitterRecord struct {
	ID   json.RawMessage `json:"id"`
	Slug string          `json:"slug"`
}

// CreateSubmission issues a single POST /submissions call and returns the
// provider's ordered submitter records. One attempt, no retries: a failure
// surfaces immediately and the caller decides whether to retry.
func (c *Client) CreateSubmission(ctx context.Context, req SubmissionRequest) ([]SubmitterRecord, error) {
	if c.apiKey == "" {
		return nil, &apperrors.ConfigurationError{Setting: "DOCUSEAL_API_KEY"}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/submissions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("DocuSeal request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("template_id", req.TemplateID),
		)
		return nil, apperrors.NewUpstreamError(resp.StatusCode, body)
	}

	var records []SubmitterRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &apperrors.UpstreamError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: "unexpected response from signing provider",
			Err:     err,
		}
	}

	return records, nil
}
