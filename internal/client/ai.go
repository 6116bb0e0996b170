package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/processing"
)

// AIService calls the summarize-document and health functions.
type AIService struct {
	summarizeURL string
	healthURL    string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewAIService creates a client for the AI functions. A nil httpClient means
// http.DefaultClient.
func NewAIService(summarizeURL, healthURL string, httpClient *http.Client, logger zerolog.Logger) *AIService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AIService{
		summarizeURL: summarizeURL,
		healthURL:    healthURL,
		httpClient:   httpClient,
		logger:       logger.With().Str("component", "ai-client").Logger(),
	}
}

var _ processing.Summarizer = (*AIService)(nil)

// SummarizeFile uploads f as multipart form data.
func (c *AIService) SummarizeFile(ctx context.Context, f processing.File, extractActionItems bool) (*models.SummaryResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("extractActionItems", strconv.FormatBool(extractActionItems)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(f.Name)))
	h.Set("Content-Type", f.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if f.Content != nil {
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.summarizeURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("filename", f.Name).Int("bodyBytes", body.Len()).Msg("Uploading document for summarization.")
	var out models.SummaryResult
	if err := do(c.httpClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SummarizeText sends raw text for summarization.
func (c *AIService) SummarizeText(ctx context.Context, text string, extractActionItems bool) (*models.SummaryResult, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.summarizeURL, models.SummarizeRequest{
		Text:               text,
		ExtractActionItems: extractActionItems,
	})
	if err != nil {
		return nil, err
	}
	var out models.SummaryResult
	if err := do(c.httpClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckHealth reports the liveness of the AI service. It never fails: any
// transport error or non-2xx answer yields an unhealthy record.
func (c *AIService) CheckHealth(ctx context.Context) models.HealthStatus {
	req, err := newJSONRequest(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return unhealthy(err.Error())
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Health check request failed.")
		return unhealthy(fmt.Sprintf("health check failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := statusError(resp)
		var reported models.HealthStatus
		if json.Unmarshal([]byte(serr.Message), &reported) == nil && reported.Message != "" {
			serr.Message = reported.Message
		}
		c.logger.Warn().Int("status", serr.StatusCode).Str("message", serr.Message).Msg("AI service reported unhealthy.")
		return unhealthy(serr.Error())
	}

	var status models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return unhealthy(fmt.Sprintf("undecodable health response: %v", err))
	}
	if status.Status == "" {
		return unhealthy("health response carried no status")
	}
	return status
}

func unhealthy(message string) models.HealthStatus {
	return models.HealthStatus{
		Status:          models.HealthUnhealthy,
		GeminiConnected: false,
		Message:         message,
		Timestamp:       time.Now().UTC(),
	}
}
