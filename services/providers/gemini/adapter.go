package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/upb/ticket-triage/services/providers"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"

	// ProviderName is the name this backend registers under
	ProviderName = "gemini"
)

// GeminiAdapter implements providers.Backend for the Gemini generateContent API
type GeminiAdapter struct {
	config     providers.ProviderConfig
	httpClient *http.Client
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(config providers.ProviderConfig) *GeminiAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.Model == "" {
		config.Model = defaultModel
	}

	if config.PricingModel == "" {
		config.PricingModel = config.Model
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &GeminiAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string {
	return ProviderName
}

// Model returns the Gemini model identifier
func (a *GeminiAdapter) Model() string {
	return a.config.Model
}

// PricingModel returns the identifier used for cost estimation
func (a *GeminiAdapter) PricingModel() string {
	return a.config.PricingModel
}

// Classify performs a single generateContent call with a JSON response MIME type
func (a *GeminiAdapter) Classify(ctx context.Context, subject, body string) (*providers.Completion, error) {
	reqBody, err := json.Marshal(GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: providers.BuildPrompt(subject, body)}}},
		},
		GenerationConfig: &GenerationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "Failed to marshal request", 0, err)
	}

	endpoint := a.config.BaseURL + "/models/" + url.PathEscape(a.config.Model) + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "Failed to create request", 0, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.config.APIKey)
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "HTTP_ERROR", "HTTP request failed", 0, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "READ_ERROR", "Failed to read response", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "Failed to unmarshal response", httpResp.StatusCode, err)
	}

	var usage UsageMetadata
	if genResp.UsageMetadata != nil {
		usage = *genResp.UsageMetadata
	}

	return &providers.Completion{
		Text:         genResp.text(),
		InputTokens:  usage.PromptTokenCount,
		OutputTokens: usage.CandidatesTokenCount,
	}, nil
}

// handleErrorResponse handles Gemini error responses
func (a *GeminiAdapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return providers.NewProviderError(a.Name(), "UNKNOWN_ERROR", http.StatusText(statusCode), statusCode, err)
	}

	return providers.NewProviderError(
		a.Name(),
		errResp.Error.Status,
		errResp.Error.Message,
		statusCode,
		errors.New(errResp.Error.Message),
	)
}

// Gemini-specific request/response types

type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// text concatenates the parts of the first candidate
func (r *GenerateContentResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
