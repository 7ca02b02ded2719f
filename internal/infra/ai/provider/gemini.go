package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiName           = "gemini"
	modelsPageSize       = "1000"
)

// GeminiConfig configures the Gemini REST client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient talks to the Gemini REST API.
type GeminiClient struct {
	http   *resty.Client
	apiKey string
}

var (
	_ Generator   = (*GeminiClient)(nil)
	_ ModelLister = (*GeminiClient)(nil)
)

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "notaria-ia/1.0")

	return &GeminiClient{http: client, apiKey: cfg.APIKey}
}

// Name returns "gemini".
func (c *GeminiClient) Name() string {
	return geminiName
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// errorEnvelope is the Google API error body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent calls models/{model}:generateContent.
func (c *GeminiClient) GenerateContent(
	ctx context.Context,
	model string,
	req Request,
) (*Response, error) {
	model = stripModelPrefix(model)

	parts := []geminiPart{{Text: req.Prompt}}
	for _, p := range req.Inline {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: p.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(p.Data),
		}})
	}
	body := generateRequest{Contents: []geminiContent{{Role: "user", Parts: parts}}}

	var out generateResponse
	var apiErr errorEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", model).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return nil, &Error{Provider: geminiName, Model: model, Message: "generate content", Err: err}
	}
	if resp.IsError() {
		return nil, c.apiError(model, resp, apiErr)
	}

	result := &Response{
		Model:        model,
		BlockReason:  out.PromptFeedback.BlockReason,
		PromptTokens: out.UsageMetadata.PromptTokenCount,
		OutputTokens: out.UsageMetadata.CandidatesTokenCount,
	}
	for _, cand := range out.Candidates {
		var texts []string
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		result.Candidates = append(result.Candidates, Candidate{
			Parts:        texts,
			FinishReason: cand.FinishReason,
		})
	}
	return result, nil
}

type listModelsResponse struct {
	Models []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Model       string `json:"model"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

// ListModels calls GET /v1beta/models, following nextPageToken.
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	pageToken := ""

	for {
		var out listModelsResponse
		var apiErr errorEnvelope
		r := c.http.R().
			SetContext(ctx).
			SetQueryParam("key", c.apiKey).
			SetQueryParam("pageSize", modelsPageSize).
			SetResult(&out).
			SetError(&apiErr)
		if pageToken != "" {
			r.SetQueryParam("pageToken", pageToken)
		}

		resp, err := r.Get("/v1beta/models")
		if err != nil {
			return nil, &Error{Provider: geminiName, Message: "list models", Err: err}
		}
		if resp.IsError() {
			return nil, c.apiError("", resp, apiErr)
		}

		for _, m := range out.Models {
			switch {
			case m.Name != "":
				names = append(names, m.Name)
			case m.Model != "":
				names = append(names, m.Model)
			case m.DisplayName != "":
				names = append(names, m.DisplayName)
			}
		}

		if out.NextPageToken == "" || out.NextPageToken == pageToken {
			return names, nil
		}
		pageToken = out.NextPageToken
	}
}

func (c *GeminiClient) apiError(model string, resp *resty.Response, env errorEnvelope) *Error {
	msg := env.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if len(msg) > 500 {
		msg = msg[:500]
	}
	status := resp.StatusCode()
	if status == 0 {
		status = env.Error.Code
	}
	return &Error{
		Provider: geminiName,
		Model:    model,
		Status:   status,
		Code:     env.Error.Status,
		Message:  msg,
		Err:      fmt.Errorf("http %d", resp.StatusCode()),
	}
}
