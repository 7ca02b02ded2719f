package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// OpenAIConfig configures an OpenAI-compatible client.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient calls an OpenAI-compatible chat completions API.
type OpenAIClient struct {
	name   string
	client *openai.Client
}

var (
	_ Generator   = (*OpenAIClient)(nil)
	_ ModelLister = (*OpenAIClient)(nil)
)

// NewOpenAIClient creates an OpenAI-compatible client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	conf := openai.DefaultConfig(cfg.APIKey)
	conf.BaseURL = cfg.BaseURL
	if conf.BaseURL == "" {
		conf.BaseURL = DefaultOpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	conf.HTTPClient = &http.Client{Timeout: timeout}

	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &OpenAIClient{name: name, client: openai.NewClientWithConfig(conf)}
}

func (c *OpenAIClient) Name() string {
	return c.name
}

// GenerateContent sends req as a single user message.
func (c *OpenAIClient) GenerateContent(
	ctx context.Context,
	model string,
	req Request,
) (*Response, error) {
	model = stripModelPrefix(model)

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Inline) == 0 {
		msg.Content = req.Prompt
	} else {
		msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Prompt,
		})
		for _, p := range req.Inline {
			msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s",
						p.MIMEType, base64.StdEncoding.EncodeToString(p.Data)),
				},
			})
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return nil, c.wrapError(model, err)
	}

	out := &Response{
		Model:        model,
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	for _, ch := range resp.Choices {
		cand := Candidate{FinishReason: string(ch.FinishReason)}
		if ch.Message.Content != "" {
			cand.Parts = []string{ch.Message.Content}
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out, nil
}

// ListModels returns model IDs.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, c.wrapError("", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (c *OpenAIClient) wrapError(model string, err error) *Error {
	pe := &Error{Provider: c.name, Model: model, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		pe.Status = apiErr.HTTPStatusCode
		pe.Message = apiErr.Message
		if code, ok := apiErr.Code.(string); ok {
			pe.Code = code
		} else if apiErr.Type != "" {
			pe.Code = apiErr.Type
		}
	case errors.As(err, &reqErr):
		pe.Status = reqErr.HTTPStatusCode
		pe.Message = reqErr.Error()
	default:
		pe.Message = err.Error()
	}
	return pe
}
