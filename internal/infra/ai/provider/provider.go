// Package provider implements generative-AI provider adapters.
//
// This package contains:
//   - Generator / ModelLister: the provider abstraction used by routing and catalog
//   - GeminiClient: Gemini REST API (generateContent, models listing)
//   - OpenAIClient: OpenAI-compatible chat completions and models listing
//   - Error: typed provider failure with transient/permanent classification
//   - Monitor: per-model health and throttle tracking
package provider

import (
	"context"
	"strings"
)

// Part is an inline binary part sent alongside the prompt (e.g. a scanned page).
type Part struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation request.
type Request struct {
	// Prompt is the rendered text sent to the model.
	Prompt string

	// Inline holds optional binary parts appended after the prompt.
	Inline []Part
}

// Candidate is one generated alternative.
type Candidate struct {
	Parts        []string
	FinishReason string
}

// Response is the provider-neutral generation payload.
type Response struct {
	Model        string
	Candidates   []Candidate
	BlockReason  string
	PromptTokens int
	OutputTokens int
}

// Text concatenates the text parts of the first candidate.
func (r *Response) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	return strings.Join(r.Candidates[0].Parts, "")
}

// Generator produces content with a named model.
type Generator interface {
	// Name returns the provider identifier (e.g. "gemini")
	Name() string

	// GenerateContent calls model with req. Failures are returned as *Error.
	GenerateContent(ctx context.Context, model string, req Request) (*Response, error)
}

// ModelLister lists the models available to the configured account.
type ModelLister interface {
	// ListModels returns raw model resource names as reported by the provider
	ListModels(ctx context.Context) ([]string, error)
}

// stripModelPrefix turns "models/gemini-2.0-flash" into "gemini-2.0-flash".
func stripModelPrefix(model string) string {
	model = strings.TrimSpace(model)
	if i := strings.LastIndex(model, "models/"); i >= 0 {
		return model[i+len("models/"):]
	}
	return model
}
