package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

const (
	DefaultMaxInputChars = 120000
	MinMaxInputChars     = 1000
	DefaultLogMax        = 2000
	minLogMax            = 500
)

// ErrUnknownTemplate is returned when a key has neither a stored nor a built-in body.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Options controls prompt assembly and logging.
type Options struct {
	MaxInputChars int
	StrictMode    bool
	LogPrompts    bool
	LogMax        int
}

// Builder loads templates from the prompt store and assembles final prompts.
type Builder struct {
	store  storage.PromptRepository
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a Builder. store may be nil, in which case only
// built-in templates are available.
func NewBuilder(store storage.PromptRepository, opts Options, logger *slog.Logger) *Builder {
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	opts.MaxInputChars = max(opts.MaxInputChars, MinMaxInputChars)
	if opts.LogMax <= 0 {
		opts.LogMax = DefaultLogMax
	}
	opts.LogMax = max(opts.LogMax, minLogMax)
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, opts: opts, logger: logger}
}

// Template returns the body for key: the stored one when present,
// otherwise the built-in default.
func (b *Builder) Template(ctx context.Context, key string) (string, error) {
	key = domain.NormalizePromptKey(key)

	if b.store != nil {
		tpl, err := b.store.Get(ctx, key)
		switch {
		case err == nil && tpl != nil && tpl.Body != "":
			return tpl.Body, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			b.logger.Warn("Prompt store lookup failed, using built-in template",
				"key", key, "error", err)
		}
	}

	if body, ok := Default(key); ok {
		return body, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
}

// Build loads key, renders it with vars and finalizes the result.
func (b *Builder) Build(ctx context.Context, key string, vars map[string]any) (string, error) {
	body, err := b.Template(ctx, key)
	if err != nil {
		return "", err
	}
	return b.Finalize(Render(body, vars)), nil
}

// Finalize applies the strict-mode preamble and clamps to MaxInputChars.
func (b *Builder) Finalize(prompt string) string {
	if b.opts.StrictMode {
		prompt = StrictPreamble + "\n\n" + prompt
	}
	return Clamp(prompt, b.opts.MaxInputChars)
}

// LogPrompt logs a prompt body when prompt logging is enabled.
func (b *Builder) LogPrompt(label, text string, args ...any) {
	if !b.opts.LogPrompts {
		return
	}
	b.logger.Info("IA prompt", append([]any{"label", label, "text", Truncate(text, b.opts.LogMax)}, args...)...)
}

// LogResponse logs a raw response when prompt logging is enabled.
func (b *Builder) LogResponse(label, text string, args ...any) {
	if !b.opts.LogPrompts {
		return
	}
	b.logger.Info("IA response", append([]any{"label", label, "text", Truncate(text, b.opts.LogMax)}, args...)...)
}

// Clamp cuts s to at most n runes.
func Clamp(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Truncate is Clamp with a marker appended when s was cut.
func Truncate(s string, n int) string {
	out := Clamp(s, n)
	if len(out) < len(s) {
		return out + " …[truncado]"
	}
	return out
}
