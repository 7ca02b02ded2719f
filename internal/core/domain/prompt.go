package domain

import (
	"strings"
	"time"
)

// PromptTemplate is a stored prompt body addressed by its indexador key.
type PromptTemplate struct {
	Key       string    `db:"indexador"  json:"indexador"`
	Body      string    `db:"prompt"     json:"prompt"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizePromptKey lowercases and trims an indexador.
func NormalizePromptKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
