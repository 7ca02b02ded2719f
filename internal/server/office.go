package server

import (
	"net/http"
	"strings"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
)

// officeFields are the office identifiers accepted in request bodies.
type officeFields struct {
	Serventia     string `json:"serventia"`
	ServentiaNome string `json:"serventiaNome"`
	Codigo        string `json:"codigo"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// officeQuery identifies the office from headers, then query parameters, then body.
func officeQuery(r *http.Request, body officeFields) resolver.Query {
	q := r.URL.Query()
	return resolver.Query{
		Name: firstNonEmpty(
			r.Header.Get("x-serventia"),
			r.Header.Get("x-serventia-nome"),
			q.Get("serventia"),
			q.Get("serventiaNome"),
			body.Serventia,
			body.ServentiaNome,
		),
		Code: firstNonEmpty(
			r.Header.Get("x-serventia-codigo"),
			q.Get("codigo"),
			body.Codigo,
		),
	}
}
