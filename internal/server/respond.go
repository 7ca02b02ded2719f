package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/augleao/frontend-dev-sub000/internal/assist"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/routing"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

const (
	msgNotConfigured = "Nenhum agente IA configurado. Defina ia_agent / ia_agent_fallback na tabela serventia."
	msgProviderError = "Falha ao chamar provedor de IA."
	msgNotFound      = "Registro não encontrado."
	msgInvalidJSON   = "JSON inválido."
	msgTimeout       = "Tempo limite excedido."
	msgInternal      = "Erro interno."

	maxBodyBytes = 10 << 20
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// errorStatus maps service errors to a status code and caller-facing message.
func errorStatus(err error) (int, string) {
	var (
		inputErr *assist.InputError
		aggErr   *routing.AggregatedError
	)
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	case errors.Is(err, assist.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, assist.ErrConfigurationEmpty), errors.Is(err, routing.ErrNoCandidates):
		return http.StatusUnprocessableEntity, msgNotConfigured
	case errors.As(err, &aggErr):
		return http.StatusBadGateway, msgProviderError
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, prompt.ErrUnknownTemplate):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, msgTimeout
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := errorStatus(err)
	body := errorBody{Error: msg}

	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error("Request failed", "op", op, "status", status, "error", err,
			"request_id", chimiddleware.GetReqID(r.Context()))
	default:
		s.logger.Warn("Request rejected", "op", op, "status", status, "error", err,
			"request_id", chimiddleware.GetReqID(r.Context()))
	}
	if status == http.StatusUnprocessableEntity {
		body.Detail = err.Error()
	}
	writeJSON(w, status, body)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, msgInvalidJSON)
	return false
}
