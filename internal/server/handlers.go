package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/augleao/frontend-dev-sub000/internal/assist"
	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

const (
	statusHealthy  = "healthy"
	statusCritical = "critical"

	checkTimeout = 3 * time.Second
)

func (s *Server) runChecks(ctx context.Context) (string, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := statusHealthy
	results := make(map[string]string, len(s.deps.Checks))
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			status = statusCritical
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	return status, results
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, _ := s.runChecks(r.Context())
	code := http.StatusOK
	if status == statusCritical {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	status, checks := s.runChecks(r.Context())
	report := map[string]any{
		"status":   status,
		"checks":   checks,
		"provider": s.deps.Provider,
		"stub":     s.deps.Assist.Stub(),
	}
	if s.deps.Monitor != nil {
		report["models"] = s.deps.Monitor.Snapshot()
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleIAHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"provider": s.deps.Provider,
		"stub":     s.deps.Assist.Stub(),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	models, err := s.deps.Catalog.ListAvailableModels(r.Context(), force)
	if err != nil {
		s.logger.Error("Model listing failed", "error", err)
		writeError(w, http.StatusBadGateway, "Falha ao listar modelos do provedor de IA.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	res := s.deps.Resolver.Resolve(r.Context(), officeQuery(r, officeFields{}))
	body := map[string]any{
		"serventia": res.Office,
		"agentes":   res.Candidates.Strings(),
		"source":    res.Source,
		"reason":    res.Reason.String(),
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// -----------------------------------------------------------------------------
// Prompt administration
// -----------------------------------------------------------------------------

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.deps.Prompts.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list_prompts", err)
		return
	}
	if prompts == nil {
		prompts = []*domain.PromptTemplate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	key := domain.NormalizePromptKey(chi.URLParam(r, "indexador"))
	tpl, err := s.deps.Prompts.Get(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		if body, ok := prompt.Default(key); ok {
			writeJSON(w, http.StatusOK, map[string]any{"indexador": key, "prompt": body, "default": true})
			return
		}
	}
	if err != nil {
		s.writeServiceError(w, r, "get_prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handlePutPrompt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	key := domain.NormalizePromptKey(chi.URLParam(r, "indexador"))
	if key == "" || strings.TrimSpace(body.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Campos indexador e prompt são obrigatórios.")
		return
	}

	tpl := &domain.PromptTemplate{Key: key, Body: body.Prompt, UpdatedAt: time.Now().UTC()}
	if err := s.deps.Prompts.Upsert(r.Context(), tpl); err != nil {
		s.writeServiceError(w, r, "put_prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleRunPrompt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		officeFields
		Vars map[string]any `json:"vars"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := s.deps.Assist.RunPrompt(r.Context(), officeQuery(r, body.officeFields),
		chi.URLParam(r, "indexador"), body.Vars)
	if err != nil {
		s.writeServiceError(w, r, "run_prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		officeFields
		Items []assist.BatchItem `json:"items"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	results, err := s.deps.Assist.RunBatch(r.Context(), officeQuery(r, body.officeFields), body.Items)
	if err != nil {
		s.writeServiceError(w, r, "run_batch", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// -----------------------------------------------------------------------------
// Mandate operations
// -----------------------------------------------------------------------------

type textRequest struct {
	officeFields
	Text string `json:"text"`
}

type requirementsRequest struct {
	officeFields
	assist.RequirementsInput
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := s.deps.Assist.ClassifyMandate(r.Context(), officeQuery(r, body.officeFields), body.Text)
	if err != nil {
		s.writeServiceError(w, r, "identificar_tipo", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	var body requirementsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := s.deps.Assist.AnalyzeRequirements(r.Context(), officeQuery(r, body.officeFields), body.RequirementsInput)
	if err != nil {
		s.writeServiceError(w, r, "analisar_exigencia", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAverbacao(w http.ResponseWriter, r *http.Request) {
	var body requirementsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := s.deps.Assist.GenerateAverbacao(r.Context(), officeQuery(r, body.officeFields), body.RequirementsInput)
	if err != nil {
		s.writeServiceError(w, r, "gerar_texto_averbacao", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeMandate(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := s.deps.Assist.AnalyzeMandate(r.Context(), officeQuery(r, body.officeFields), body.Text)
	if err != nil {
		s.writeServiceError(w, r, "analise_mandado", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !decodeBody(w, r, &body) {
		return
	}
	job, err := s.deps.Jobs.Submit(r.Context(), officeQuery(r, body.officeFields), body.Text)
	if err != nil {
		s.writeServiceError(w, r, "analise_mandado_async", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": job.ID})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Jobs.Get(r.Context(), chi.URLParam(r, "jobId"))
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusNotFound {
			msg = "Job não encontrado"
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
