package assist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
	"github.com/augleao/frontend-dev-sub000/internal/metrics"
)

// Jobs runs mandate analyses in the background and tracks their progress.
type Jobs struct {
	svc    *Service
	repo   storage.JobRepository
	logger *slog.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJobs creates a job runner persisting state in repo.
func NewJobs(svc *Service, repo storage.JobRepository, logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Jobs{
		svc:    svc,
		repo:   repo,
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit stores a queued job and starts processing it. The returned job is a snapshot.
func (j *Jobs) Submit(ctx context.Context, q resolver.Query, text string) (*domain.Job, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	now := j.now()
	job := &domain.Job{
		ID:        uuid.NewString(),
		State:     domain.JobQueued,
		Step:      "queued",
		Message:   "Aguardando processamento",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.repo.Save(ctx, job); err != nil {
		return nil, err
	}
	metrics.JobsTotal.WithLabelValues(string(domain.JobQueued)).Inc()

	snapshot := *job
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.process(job, q, text)
	}()
	return &snapshot, nil
}

// Get returns the current state of job id.
func (j *Jobs) Get(ctx context.Context, id string) (*domain.Job, error) {
	return j.repo.Get(ctx, id)
}

// Wait blocks until all submitted jobs have finished.
func (j *Jobs) Wait() {
	j.wg.Wait()
}

// Close cancels running jobs and waits for them.
func (j *Jobs) Close() {
	j.cancel()
	j.wg.Wait()
}

func (j *Jobs) update(job *domain.Job, apply func(*domain.Job)) {
	apply(job)
	job.UpdatedAt = j.now()
	if err := j.repo.Save(j.ctx, job); err != nil {
		j.logger.Error("Failed to save job state", "job", job.ID, "step", job.Step, "error", err)
	}
}

func (j *Jobs) process(job *domain.Job, q resolver.Query, text string) {
	j.update(job, func(job *domain.Job) {
		job.State = domain.JobProcessing
		job.Step = "processing"
		job.Message = "Texto recebido"
		job.Progress = 10
		job.TextPreview = prompt.Clamp(text, maxPreview)
	})

	result, err := j.svc.analyzeMandate(j.ctx, q, text, func(step, message string, progress int) {
		j.update(job, func(job *domain.Job) {
			job.Step = step
			job.Message = message
			job.Progress = progress
		})
	})
	if err != nil {
		j.logger.Warn("Async mandate analysis failed", "job", job.ID, "error", err)
		j.update(job, func(job *domain.Job) {
			job.State = domain.JobError
			job.Step = "provider"
			job.Message, job.Error = jobFailure(err)
		})
		metrics.JobsTotal.WithLabelValues(string(domain.JobError)).Inc()
		return
	}

	j.update(job, func(job *domain.Job) {
		job.State = domain.JobDone
		job.Step = "completed"
		job.Message = "Análise concluída"
		job.Progress = 100
		job.Result = result
	})
	metrics.JobsTotal.WithLabelValues(string(domain.JobDone)).Inc()
}

func jobFailure(err error) (message, code string) {
	switch {
	case errors.Is(err, ErrConfigurationEmpty):
		return "Nenhum agente IA configurado para a serventia.", "not_configured"
	case errors.Is(err, context.Canceled):
		return "Processamento cancelado.", "cancelled"
	default:
		return "Falha ao chamar provedor de IA.", "provider_error"
	}
}
