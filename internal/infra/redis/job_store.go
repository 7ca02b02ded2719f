package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

// DefaultJobTTL is how long a job is kept after its last update.
const DefaultJobTTL = 24 * time.Hour

// JobStore implements storage.JobRepository using Redis.
type JobStore struct {
	client *Client
	ttl    time.Duration
}

var _ storage.JobRepository = (*JobStore)(nil)

// NewJobStore creates a Redis-backed job store.
func NewJobStore(client *Client, ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &JobStore{client: client, ttl: ttl}
}

// Save stores the job, refreshing its TTL.
func (s *JobStore) Save(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.client.rdb.Set(ctx, s.client.jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (s *JobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	data, err := s.client.rdb.Get(ctx, s.client.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}
