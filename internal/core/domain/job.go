package domain

import "time"

// JobState is the lifecycle state of an async analysis job.
type JobState string

const (
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobDone       JobState = "done"
	JobError      JobState = "error"
)

// Job tracks an asynchronous mandate analysis.
type Job struct {
	ID          string           `json:"id"`
	State       JobState         `json:"state"`
	Step        string           `json:"step"`
	Message     string           `json:"message"`
	Progress    int              `json:"progress"`
	TextPreview string           `json:"textPreview,omitempty"`
	Result      *MandateAnalysis `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Finished reports whether the job reached a terminal state.
func (j *Job) Finished() bool {
	return j.State == JobDone || j.State == JobError
}
