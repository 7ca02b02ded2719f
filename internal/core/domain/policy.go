package domain

import (
	"errors"
	"time"
)

// RetryPolicy bounds how often a single provider call is retried.
type RetryPolicy struct {
	Retries   int           `yaml:"retries"    json:"retries"`
	BaseDelay time.Duration `yaml:"base_delay" json:"base_delay"`
}

var (
	// InteractivePolicy is used by request/response endpoints.
	InteractivePolicy = RetryPolicy{Retries: 2, BaseDelay: 500 * time.Millisecond}

	// DocumentPolicy is used for document analysis.
	DocumentPolicy = RetryPolicy{Retries: 3, BaseDelay: 700 * time.Millisecond}

	// BatchPolicy is used for batch prompt runs.
	BatchPolicy = RetryPolicy{Retries: 2, BaseDelay: 600 * time.Millisecond}
)

var ErrInvalidPolicy = errors.New("invalid retry policy")

// Validate checks Retries >= 0 and BaseDelay > 0.
func (p RetryPolicy) Validate() error {
	if p.Retries < 0 || p.BaseDelay <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// Attempts is the total number of calls the policy allows.
func (p RetryPolicy) Attempts() int {
	return p.Retries + 1
}

// OrDefault returns p when valid, def otherwise.
func (p RetryPolicy) OrDefault(def RetryPolicy) RetryPolicy {
	if p.Validate() != nil {
		return def
	}
	return p
}
