package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Class tells the retry loop whether a failure may succeed on retry.
type Class int

const (
	ClassPermanent Class = iota
	ClassTransient
)

func (c Class) String() string {
	if c == ClassTransient {
		return "transient"
	}
	return "permanent"
}

// CodeResourceExhausted is the status code Google APIs use for quota exhaustion.
const CodeResourceExhausted = "RESOURCE_EXHAUSTED"

// Error is a failed provider call, classified once at the adapter boundary.
type Error struct {
	Provider string
	Model    string
	Status   int    // HTTP status, 0 when the request never got a response
	Code     string // provider status code, e.g. RESOURCE_EXHAUSTED
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Status != 0 && e.Code != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Provider, e.Model, e.Status, e.Code, msg)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: %d: %s", e.Provider, e.Model, e.Status, msg)
	default:
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Model, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify returns ClassTransient for 429, 503 and RESOURCE_EXHAUSTED.
func (e *Error) Classify() Class {
	if e.Status == http.StatusTooManyRequests ||
		e.Status == http.StatusServiceUnavailable ||
		e.Code == CodeResourceExhausted {
		return ClassTransient
	}
	return ClassPermanent
}

// Classify inspects err for a *Error. Anything else is permanent.
func Classify(err error) Class {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Classify()
	}
	return ClassPermanent
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}
