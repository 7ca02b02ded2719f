package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		expect Class
	}{
		{&Error{Status: 429}, ClassTransient},
		{&Error{Status: 503}, ClassTransient},
		{&Error{Status: 400, Code: CodeResourceExhausted}, ClassTransient},
		{fmt.Errorf("wrapped: %w", &Error{Status: 429}), ClassTransient},
		{&Error{Status: 401, Code: "UNAUTHENTICATED"}, ClassPermanent},
		{&Error{Status: 500}, ClassPermanent},
		{&Error{Status: 404, Code: "NOT_FOUND"}, ClassPermanent},
		{errors.New("429 Too Many Requests"), ClassPermanent},
		{context.DeadlineExceeded, ClassPermanent},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.expect {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestStatusOf(t *testing.T) {
	err := fmt.Errorf("call: %w", &Error{Provider: "gemini", Model: "m", Status: 503})
	if got := StatusOf(err); got != 503 {
		t.Errorf("StatusOf = %d, want 503", got)
	}
	if got := StatusOf(errors.New("x")); got != 0 {
		t.Errorf("StatusOf(plain) = %d, want 0", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Provider: "gemini", Model: "gemini-2.0-flash", Status: 429, Code: CodeResourceExhausted, Message: "quota"}
	want := "gemini gemini-2.0-flash: 429 RESOURCE_EXHAUSTED: quota"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
