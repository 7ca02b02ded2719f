package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"models/gemini-2.0-flash", "gemini-2.0-flash"},
		{"models/gemini-1.5-flash-latest", "gemini-1.5-flash"},
		{"models/gemini-1.5-pro-002", "gemini-1.5-pro"},
		{"projects/p1/locations/us-central1/publishers/google/models/Gemini-1.5-Flash-001", "gemini-1.5-flash"},
		{"Gemini Pro", "gemini-pro"},
		{"gemini__2.0 / flash::exp", "gemini-2.0-flash-exp"},
		{"  -gemini-  ", "gemini"},
		{"", ""},
		{"models/", ""},
	}

	for _, tt := range tests {
		if got := NormalizeModelName(tt.in); got != tt.want {
			t.Errorf("NormalizeModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeModelNamesDedupes(t *testing.T) {
	got := NormalizeModelNames([]string{
		"models/gemini-1.5-flash-001",
		"models/gemini-1.5-flash-002",
		"models/gemini-1.5-flash-latest",
		"",
		"models/gemini-2.0-flash",
	})
	want := []string{"gemini-1.5-flash", "gemini-2.0-flash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
