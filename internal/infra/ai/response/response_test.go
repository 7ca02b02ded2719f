package response

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
)

func TestExtractText(t *testing.T) {
	if got := ExtractText(nil); got != "" {
		t.Errorf("nil response: got %q", got)
	}
	if got := ExtractText(&provider.Response{}); got != "" {
		t.Errorf("empty response: got %q", got)
	}
	resp := &provider.Response{Candidates: []provider.Candidate{
		{Parts: []string{"Averba-se ", "o mandado."}},
		{Parts: []string{"ignored"}},
	}}
	if got := ExtractText(resp); got != "Averba-se o mandado." {
		t.Errorf("got %q", got)
	}
}

func TestParseJSONLoose(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   any
		wantOK bool
	}{
		{"clean object", `{"tipo":"mandado_penhora"}`, map[string]any{"tipo": "mandado_penhora"}, true},
		{"fenced json", "```json\n{\"a\":1}\n```", map[string]any{"a": float64(1)}, true},
		{"bare fence", "```\n{\"a\":true}\n```", map[string]any{"a": true}, true},
		{"prose around", "Segue o resultado: {\"ok\": false} espero ter ajudado", map[string]any{"ok": false}, true},
		{"array", `[1,2]`, []any{float64(1), float64(2)}, true},
		{"garbage", "não sei responder", nil, false},
		{"empty", "   ", nil, false},
		{"broken braces", "} nada {", nil, false},
		{"unterminated", `{"a":`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseJSONLoose(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseJSONLooseIdempotentOnCleanJSON(t *testing.T) {
	raw := `{"aprovado":true,"motivos":["ok"],"checklist":[{"requisito":"assinatura","ok":true}]}`
	first, ok := ParseJSONLoose(raw)
	if !ok {
		t.Fatal("expected clean JSON to parse")
	}
	second, ok := ParseJSONLoose("```json\n" + raw + "\n```")
	if !ok || !reflect.DeepEqual(first, second) {
		t.Errorf("fenced and clean parse differ: %v vs %v", first, second)
	}
}

func TestParseJSONLooseKeepsBackticksInValues(t *testing.T) {
	values := []any{
		map[string]any{"codigo": "```json\nfoo\n```", "obs": "use ``` here"},
		map[string]any{"texto": "```"},
		[]any{"```json", "fim ```"},
		"``` solto",
	}
	for _, want := range values {
		raw, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %v: %v", want, err)
		}
		got, ok := ParseJSONLoose(string(raw))
		if !ok {
			t.Fatalf("ParseJSONLoose(%s) failed", raw)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ParseJSONLoose(%s) = %#v, want %#v", raw, got, want)
		}
	}

	fenced := "```json\n{\"obs\":\"use ``` here\"}\n```"
	got, ok := ParseJSONLoose(fenced)
	if !ok || !reflect.DeepEqual(got, map[string]any{"obs": "use ``` here"}) {
		t.Errorf("fenced value with inner backticks: got %#v ok=%v", got, ok)
	}
}

func TestDecodeJSONLoose(t *testing.T) {
	var out struct {
		Tipo       string  `json:"tipo"`
		Confidence float64 `json:"confidence"`
	}
	if !DecodeJSONLoose("```json\n{\"tipo\":\"mandado_alimentos\",\"confidence\":0.9}\n```", &out) {
		t.Fatal("expected decode to succeed")
	}
	if out.Tipo != "mandado_alimentos" || out.Confidence != 0.9 {
		t.Errorf("unexpected result %+v", out)
	}

	var bad struct{ A int }
	if DecodeJSONLoose("texto livre", &bad) {
		t.Error("expected decode to fail")
	}
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"  Averba-se.  ":       "Averba-se.",
		`"Averba-se."`:         "Averba-se.",
		"```\nAverba-se.\n```": "Averba-se.",
		`'"duplo"'`:            "duplo",
		`"`:                    `"`,
		"Use ``` no texto.":    "Use ``` no texto.",
		"":                     "",
	}
	for in, want := range tests {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}
