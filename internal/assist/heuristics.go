package assist

import (
	"fmt"
	"strings"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

const (
	// DefaultAverbacaoText is used when the model returns no usable text.
	DefaultAverbacaoText = "Averba-se, por mandado judicial..."

	heuristicWarning = "Provedor de IA indisponível, resultado heurístico."
	stubGuidance     = "Verifique a legislação correlata e preencha o texto de averbação conforme exigências."
	malformedReason  = "Resposta do provedor fora do formato esperado."

	maxPromptText  = 8000
	maxPreview     = 1500
	maxStubRefs    = 3
	queryWordCount = 12
	minTextLength  = 5
)

// classifyByKeywords is the offline mandate classification.
func classifyByKeywords(text string) domain.MandateType {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "penhora"):
		return domain.MandateAttachment
	case strings.Contains(t, "alimentos"), strings.Contains(t, "pensão"):
		return domain.MandateAlimony
	case strings.Contains(t, "prisão civil"):
		return domain.MandateCivilArrest
	default:
		return domain.MandateGeneric
	}
}

// stubRequirements builds the rule-based checklist used in stub mode.
func stubRequirements(tipo string, legislation []domain.LegalExcerpt) *domain.RequirementAnalysis {
	checklist := []domain.ChecklistItem{
		{Requirement: "Coerência do tipo de mandado", OK: strings.TrimSpace(tipo) != ""},
		{Requirement: "Legislação correlata fornecida", OK: len(legislation) > 0},
	}

	approved := true
	reasons := []string{}
	for _, item := range checklist {
		if !item.OK {
			approved = false
			reasons = append(reasons, "Requisito não atendido: "+item.Requirement)
		}
	}
	return &domain.RequirementAnalysis{
		Approved:  approved,
		Reasons:   reasons,
		Checklist: checklist,
		Guidance:  stubGuidance,
	}
}

// stubAverbacao renders the template annotation text with up to three legal references.
func stubAverbacao(tipo string, legislation []domain.LegalExcerpt) string {
	var b strings.Builder
	b.WriteString("Averba-se, por mandado judicial")
	if tipo = strings.TrimSpace(tipo); tipo != "" {
		fmt.Fprintf(&b, " (%s)", strings.ReplaceAll(tipo, "_", " "))
	}
	b.WriteString(", o que consta do texto do mandado, observadas as disposições legais aplicáveis.")

	var refs []string
	for _, l := range legislation[:min(len(legislation), maxStubRefs)] {
		if ref := reference(l); ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) > 0 {
		fmt.Fprintf(&b, " Referências: %s.", strings.Join(refs, "; "))
	}
	return b.String()
}

func reference(l domain.LegalExcerpt) string {
	ref := l.BaseLegal
	if l.Artigo != "" {
		ref += " - " + l.Artigo
	}
	return ref
}

// legalContext formats excerpts as bullet lines for prompts.
func legalContext(excerpts []domain.LegalExcerpt) string {
	lines := make([]string, 0, len(excerpts))
	for _, l := range excerpts {
		lines = append(lines, fmt.Sprintf("• %s: %s", reference(l), l.Texto))
	}
	return strings.Join(lines, "\n")
}

// searchQuery keeps the first words of text for full-text search.
func searchQuery(text string) string {
	words := strings.Fields(text)
	return strings.Join(words[:min(len(words), queryWordCount)], " ")
}

func mandateChecklist(text string, excerpts int) []domain.ChecklistItem {
	return []domain.ChecklistItem{
		{Requirement: "Texto extraído", OK: strings.TrimSpace(text) != ""},
		{Requirement: "Legislação consultada", OK: excerpts > 0},
	}
}

func validateText(text string) error {
	if len([]rune(strings.TrimSpace(text))) < minTextLength {
		return invalidInput("Campo text é obrigatório.")
	}
	return nil
}
