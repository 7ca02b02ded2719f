package domain

// MandateType is the short classification of a judicial mandate.
type MandateType string

const (
	MandateGeneric     MandateType = "mandado_generico"
	MandateAttachment  MandateType = "mandado_penhora"
	MandateAlimony     MandateType = "mandado_alimentos"
	MandateCivilArrest MandateType = "mandado_prisao_civil"
)

// Classification is the result of classifying a mandate text.
type Classification struct {
	Type       MandateType `json:"tipo"`
	Confidence float64     `json:"confidence"`
	Warning    string      `json:"warning,omitempty"`
	UsedModel  string      `json:"usedModel,omitempty"`
}

// LegalExcerpt is a legislation excerpt used as prompt context.
type LegalExcerpt struct {
	ID         int64  `db:"id"          json:"id,omitempty"`
	Indexador  string `db:"indexador"   json:"indexador,omitempty"`
	BaseLegal  string `db:"base_legal"  json:"base_legal"`
	Titulo     string `db:"titulo"      json:"titulo,omitempty"`
	Artigo     string `db:"artigo"      json:"artigo,omitempty"`
	Jurisdicao string `db:"jurisdicao"  json:"jurisdicao,omitempty"`
	Texto      string `db:"texto"       json:"texto"`
}

// ChecklistItem is one legal requirement and whether it is met.
type ChecklistItem struct {
	Requirement string `json:"requisito"`
	OK          bool   `json:"ok"`
}

// RequirementAnalysis is the outcome of checking a mandate against legislation.
type RequirementAnalysis struct {
	Approved  bool            `json:"aprovado"`
	Reasons   []string        `json:"motivos"`
	Checklist []ChecklistItem `json:"checklist"`
	Guidance  string          `json:"orientacao"`
	UsedModel string          `json:"usedModel,omitempty"`
}

// MandateAnalysis is the full analysis of a mandate, including the annotation text.
type MandateAnalysis struct {
	Approved       bool            `json:"aprovado"`
	Reasons        []string        `json:"motivos"`
	Checklist      []ChecklistItem `json:"checklist"`
	AnnotationText string          `json:"textoAverbacao"`
	UsedModel      string          `json:"usedModel,omitempty"`
}
