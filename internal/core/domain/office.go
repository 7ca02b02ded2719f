package domain

import "strings"

// Office is a notary office (serventia) and the AI agents configured for it.
type Office struct {
	Code         string `db:"codigo_serventia" json:"codigo_serventia"`
	Name         string `db:"nome_abreviado"   json:"nome_abreviado"`
	PrimaryModel string `db:"ia_agent"         json:"ia_agent"`
	Fallback1    string `db:"ia_agent_fallback1" json:"ia_agent_fallback1"`
	Fallback2    string `db:"ia_agent_fallback2" json:"ia_agent_fallback2"`
}

// Candidates returns the configured models, primary first.
func (o *Office) Candidates() CandidateList {
	if o == nil {
		return CandidateList{}
	}
	return NewCandidateList(o.PrimaryModel, o.Fallback1, o.Fallback2)
}

// NormalizeOfficeCode keeps only the digits of an office code ("12.345-6" -> "123456").
func NormalizeOfficeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
