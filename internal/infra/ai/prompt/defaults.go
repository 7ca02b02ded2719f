package prompt

// Built-in template keys.
const (
	KeyClassifyMandate     = "identificar_tipo"
	KeyAnalyzeRequirements = "analisar_exigencia"
	KeyGenerateAverbacao   = "gerar_texto_averbacao"
	KeyAnalyzeMandate      = "analise_mandado"
)

// StrictPreamble is prepended to every prompt in strict mode.
const StrictPreamble = `REGRAS ESTRITAS (NÃO INVENTAR):
- NÃO deduza ou invente NENHUM valor.
- Se o dado não estiver legível no documento, deixe o campo vazio (string vazia) e NÃO preencha com suposições.
- Copie números e datas exatamente como aparecem (DD/MM/AAAA quando possível). Nomes em CAIXA ALTA.
- Não "corrija" ortografia antiga.
- Se houver dúvida, prefira deixar vazio.`

var defaults = map[string]string{
	KeyClassifyMandate: "Classifique o tipo do mandado judicial a partir do texto abaixo. " +
		"Responda APENAS um JSON com as chaves tipo (string curta, ex.: mandado_penhora) " +
		"e confidence (0..1). Texto:\n{{texto}}",

	KeyAnalyzeRequirements: "Com base no texto do mandado e nos trechos legais, liste as exigências " +
		"legais aplicáveis (checklist) e indique se está aprovado. Responda JSON: " +
		"{ aprovado: boolean, motivos: string[], checklist: [{ requisito, ok }], orientacao: string }.\n" +
		"Tipo (se houver): {{tipo}}\nTexto do mandado:\n{{texto}}\n\nLegislação correlata:\n{{legislacao}}",

	KeyGenerateAverbacao: "Elabore o texto objetivo da averbação a partir do mandado judicial abaixo, " +
		"observando as exigências legais pertinentes. O texto deve ser curto, impessoal e adequado " +
		"para lançamento no livro. Retorne apenas o texto, sem comentários.\n" +
		"Tipo (se houver): {{tipo}}\nMandado (texto):\n{{texto}}\n\nLegislação aplicável (trechos):\n{{legislacao}}",

	KeyAnalyzeMandate: "Analise o mandado judicial abaixo e gere o texto objetivo da averbação.\n\n" +
		"Mandado (texto extraído):\n{{texto}}\n\nContexto legal (trechos selecionados):\n{{legislacao}}",
}

// Default returns the built-in body for key.
func Default(key string) (string, bool) {
	body, ok := defaults[key]
	return body, ok
}

// DefaultKeys lists the built-in template keys.
func DefaultKeys() []string {
	return []string{KeyClassifyMandate, KeyAnalyzeRequirements, KeyGenerateAverbacao, KeyAnalyzeMandate}
}
