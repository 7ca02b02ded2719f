package catalog

import (
	"regexp"
	"strings"
)

var (
	separatorRun   = regexp.MustCompile(`[\s_/:\-]+`)
	versionSuffix  = regexp.MustCompile(`-\d{3}$`)
	latestSuffix   = "-latest"
	resourcePrefix = "models/"
)

// NormalizeModelName turns a provider resource name into a short model key:
//
//	projects/p/locations/l/publishers/google/models/Gemini-1.5-Flash-002 -> gemini-1.5-flash
//	models/gemini-2.0-flash-latest                                      -> gemini-2.0-flash
func NormalizeModelName(name string) string {
	n := strings.TrimSpace(name)
	if i := strings.LastIndex(n, resourcePrefix); i >= 0 {
		n = n[i+len(resourcePrefix):]
	}
	n = strings.ToLower(n)
	n = separatorRun.ReplaceAllString(n, "-")
	n = strings.Trim(n, "-")

	n = strings.TrimSuffix(n, latestSuffix)
	n = versionSuffix.ReplaceAllString(n, "")
	return n
}

// NormalizeModelNames normalizes names, dropping blanks and duplicates.
func NormalizeModelNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		n := NormalizeModelName(name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
