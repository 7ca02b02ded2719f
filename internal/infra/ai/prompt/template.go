// Package prompt renders prompt templates and assembles the final text
// sent to the provider.
package prompt

import (
	"fmt"
	"regexp"
)

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Render replaces every {{ name }} in tpl with vars[name].
// Missing and nil values render as "".
func Render(tpl string, vars map[string]any) string {
	return placeholder.ReplaceAllStringFunc(tpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		v, ok := vars[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// Placeholders returns the distinct placeholder names used by tpl, in order.
func Placeholders(tpl string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
