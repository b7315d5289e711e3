package models

import "strings"

// Row is one normalized spreadsheet row: a header -> cell mapping produced
// by the parser once the true header row has been located. All downstream
// matching works against this strict shape rather than raw sheet data.
type Row map[string]string

// Get returns the first non-empty cell among the given header aliases,
// matched case-insensitively with surrounding whitespace ignored. Alias
// order is precedence order.
func (r Row) Get(aliases ...string) string {
	for _, alias := range aliases {
		for header, value := range r {
			if strings.EqualFold(strings.TrimSpace(header), alias) {
				if v := strings.TrimSpace(value); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// Values returns every cell value in the row. Iteration order is not
// defined; callers that scan for a marker substring must not rely on it.
func (r Row) Values() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		out = append(out, v)
	}
	return out
}
