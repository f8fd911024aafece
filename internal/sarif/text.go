package sarif

import (
	"strings"
)

// SentenceCase upper-cases the first character of s and lower-cases the rest.
func SentenceCase(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyText
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:])), nil
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// markdownTable renders a header and a single data row.
func markdownTable(header []string, row []string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, cell := range cells {
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(header)
	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}
	writeRow(separator)

	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = cellEscaper.Replace(cell)
	}
	writeRow(escaped)

	return b.String()
}
