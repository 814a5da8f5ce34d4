package export

import (
	"io"
	"strings"
)

// EscapeCSV wraps v in double quotes and doubles any quote inside it.
func EscapeCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// WriteCSV writes the header bare and every data cell quoted, one record per
// line with no trailing newline. encoding/csv only quotes cells that need
// it, and downstream spreadsheet imports rely on every cell being quoted.
func WriteCSV(w io.Writer, t Table) error {
	var b strings.Builder
	b.WriteString(strings.Join(t.Header, ","))

	for _, row := range t.Rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EscapeCSV(cell))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
