// Package preview builds the HTML-safe table fragment shown while a job is
// polled.
package preview

import (
	"html"
	"strings"
)

// maxRows bounds the fragment to the first rows of the upload (header
// excluded).
const maxRows = 10

// TableFragment renders rows as an escaped HTML table. The first row is
// treated as the header. The fragment is safe to embed directly: every cell is
// escaped.
func TableFragment(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<h3>Data Preview</h3><table border=\"1\"><thead><tr>")
	for _, h := range rows[0] {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	body := rows[1:]
	if len(body) > maxRows {
		body = body[:maxRows]
	}
	for _, row := range body {
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(c))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
