package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sqlchat/models"
)

// NoResults is the body rendered for a result with zero rows.
const NoResults = "_No results found._"

// RenderMarkdown builds the bot reply: the query in a fenced sql block
// followed by the result table.
func RenderMarkdown(sql string, t models.Table) string {
	var b strings.Builder
	b.WriteString("**SQL Query:**\n\n```sql\n")
	b.WriteString(sql)
	b.WriteString("\n```\n\n**Result:**\n\n")
	b.WriteString(MarkdownTable(t))
	return b.String()
}

// MarkdownTable renders t as a pipe table with bold headers, or NoResults
// when it has no rows.
func MarkdownTable(t models.Table) string {
	if len(t.Rows) == 0 {
		return NoResults
	}

	headers := make([]string, len(t.Headers))
	dividers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = "**" + escapeCell(h) + "**"
		dividers[i] = "---"
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, tableLine(headers), tableLine(dividers))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		lines = append(lines, tableLine(cells))
	}
	return strings.Join(lines, "\n")
}

func tableLine(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// escapeCell keeps a value on one table line and prevents it from opening a
// new column.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderHTML converts message markdown to HTML with GFM tables and fenced
// code. Raw HTML in the source is dropped.
func RenderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(md), p, r))
}

// RenderTerminal prints an answer as plain text with a boxed table.
func RenderTerminal(w io.Writer, a models.Answer) {
	_, _ = fmt.Fprintf(w, "SQL Query:\n%s\n\n", a.SQL)
	if len(a.Table.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "No results found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(a.Table.Headers))
	for i, h := range a.Table.Headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range a.Table.Rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(a.Table.Rows))
}
