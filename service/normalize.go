package service

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"sqlchat/models"
)

// NullCell is rendered in place of null or missing values.
const NullCell = "-"

var (
	dateLiteralPattern = regexp.MustCompile(`datetime\.date\((\d+),\s*(\d+),\s*(\d+)\)`)
	selectPattern      = regexp.MustCompile(`(?is)SELECT\s+(.*?)\s+FROM`)
	aliasPattern       = regexp.MustCompile(`(?is)^.+\s+AS\s+(\w+)$`)
	quoteStripper      = strings.NewReplacer("`", "", "'", "", `"`, "")
)

// Normalize turns a backend result of any shape into a Table. result may be a
// JSON string, a malformed string, a decoded value, or a scalar. It never
// fails: unparsable input becomes a single cell.
func Normalize(result any, sql string) models.Table {
	rows := coerceRows(decodeResult(result))

	headers := ExtractHeaders(sql)
	if len(headers) == 0 {
		headers = SyntheticHeaders(rows)
	}
	return models.Table{Headers: headers, Rows: rows}
}

// SanitizeDates rewrites Python date literals such as datetime.date(2024, 1, 5)
// into JSON strings ("2024-1-5").
func SanitizeDates(s string) string {
	return dateLiteralPattern.ReplaceAllString(s, `"$1-$2-$3"`)
}

// DecodeRaw decodes a raw JSON value keeping numbers in literal form. Empty or
// invalid input yields nil.
func DecodeRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	v, ok := decodeJSON(string(raw))
	if !ok {
		return nil
	}
	return v
}

func decodeResult(result any) any {
	var s string
	switch v := result.(type) {
	case string:
		s = v
	case json.RawMessage:
		s = string(v)
	case []byte:
		s = string(v)
	default:
		return result
	}

	s = SanitizeDates(s)
	if v, ok := decodeJSON(s); ok {
		return v
	}
	return []any{[]any{s}}
}

// decodeJSON is strict: the whole input must be exactly one JSON value.
func decodeJSON(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

func coerceRows(v any) [][]string {
	outer, ok := asSlice(v)
	if !ok {
		return [][]string{{FormatCell(v)}}
	}

	rows := make([][]string, 0, len(outer))
	for _, el := range outer {
		inner, ok := asSlice(el)
		if !ok {
			rows = append(rows, []string{FormatCell(el)})
			continue
		}
		row := make([]string, len(inner))
		for i, cell := range inner {
			row[i] = FormatCell(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// asSlice reports whether v is an ordered sequence and returns its elements.
// Byte slices are treated as text, not sequences.
func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	case []byte, json.RawMessage:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// FormatCell renders a single decoded value as table text.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return NullCell
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []byte:
		return string(t)
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return NullCell
		}
		return FormatCell(rv.Elem().Interface())
	}
	if items, ok := asSlice(v); ok {
		return joinItems(items)
	}
	return fmt.Sprint(v)
}

// joinItems flattens a nested sequence inside a cell: members joined by
// commas, null members left empty.
func joinItems(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		parts[i] = FormatCell(item)
	}
	return strings.Join(parts, ",")
}

// ExtractHeaders derives column names from the SELECT list of sql. It returns
// nil when the query has no SELECT ... FROM clause or selects only *.
func ExtractHeaders(sql string) []string {
	m := selectPattern.FindStringSubmatch(sql)
	if m == nil || m[1] == "" {
		return nil
	}

	tokens := splitColumns(m[1])
	headers := make([]string, len(tokens))
	for i, tok := range tokens {
		headers[i] = quoteStripper.Replace(strings.TrimSpace(tok))
	}

	if len(headers) == 1 && strings.Contains(headers[0], ",") && !aliasPattern.MatchString(headers[0]) {
		parts := strings.Split(headers[0], ",")
		headers = make([]string, len(parts))
		for i, p := range parts {
			headers[i] = strings.TrimSpace(p)
		}
	}

	for i, h := range headers {
		if am := aliasPattern.FindStringSubmatch(h); am != nil {
			headers[i] = am[1]
		}
	}

	if len(headers) == 1 && headers[0] == "*" {
		return nil
	}
	return headers
}

// splitColumns splits a select list on commas that are not nested inside
// parentheses or quoted literals.
func splitColumns(list string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range list {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, list[start:i])
			start = i + 1
		}
	}
	return append(parts, list[start:])
}

// SyntheticHeaders names columns "Column 1".."Column N" after the width of
// the first row.
func SyntheticHeaders(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i := range headers {
		headers[i] = fmt.Sprintf("Column %d", i+1)
	}
	return headers
}
