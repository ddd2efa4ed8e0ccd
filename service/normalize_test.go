package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ArrayOfArrays(t *testing.T) {
	got := Normalize(`[[1, "alice", 3.5], [2, "bob", null]]`, "SELECT id, name, score FROM users")

	assert.Equal(t, []string{"id", "name", "score"}, got.Headers)
	require.Len(t, got.Rows, 2)
	for _, row := range got.Rows {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, []string{"1", "alice", "3.5"}, got.Rows[0])
	assert.Equal(t, []string{"2", "bob", NullCell}, got.Rows[1])
}

func TestNormalize_Scalars(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{name: "json number", result: json.Number("42"), want: "42"},
		{name: "number string", result: "42", want: "42"},
		{name: "plain text", result: "hello", want: "hello"},
		{name: "bool", result: true, want: "true"},
		{name: "float", result: 3.25, want: "3.25"},
		{name: "int", result: 7, want: "7"},
		{name: "null", result: nil, want: NullCell},
		{name: "empty string", result: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.result, "")
			require.Len(t, got.Rows, 1)
			assert.Equal(t, []string{tt.want}, got.Rows[0])
			assert.Equal(t, []string{"Column 1"}, got.Headers)
		})
	}
}

func TestNormalize_DateLiterals(t *testing.T) {
	got := Normalize("[[datetime.date(2024, 1, 5), 3], [datetime.date(2023, 12, 31), 4]]", "SELECT day, total FROM sales")

	assert.Equal(t, [][]string{{"2024-1-5", "3"}, {"2023-12-31", "4"}}, got.Rows)
}

func TestSanitizeDates(t *testing.T) {
	assert.Equal(t, `[["2024-1-5"]]`, SanitizeDates("[[datetime.date(2024, 1, 5)]]"))
	assert.Equal(t, `x "2024-02-09" y`, SanitizeDates("x datetime.date(2024,02,  09) y"))
	assert.Equal(t, "no dates here", SanitizeDates("no dates here"))
}

func TestNormalize_MalformedStringIsSingleCell(t *testing.T) {
	got := Normalize("[(42,), (43,)]", "SELECT n FROM t")

	assert.Equal(t, [][]string{{"[(42,), (43,)]"}}, got.Rows)
	assert.Equal(t, []string{"n"}, got.Headers)
}

func TestNormalize_TrailingDataIsMalformed(t *testing.T) {
	got := Normalize("[[1]] [[2]]", "")

	assert.Equal(t, [][]string{{"[[1]] [[2]]"}}, got.Rows)
}

func TestNormalize_MixedRows(t *testing.T) {
	got := Normalize(`[1, [2, 3], null, "x"]`, "")

	assert.Equal(t, [][]string{{"1"}, {"2", "3"}, {NullCell}, {"x"}}, got.Rows)
	assert.Equal(t, []string{"Column 1"}, got.Headers)
}

func TestNormalize_NestedCells(t *testing.T) {
	got := Normalize(`[[[1, null, [2, 3]], {"a": 1}, false]]`, "")

	assert.Equal(t, [][]string{{"1,,2,3", `{"a":1}`, "false"}}, got.Rows)
	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, got.Headers)
}

func TestNormalize_DecodedValues(t *testing.T) {
	decoded := []any{[]any{json.Number("1"), "a"}, []any{json.Number("2"), nil}}

	got := Normalize(decoded, "SELECT id, name FROM t")

	assert.Equal(t, [][]string{{"1", "a"}, {"2", NullCell}}, got.Rows)
}

func TestNormalize_EmptyResult(t *testing.T) {
	got := Normalize("[]", "SELECT * FROM logs")

	assert.Empty(t, got.Rows)
	assert.Empty(t, got.Headers)
}

func TestNormalize_SyntheticHeadersFollowFirstRow(t *testing.T) {
	got := Normalize("[[1, 2, 3], [4]]", "SHOW TABLES")

	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, got.Headers)
}

func TestNormalize_Idempotent(t *testing.T) {
	sql := "SELECT id, name FROM users"
	first := Normalize([][]string{{"1", "alice"}, {"2", NullCell}}, sql)
	second := Normalize(first.Rows, sql)

	assert.Equal(t, first, second)
	assert.Equal(t, [][]string{{"1", "alice"}, {"2", NullCell}}, second.Rows)
}

func TestDecodeRaw(t *testing.T) {
	assert.Nil(t, DecodeRaw(nil))
	assert.Nil(t, DecodeRaw(json.RawMessage("{")))
	assert.Equal(t, "[[42]]", DecodeRaw(json.RawMessage(`"[[42]]"`)))
	assert.Equal(t, []any{[]any{json.Number("1.50")}}, DecodeRaw(json.RawMessage(`[[1.50]]`)))
}

func TestExtractHeaders(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{name: "plain columns", sql: "SELECT a, b, c FROM t", want: []string{"a", "b", "c"}},
		{name: "lowercase keywords", sql: "select a,b from t where x = 1", want: []string{"a", "b"}},
		{name: "quoted identifiers", sql: "SELECT `a`, 'b', \"c\" FROM t", want: []string{"a", "b", "c"}},
		{name: "multiline", sql: "SELECT\n  id,\n  name\nFROM users\nWHERE id > 3", want: []string{"id", "name"}},
		{name: "alias", sql: "SELECT COUNT(*) AS total FROM users", want: []string{"total"}},
		{name: "quoted alias", sql: "SELECT COUNT(*) as `total users` FROM users", want: []string{"COUNT(*) as total users"}},
		{name: "function with commas", sql: "SELECT COALESCE(a, b) AS x, c FROM t", want: []string{"x", "c"}},
		{name: "single nested expression is re-split", sql: "SELECT COUNT(a,b) FROM t", want: []string{"COUNT(a", "b)"}},
		{name: "qualified names", sql: "SELECT u.name, o.total FROM users u JOIN orders o ON o.uid = u.id", want: []string{"u.name", "o.total"}},
		{name: "star", sql: "SELECT * FROM logs", want: nil},
		{name: "no from", sql: "SELECT 1", want: nil},
		{name: "not a select", sql: "No SQL query returned.", want: nil},
		{name: "empty", sql: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHeaders(tt.sql))
		})
	}
}

func TestSyntheticHeaders(t *testing.T) {
	assert.Nil(t, SyntheticHeaders(nil))
	assert.Equal(t, []string{}, SyntheticHeaders([][]string{{}}))
	assert.Equal(t, []string{"Column 1", "Column 2"}, SyntheticHeaders([][]string{{"a", "b"}}))
}
