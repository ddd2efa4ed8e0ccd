package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlchat/models"
)

type fakeQuerier struct {
	resp   *models.QueryResponse
	err    error
	prompt string
}

func (f *fakeQuerier) Query(_ context.Context, prompt string) (*models.QueryResponse, error) {
	f.prompt = prompt
	return f.resp, f.err
}

func TestAssistant_Ask(t *testing.T) {
	q := &fakeQuerier{resp: &models.QueryResponse{
		SQLQuery: "SELECT name, created FROM users",
		Status:   models.StatusSuccess,
		Result:   json.RawMessage(`"[['a', datetime.date(2024, 3, 1)]]"`),
	}}

	ans, err := NewAssistant(q).Ask(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, "users", q.prompt)
	assert.Equal(t, "SELECT name, created FROM users", ans.SQL)
	assert.Equal(t, []string{"name", "created"}, ans.Table.Headers)
	// Single-quoted strings are not JSON, so the whole payload stays one cell.
	assert.Equal(t, [][]string{{`[['a', "2024-3-1"]]`}}, ans.Table.Rows)
}

func TestAssistant_Answer_Success(t *testing.T) {
	q := &fakeQuerier{resp: &models.QueryResponse{
		SQLQuery: "SELECT COUNT(*) AS total FROM users",
		Status:   models.StatusSuccess,
		Result:   json.RawMessage(`"[[42]]"`),
	}}

	md, err := NewAssistant(q).Answer(context.Background(), "total users")
	require.NoError(t, err)

	assert.Contains(t, md, "**total**")
	assert.Contains(t, md, "| 42 |")
}

func TestAssistant_BackendFailure(t *testing.T) {
	tests := []struct {
		name string
		resp *models.QueryResponse
		want string
	}{
		{name: "with message", resp: &models.QueryResponse{Status: "error", Error: "table not found"}, want: "table not found"},
		{name: "without message", resp: &models.QueryResponse{Status: "error"}, want: "Query failed without specific error."},
		{name: "missing status", resp: &models.QueryResponse{SQLQuery: "SELECT 1"}, want: "Query failed without specific error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssistant(&fakeQuerier{resp: tt.resp}).Answer(context.Background(), "x")

			var qe *QueryError
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestAssistant_TransportError(t *testing.T) {
	boom := errors.New("HTTP error! status: 502")

	_, err := NewAssistant(&fakeQuerier{err: boom}).Answer(context.Background(), "x")

	assert.ErrorIs(t, err, boom)
}

func TestAssistant_MissingSQL(t *testing.T) {
	q := &fakeQuerier{resp: &models.QueryResponse{Status: models.StatusSuccess, Result: json.RawMessage(`[[1, 2]]`)}}

	ans, err := NewAssistant(q).Ask(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, "No SQL query returned.", ans.SQL)
	assert.Equal(t, []string{"Column 1", "Column 2"}, ans.Table.Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, ans.Table.Rows)
}

func TestAssistant_MissingResult(t *testing.T) {
	q := &fakeQuerier{resp: &models.QueryResponse{SQLQuery: "SELECT a FROM t", Status: models.StatusSuccess}}

	ans, err := NewAssistant(q).Ask(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{NullCell}}, ans.Table.Rows)
}
