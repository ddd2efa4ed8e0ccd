package service

import (
	"context"

	"github.com/rs/zerolog"

	"sqlchat/logger"
	"sqlchat/models"
)

const (
	defaultSQLText     = "No SQL query returned."
	defaultFailureText = "Query failed without specific error."
)

// QueryError is a logical failure reported by the backend in its status
// field. Its message is shown to the user unchanged.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// Assistant turns prompts into rendered answers.
type Assistant struct {
	querier Querier
	log     zerolog.Logger
}

func NewAssistant(q Querier) *Assistant {
	return &Assistant{
		querier: q,
		log:     logger.Component("assistant"),
	}
}

// Ask queries the backend and normalizes its result.
func (a *Assistant) Ask(ctx context.Context, prompt string) (*models.Answer, error) {
	resp, err := a.querier.Query(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sql := resp.SQLQuery
	if sql == "" {
		sql = defaultSQLText
	}

	if resp.Status != models.StatusSuccess {
		msg := resp.Error
		if msg == "" {
			msg = defaultFailureText
		}
		return nil, &QueryError{Message: msg}
	}

	table := Normalize(DecodeRaw(resp.Result), sql)
	a.log.Debug().
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Headers)).
		Msg("normalized query result")

	return &models.Answer{SQL: sql, Table: table}, nil
}

// Answer returns the markdown reply for prompt.
func (a *Assistant) Answer(ctx context.Context, prompt string) (string, error) {
	ans, err := a.Ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(ans.SQL, ans.Table), nil
}
