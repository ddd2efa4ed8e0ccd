package models

import (
	"encoding/json"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of a conversation. It is never modified after it has
// been appended.
type Message struct {
	Text      string     `json:"text"`
	Sender    Sender     `json:"sender"`
	Chart     *ChartData `json:"chart,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChartData is an optional bar chart attached to a bot message.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// QueryResponse is the payload returned by the NL-to-SQL backend. Result is
// kept raw because its shape is not guaranteed.
type QueryResponse struct {
	SQLQuery string          `json:"sql_query"`
	Status   string          `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

const StatusSuccess = "success"

// Table is the normalized form of a backend result.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Answer is the structured outcome of a successful exchange.
type Answer struct {
	SQL   string `json:"sql"`
	Table Table  `json:"table"`
}

type ChatRequest struct {
	Prompt string `json:"prompt" example:"total users"`
}

type MessageView struct {
	Text      string     `json:"text"`
	HTML      string     `json:"html"`
	Sender    Sender     `json:"sender"`
	Chart     *ChartData `json:"chart,omitempty"`
	CreatedAt string     `json:"created_at"`
}

type SessionView struct {
	SessionID string        `json:"session_id"`
	Loading   bool          `json:"loading"`
	Messages  []MessageView `json:"messages"`
}

type SessionCreated struct {
	ID string `json:"id"`
}
