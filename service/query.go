package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sqlchat/logger"
	"sqlchat/models"
)

// Querier sends a prompt to the NL-to-SQL backend.
type Querier interface {
	Query(ctx context.Context, prompt string) (*models.QueryResponse, error)
}

// QueryClient calls the backend's GET query endpoint.
type QueryClient struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewQueryClient(endpoint string, timeout time.Duration) (*QueryClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("query endpoint must be http or https, got %q", endpoint)
	}

	return &QueryClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Component("query_client"),
	}, nil
}

func (c *QueryClient) Endpoint() string {
	return c.endpoint
}

// Query issues GET <endpoint>?prompt=<prompt>. Any non-2xx reply is an error.
func (c *QueryClient) Query(ctx context.Context, prompt string) (*models.QueryResponse, error) {
	reqURL := c.requestURL(prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach query service: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("prompt_len", len(prompt)).
		Msg("query service replied")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var out models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &out, nil
}

// requestURL appends the prompt as a percent-encoded query parameter
// (spaces as %20), keeping any parameters already on the endpoint.
func (c *QueryClient) requestURL(prompt string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(prompt), "+", "%20")
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "prompt=" + encoded
}
