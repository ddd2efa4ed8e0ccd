// Package conversation holds the ordered message log of one chat and gates
// it to a single in-flight request.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sqlchat/logger"
	"sqlchat/models"
	"sqlchat/validation"
)

var (
	ErrEmptyPrompt   = validation.ErrEmptyPrompt
	ErrPromptTooLong = validation.ErrPromptTooLong
	ErrBusy          = errors.New("a request is already in progress")
)

// ErrorPrefix starts every bot message produced from a failed request.
const ErrorPrefix = "Error: "

// Store is an append-only message log keyed by conversation id.
type Store interface {
	Append(sessionID string, msg models.Message) error
	List(sessionID string) ([]models.Message, error)
	Delete(sessionID string) error
}

// Answerer produces the bot reply for a prompt.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type Conversation struct {
	id           string
	store        Store
	maxPromptLen int
	now          func() time.Time
	log          zerolog.Logger

	mu      sync.Mutex
	loading bool
}

type Option func(*Conversation)

// WithMaxPromptLength limits prompts to n characters. n <= 0 disables the limit.
func WithMaxPromptLength(n int) Option {
	return func(c *Conversation) { c.maxPromptLen = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

func New(id string, store Store, opts ...Option) *Conversation {
	c := &Conversation{
		id:    id,
		store: store,
		now:   time.Now,
		log:   logger.Component("conversation").With().Str("session", id).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

// Loading reports whether a submitted prompt is still waiting for its reply.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Messages returns a copy of the log in display order.
func (c *Conversation) Messages() ([]models.Message, error) {
	msgs, err := c.store.List(c.id)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// Append adds msg to the end of the log.
func (c *Conversation) Append(msg models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = c.now()
	}
	if err := c.store.Append(c.id, msg); err != nil {
		return fmt.Errorf("failed to append %s message: %w", msg.Sender, err)
	}
	return nil
}

// Submit appends prompt as a user message, waits for the answerer and appends
// exactly one bot message with the reply or an "Error: ..." text. It fails
// without appending anything when the prompt is invalid or another prompt is
// still in flight.
func (c *Conversation) Submit(ctx context.Context, prompt string, ans Answerer) (models.Message, error) {
	if err := validation.ValidatePrompt(prompt, c.maxPromptLen); err != nil {
		return models.Message{}, err
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if err := c.Append(models.Message{Text: prompt, Sender: models.SenderUser}); err != nil {
		return models.Message{}, err
	}

	text, err := ans.Answer(ctx, prompt)
	if err != nil {
		c.log.Warn().Err(err).Int("prompt_len", len(prompt)).Msg("query failed")
		text = ErrorPrefix + err.Error()
	}

	bot := models.Message{Text: text, Sender: models.SenderBot, CreatedAt: c.now()}
	if err := c.Append(bot); err != nil {
		return models.Message{}, err
	}
	return bot, nil
}
