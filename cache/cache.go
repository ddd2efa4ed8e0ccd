package cache

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"sqlchat/conversation"
	"sqlchat/logger"
)

var ErrSessionNotFound = errors.New("session not found")

// Sessions keeps live conversations in memory. A conversation that is not
// touched for ttl is evicted and its messages are dropped from the store.
type Sessions struct {
	cache *cache.Cache
	store conversation.Store
	opts  []conversation.Option
	log   zerolog.Logger
}

func NewSessions(store conversation.Store, ttl, cleanup time.Duration, opts ...conversation.Option) *Sessions {
	s := &Sessions{
		cache: cache.New(ttl, cleanup),
		store: store,
		opts:  opts,
		log:   logger.Component("sessions"),
	}
	s.cache.OnEvicted(func(id string, _ interface{}) {
		if err := store.Delete(id); err != nil {
			s.log.Error().Err(err).Str("session", id).Msg("failed to drop evicted session")
			return
		}
		s.log.Debug().Str("session", id).Msg("session evicted")
	})
	return s
}

// Create starts a new empty conversation.
func (s *Sessions) Create() *conversation.Conversation {
	conv := conversation.New(uuid.New().String(), s.store, s.opts...)
	s.cache.SetDefault(conv.ID(), conv)
	return conv
}

// Get returns the conversation with id and extends its lifetime.
func (s *Sessions) Get(id string) (*conversation.Conversation, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	conv := v.(*conversation.Conversation)
	s.cache.SetDefault(id, conv)
	return conv, nil
}

func (s *Sessions) Count() int {
	return s.cache.ItemCount()
}
