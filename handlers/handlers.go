package handlers

import (
	"github.com/rs/zerolog"

	"sqlchat/cache"
	"sqlchat/conversation"
	"sqlchat/logger"
)

// @title           SQLChat API
// @version         1.0
// @description     Chat with a natural-language-to-SQL backend. Prompts are forwarded to the query service and the generated SQL and its result come back as markdown.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	sessions      *cache.Sessions
	answerer      conversation.Answerer
	queryEndpoint string
	log           zerolog.Logger
}

func New(sessions *cache.Sessions, answerer conversation.Answerer, queryEndpoint string) *Handlers {
	return &Handlers{
		sessions:      sessions,
		answerer:      answerer,
		queryEndpoint: queryEndpoint,
		log:           logger.Component("handlers"),
	}
}
