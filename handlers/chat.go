package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sqlchat/conversation"
	"sqlchat/models"
	"sqlchat/service"
)

// CreateSessionHandler starts a new conversation.
// @Summary      Create a chat session
// @Tags         Chat
// @Produce      json
// @Success      201  {object}  models.SessionCreated
// @Router       /api/sessions [post]
func (h *Handlers) CreateSessionHandler(c *gin.Context) {
	conv := h.sessions.Create()
	h.log.Debug().Str("session", conv.ID()).Msg("session created")
	c.JSON(http.StatusCreated, models.SessionCreated{ID: conv.ID()})
}

// ListMessagesHandler returns the conversation in display order.
// @Summary      List messages of a session
// @Tags         Chat
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  models.SessionView
// @Failure      404  {object}  map[string]string  "Session not found"
// @Failure      500  {object}  map[string]string  "Failed to load messages"
// @Router       /api/sessions/{id}/messages [get]
func (h *Handlers) ListMessagesHandler(c *gin.Context) {
	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	msgs, err := conv.Messages()
	if err != nil {
		h.log.Error().Err(err).Str("session", conv.ID()).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	views := make([]models.MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = messageView(m)
	}
	c.JSON(http.StatusOK, models.SessionView{
		SessionID: conv.ID(),
		Loading:   conv.Loading(),
		Messages:  views,
	})
}

// SendMessageHandler submits a prompt and returns the bot reply
// @Summary      Send a prompt
// @Description  Appends the prompt as a user message, queries the backend and appends one bot message. Backend failures come back as a bot message starting with "Error: ".
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Session ID"
// @Param        request  body      models.ChatRequest  true  "Prompt"
// @Success      200      {object}  models.MessageView  "Bot reply"
// @Failure      400      {object}  map[string]string   "Invalid request"
// @Failure      404      {object}  map[string]string   "Session not found"
// @Failure      409      {object}  map[string]string   "A request is already in progress"
// @Failure      500      {object}  map[string]string   "Internal server error"
// @Router       /api/sessions/{id}/messages [post]
func (h *Handlers) SendMessageHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	// The reply is appended even if the client goes away mid-request.
	ctx := context.WithoutCancel(c.Request.Context())

	start := time.Now()
	msg, err := conv.Submit(ctx, req.Prompt, h.answerer)
	switch {
	case errors.Is(err, conversation.ErrEmptyPrompt), errors.Is(err, conversation.ErrPromptTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, conversation.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error().Err(err).Str("session", conv.ID()).Msg("failed to submit prompt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process prompt"})
		return
	}

	h.log.Info().
		Str("session", conv.ID()).
		Dur("elapsed", time.Since(start)).
		Msg("prompt answered")
	c.JSON(http.StatusOK, messageView(msg))
}

func messageView(m models.Message) models.MessageView {
	return models.MessageView{
		Text:      m.Text,
		HTML:      service.RenderHTML(m.Text),
		Sender:    m.Sender,
		Chart:     m.Chart,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
