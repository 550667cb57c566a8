package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medrag/internal/chat"
)

// ChatHandler expone la conversación sobre HTTP.
type ChatHandler struct {
	logger *zap.Logger
	conv   *chat.Conversation
}

// NewChatHandler crea una instancia de ChatHandler.
func NewChatHandler(logger *zap.Logger, conv *chat.Conversation) *ChatHandler {
	return &ChatHandler{logger: logger, conv: conv}
}

// PostMessage maneja POST /chat/messages. Bloquea hasta que la consulta se
// resuelve; los fallos del backend llegan como mensajes de advertencia en el
// log, nunca como status de error.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome := h.conv.Submit(c.Request.Context(), req.Query)

	c.JSON(http.StatusOK, gin.H{
		"outcome":  outcome.String(),
		"pending":  h.conv.Pending(),
		"messages": h.conv.Messages(),
	})
}

// ListMessages maneja GET /chat/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.conv.Messages()})
}

// NewChat maneja POST /chat/new.
func (h *ChatHandler) NewChat(c *gin.Context) {
	h.conv.NewChat()
	c.JSON(http.StatusOK, gin.H{"messages": h.conv.Messages()})
}

// GetHistory maneja GET /history.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.conv.History()})
}

// SelectHistory maneja POST /history/:id y reenvía la consulta guardada.
func (h *ChatHandler) SelectHistory(c *gin.Context) {
	outcome := h.conv.SelectHistory(c.Request.Context(), c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"outcome":  outcome.String(),
		"pending":  h.conv.Pending(),
		"messages": h.conv.Messages(),
	})
}

// ClearHistory maneja DELETE /history.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	h.conv.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"history": h.conv.History()})
}
