package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/domain"
	"medrag/internal/safety"
)

const (
	historyLimit = 10
	previewRunes = 80
)

// Outcome clasifica el resultado de un Submit.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeRefused
	OutcomeAnswered
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefused:
		return "refused"
	case OutcomeAnswered:
		return "answered"
	case OutcomeFailed:
		return "failed"
	default:
		return "ignored"
	}
}

const refusalContent = `**⚠️ Medical Advice Not Supported**

I cannot provide personal medical advice, diagnoses, or emergency guidance.

This system is designed for **research and educational purposes only**.

For personal health concerns, please:
- Consult a licensed healthcare professional
- Call emergency services if urgent
- Visit your local healthcare facility`

// Conversation es la máquina de estados de la conversación: dueña única del
// log de mensajes, del historial acotado y del flag pending. Todas las
// mutaciones pasan por sus transiciones.
type Conversation struct {
	mu      sync.Mutex
	logger  *zap.Logger
	client  backend.QueryClient
	msgs    []domain.Message
	history []domain.QueryHistoryItem
	pending bool
}

// NewConversation crea una conversación vacía sobre el cliente dado.
func NewConversation(logger *zap.Logger, client backend.QueryClient) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conversation{logger: logger, client: client}
}

// Submit procesa una consulta de usuario de punta a punta y bloquea hasta su
// resolución. Mientras hay una consulta en vuelo, cualquier otro Submit es un
// no-op (sin cola ni cancelación). Los errores del backend no escapan: se
// convierten en un mensaje de advertencia dentro del log.
func (c *Conversation) Submit(ctx context.Context, text string) Outcome {
	query := strings.TrimSpace(text)
	if query == "" {
		return OutcomeIgnored
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		c.logger.Debug("submit ignored, query in flight")
		return OutcomeIgnored
	}

	now := time.Now().UTC()
	c.msgs = append(c.msgs, domain.Message{
		ID:        domain.NewID(),
		Role:      domain.RoleUser,
		Content:   query,
		Timestamp: now,
	})

	if safety.IsUnsafe(query) {
		c.msgs = append(c.msgs, domain.Message{
			ID:        domain.NewID(),
			Role:      domain.RoleAssistant,
			Content:   refusalContent,
			Timestamp: now,
			IsWarning: true,
		})
		c.mu.Unlock()
		c.logger.Info("query refused by safety gate")
		return OutcomeRefused
	}

	c.pending = true
	c.mu.Unlock()

	// Único punto de suspensión: el lock se suelta durante la llamada y el
	// flag pending es el control de admisión.
	answer, err := c.client.Query(ctx, query, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false

	if err != nil {
		c.logger.Warn("backend query failed", zap.Error(err))
		zero := 0.0
		c.msgs = append(c.msgs, domain.Message{
			ID:   domain.NewID(),
			Role: domain.RoleAssistant,
			Content: fmt.Sprintf("**Connection issue**\n\nI couldn't reach the backend API. Please ensure the server is running.\n\nDetails: %s",
				err.Error()),
			Timestamp:  time.Now().UTC(),
			Confidence: &zero,
			Sources:    []domain.Source{},
			IsWarning:  true,
		})
		return OutcomeFailed
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	confidence := answer.Confidence
	resolved := time.Now().UTC()
	c.msgs = append(c.msgs, domain.Message{
		ID:         domain.NewID(),
		Role:       domain.RoleAssistant,
		Content:    answer.Answer,
		Timestamp:  resolved,
		Confidence: &confidence,
		Sources:    sources,
		IsWarning:  !answer.QueryValidated,
	})
	c.prependHistory(domain.QueryHistoryItem{
		ID:        domain.NewID(),
		Query:     query,
		Timestamp: resolved,
		Preview:   previewOf(answer.Answer),
	})

	c.logger.Info("query answered",
		zap.Float64("confidence", answer.Confidence),
		zap.Int("sources", len(sources)),
		zap.Bool("validated", answer.QueryValidated),
	)
	return OutcomeAnswered
}

// NewChat vacía el log de mensajes. No toca historial ni pending: una
// consulta en vuelo sigue su curso y su resultado se agrega al log ya
// reiniciado (semántica "let it finish" heredada, ver DESIGN.md).
func (c *Conversation) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

// SelectHistory reenvía la consulta guardada bajo id por el flujo completo:
// gate de seguridad y round trip al backend, nunca una respuesta cacheada.
func (c *Conversation) SelectHistory(ctx context.Context, id string) Outcome {
	c.mu.Lock()
	var query string
	for _, item := range c.history {
		if item.ID == id {
			query = item.Query
			break
		}
	}
	c.mu.Unlock()

	if query == "" {
		return OutcomeIgnored
	}
	return c.Submit(ctx, query)
}

// ClearHistory vacía el historial. No toca el log de mensajes.
func (c *Conversation) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// Messages devuelve una copia del log en orden de inserción.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// History devuelve una copia del historial, el más reciente primero.
func (c *Conversation) History() []domain.QueryHistoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.QueryHistoryItem, len(c.history))
	copy(out, c.history)
	return out
}

// Pending reporta si hay una consulta en vuelo.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// prependHistory inserta al frente y aplica el tope en cada inserción.
// Requiere c.mu tomado.
func (c *Conversation) prependHistory(item domain.QueryHistoryItem) {
	rest := c.history
	if len(rest) > historyLimit-1 {
		rest = rest[:historyLimit-1]
	}
	c.history = append([]domain.QueryHistoryItem{item}, rest...)
}

// previewOf corta la respuesta a un ancho fijo en runas y agrega la elipsis,
// igual que la vista original (elipsis incondicional).
func previewOf(answer string) string {
	runes := []rune(answer)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}
