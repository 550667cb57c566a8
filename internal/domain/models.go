package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message es un turno de la conversación. Inmutable una vez agregado al log.
type Message struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence *float64  `json:"confidence,omitempty"`
	Sources    []Source  `json:"sources,omitempty"`
	IsWarning  bool      `json:"is_warning,omitempty"`
}

// Source es una cita bibliográfica que respalda una respuesta.
// Pertenece exclusivamente al Message que la referencia.
type Source struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	Journal        string   `json:"journal"`
	Year           int      `json:"year"`
	PubmedID       string   `json:"pubmedId"`
	URL            string   `json:"url"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// QueryHistoryItem registra un intercambio pasado exitoso. Vive de forma
// independiente del log de mensajes.
type QueryHistoryItem struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Preview   string    `json:"preview"`
}

// Answer es la forma de la respuesta exitosa de POST /api/query.
// Las tags validate definen el esquema explícito del contrato.
type Answer struct {
	Answer           string   `json:"answer" validate:"required"`
	Sources          []Source `json:"sources" validate:"dive"`
	Confidence       float64  `json:"confidence" validate:"min=0,max=1"`
	ProcessingTimeMS float64  `json:"processing_time_ms"`
	QueryValidated   bool     `json:"query_validated"`
	WarningMessage   *string  `json:"warning_message,omitempty"`
	CitationsInText  []int    `json:"citations_in_text,omitempty"`
}

// IngestResult es la forma de la respuesta exitosa de POST /api/upload.
type IngestResult struct {
	Status      string `json:"status" validate:"required"`
	ChunksAdded int    `json:"chunks_added" validate:"min=0"`
	Title       string `json:"title"`
	DocumentID  string `json:"document_id"`
}

// UploadMetadata agrupa los campos opcionales del formulario de ingesta.
// Solo los campos no vacíos se transmiten al backend.
type UploadMetadata struct {
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Journal string `json:"journal,omitempty"`
	Year    int    `json:"year,omitempty"`
	URL     string `json:"url,omitempty"`
}

// NewID genera un identificador opaco para mensajes e items de historial.
func NewID() string {
	return uuid.NewString()
}
