package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/domain"
)

// ErrUploadInProgress se devuelve cuando ya hay una subida en vuelo.
var ErrUploadInProgress = errors.New("upload already in progress")

// Service maneja el flujo de ingesta de documentos. Corre de forma
// independiente de la conversación: flag busy propio, estado propio y
// ningún estado compartido con el orquestador de chat.
type Service struct {
	mu     sync.Mutex
	logger *zap.Logger
	client backend.IngestClient
	busy   bool
	status string
}

// NewService crea el servicio de ingesta sobre el cliente dado.
func NewService(logger *zap.Logger, client backend.IngestClient) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, client: client}
}

// Upload sube el archivo al backend y bloquea hasta la resolución. El caller
// decide si reintenta; acá no hay retries.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader, meta domain.UploadMetadata) (domain.IngestResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.IngestResult{}, ErrUploadInProgress
	}
	s.busy = true
	s.status = "Uploading..."
	s.mu.Unlock()

	result, err := s.client.Ingest(ctx, filename, file, meta)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		detail := err.Error()
		var protoErr *backend.ProtocolError
		if errors.As(err, &protoErr) {
			detail = protoErr.Detail()
		}
		s.status = fmt.Sprintf("Upload failed: %s", detail)
		s.logger.Warn("upload failed", zap.String("filename", filename), zap.Error(err))
		return domain.IngestResult{}, err
	}

	s.status = fmt.Sprintf("Ingested %d chunks from %q.", result.ChunksAdded, result.Title)
	s.logger.Info("document ingested",
		zap.String("filename", filename),
		zap.Int("chunks", result.ChunksAdded),
		zap.String("document_id", result.DocumentID),
	)
	return result, nil
}

// Status devuelve la última línea de estado legible del flujo de subida.
func (s *Service) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Busy reporta si hay una subida en vuelo.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
