package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"medrag/internal/domain"
)

// QueryClient define la interfaz para consultar el servicio RAG remoto.
type QueryClient interface {
	Query(ctx context.Context, query string, includeGuidelines bool) (domain.Answer, error)
}

// IngestClient define la interfaz para subir documentos al servicio remoto.
type IngestClient interface {
	Ingest(ctx context.Context, filename string, file io.Reader, meta domain.UploadMetadata) (domain.IngestResult, error)
}

const defaultBaseURL = "http://localhost:8000"

// HTTPClient implementa QueryClient e IngestClient contra la API REST del
// backend. Sin retries ni caché: cada llamada es independiente.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHTTPClient construye un cliente apuntando a la API del backend RAG.
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
		validate: validator.New(),
		logger:   logger,
	}
}

type queryRequest struct {
	Query             string `json:"query"`
	IncludeGuidelines bool   `json:"include_guidelines"`
}

// Query envía la consulta a POST /api/query y devuelve la respuesta
// estructurada validada contra su esquema.
func (c *HTTPClient) Query(ctx context.Context, query string, includeGuidelines bool) (domain.Answer, error) {
	bodyBytes, err := json.Marshal(queryRequest{Query: query, IncludeGuidelines: includeGuidelines})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(bodyBytes))
	if err != nil {
		return domain.Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Answer{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Answer{}, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("query rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_len", len(respBody)),
		)
		return domain.Answer{}, &ProtocolError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	var answer domain.Answer
	if err := json.Unmarshal(respBody, &answer); err != nil {
		return domain.Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	if err := c.validate.Struct(answer); err != nil {
		return domain.Answer{}, fmt.Errorf("answer schema: %w", err)
	}
	return answer, nil
}

// Ingest sube un archivo con metadatos opcionales a POST /api/upload como
// formulario multipart. Solo transmite los campos de metadata no vacíos.
func (c *HTTPClient) Ingest(ctx context.Context, filename string, file io.Reader, meta domain.UploadMetadata) (domain.IngestResult, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.IngestResult{}, fmt.Errorf("copy file: %w", err)
	}

	fields := map[string]string{
		"title":   meta.Title,
		"authors": meta.Authors,
		"journal": meta.Journal,
		"url":     meta.URL,
	}
	if meta.Year != 0 {
		fields["year"] = strconv.Itoa(meta.Year)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := form.WriteField(name, value); err != nil {
			return domain.IngestResult{}, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := form.Close(); err != nil {
		return domain.IngestResult{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.IngestResult{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.IngestResult{}, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upload rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("filename", filename),
		)
		return domain.IngestResult{}, &ProtocolError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	var result domain.IngestResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return domain.IngestResult{}, fmt.Errorf("decode ingest result: %w", err)
	}
	if err := c.validate.Struct(result); err != nil {
		return domain.IngestResult{}, fmt.Errorf("ingest result schema: %w", err)
	}
	return result, nil
}
