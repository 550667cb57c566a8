package backend

import (
	"context"
	"io"

	"medrag/internal/domain"
)

// MockClient permite tests sin llamar al backend real.
type MockClient struct {
	Answer    domain.Answer
	QueryErr  error
	Result    domain.IngestResult
	IngestErr error

	QueryCalls  int
	LastQuery   string
	LastInclude bool

	IngestCalls  int
	LastFilename string
	LastMeta     domain.UploadMetadata
}

func (m *MockClient) Query(_ context.Context, query string, includeGuidelines bool) (domain.Answer, error) {
	m.QueryCalls++
	m.LastQuery = query
	m.LastInclude = includeGuidelines
	if m.QueryErr != nil {
		return domain.Answer{}, m.QueryErr
	}
	return m.Answer, nil
}

func (m *MockClient) Ingest(_ context.Context, filename string, file io.Reader, meta domain.UploadMetadata) (domain.IngestResult, error) {
	m.IngestCalls++
	m.LastFilename = filename
	m.LastMeta = meta
	if file != nil {
		_, _ = io.Copy(io.Discard, file)
	}
	if m.IngestErr != nil {
		return domain.IngestResult{}, m.IngestErr
	}
	return m.Result, nil
}
