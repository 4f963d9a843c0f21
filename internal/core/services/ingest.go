package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
	"github.com/custodia-labs/retriva/internal/logger"
	"github.com/custodia-labs/retriva/internal/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// utf8BOM is the byte order mark some editors prepend to UTF-8 files.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// IngestService turns files into embedded, searchable documents.
// Persistence is all-or-nothing per document: an embedding or storage
// failure mid-pipeline rolls back the document row and every chunk
// written for it.
type IngestService struct {
	docStore      driven.DocumentStore
	chunkStore    driven.ChunkStore
	embedder      driven.EmbeddingService
	progressStore driven.ProgressStore
	settings      driving.SettingsService
}

// NewIngestService creates a new ingest service.
// progressStore is only required for StartIngest; Ingest works without it.
func NewIngestService(
	docStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	embedder driven.EmbeddingService,
	progressStore driven.ProgressStore,
	settings driving.SettingsService,
) *IngestService {
	return &IngestService{
		docStore:      docStore,
		chunkStore:    chunkStore,
		embedder:      embedder,
		progressStore: progressStore,
		settings:      settings,
	}
}

// Ingest runs the full pipeline synchronously and returns the new
// document id.
func (s *IngestService) Ingest(ctx context.Context, filePath string, onProgress driving.ProgressFunc) (string, error) {
	if s.docStore == nil || s.chunkStore == nil {
		return "", errors.New("document store not configured")
	}
	if s.embedder == nil {
		return "", domain.ErrEmbeddingUnavailable
	}

	settings := loadSettings(s.settings)

	logger.Section("Document Ingestion")
	logger.Info("Ingesting %s", filePath)

	// 1. Validate the file
	info, strategy, err := validateFile(filePath, settings.Ingest.MaxFileSizeBytes)
	if err != nil {
		return "", err
	}

	// 2. Read and normalise the content
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFileUnreadable, err)
	}
	text, err := normaliseContent(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrEmptyFile, filePath)
	}

	// 3. Hash for dedup. Identical content replaces the old document,
	// keeping its original CreatedAt.
	sum := sha256.Sum256([]byte(text))
	fileHash := hex.EncodeToString(sum[:])

	doc := &domain.Document{
		ID:             uuid.NewString(),
		FileName:       filepath.Base(filePath),
		FilePath:       absolutePath(filePath),
		DisplayName:    filepath.Base(filePath),
		FileHash:       fileHash,
		FileSizeBytes:  info.Size(),
		EmbeddingModel: s.embedder.ModelName(),
	}

	existing, err := s.docStore.FindByHash(ctx, fileHash)
	switch {
	case err == nil:
		logger.Info("Content already ingested as document %s, replacing", existing.ID)
		doc.CreatedAt = existing.CreatedAt
		if err := s.docStore.DeleteDocument(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("delete existing document: %w", err)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("look up existing document: %w", err)
	}

	// 4. Chunk
	proc := chunker.New(
		chunker.WithMaxTokens(settings.Chunking.MaxTokens),
		chunker.WithOverlapTokens(settings.Chunking.OverlapTokens),
	)
	chunks, err := proc.Process(text, strategy)
	if err != nil {
		return "", fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: no chunks produced", domain.ErrEmptyFile)
	}
	doc.TotalChunks = len(chunks)

	// 5. Create the document row before any chunk is written
	if err := s.createDocument(ctx, doc); err != nil {
		return "", err
	}

	// 6. Embed and persist chunk by chunk
	total := len(chunks)
	logger.Info("Embedding %d chunks with %s", total, s.embedder.ModelName())
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			s.rollback(ctx, doc.ID)
			return "", fmt.Errorf("embed chunk %d/%d: %w", i+1, total, err)
		}

		row := &domain.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			ChunkIndex: i,
			ChunkText:  chunk.Text,
			Embedding:  embedding,
			TokenCount: chunk.TokenEstimate,
		}
		if err := s.chunkStore.SaveChunk(ctx, row); err != nil {
			s.rollback(ctx, doc.ID)
			return "", fmt.Errorf("save chunk %d/%d: %w", i+1, total, err)
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	logger.Info("Ingested %s as document %s (%d chunks)", doc.FileName, doc.ID, total)
	return doc.ID, nil
}

// StartIngest runs Ingest as a background unit and returns a request
// id for polling. The unit is detached from the caller's context so a
// short-lived caller (one MCP call, one HTTP request) does not abort
// the ingestion it started.
func (s *IngestService) StartIngest(ctx context.Context, filePath string) (string, error) {
	if s.progressStore == nil {
		return "", errors.New("progress store not configured")
	}

	requestID := uuid.NewString()
	s.progressStore.Put(domain.IngestProgress{
		RequestID: requestID,
		FilePath:  filePath,
		Status:    domain.IngestStatusProcessing,
	})

	go s.runBackground(context.WithoutCancel(ctx), requestID, filePath)

	logger.Debug("Started background ingestion %s for %s", requestID, filePath)
	return requestID, nil
}

// Progress reports the state of a background ingestion.
func (s *IngestService) Progress(requestID string) (domain.IngestProgress, bool) {
	if s.progressStore == nil {
		return domain.IngestProgress{}, false
	}
	return s.progressStore.Get(requestID)
}

// runBackground drives one background ingestion and records every
// state change in the progress store.
func (s *IngestService) runBackground(ctx context.Context, requestID, filePath string) {
	progress := domain.IngestProgress{
		RequestID: requestID,
		FilePath:  filePath,
		Status:    domain.IngestStatusProcessing,
	}

	documentID, err := s.Ingest(ctx, filePath, func(current, total int) {
		progress.Current = current
		progress.Total = total
		s.progressStore.Put(progress)
	})
	if err != nil {
		progress.Status = domain.IngestStatusFailed
		progress.Error = err.Error()
		s.progressStore.Put(progress)
		logger.Error("Background ingestion %s failed: %v", requestID, err)
		return
	}

	progress.Status = domain.IngestStatusCompleted
	progress.DocumentID = documentID
	s.progressStore.Put(progress)
}

// createDocument inserts the document row, resolving a hash conflict
// from a racing ingestion of identical content. The store's hash
// uniqueness turns the race into ErrDocumentExists; the loser replaces
// the winner's row and retries once.
func (s *IngestService) createDocument(ctx context.Context, doc *domain.Document) error {
	err := s.docStore.CreateDocument(ctx, doc)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrDocumentExists) {
		return fmt.Errorf("create document: %w", err)
	}

	logger.Warn("Document with the same hash appeared concurrently, replacing it")
	winner, err := s.docStore.FindByHash(ctx, doc.FileHash)
	switch {
	case err == nil:
		if err := s.docStore.DeleteDocument(ctx, winner.ID); err != nil {
			return fmt.Errorf("replace racing document: %w", err)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("replace racing document: %w", err)
	}

	if err := s.docStore.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("create document after replace: %w", err)
	}
	return nil
}

// rollback removes the partially written document; its chunks go with
// it through the cascade. Runs detached from the caller's context
// because a cancelled ingestion still has to clean up after itself.
func (s *IngestService) rollback(ctx context.Context, documentID string) {
	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.docStore.DeleteDocument(cleanupCtx, documentID); err != nil {
		logger.Error("Rollback of document %s failed: %v", documentID, err)
	}
}

// validateFile runs the pre-read checks. Every failure mode carries
// its own sentinel so callers can tell them apart.
func validateFile(filePath string, maxSizeBytes int64) (os.FileInfo, chunker.Strategy, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrFileNotFound, filePath)
		}
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrFileUnreadable, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is a directory", domain.ErrFileUnreadable, filePath)
	}
	if info.Size() == 0 {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrEmptyFile, filePath)
	}
	if maxSizeBytes > 0 && info.Size() > maxSizeBytes {
		return nil, 0, fmt.Errorf("%w: %d bytes exceeds the %d byte limit",
			domain.ErrFileTooLarge, info.Size(), maxSizeBytes)
	}

	strategy, err := chunker.StrategyForExtension(filepath.Ext(filePath))
	if err != nil {
		return nil, 0, err
	}
	return info, strategy, nil
}

// normaliseContent decodes raw file bytes into canonical text: strips
// a UTF-8 BOM, rejects non-UTF-8 content and folds Windows and old
// Mac line endings to \n so hashing and chunking always see the same
// form.
func normaliseContent(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", domain.ErrFileUnreadable)
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}

// absolutePath resolves filePath, falling back to the given path when
// resolution fails.
func absolutePath(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return filePath
	}
	return abs
}
