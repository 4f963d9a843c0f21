package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to find relevant passages"`
	TopK   int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5, capped at 20)"`
	Class  string `json:"class,omitempty" jsonschema:"content class hint: code or text"`
	Rerank bool   `json:"rerank,omitempty" jsonschema:"re-score candidates with the configured reranker"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of the file to ingest"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// IngestStatusInput is the input schema for the ingest_status tool.
type IngestStatusInput struct {
	RequestID string `json:"request_id" jsonschema:"request id returned by ingest_document"`
}

// IngestStatusOutput is the output schema for the ingest_status tool.
type IngestStatusOutput struct {
	RequestID  string  `json:"request_id"`
	Status     string  `json:"status"`
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	DocumentID string  `json:"document_id,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents one ingested document.
type DocumentOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Chunks    int    `json:"chunks"`
	UpdatedAt string `json:"updated_at"`
}

// RemoveDocumentInput is the input schema for the remove_document tool.
type RemoveDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to remove"`
}

// RemoveDocumentOutput is the output schema for the remove_document tool.
type RemoveDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Removed    bool   `json:"removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search ingested documents and return the most relevant passages",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a file in the background and return a request id for polling",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_status",
		Description: "Report the progress of a background ingestion",
	}, s.handleIngestStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document and its chunks from the index",
	}, s.handleRemoveDocument)
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	class := domain.ContentClass(input.Class)
	if !class.IsValid() {
		return nil, SearchOutput{}, fmt.Errorf("invalid class %q: use code or text", input.Class)
	}

	req := domain.SearchRequest{
		Query:  input.Query,
		Class:  class,
		TopK:   input.TopK,
		Rerank: input.Rerank,
	}

	results, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].Chunk.ID,
			DocumentID: results[i].Chunk.DocumentID,
			Source:     results[i].SourceName,
			Score:      results[i].Score,
			Content:    results[i].Chunk.ChunkText,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation. Ingestion
// runs in the background so the assistant is not blocked while chunks
// are embedded; progress is polled via ingest_status.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errors.New("ingest service not configured")
	}

	requestID, err := s.ports.Ingest.StartIngest(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		RequestID: requestID,
		Status:    string(domain.IngestStatusProcessing),
	}, nil
}

// handleIngestStatus handles the ingest_status tool invocation.
func (s *Server) handleIngestStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input IngestStatusInput,
) (*mcp.CallToolResult, IngestStatusOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestStatusOutput{}, errors.New("ingest service not configured")
	}

	progress, ok := s.ports.Ingest.Progress(input.RequestID)
	if !ok {
		return nil, IngestStatusOutput{}, fmt.Errorf("unknown ingest request %q", input.RequestID)
	}

	return nil, IngestStatusOutput{
		RequestID:  progress.RequestID,
		Status:     string(progress.Status),
		Current:    progress.Current,
		Total:      progress.Total,
		Percentage: progress.Percentage(),
		DocumentID: progress.DocumentID,
		Error:      progress.Error,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errors.New("document service not configured")
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}

	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:        docs[i].ID,
			Title:     docs[i].Title(),
			Path:      docs[i].FilePath,
			Chunks:    docs[i].TotalChunks,
			UpdatedAt: docs[i].UpdatedAt.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleRemoveDocument handles the remove_document tool invocation.
func (s *Server) handleRemoveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, RemoveDocumentOutput{}, errors.New("document service not configured")
	}

	if err := s.ports.Document.Delete(ctx, input.DocumentID); err != nil {
		return nil, RemoveDocumentOutput{}, err
	}

	return nil, RemoveDocumentOutput{
		DocumentID: input.DocumentID,
		Removed:    true,
	}, nil
}
