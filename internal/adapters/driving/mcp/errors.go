// Package mcp provides an MCP (Model Context Protocol) server adapter for Retriva.
// It lets AI assistants like Claude search and manage the local document index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
