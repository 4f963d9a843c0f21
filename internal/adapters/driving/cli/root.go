// Package cli implements the retriva command-line interface. Commands
// are thin: they parse flags, call the driving ports, and format
// output. Services are injected by the composition root before
// Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retriva/internal/core/ports/driving"
	"github.com/custodia-labs/retriva/internal/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// Injected services. Commands guard against nil so a partially wired
// binary fails with a clear message instead of a panic.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "retriva",
	Short: "Local document retrieval for AI assistants",
	Long: `Retriva is a local-first retrieval engine for AI assistants.

It ingests documents into a SQLite-backed index, embeds their chunks
through a configurable provider, and serves ranked passages over the
CLI, an MCP server, or an interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles the driving ports the CLI depends on.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Document driving.DocumentService
	Settings driving.SettingsService
}

// SetServices injects the core services. Must be called before Execute.
func SetServices(s *Services) {
	ingestService = s.Ingest
	searchService = s.Search
	documentService = s.Document
	settingsService = s.Settings
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context. The context
// is cancelled on interrupt by the caller, which stops long-running
// commands like watch and mcp.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
