package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]...",
	Short: "Ingest documents into the index",
	Long: `Validates, chunks, and embeds files so they become searchable.

Re-ingesting a file whose content has not changed replaces the stored
copy instead of creating a duplicate. Ingestion is all-or-nothing: if
embedding fails partway through, nothing is kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	for _, path := range args {
		cmd.Printf("Ingesting %s\n", path)

		var lastTotal int
		docID, err := ingestService.Ingest(ctx, path, func(current, total int) {
			lastTotal = total
			cmd.Printf("\r  Embedding chunk %d/%d", current, total)
		})
		if lastTotal > 0 {
			cmd.Println()
		}
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		cmd.Printf("  Done: document %s (%d chunks)\n", docID, lastTotal)
	}

	return nil
}
