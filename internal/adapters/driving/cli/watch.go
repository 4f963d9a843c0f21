package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retriva/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest changed documents",
	Long: `Watches a directory and ingests files with supported extensions as
they are created or modified. Events are debounced so a burst of
writes from an editor triggers a single ingestion.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	ctx := cmd.Context()

	w, err := watcher.New(watcher.Config{
		Dir:      dir,
		Debounce: watchDebounce,
		OnFile: func(path string) {
			docID, ingestErr := ingestService.Ingest(ctx, path, nil)
			if ingestErr != nil {
				cmd.Printf("Failed to ingest %s: %v\n", path, ingestErr)
				return
			}
			cmd.Printf("Ingested %s as document %s\n", path, docID)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	w.Start()
	cmd.Printf("Watching %s for document changes. Press Ctrl+C to stop.\n", dir)

	<-ctx.Done()
	cmd.Println("Stopped.")
	return nil
}
