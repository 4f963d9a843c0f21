package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

var (
	searchTopK    int
	searchClass   string
	searchRerank  bool
	searchContext bool
	searchBudget  int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Scores every stored chunk against the query by cosine similarity,
boosts chunks containing the query's keywords, and returns the best
matches above the relevance threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().StringVar(&searchClass, "class", "", "content class hint: code or text")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "re-score candidates with the configured reranker")
	searchCmd.Flags().BoolVar(&searchContext, "context", false, "print an assembled context block instead of a result list")
	searchCmd.Flags().IntVar(&searchBudget, "budget", 0, "token budget for --context (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	class := domain.ContentClass(searchClass)
	if !class.IsValid() {
		return fmt.Errorf("invalid class %q: use code or text", searchClass)
	}

	req := domain.SearchRequest{
		Query:  args[0],
		Class:  class,
		TopK:   searchTopK,
		Rerank: searchRerank,
	}
	ctx := cmd.Context()

	if searchContext {
		assembled, err := searchService.BuildContext(ctx, req, searchBudget)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return outputContext(cmd, assembled)
	}

	results, err := searchService.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputContext(cmd *cobra.Command, assembled *domain.AssembledContext) error {
	if assembled.Text == "" {
		cmd.Println("No results above the relevance threshold.")
		return nil
	}

	cmd.Println(assembled.Text)
	cmd.Printf("\n(%d chunks, ~%d tokens)\n", len(assembled.ChunkIDs), assembled.TokenCount)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Source (Score)
		title := results[i].SourceName
		if title == "" {
			title = results[i].Chunk.DocumentID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      Chunk: %s\n", results[i].Chunk.ID)
		if snippet := snippetOf(results[i].Chunk.ChunkText); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// snippetOf returns the first non-empty line of text, shortened to a
// presentable length.
func snippetOf(text string) string {
	const maxSnippet = 100

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxSnippet {
			return string(runes[:maxSnippet]) + "..."
		}
		return line
	}
	return ""
}
