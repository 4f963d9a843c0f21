package chunker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// Strategy selects the splitting algorithm for a document.
// It is a closed set: Process matches on it exhaustively, so adding a
// strategy without handling it is a compile-visible change, not a
// runtime lookup failure.
type Strategy int

// Available strategies.
const (
	// StrategyPlainText splits on paragraph boundaries.
	StrategyPlainText Strategy = iota

	// StrategyMarkdown splits along the heading structure, then
	// paragraph-chunks each section.
	StrategyMarkdown
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPlainText:
		return "plaintext"
	case StrategyMarkdown:
		return "markdown"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

var strategyByExtension = map[string]Strategy{
	".txt":      StrategyPlainText,
	".text":     StrategyPlainText,
	".md":       StrategyMarkdown,
	".markdown": StrategyMarkdown,
}

// StrategyForExtension maps a file extension to its chunking strategy.
// The extension may be given with or without the leading dot and is
// matched case-insensitively. Unknown extensions fail with
// domain.ErrUnsupportedFileType, naming the supported set.
func StrategyForExtension(ext string) (Strategy, error) {
	normalised := strings.ToLower(strings.TrimSpace(ext))
	if normalised != "" && !strings.HasPrefix(normalised, ".") {
		normalised = "." + normalised
	}

	strategy, ok := strategyByExtension[normalised]
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFileType, ext, strings.Join(SupportedExtensions(), ", "))
	}
	return strategy, nil
}

// SupportedExtensions returns the recognised file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(strategyByExtension))
	for ext := range strategyByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
