package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// para builds a paragraph of n copies of word, estimating at
// ceil(n/0.75) tokens under the default calibration.
func para(word string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.maxTokens != DefaultMaxTokens {
			t.Errorf("expected maxTokens %d, got %d", DefaultMaxTokens, p.maxTokens)
		}
		if p.overlapTokens != DefaultOverlapTokens {
			t.Errorf("expected overlapTokens %d, got %d", DefaultOverlapTokens, p.overlapTokens)
		}
		if p.wordsPerToken != DefaultWordsPerToken {
			t.Errorf("expected wordsPerToken %v, got %v", DefaultWordsPerToken, p.wordsPerToken)
		}
	})

	t.Run("custom max tokens", func(t *testing.T) {
		p := New(WithMaxTokens(200))
		if p.maxTokens != 200 {
			t.Errorf("expected maxTokens 200, got %d", p.maxTokens)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlapTokens(25))
		if p.overlapTokens != 25 {
			t.Errorf("expected overlapTokens 25, got %d", p.overlapTokens)
		}
	})

	t.Run("overlap exceeds max tokens", func(t *testing.T) {
		p := New(WithMaxTokens(100), WithOverlapTokens(150))
		if p.overlapTokens >= p.maxTokens {
			t.Error("overlap should be reduced when it exceeds the chunk cap")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithMaxTokens(0), WithOverlapTokens(-1), WithWordsPerToken(0))
		if p.maxTokens != DefaultMaxTokens {
			t.Errorf("expected default maxTokens, got %d", p.maxTokens)
		}
		if p.overlapTokens != DefaultOverlapTokens {
			t.Errorf("expected default overlapTokens, got %d", p.overlapTokens)
		}
		if p.wordsPerToken != DefaultWordsPerToken {
			t.Errorf("expected default wordsPerToken, got %v", p.wordsPerToken)
		}
	})
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 2},                      // ceil(1/0.75)
		{"one two three", 4},            // ceil(3/0.75)
		{para("word", 6), 8},            // ceil(6/0.75)
		{para("word", 75), 100},         // exactly 75/0.75
		{"spaced    out\twords\nhere", 6}, // 4 words

	}

	for _, tt := range tests {
		got := EstimateTokens(tt.text)
		if got != tt.expected {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.expected)
		}
	}
}

func TestStrategyForExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected Strategy
	}{
		{".txt", StrategyPlainText},
		{".text", StrategyPlainText},
		{".md", StrategyMarkdown},
		{".markdown", StrategyMarkdown},
		{"md", StrategyMarkdown},
		{".MD", StrategyMarkdown},
		{".TXT", StrategyPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := StrategyForExtension(tt.ext)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected strategy %v, got %v", tt.expected, got)
			}
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := StrategyForExtension(".pdf")
		if !errors.Is(err, domain.ErrUnsupportedFileType) {
			t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
		}
		for _, ext := range SupportedExtensions() {
			if !strings.Contains(err.Error(), ext) {
				t.Errorf("error should list supported extension %s: %v", ext, err)
			}
		}
	})
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()

	for _, content := range []string{"", "   ", "\n\n\t\n"} {
		chunks, err := p.Process(content, StrategyPlainText)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected 0 chunks for blank content %q, got %d", content, len(chunks))
		}
	}
}

func TestProcessor_Process_UnknownStrategy(t *testing.T) {
	p := New()

	_, err := p.Process("some content", Strategy(99))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessor_Process_SmallPlainText(t *testing.T) {
	p := New()
	content := "This is a small piece of content."

	chunks, err := p.Process(content, StrategyPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Text != content {
		t.Errorf("expected text to match content, got %q", chunk.Text)
	}
	if chunk.TokenEstimate != EstimateTokens(content) {
		t.Errorf("expected token estimate %d, got %d", EstimateTokens(content), chunk.TokenEstimate)
	}
	if chunk.Metadata.Level != 0 {
		t.Errorf("expected level 0, got %d", chunk.Metadata.Level)
	}
	if chunk.Metadata.StartLine != 1 {
		t.Errorf("expected start line 1, got %d", chunk.Metadata.StartLine)
	}
	if len(chunk.Metadata.HeadingPath) != 0 {
		t.Errorf("expected empty heading path, got %v", chunk.Metadata.HeadingPath)
	}
}

func TestProcessor_Process_PlainTextGreedyPacking(t *testing.T) {
	// Four 6-word paragraphs at 8 estimated tokens each. With a cap of
	// 20 and no overlap they pack pairwise.
	p := New(WithMaxTokens(20), WithOverlapTokens(0))
	content := strings.Join([]string{
		para("aa", 6), para("bb", 6), para("cc", 6), para("dd", 6),
	}, "\n\n")

	chunks, err := p.Process(content, StrategyPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if !strings.Contains(chunks[0].Text, "aa") || !strings.Contains(chunks[0].Text, "bb") {
		t.Errorf("first chunk should hold the first two paragraphs: %q", chunks[0].Text)
	}
	if strings.Contains(chunks[0].Text, "cc") {
		t.Errorf("first chunk should not hold the third paragraph: %q", chunks[0].Text)
	}
	if !strings.Contains(chunks[1].Text, "cc") || !strings.Contains(chunks[1].Text, "dd") {
		t.Errorf("second chunk should hold the last two paragraphs: %q", chunks[1].Text)
	}
}

func TestProcessor_Process_PlainTextOverlap(t *testing.T) {
	// With a cap of 20 and overlap allowance of 10, each new chunk is
	// re-seeded with the previous chunk's trailing paragraph.
	p := New(WithMaxTokens(20), WithOverlapTokens(10))
	content := strings.Join([]string{
		para("aa", 6), para("bb", 6), para("cc", 6), para("dd", 6),
	}, "\n\n")

	chunks, err := p.Process(content, StrategyPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	// aa+bb, bb+cc, cc+dd: the window slides one paragraph at a time.
	if !strings.HasPrefix(chunks[1].Text, para("bb", 6)) {
		t.Errorf("second chunk should start with the overlap paragraph: %q", chunks[1].Text)
	}
	if !strings.HasPrefix(chunks[2].Text, para("cc", 6)) {
		t.Errorf("third chunk should start with the overlap paragraph: %q", chunks[2].Text)
	}
	if strings.Contains(chunks[2].Text, "aa") || strings.Contains(chunks[2].Text, "bb") {
		t.Errorf("third chunk should not reach back beyond the overlap: %q", chunks[2].Text)
	}
}

func TestProcessor_Process_OversizedParagraph(t *testing.T) {
	// A single paragraph above the cap cannot be split further; it
	// becomes its own chunk.
	p := New(WithMaxTokens(10), WithOverlapTokens(0))
	content := para("big", 100)

	chunks, err := p.Process(content, StrategyPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for an indivisible paragraph, got %d", len(chunks))
	}
	if chunks[0].Text != content {
		t.Errorf("oversized paragraph should be kept whole")
	}
}

func TestProcessor_Process_StartLines(t *testing.T) {
	p := New()
	content := "first paragraph line one\nfirst paragraph line two\n\nsecond paragraph\n\n\nthird paragraph"

	chunks, err := p.Process(content, StrategyPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata.StartLine != 1 {
		t.Errorf("expected start line 1, got %d", chunks[0].Metadata.StartLine)
	}

	paras := splitParagraphs(strings.Split(content, "\n"), 1)
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if paras[0].startLine != 1 || paras[1].startLine != 4 || paras[2].startLine != 7 {
		t.Errorf("unexpected paragraph start lines: %d, %d, %d",
			paras[0].startLine, paras[1].startLine, paras[2].startLine)
	}
}

func TestProcessor_Process_MarkdownHeadingPath(t *testing.T) {
	p := New(WithMaxTokens(20), WithOverlapTokens(10))
	content := fmt.Sprintf(`# Alpha

%s

## Detail

%s

%s

# Beta

%s
`, para("intro", 6), para("detone", 6), para("dettwo", 6), para("betaone", 6))

	chunks, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	for _, chunk := range chunks {
		top := chunk.Metadata.TopSection()
		switch top {
		case "Alpha":
			if strings.Contains(chunk.Text, "betaone") {
				t.Errorf("Alpha chunk contains Beta text: %q", chunk.Text)
			}
		case "Beta":
			if strings.Contains(chunk.Text, "intro") || strings.Contains(chunk.Text, "det") {
				t.Errorf("Beta chunk contains Alpha text: %q", chunk.Text)
			}
		default:
			t.Errorf("unexpected top section %q for chunk %q", top, chunk.Text)
		}
	}

	// The subsection inherits the full ancestry.
	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk.Text, "detone") {
			found = true
			path := chunk.Metadata.HeadingPath
			if len(path) != 2 || path[0] != "Alpha" || path[1] != "Detail" {
				t.Errorf("expected heading path [Alpha Detail], got %v", path)
			}
		}
	}
	if !found {
		t.Error("no chunk holds the subsection content")
	}
}

func TestProcessor_Process_MarkdownOverlapWithinTopSection(t *testing.T) {
	// Overlap flows from a section into its sibling under the same
	// top-level heading, but never across top-level boundaries.
	p := New(WithMaxTokens(20), WithOverlapTokens(10))
	content := fmt.Sprintf(`# Alpha

%s

## Detail

%s

# Beta

%s
`, para("alphatail", 6), para("detbody", 6), para("betabody", 6))

	chunks, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var detailChunk, betaChunk *Chunk
	for i := range chunks {
		if strings.Contains(chunks[i].Text, "detbody") {
			detailChunk = &chunks[i]
		}
		if chunks[i].Metadata.TopSection() == "Beta" {
			betaChunk = &chunks[i]
		}
	}

	if detailChunk == nil || betaChunk == nil {
		t.Fatalf("missing expected chunks, got %d chunks", len(chunks))
	}
	if !strings.Contains(detailChunk.Text, "alphatail") {
		t.Errorf("subsection chunk should carry overlap from its top section: %q", detailChunk.Text)
	}
	if strings.Contains(betaChunk.Text, "alphatail") || strings.Contains(betaChunk.Text, "detbody") {
		t.Errorf("Beta chunk must not carry overlap from Alpha: %q", betaChunk.Text)
	}
}

func TestProcessor_Process_MarkdownHeadingPrefix(t *testing.T) {
	p := New()
	content := "# Guide\n\nSome body text here.\n\n## Steps\n\nStep text follows."

	chunks, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, chunk := range chunks {
		if len(chunk.Metadata.HeadingPath) == 0 {
			continue
		}
		if !strings.HasPrefix(chunk.Text, "#") {
			t.Errorf("section chunk should start with its heading: %q", chunk.Text)
		}
	}
}

func TestProcessor_Process_MarkdownFencedCode(t *testing.T) {
	p := New()
	content := "# Real\n\nIntro text.\n\n```\n# not a heading\ncode line\n```\n\nClosing text."

	chunks, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, chunk := range chunks {
		for _, heading := range chunk.Metadata.HeadingPath {
			if heading == "not a heading" {
				t.Errorf("fenced pseudo-heading leaked into heading path: %v", chunk.Metadata.HeadingPath)
			}
		}
	}
}

func TestProcessor_Process_MarkdownHeadingsOnly(t *testing.T) {
	p := New()
	content := "# Title\n\n## Empty Section\n"

	chunks, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 fallback chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "# Title") {
		t.Errorf("fallback chunk should keep the raw content: %q", chunks[0].Text)
	}
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	p := New(WithMaxTokens(30), WithOverlapTokens(8))
	content := fmt.Sprintf("# One\n\n%s\n\n%s\n\n## Two\n\n%s",
		para("first", 9), para("second", 9), para("third", 9))

	first, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(content, StrategyMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("chunk %d text differs between runs", i)
		}
		if first[i].TokenEstimate != second[i].TokenEstimate {
			t.Errorf("chunk %d estimate differs between runs", i)
		}
	}
}

func TestParseHeading(t *testing.T) {
	tests := []struct {
		line  string
		level int
		title string
		ok    bool
	}{
		{"# Title", 1, "Title", true},
		{"### Deep Title", 3, "Deep Title", true},
		{"###### Max", 6, "Max", true},
		{"  ## Indented", 2, "Indented", true},
		{"####### Seven", 0, "", false},
		{"#NoSpace", 0, "", false},
		{"## ", 0, "", false},
		{"plain text", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			level, title, ok := parseHeading(tt.line)
			if ok != tt.ok {
				t.Fatalf("parseHeading(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if level != tt.level || title != tt.title {
				t.Errorf("parseHeading(%q) = (%d, %q), want (%d, %q)",
					tt.line, level, title, tt.level, tt.title)
			}
		})
	}
}
