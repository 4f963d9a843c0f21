// Package chunker splits document text into token-bounded chunks with
// sliding-window overlap. Plain text is packed paragraph by paragraph;
// markdown is first divided along its heading structure so chunks never
// straddle unrelated sections.
package chunker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// DefaultMaxTokens is the default estimated token cap per chunk.
const DefaultMaxTokens = 500

// DefaultOverlapTokens is the default sliding-window overlap between
// consecutive chunks.
const DefaultOverlapTokens = 50

// Chunk is one piece of split document text. It is ephemeral: the
// ingestion pipeline turns it into a persisted domain.DocumentChunk.
type Chunk struct {
	// Text is the chunk content, including any section heading prefix.
	Text string

	// TokenEstimate is the heuristic token count of Text.
	TokenEstimate int

	// Metadata carries the structural position of the chunk.
	Metadata domain.ChunkMetadata
}

// Processor splits document content into token-bounded chunks.
// A Processor is deterministic: the same content, strategy, and
// configuration always produce the same chunks.
type Processor struct {
	maxTokens     int
	overlapTokens int
	wordsPerToken float64
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the estimated token cap per chunk.
func WithMaxTokens(max int) Option {
	return func(p *Processor) {
		if max > 0 {
			p.maxTokens = max
		}
	}
}

// WithOverlapTokens sets the overlap between consecutive chunks.
func WithOverlapTokens(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlapTokens = overlap
		}
	}
}

// WithWordsPerToken sets the words-to-tokens calibration ratio.
// The same ratio feeds chunk sizing and the provider pre-flight check.
func WithWordsPerToken(ratio float64) Option {
	return func(p *Processor) {
		if ratio > 0 {
			p.wordsPerToken = ratio
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
		wordsPerToken: DefaultWordsPerToken,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed the chunk cap
	if p.overlapTokens >= p.maxTokens {
		p.overlapTokens = p.maxTokens / 4
	}

	return p
}

// MaxTokens returns the configured token cap per chunk.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// EstimateTokens estimates the token count of text using the
// processor's calibration ratio.
func (p *Processor) EstimateTokens(text string) int {
	return estimateFromWords(countWords(text), p.wordsPerToken)
}

// Process splits content into ordered chunks using the given strategy.
// Whitespace-only content produces no chunks.
func (p *Processor) Process(content string, strategy Strategy) ([]Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	switch strategy {
	case StrategyPlainText:
		return p.chunkPlainText(content), nil
	case StrategyMarkdown:
		return p.chunkMarkdown(content), nil
	default:
		return nil, fmt.Errorf("%w: unknown chunking strategy %d", domain.ErrInvalidInput, int(strategy))
	}
}

// paragraph is a blank-line delimited block of consecutive lines.
type paragraph struct {
	text      string
	words     int
	startLine int
}

// splitParagraphs divides lines into paragraphs. firstLineNum is the
// 1-based source line number of lines[0].
func splitParagraphs(lines []string, firstLineNum int) []paragraph {
	var paras []paragraph
	var current []string
	currentStart := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n")
		paras = append(paras, paragraph{
			text:      text,
			words:     countWords(text),
			startLine: currentStart,
		})
		current = nil
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(current) == 0 {
			currentStart = firstLineNum + i
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// sectionInfo describes the section a run of paragraphs belongs to.
// Plain text uses the zero value: no heading, level 0.
type sectionInfo struct {
	headingLine string
	headingPath []string
	level       int
}

func (p *Processor) chunkPlainText(content string) []Chunk {
	paras := splitParagraphs(strings.Split(content, "\n"), 1)
	chunks, _ := p.chunkParagraphs(sectionInfo{}, paras, nil)
	return chunks
}

// chunkParagraphs greedily packs paragraphs into chunks under the token
// cap. seed primes the first chunk with overlap carried in from earlier
// text; the returned carry is the trailing overlap of the final chunk,
// for the caller to thread into the next related section.
func (p *Processor) chunkParagraphs(sec sectionInfo, paras []paragraph, seed []paragraph) ([]Chunk, []paragraph) {
	var chunks []Chunk

	cur := slices.Clone(seed)
	curWords := paragraphWords(cur)
	fresh := 0

	for _, para := range paras {
		overflow := len(cur) > 0 && estimateFromWords(curWords+para.words, p.wordsPerToken) > p.maxTokens
		if overflow && fresh > 0 {
			chunks = append(chunks, p.buildChunk(sec, cur))
			cur = p.trailingOverlap(cur)
			curWords = paragraphWords(cur)
			fresh = 0
			overflow = len(cur) > 0 && estimateFromWords(curWords+para.words, p.wordsPerToken) > p.maxTokens
		}
		if overflow {
			// Only carried overlap is left and the paragraph still does
			// not fit beside it. Shed the overlap so the paragraph can
			// start a clean chunk.
			cur = nil
			curWords = 0
		}
		cur = append(cur, para)
		curWords += para.words
		fresh++
	}

	if fresh > 0 {
		chunks = append(chunks, p.buildChunk(sec, cur))
		return chunks, p.trailingOverlap(cur)
	}
	// No paragraphs of its own: pass the incoming seed through.
	return chunks, seed
}

func (p *Processor) buildChunk(sec sectionInfo, paras []paragraph) Chunk {
	parts := make([]string, 0, len(paras)+1)
	if sec.headingLine != "" {
		parts = append(parts, sec.headingLine)
	}
	for _, para := range paras {
		parts = append(parts, para.text)
	}
	text := strings.Join(parts, "\n\n")

	return Chunk{
		Text:          text,
		TokenEstimate: p.EstimateTokens(text),
		Metadata: domain.ChunkMetadata{
			HeadingPath: slices.Clone(sec.headingPath),
			Level:       sec.level,
			StartLine:   paras[0].startLine,
		},
	}
}

// trailingOverlap returns the longest suffix of paras whose combined
// token estimate stays within the overlap allowance.
func (p *Processor) trailingOverlap(paras []paragraph) []paragraph {
	if p.overlapTokens <= 0 {
		return nil
	}

	words := 0
	start := len(paras)
	for i := len(paras) - 1; i >= 0; i-- {
		if estimateFromWords(words+paras[i].words, p.wordsPerToken) > p.overlapTokens {
			break
		}
		words += paras[i].words
		start = i
	}
	if start == len(paras) {
		return nil
	}
	return slices.Clone(paras[start:])
}

func paragraphWords(paras []paragraph) int {
	words := 0
	for _, para := range paras {
		words += para.words
	}
	return words
}
