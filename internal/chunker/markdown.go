package chunker

import (
	"strings"

	"github.com/custodia-labs/retriva/internal/core/domain"
)

// section is a markdown document region governed by one heading, with
// the full ancestry that leads to it.
type section struct {
	headingLine string
	headingPath []string
	level       int
	paras       []paragraph
}

func (s section) topSection() string {
	if len(s.headingPath) == 0 {
		return ""
	}
	return s.headingPath[0]
}

// chunkMarkdown splits content along its heading structure, then packs
// each section's paragraphs like plain text. Overlap is threaded only
// between chunks that share the same top-level section; text from
// unrelated sections is never joined.
func (p *Processor) chunkMarkdown(content string) []Chunk {
	sections := parseSections(content)

	var chunks []Chunk
	var carry []paragraph
	carryTop := ""

	for _, sec := range sections {
		if sec.topSection() != carryTop {
			carry = nil
			carryTop = sec.topSection()
		}
		secChunks, secCarry := p.chunkParagraphs(sectionInfo{
			headingLine: sec.headingLine,
			headingPath: sec.headingPath,
			level:       sec.level,
		}, sec.paras, carry)
		chunks = append(chunks, secChunks...)
		carry = secCarry
	}

	if len(chunks) == 0 {
		// Headings with no body text anywhere. Keep the document
		// retrievable as a single chunk of the raw content.
		text := strings.TrimSpace(content)
		chunks = append(chunks, Chunk{
			Text:          text,
			TokenEstimate: p.EstimateTokens(text),
			Metadata:      domain.ChunkMetadata{StartLine: 1},
		})
	}

	return chunks
}

// stackEntry is one open heading on the ancestry stack.
type stackEntry struct {
	title string
	level int
}

// parseSections walks the document line by line, maintaining a heading
// stack: a new heading pops every entry at or below its own level, so
// the stack always reflects the current ancestry. Headings inside
// fenced code blocks are ignored.
func parseSections(content string) []section {
	lines := strings.Split(content, "\n")

	var sections []section
	var stack []stackEntry
	inFence := false

	current := section{}
	bodyStart := 1
	var body []string

	flush := func() {
		current.paras = splitParagraphs(body, bodyStart)
		if len(current.paras) > 0 || current.headingLine != "" {
			sections = append(sections, current)
		}
		body = nil
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		level, title, ok := parseHeading(line)
		if !ok || inFence {
			body = append(body, line)
			continue
		}

		flush()

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, stackEntry{title: title, level: level})

		path := make([]string, len(stack))
		for j, entry := range stack {
			path[j] = entry.title
		}

		current = section{
			headingLine: strings.Repeat("#", level) + " " + title,
			headingPath: path,
			level:       level,
		}
		bodyStart = i + 2
	}
	flush()

	return sections
}

// parseHeading recognises an ATX heading: one to six # characters
// followed by a space and a title.
func parseHeading(line string) (int, string, bool) {
	trimmed := strings.TrimLeft(line, " ")

	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0, "", false
	}

	title := strings.TrimSpace(trimmed[level+1:])
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}
