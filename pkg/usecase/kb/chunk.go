package kb

import (
	"regexp"
	"strings"
)

// Chunks shorter than this are treated as noise (page numbers, headers)
const minChunkLength = 50

var (
	paragraphSplitter = regexp.MustCompile(`\n\s*\n`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// splitChunks breaks a document into paragraph chunks. Paragraphs are
// separated by blank lines; short fragments are dropped. If no paragraph
// survives, the whole document is used as a single chunk as long as it is
// long enough itself.
func splitChunks(text string) []string {
	var chunks []string
	for _, chunk := range paragraphSplitter.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if len(chunk) > minChunkLength {
			chunks = append(chunks, chunk)
		}
	}

	if len(chunks) == 0 {
		whole := strings.TrimSpace(text)
		if len(whole) > minChunkLength {
			chunks = []string{whole}
		}
	}

	return chunks
}

// scrub collapses whitespace runs before the text is sent to the embedding
// model
func scrub(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
