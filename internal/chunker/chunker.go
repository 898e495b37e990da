package chunker

import (
	"fmt"
	"strings"
)

const (
	TypeParagraph = "paragraph"
	TypeWords     = "words"

	defaultWordsPerChunk = 100
)

// Chunker splits raw document text into ordered, non-empty chunks
type Chunker interface {
	Split(text string) []string
}

// New returns the chunker registered under kind
func New(kind string, wordsPerChunk int) (Chunker, error) {
	switch kind {
	case TypeParagraph, "":
		return Paragraph{}, nil
	case TypeWords:
		return NewWords(wordsPerChunk), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", kind)
	}
}

// Paragraph splits on line breaks and drops blank paragraphs.
type Paragraph struct{}

func (Paragraph) Split(text string) []string {
	var chunks []string
	for _, p := range strings.Split(text, "\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks
}

// Words groups whitespace separated words into fixed size windows.
type Words struct {
	size int
}

func NewWords(size int) *Words {
	if size <= 0 {
		size = defaultWordsPerChunk
	}
	return &Words{size: size}
}

func (w *Words) Split(text string) []string {
	words := strings.Fields(text)
	var chunks []string
	for start := 0; start < len(words); start += w.size {
		end := min(start+w.size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
