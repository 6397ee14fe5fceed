package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits long documents into overlapping pieces small enough to embed.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// chunkBuilder accumulates pieces and measures length in runes.
type chunkBuilder struct {
	chunks  []string
	current strings.Builder
	size    int
	max     int
	overlap int
	dirty   bool
}

func (b *chunkBuilder) add(piece, sep string) {
	pieceLen := utf8.RuneCountInString(piece)
	if b.size > 0 && b.size+utf8.RuneCountInString(sep)+pieceLen > b.max {
		b.flush(sep)
	}
	if b.size > 0 {
		b.current.WriteString(sep)
		b.size += utf8.RuneCountInString(sep)
	}
	b.current.WriteString(piece)
	b.size += pieceLen
	b.dirty = true
}

// flush closes the current chunk and seeds the next one with its tail.
func (b *chunkBuilder) flush(sep string) {
	if b.size == 0 {
		return
	}
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()
	b.size = 0
	b.dirty = false

	if tail := getLastNChars(prev, b.overlap); tail != "" {
		b.current.WriteString(tail)
		b.size = utf8.RuneCountInString(tail)
	}
}

// ChunkText implements TextChunker. Paragraphs are kept whole when they fit; longer ones are
// split into sentences.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) > maxChunkSize {
			for _, sentence := range splitIntoSentences(para) {
				b.add(sentence, " ")
			}
			continue
		}
		b.add(para, "\n\n")
	}

	if b.dirty {
		b.chunks = append(b.chunks, b.current.String())
	}

	return b.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
