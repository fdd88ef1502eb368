package chunker

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrInvalidChunkSize  = errors.New("chunk size must be positive")
	ErrInvalidChunkCount = errors.New("chunk count must be positive")
)

// Chunk represents a contiguous slice of the document text.
type Chunk struct {
	Index  int
	Text   string
	Length int // in characters (runes)
}

// SplitBySize partitions text into contiguous, non-overlapping chunks of
// size characters; only the last chunk may be shorter.
func SplitBySize(text string, size int) ([]Chunk, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}

	var chunks []Chunk
	start, n := 0, 0
	for i := range text {
		if n == size {
			chunks = appendChunk(chunks, text[start:i], n)
			start, n = i, 0
		}
		n++
	}
	if n > 0 {
		chunks = appendChunk(chunks, text[start:], n)
	}
	return chunks, nil
}

// SplitByCount derives a chunk size of len(text)/count characters, clamps it
// to maxSize, and splits by that size. The number of chunks returned differs
// from count whenever the clamp applies or the division leaves a remainder.
func SplitByCount(text string, count, maxSize int) ([]Chunk, error) {
	if count <= 0 {
		return nil, ErrInvalidChunkCount
	}
	if text == "" {
		return nil, nil
	}
	return SplitBySize(text, SizeForCount(utf8.RuneCountInString(text), count, maxSize))
}

// SizeForCount is the chunk size SplitByCount uses for a text of length
// characters: length/count, at most maxSize (when positive) and at least 1.
func SizeForCount(length, count, maxSize int) int {
	size := length / count
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

func appendChunk(chunks []Chunk, text string, length int) []Chunk {
	return append(chunks, Chunk{
		Index:  len(chunks),
		Text:   text,
		Length: length,
	})
}
