package utils

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 500 // words
	DefaultChunkOverlap = 50  // words
)

// ErrInvalidConfiguration is returned when the window step would not move forward.
var ErrInvalidConfiguration = errors.New("invalid chunking configuration")

// Chunk is one window of a source document, ready to be embedded.
type Chunk struct {
	Text       string
	Index      int // 0-based emission order, not a byte offset
	SourceName string
}

// ValidateChunking checks that a chunkSize/overlap pair yields a positive step.
func ValidateChunking(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, chunkSize)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, overlap)
	}
	if chunkSize-overlap <= 0 {
		return fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)", ErrInvalidConfiguration, overlap, chunkSize)
	}
	return nil
}

// ChunkWords splits text into windows of chunkSize words, consecutive windows
// sharing overlap words. Windows start at 0, step, 2*step, ... where
// step = chunkSize - overlap, so the final window may be shorter.
func ChunkWords(text, sourceName string, chunkSize, overlap int) ([]Chunk, error) {
	if err := ValidateChunking(chunkSize, overlap); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	step := chunkSize - overlap

	chunks := make([]Chunk, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := start + min(chunkSize, len(words)-start)

		joined := strings.Join(words[start:end], " ")
		if strings.TrimSpace(joined) == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			Text:       joined,
			Index:      len(chunks),
			SourceName: sourceName,
		})
	}

	return chunks, nil
}
