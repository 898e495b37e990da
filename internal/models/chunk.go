package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Chunk is one retrievable unit of document text
type Chunk struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// StoredChunk pairs a chunk with its embedding as persisted in a collection
type StoredChunk struct {
	Chunk
	Embedding []float32 `json:"-"`
}

// Match is a ranked retrieval result
type Match struct {
	Chunk
	Score float64 `json:"score"`
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}

// ChunkID returns the stable identifier of the chunk at position i
func ChunkID(i int) string {
	return ChunkIDPrefix + strconv.Itoa(i)
}

// ParseChunkID is the inverse of ChunkID
func ParseChunkID(id string) (int, error) {
	if !strings.HasPrefix(id, ChunkIDPrefix) {
		return 0, fmt.Errorf("invalid chunk id: %q", id)
	}
	i, err := strconv.Atoi(strings.TrimPrefix(id, ChunkIDPrefix))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid chunk id: %q", id)
	}
	return i, nil
}
