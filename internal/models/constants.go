package models

const (
	ChunkIDPrefix     = "chunk_"
	DefaultCollection = "document_chunks"
	// ThinkTag matches reasoning blocks some models prepend to their answer.
	ThinkTag = `(?s)<think>.*?</think>`
)
