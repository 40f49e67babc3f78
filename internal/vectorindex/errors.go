package vectorindex

import "errors"

var (
	ErrEmptyEmbedding = errors.New("embedding is empty")
	ErrInvalidChunkID = errors.New("chunk id is empty")
)
