package entity

// Metadata keys attached to every indexed vector.
const (
	MetaFilename    = "filename"
	MetaDocumentID  = "document_id"
	MetaChunkID     = "chunk_id"
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
	MetaTimestamp   = "timestamp"
)

// RetrievedPassage is a scored retrieval result. Derived, never persisted.
// Score is a similarity in [0,1], higher is more relevant.
type RetrievedPassage struct {
	ChunkID  string
	Text     string
	Metadata map[string]string
	Score    float64
}

// VectorRecord is one stored vector with its text and metadata, keyed by chunk id.
type VectorRecord struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]string
}

// VectorMatch is a backend query hit. Score is cosine similarity as reported
// by the backend, before the index clamps it to [0,1].
type VectorMatch struct {
	Record VectorRecord
	Score  float64
}

// IndexStatus reports index health. Status queries never fail; an unreachable
// backend is reported as Healthy == false.
type IndexStatus struct {
	Healthy        bool   `json:"healthy"`
	DocumentCount  int    `json:"document_count"`
	EmbeddingModel string `json:"embedding_model"`
	Dimension      int    `json:"dimension"`
}
