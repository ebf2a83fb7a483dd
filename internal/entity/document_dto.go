package entity

// UploadResponse is returned after a document has been ingested.
type UploadResponse struct {
	DocumentID    string `json:"document_id"`
	Filename      string `json:"filename"`
	SizeBytes     int64  `json:"size_bytes"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message"`
}

// HealthResponse aggregates the health of the generation backend and the index.
type HealthResponse struct {
	Status           string `json:"status"`
	GenerationOnline bool   `json:"generation_online"`
	IndexHealthy     bool   `json:"index_healthy"`
	DocumentsIndexed int    `json:"documents_indexed"`
	Model            string `json:"model"`
}
