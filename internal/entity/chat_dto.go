package entity

// QueryRequest is the upstream query payload.
type QueryRequest struct {
	Question       string `json:"question"`
	MaxResults     int    `json:"max_results,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SourceDTO describes one passage the answer was grounded in. ContentPreview
// is capped at 200 characters.
type SourceDTO struct {
	Filename       string  `json:"filename"`
	Page           *int    `json:"page,omitempty"`
	ChunkID        string  `json:"chunk_id"`
	RelevanceScore float64 `json:"relevance_score"`
	ContentPreview string  `json:"content_preview"`
}

// QueryResponse is the answer to a single query turn.
type QueryResponse struct {
	Answer         string      `json:"answer"`
	Sources        []SourceDTO `json:"sources"`
	ConversationID string      `json:"conversation_id"`
	ProcessingTime float64     `json:"processing_time"`
}
