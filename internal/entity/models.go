package entity

import "time"

// Conversation message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Document represents an uploaded source document. Processed stays false while
// chunking/indexing is in progress; a document with no extractable text ends up
// processed with ChunkCount == 0.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	Processed  bool      `json:"processed"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is a bounded-size text segment cut from a document for independent
// embedding and retrieval. Immutable once created; removed only together with
// its source document.
type Chunk struct {
	ID          string    `json:"chunk_id"`
	Text        string    `json:"text"`
	DocumentID  string    `json:"document_id"`
	Index       int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationMessage is a single turn in a conversation. Append-only.
type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered message log shared by all turns with the same id.
type Conversation struct {
	ID        string                `json:"conversation_id"`
	Messages  []ConversationMessage `json:"messages"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)
