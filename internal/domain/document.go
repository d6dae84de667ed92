package domain

import "time"

// DocumentStatus tracks a document through upload
type DocumentStatus string

const (
	DocumentUploading  DocumentStatus = "uploading"
	DocumentProcessing DocumentStatus = "processing"
	DocumentReady      DocumentStatus = "ready"
	DocumentError      DocumentStatus = "error"
)

// UploadedDocument is a course document sent to the backend for retrieval context
type UploadedDocument struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Size       int64          `json:"size"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Status     DocumentStatus `json:"status"`
	DocumentID string         `json:"document_id,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// UploadResponse is the body returned by POST /upload-doc
type UploadResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	Filename   string `json:"filename,omitempty"`
}
