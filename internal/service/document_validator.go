package service

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// AcceptedDocumentTypes lists the MIME types the backend can index
var AcceptedDocumentTypes = []string{
	"application/pdf",
	"text/plain",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DocumentValidator checks documents before they are uploaded
type DocumentValidator struct {
	maxSize  int64
	accepted []string
}

// NewDocumentValidator creates a validator with the given size limit in bytes
func NewDocumentValidator(maxSize int64) *DocumentValidator {
	return &DocumentValidator{
		maxSize:  maxSize,
		accepted: AcceptedDocumentTypes,
	}
}

// ValidationError represents a rejected document
type ValidationError struct {
	Message string
	File    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Validate checks size and sniffs the content type from head. It returns the
// accepted MIME type without parameters.
func (v *DocumentValidator) Validate(name string, size int64, head io.Reader) (string, error) {
	if size == 0 {
		return "", &ValidationError{File: name, Message: "empty file"}
	}
	if size > v.maxSize {
		return "", &ValidationError{
			File:    name,
			Message: fmt.Sprintf("file too large (%s, max %s)", FormatSize(size), FormatSize(v.maxSize)),
		}
	}

	detected, err := mimetype.DetectReader(head)
	if err != nil {
		return "", fmt.Errorf("failed to detect type of %s: %w", name, err)
	}

	// walk up so that e.g. text/csv is accepted as text/plain
	for mt := detected; mt != nil; mt = mt.Parent() {
		for _, accepted := range v.accepted {
			if mt.Is(accepted) {
				return accepted, nil
			}
		}
	}

	return "", &ValidationError{
		File:    name,
		Message: fmt.Sprintf("unsupported file type %s (PDF, TXT and DOCX only)", detected.String()),
	}
}

// FormatSize renders a byte count with binary units
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
