package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentUploader is the subset of the backend used for uploads
type DocumentUploader interface {
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error)
}

// DocumentService validates course documents, uploads them and tracks their status
type DocumentService struct {
	uploader  DocumentUploader
	validator *DocumentValidator
	now       func() time.Time

	mu   sync.RWMutex
	docs []domain.UploadedDocument
}

// NewDocumentService creates a new document service
func NewDocumentService(uploader DocumentUploader, validator *DocumentValidator) *DocumentService {
	return &DocumentService{
		uploader:  uploader,
		validator: validator,
		now:       time.Now,
	}
}

// Upload validates and sends the file at path. Rejected files are not tracked;
// files that fail at the backend are tracked with DocumentError.
func (s *DocumentService) Upload(ctx context.Context, path string) (domain.UploadedDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("failed to stat document: %w", err)
	}
	name := filepath.Base(path)

	mimeType, err := s.validator.Validate(name, info.Size(), f)
	if err != nil {
		return domain.UploadedDocument{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return domain.UploadedDocument{}, fmt.Errorf("failed to rewind document: %w", err)
	}

	doc := domain.UploadedDocument{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       mimeType,
		Size:       info.Size(),
		UploadedAt: s.now(),
		Status:     domain.DocumentUploading,
	}
	s.add(doc)

	// once the body has been read completely the backend is only indexing
	body := &eofReader{r: f, onEOF: func() {
		s.update(doc.ID, func(d *domain.UploadedDocument) { d.Status = domain.DocumentProcessing })
	}}

	resp, err := s.uploader.UploadDocument(ctx, name, body)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("document upload failed")
		doc = s.update(doc.ID, func(d *domain.UploadedDocument) {
			d.Status = domain.DocumentError
			d.Error = err.Error()
		})
		return doc, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	if !resp.Success {
		log.Warn().Str("file", name).Str("reason", resp.Message).Msg("document rejected by backend")
		doc = s.update(doc.ID, func(d *domain.UploadedDocument) {
			d.Status = domain.DocumentError
			d.Error = resp.Message
		})
		return doc, fmt.Errorf("backend rejected %s: %s", name, resp.Message)
	}

	doc = s.update(doc.ID, func(d *domain.UploadedDocument) {
		d.Status = domain.DocumentReady
		d.DocumentID = resp.DocumentID
	})
	log.Info().
		Str("file", name).
		Str("document_id", resp.DocumentID).
		Str("size", FormatSize(doc.Size)).
		Msg("document uploaded")

	return doc, nil
}

// Documents returns the tracked documents in upload order
func (s *DocumentService) Documents() []domain.UploadedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UploadedDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// Remove stops tracking a document. It does not delete it on the backend.
func (s *DocumentService) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.docs {
		if d.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return true
		}
	}
	return false
}

// ReadyDocumentIDs returns backend ids of every successfully indexed document
func (s *DocumentService) ReadyDocumentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, d := range s.docs {
		if d.Status == domain.DocumentReady && d.DocumentID != "" {
			ids = append(ids, d.DocumentID)
		}
	}
	return ids
}

func (s *DocumentService) add(doc domain.UploadedDocument) {
	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()
}

func (s *DocumentService) update(id string, fn func(*domain.UploadedDocument)) domain.UploadedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].ID == id {
			fn(&s.docs[i])
			return s.docs[i]
		}
	}
	return domain.UploadedDocument{}
}

type eofReader struct {
	r     io.Reader
	onEOF func()
	done  bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == io.EOF && !e.done {
		e.done = true
		e.onEOF()
	}
	return n, err
}
