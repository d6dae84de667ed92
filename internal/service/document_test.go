package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pdfHeader = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDocumentValidator_Validate(t *testing.T) {
	v := NewDocumentValidator(1024)

	tests := []struct {
		name     string
		size     int64
		content  string
		wantType string
		wantErr  bool
	}{
		{"pdf", int64(len(pdfHeader)), pdfHeader, "application/pdf", false},
		{"plain text", 13, "lecture notes", "text/plain", false},
		{"csv counts as text", 12, "a,b,c\n1,2,3\n", "text/plain", false},
		{"png", 16, "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", "", true},
		{"empty", 0, "", "", true},
		{"too large", 2048, "lecture notes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.name, tt.size, strings.NewReader(tt.content))
			if tt.wantErr {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "10 MiB", FormatSize(10<<20))
	assert.Equal(t, "0 B", FormatSize(-1))
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("ready", func(t *testing.T) {
		uploader := new(MockDocumentUploader)
		svc := NewDocumentService(uploader, NewDocumentValidator(10<<20))
		path := writeFile(t, "syllabus.pdf", pdfHeader)

		uploader.On("UploadDocument", ctx, "syllabus.pdf", mock.Anything).
			Run(func(args mock.Arguments) {
				data, err := io.ReadAll(args.Get(2).(io.Reader))
				assert.NoError(t, err)
				assert.Equal(t, pdfHeader, string(data), "body is rewound after sniffing")

				docs := svc.Documents()
				if assert.Len(t, docs, 1) {
					assert.Equal(t, domain.DocumentProcessing, docs[0].Status)
				}
			}).
			Return(&domain.UploadResponse{Success: true, DocumentID: "doc-1"}, nil)

		doc, err := svc.Upload(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentReady, doc.Status)
		assert.Equal(t, "doc-1", doc.DocumentID)
		assert.Equal(t, "application/pdf", doc.Type)
		assert.Equal(t, []string{"doc-1"}, svc.ReadyDocumentIDs())
		uploader.AssertExpectations(t)
	})

	t.Run("rejected locally", func(t *testing.T) {
		uploader := new(MockDocumentUploader)
		svc := NewDocumentService(uploader, NewDocumentValidator(4))
		path := writeFile(t, "notes.txt", "too long for the limit")

		_, err := svc.Upload(ctx, path)

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Empty(t, svc.Documents())
		uploader.AssertNotCalled(t, "UploadDocument", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend failure", func(t *testing.T) {
		uploader := new(MockDocumentUploader)
		svc := NewDocumentService(uploader, NewDocumentValidator(10<<20))
		path := writeFile(t, "notes.txt", "chapter one")

		uploader.On("UploadDocument", ctx, "notes.txt", mock.Anything).Return(nil, domain.ErrRemoteUnavailable)

		doc, err := svc.Upload(ctx, path)
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
		assert.Equal(t, domain.DocumentError, doc.Status)
		assert.Empty(t, svc.ReadyDocumentIDs())
	})

	t.Run("backend says no", func(t *testing.T) {
		uploader := new(MockDocumentUploader)
		svc := NewDocumentService(uploader, NewDocumentValidator(10<<20))
		path := writeFile(t, "notes.txt", "chapter two")

		uploader.On("UploadDocument", ctx, "notes.txt", mock.Anything).
			Return(&domain.UploadResponse{Success: false, Message: "index full"}, nil)

		doc, err := svc.Upload(ctx, path)
		assert.Error(t, err)
		assert.Equal(t, domain.DocumentError, doc.Status)
		assert.Equal(t, "index full", doc.Error)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := NewDocumentService(new(MockDocumentUploader), NewDocumentValidator(10<<20))
		_, err := svc.Upload(ctx, filepath.Join(t.TempDir(), "nope.pdf"))
		assert.Error(t, err)
	})
}

func TestDocumentService_Remove(t *testing.T) {
	ctx := context.Background()
	uploader := new(MockDocumentUploader)
	svc := NewDocumentService(uploader, NewDocumentValidator(10<<20))

	uploader.On("UploadDocument", ctx, mock.Anything, mock.Anything).
		Return(&domain.UploadResponse{Success: true, DocumentID: "doc-7"}, nil)

	doc, err := svc.Upload(ctx, writeFile(t, "a.txt", "alpha"))
	require.NoError(t, err)

	assert.True(t, svc.Remove(doc.ID))
	assert.False(t, svc.Remove(doc.ID))
	assert.Empty(t, svc.Documents())
	assert.Empty(t, svc.ReadyDocumentIDs())
}
