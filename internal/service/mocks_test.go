package service

import (
	"context"
	"io"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockChatClient mocks the ChatClient interface
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) SendChatMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatResponse), args.Error(1)
}

func (m *MockChatClient) CreateNewChat(ctx context.Context) (*domain.NewChatResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NewChatResponse), args.Error(1)
}

func (m *MockChatClient) GetConversations(ctx context.Context) ([]domain.RemoteConversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteConversation), args.Error(1)
}

func (m *MockChatClient) DeleteConversation(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// MockDocumentUploader mocks the DocumentUploader interface
type MockDocumentUploader struct {
	mock.Mock
}

func (m *MockDocumentUploader) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResponse), args.Error(1)
}
