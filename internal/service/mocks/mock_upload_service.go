package mocks

import (
	"context"

	"filehub/internal/model"
	"filehub/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Presign(ctx context.Context, ownerID, filename string) (*service.PresignResult, error) {
	args := m.Called(ctx, ownerID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignResult), args.Error(1)
}

func (m *MockUploadService) Complete(ctx context.Context, ownerID string, in service.CompleteInput) (*model.File, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockUploadService) List(ctx context.Context, ownerID string) ([]model.File, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockUploadService) Get(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockUploadService) DownloadURL(ctx context.Context, ownerID, fileID string) (string, error) {
	args := m.Called(ctx, ownerID, fileID)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) AdvanceStatus(ctx context.Context, fileID string, to model.FileStatus) (*model.File, error) {
	args := m.Called(ctx, fileID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}
