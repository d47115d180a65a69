package mocks

import (
	"context"

	"filehub/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, job queue.IngestJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockEnqueuer) Close() error {
	args := m.Called()
	return args.Error(0)
}
