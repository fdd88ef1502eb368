package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doc-qa/internal/qa"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateRun(ctx context.Context, source string, questions int) (Run, error) {
	args := m.Called(ctx, source, questions)
	return args.Get(0).(Run), args.Error(1)
}

func (m *MockStore) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Run), args.Error(1)
}

func (m *MockStore) UpdateRunStatus(ctx context.Context, id uuid.UUID, status RunStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStore) SaveResults(ctx context.Context, id uuid.UUID, res qa.Results) error {
	args := m.Called(ctx, id, res)
	return args.Error(0)
}

func (m *MockStore) GetResults(ctx context.Context, id uuid.UUID) (qa.Results, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(qa.Results), args.Error(1)
}
