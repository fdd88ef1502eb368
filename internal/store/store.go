package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"doc-qa/internal/qa"
)

type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusReady      RunStatus = "ready"
	StatusFailed     RunStatus = "failed"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one question/answer pipeline execution over a document.
type Run struct {
	ID        uuid.UUID
	Source    string
	Questions int
	Status    RunStatus
	CreatedAt time.Time
}

// Store defines persistence for runs and their results.
type Store interface {
	CreateRun(ctx context.Context, source string, questions int) (Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (Run, error)
	UpdateRunStatus(ctx context.Context, id uuid.UUID, status RunStatus) error
	SaveResults(ctx context.Context, id uuid.UUID, res qa.Results) error
	GetResults(ctx context.Context, id uuid.UUID) (qa.Results, error)
}
