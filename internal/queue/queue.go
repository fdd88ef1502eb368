package queue

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// TaskType enumerates supported task categories.
type TaskType string

const TaskTypeGenerate TaskType = "generate"

// Task represents a unit of work handed to a worker.
type Task struct {
	ID      uuid.UUID
	Type    TaskType
	Payload []byte
}

// GeneratePayload asks a worker to run the question/answer pipeline over Text.
type GeneratePayload struct {
	RunID     uuid.UUID `json:"run_id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Questions int       `json:"questions"`
}

// NewGenerateTask encodes p into a generate task.
func NewGenerateTask(p GeneratePayload) (Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Task{}, err
	}
	return Task{Type: TaskTypeGenerate, Payload: body}, nil
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
// A task whose handler fails is not redelivered.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}
