package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"doc-qa/internal/app"
	"doc-qa/internal/conversation"
	"doc-qa/internal/document"
	"doc-qa/internal/httputil"
	"doc-qa/internal/output"
	"doc-qa/internal/qa"
	"doc-qa/internal/queue"
	"doc-qa/internal/store"
)

func main() {
	deps, err := app.BuildService()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("qa worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeGenerate, func(ctx context.Context, task queue.Task) error {
			var payload queue.GeneratePayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleGenerate(ctx, deps, payload, time.Now())
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.Port, "worker")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("worker stopped", "err", err)
	}
}

// handleGenerate runs the pipeline for one task. Each task gets its own
// conversation client. Results are persisted before the result files are
// written; any failure marks the run failed and leaves no result files.
func handleGenerate(ctx context.Context, deps app.ServiceDeps, payload queue.GeneratePayload, now time.Time) error {
	log := deps.Log.With("run_id", payload.RunID, "source", payload.Source)

	dir, n, err := generate(ctx, deps, payload, now)
	if err != nil {
		if upErr := deps.Store.UpdateRunStatus(ctx, payload.RunID, store.StatusFailed); upErr != nil {
			log.Error("failed to mark run failed", "err", upErr)
		}
		return err
	}
	log.Info("run complete", "dir", dir, "question_blocks", n)
	return deps.Store.UpdateRunStatus(ctx, payload.RunID, store.StatusReady)
}

func generate(ctx context.Context, deps app.ServiceDeps, payload queue.GeneratePayload, now time.Time) (string, int, error) {
	orchestrator := qa.New(
		deps.NewConversation(conversation.DefaultPrompt),
		qa.WithLogger(deps.Log.With("run_id", payload.RunID)),
	)
	orchestrator.SetText(document.Flatten(payload.Text))

	res, err := orchestrator.Run(ctx, payload.Questions)
	if err != nil {
		return "", 0, err
	}
	if err := deps.Store.SaveResults(ctx, payload.RunID, res); err != nil {
		return "", 0, fmt.Errorf("save results: %w", err)
	}

	// Runs finishing in the same second must not collide.
	base := filepath.Join(deps.Config.OutputDir, payload.RunID.String())
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", 0, fmt.Errorf("create run dir: %w", err)
	}
	dir, err := output.Write(base, now, res)
	if err != nil {
		if rmErr := os.RemoveAll(base); rmErr != nil {
			deps.Log.Warn("failed to remove partial output", "dir", base, "err", rmErr)
		}
		return "", 0, err
	}
	return dir, len(res.Questions), nil
}
