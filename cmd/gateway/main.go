package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"doc-qa/internal/app"
	"doc-qa/internal/document"
	"doc-qa/internal/httputil"
	"doc-qa/internal/queue"
	"doc-qa/internal/store"
)

type createRunRequest struct {
	Filename  string `validate:"required"`
	Questions int    `validate:"min=1,max=1000"`
}

func main() {
	deps, err := app.BuildService()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/runs", createRunHandler(deps))
	r.Get("/api/runs/{id}", getRunHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// createRunHandler accepts a multipart upload ("file", .txt or .pdf, plus an
// optional "questions" count) and queues a pipeline run for it.
func createRunHandler(deps app.ServiceDeps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		contentType := uploadType(header.Filename, header.Header.Get("Content-Type"))
		allowedTypes := map[string]bool{
			"text/plain":      true,
			"application/pdf": true,
		}
		if !allowedTypes[contentType] {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF and TXT allowed)", nil, http.StatusBadRequest)
			return
		}

		req := createRunRequest{Filename: header.Filename, Questions: deps.Config.QuestionCount}
		if raw := r.FormValue("questions"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				httputil.Fail(deps.Log, w, "questions must be an integer", err, http.StatusBadRequest)
				return
			}
			req.Questions = n
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := extractText(contentType, content)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusBadRequest)
			return
		}

		run, err := deps.Store.CreateRun(ctx, req.Filename, req.Questions)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist run", err, http.StatusInternalServerError)
			return
		}

		task, err := queue.NewGenerateTask(queue.GeneratePayload{
			RunID:     run.ID,
			Source:    req.Filename,
			Text:      text,
			Questions: req.Questions,
		})
		if err != nil {
			fail(ctx, deps, w, "marshal payload failed", err, run.ID, http.StatusInternalServerError)
			return
		}
		if err := deps.Queue.Enqueue(ctx, task); err != nil {
			fail(ctx, deps, w, "failed to enqueue run; please retry", err, run.ID, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"run_id":    run.ID.String(),
			"status":    run.Status,
			"questions": run.Questions,
		})
	}
}

// fail marks the run failed before writing the error response.
func fail(ctx context.Context, deps app.ServiceDeps, w http.ResponseWriter, message string, err error, runID uuid.UUID, status int) {
	log := deps.Log.With("run_id", runID)
	if upErr := deps.Store.UpdateRunStatus(ctx, runID, store.StatusFailed); upErr != nil {
		log.Error("failed to mark run failed", "err", upErr)
	}
	httputil.Fail(log, w, message, err, status)
}

func getRunHandler(deps app.ServiceDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid run id", err, http.StatusBadRequest)
			return
		}
		run, err := deps.Store.GetRun(r.Context(), runID)
		if errors.Is(err, store.ErrRunNotFound) {
			httputil.Fail(deps.Log, w, "run not found", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load run", err, http.StatusInternalServerError)
			return
		}

		body := map[string]any{
			"run_id":     run.ID.String(),
			"source":     run.Source,
			"status":     run.Status,
			"questions":  run.Questions,
			"created_at": run.CreatedAt,
		}
		if run.Status == store.StatusReady {
			res, err := deps.Store.GetResults(r.Context(), runID)
			if err != nil {
				httputil.Fail(deps.Log, w, "failed to load results", err, http.StatusInternalServerError)
				return
			}
			answers := make([]map[string]string, 0, len(res.Answers))
			for _, a := range res.Answers {
				answers = append(answers, map[string]string{"question": a.Question, "answer": a.Answer})
			}
			body["question_blocks"] = res.Questions
			body["answers"] = answers
			body["answer_evaluation"] = res.AnswerEvaluation
			body["question_evaluation"] = res.QuestionEvaluation
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}

// uploadType returns the media type of an upload without parameters. A
// missing or generic type is inferred from the file extension.
func uploadType(filename, header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			return "text/plain"
		case ".pdf":
			return "application/pdf"
		}
	}
	return mediaType
}

// extractText returns the upload as plain text, converting PDFs page by page.
func extractText(contentType string, content []byte) (string, error) {
	if contentType != "application/pdf" {
		return string(content), nil
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	return document.ExtractPDF(r), nil
}
