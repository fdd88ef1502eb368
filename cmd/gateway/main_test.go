package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"doc-qa/internal/app"
	"doc-qa/internal/config"
	"doc-qa/internal/logger"
	"doc-qa/internal/qa"
	"doc-qa/internal/queue"
	"doc-qa/internal/store"
)

func newTestDeps(st store.Store, q queue.Queue) app.ServiceDeps {
	return app.ServiceDeps{
		Deps: app.Deps{
			Config: config.Config{
				MaxUploadSize: 1024 * 1024, // 1MB for tests
				QuestionCount: 10,
			},
			Log: logger.Discard(),
		},
		Store: st,
		Queue: q,
	}
}

func TestCreateRunHandler(t *testing.T) {
	validRunID := uuid.New()

	tests := []struct {
		name          string
		filename      string
		contentType   string
		content       []byte
		questions     string
		setup         func(*store.MockStore, *queue.MockQueue)
		wantStatus    int
		checkResponse func(*testing.T, *http.Response)
	}{
		{
			name:        "successful upload",
			filename:    "test.txt",
			contentType: "text/plain",
			content:     []byte("Hello\nworld"),
			questions:   "5",
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "test.txt", 5).
					Return(store.Run{ID: validRunID, Questions: 5, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
					var p queue.GeneratePayload
					if err := json.Unmarshal(task.Payload, &p); err != nil {
						return false
					}
					return task.Type == queue.TaskTypeGenerate && p.RunID == validRunID && p.Text == "Hello\nworld" && p.Questions == 5
				})).Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if result["run_id"] != validRunID.String() {
					t.Errorf("Expected run_id %s, got %v", validRunID, result["run_id"])
				}
				if result["status"] != string(store.StatusProcessing) {
					t.Errorf("Expected status %s, got %v", store.StatusProcessing, result["status"])
				}
			},
		},
		{
			name:        "question count defaults from config",
			filename:    "test.txt",
			contentType: "",
			content:     []byte("content"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "test.txt", 10).
					Return(store.Run{ID: validRunID, Questions: 10, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:        "content type with parameters",
			filename:    "notes.txt",
			contentType: "text/plain; charset=utf-8",
			content:     []byte("content"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "notes.txt", 10).
					Return(store.Run{ID: validRunID, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:        "octet-stream falls back to extension",
			filename:    "notes.txt",
			contentType: "application/octet-stream",
			content:     []byte("content"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "notes.txt", 10).
					Return(store.Run{ID: validRunID, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:        "pdf name sent as text is read as text",
			filename:    "notes.pdf",
			contentType: "text/plain",
			content:     []byte("plain words"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "notes.pdf", 10).
					Return(store.Run{ID: validRunID, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
					var p queue.GeneratePayload
					return json.Unmarshal(task.Payload, &p) == nil && p.Text == "plain words"
				})).Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:        "pdf type without extension goes through the pdf reader",
			filename:    "report",
			contentType: "application/pdf",
			content:     []byte("not a pdf"),
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "file too large",
			filename:    "large.txt",
			contentType: "text/plain",
			content:     make([]byte, 2*1024*1024), // 2MB
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "unsupported extension",
			filename:    "test.docx",
			contentType: "",
			content:     []byte("content"),
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "question count out of range",
			filename:    "test.txt",
			contentType: "text/plain",
			content:     []byte("content"),
			questions:   "0",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "question count not a number",
			filename:    "test.txt",
			contentType: "text/plain",
			content:     []byte("content"),
			questions:   "many",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "invalid pdf",
			filename:    "test.pdf",
			contentType: "application/pdf",
			content:     []byte("not a pdf"),
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "CreateRun failure",
			filename:    "test.txt",
			contentType: "text/plain",
			content:     []byte("content"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "test.txt", 10).
					Return(store.Run{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:        "Enqueue failure marks run failed",
			filename:    "test.txt",
			contentType: "text/plain",
			content:     []byte("content"),
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("CreateRun", mock.Anything, "test.txt", 10).
					Return(store.Run{ID: validRunID, Status: store.StatusProcessing}, nil).Once()
				q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("queue error")).Once()
				s.On("UpdateRunStatus", mock.Anything, validRunID, store.StatusFailed).Return(nil).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(store.MockStore)
			mockQueue := new(queue.MockQueue)

			if tt.setup != nil {
				tt.setup(mockStore, mockQueue)
			}

			deps := newTestDeps(mockStore, mockQueue)
			handler := createRunHandler(deps)

			req, err := createMultipartRequest(tt.filename, tt.contentType, tt.content, tt.questions)
			if err != nil {
				t.Fatalf("Failed to create request: %v", err)
			}

			w := httptest.NewRecorder()
			handler(w, req)

			resp := w.Result()
			if resp.StatusCode != tt.wantStatus {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, resp.StatusCode, string(body))
			}

			if tt.checkResponse != nil {
				resp.Body = io.NopCloser(bytes.NewReader(w.Body.Bytes()))
				tt.checkResponse(t, resp)
			}

			mockStore.AssertExpectations(t)
			mockQueue.AssertExpectations(t)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		deps := newTestDeps(new(store.MockStore), new(queue.MockQueue))
		handler := createRunHandler(deps)

		req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
		req.Header.Set("Content-Type", "multipart/form-data")
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestUploadType(t *testing.T) {
	tests := []struct {
		filename string
		header   string
		want     string
	}{
		{"a.txt", "text/plain", "text/plain"},
		{"a.txt", "text/plain; charset=utf-8", "text/plain"},
		{"a.txt", "application/octet-stream", "text/plain"},
		{"a.PDF", "", "application/pdf"},
		{"report", "application/pdf", "application/pdf"},
		{"a.docx", "", ""},
		{"a.bin", "application/octet-stream", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.header, func(t *testing.T) {
			if got := uploadType(tt.filename, tt.header); got != tt.want {
				t.Errorf("uploadType(%q, %q) = %q, want %q", tt.filename, tt.header, got, tt.want)
			}
		})
	}
}

func TestGetRunHandler(t *testing.T) {
	validRunID := uuid.New()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		runID         string
		setup         func(*store.MockStore)
		wantStatus    int
		checkResponse func(*testing.T, map[string]any)
	}{
		{
			name:  "ready run includes results",
			runID: validRunID.String(),
			setup: func(s *store.MockStore) {
				s.On("GetRun", mock.Anything, validRunID).
					Return(store.Run{ID: validRunID, Source: "doc.txt", Questions: 2, Status: store.StatusReady, CreatedAt: created}, nil).Once()
				s.On("GetResults", mock.Anything, validRunID).
					Return(qa.Results{
						Questions:          []string{"Q?"},
						Answers:            []qa.QAResult{{Question: "Q?", Answer: "A."}},
						AnswerEvaluation:   "9/10",
						QuestionEvaluation: "8/10",
					}, nil).Once()
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, result map[string]any) {
				if result["answer_evaluation"] != "9/10" || result["question_evaluation"] != "8/10" {
					t.Errorf("Expected evaluations in response, got %v", result)
				}
				answers, ok := result["answers"].([]any)
				if !ok || len(answers) != 1 {
					t.Errorf("Expected 1 answer, got %v", result["answers"])
				}
			},
		},
		{
			name:  "processing run has no results",
			runID: validRunID.String(),
			setup: func(s *store.MockStore) {
				s.On("GetRun", mock.Anything, validRunID).
					Return(store.Run{ID: validRunID, Status: store.StatusProcessing}, nil).Once()
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, result map[string]any) {
				if _, ok := result["answers"]; ok {
					t.Error("Expected no answers for a processing run")
				}
			},
		},
		{
			name:       "invalid UUID",
			runID:      "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "run not found",
			runID: validRunID.String(),
			setup: func(s *store.MockStore) {
				s.On("GetRun", mock.Anything, validRunID).Return(store.Run{}, store.ErrRunNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "store error",
			runID: validRunID.String(),
			setup: func(s *store.MockStore) {
				s.On("GetRun", mock.Anything, validRunID).Return(store.Run{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(store.MockStore)
			if tt.setup != nil {
				tt.setup(mockStore)
			}

			handler := getRunHandler(newTestDeps(mockStore, new(queue.MockQueue)))

			req := httptest.NewRequest(http.MethodGet, "/api/runs/"+tt.runID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.runID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.checkResponse != nil {
				var result map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, result)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func createMultipartRequest(filename, contentType string, content []byte, questions string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if questions != "" {
		if err := writer.WriteField("questions", questions); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, "/api/runs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
