// Package qa turns a document into generated questions, answers and
// evaluations by driving a conversation.Client through isolated phases.
package qa

import (
	"context"
	"fmt"
	"log/slog"

	"doc-qa/internal/chunker"
	"doc-qa/internal/conversation"
	"doc-qa/internal/document"
	"doc-qa/internal/llm"
	"doc-qa/internal/logger"
)

// QuestionChunkSize is the chunk length, in characters, used for question generation.
const QuestionChunkSize = 1500

// QAResult pairs a generated question block with the reply answering it.
type QAResult struct {
	Question string
	Answer   string
}

// Results holds everything one pipeline run produces.
type Results struct {
	Questions          []string
	Answers            []QAResult
	AnswerEvaluation   string
	QuestionEvaluation string
}

// QuestionAnswer orchestrates the phases over one loaded document. It does
// not own the client; callers must not Send on it concurrently.
type QuestionAnswer struct {
	client   *conversation.Client
	personas Personas
	log      *slog.Logger
	text     string
}

// Option configures a QuestionAnswer.
type Option func(*QuestionAnswer)

// WithPersonas overrides the phase personas.
func WithPersonas(p Personas) Option {
	return func(q *QuestionAnswer) { q.personas = p }
}

// WithLogger sets the logger for phase progress.
func WithLogger(log *slog.Logger) Option {
	return func(q *QuestionAnswer) { q.log = log }
}

// New switches client to the question persona and resets it.
func New(client *conversation.Client, opts ...Option) *QuestionAnswer {
	q := &QuestionAnswer{
		client:   client,
		personas: DefaultPersonas(),
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.usePersona(q.personas.Questions)
	return q
}

// usePersona is the single place a phase changes the client's context.
func (q *QuestionAnswer) usePersona(persona string) {
	q.client.SetDefaultPrompt(persona)
	q.client.Reset()
}

// LoadTextData reads the document at path, flattened to a single line.
func (q *QuestionAnswer) LoadTextData(path string) error {
	text, err := document.Load(path)
	if err != nil {
		return err
	}
	q.SetText(text)
	return nil
}

// SetText replaces the loaded document text.
func (q *QuestionAnswer) SetText(text string) {
	q.text = text
}

// Text returns the loaded document text.
func (q *QuestionAnswer) Text() string {
	return q.text
}

// SplitBySize splits text into chunks of at most size characters.
func (q *QuestionAnswer) SplitBySize(text string, size int) ([]chunker.Chunk, error) {
	return chunker.SplitBySize(text, size)
}

// SplitByCount splits text into roughly count chunks, none longer than the
// model's context-length cap.
func (q *QuestionAnswer) SplitByCount(text string, count int) ([]chunker.Chunk, error) {
	return chunker.SplitByCount(text, count, llm.DefaultMaxContextLength)
}

// QuestionsPerChunk is n spread over chunks, never below one.
func QuestionsPerChunk(n, chunks int) int {
	if chunks <= 0 {
		return 0
	}
	per := n / chunks
	if per < 1 {
		per = 1
	}
	return per
}

// GenerateQuestions asks for questions over the first min(chunks, n)
// QuestionChunkSize-character chunks of the loaded text, each under a fresh
// transcript. Every reply is kept as one opaque block.
func (q *QuestionAnswer) GenerateQuestions(ctx context.Context, n int) ([]string, error) {
	chunks, err := q.SplitBySize(q.text, QuestionChunkSize)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		q.log.Warn("no text loaded; skipping question generation")
		return nil, nil
	}
	perChunk := QuestionsPerChunk(n, len(chunks))
	limit := min(len(chunks), n)

	q.usePersona(q.personas.Questions)
	blocks := make([]string, 0, max(limit, 0))
	for _, c := range chunks[:max(limit, 0)] {
		q.client.Reset()
		reply, err := q.client.Send(ctx, generateInstruction(c.Text, perChunk))
		if err != nil {
			return nil, fmt.Errorf("generate questions for chunk %d: %w", c.Index, err)
		}
		q.log.Info("questions generated", "chunk", c.Index, "of", limit, "per_chunk", perChunk)
		blocks = append(blocks, reply)
	}
	return blocks, nil
}

// AnswerQuestions answers every block under its own fresh transcript and
// returns the pairs in input order.
func (q *QuestionAnswer) AnswerQuestions(ctx context.Context, blocks []string) ([]QAResult, error) {
	q.usePersona(q.personas.Answers)
	out := make([]QAResult, 0, len(blocks))
	for i, block := range blocks {
		q.client.Reset()
		answer, err := q.client.Send(ctx, answerInstruction(block))
		if err != nil {
			return nil, fmt.Errorf("answer question block %d: %w", i, err)
		}
		q.log.Info("questions answered", "block", i, "of", len(blocks))
		out = append(out, QAResult{Question: block, Answer: answer})
	}
	return out, nil
}

// EvaluateAnswers scores all pairs in a single request.
func (q *QuestionAnswer) EvaluateAnswers(ctx context.Context, pairs []QAResult) (string, error) {
	q.usePersona(q.personas.AnswerEvaluation)
	reply, err := q.client.Send(ctx, evaluateAnswersInstruction(pairs))
	if err != nil {
		return "", fmt.Errorf("evaluate answers: %w", err)
	}
	q.log.Info("answers evaluated", "pairs", len(pairs))
	return reply, nil
}

// EvaluateQuestions scores the questions, using the answer evaluation as context.
func (q *QuestionAnswer) EvaluateQuestions(ctx context.Context, answersEvaluation string) (string, error) {
	q.usePersona(q.personas.QuestionEvaluation)
	reply, err := q.client.Send(ctx, evaluateQuestionsInstruction(answersEvaluation))
	if err != nil {
		return "", fmt.Errorf("evaluate questions: %w", err)
	}
	q.log.Info("questions evaluated")
	return reply, nil
}

// Run executes every phase in order over the loaded text. The first failure
// aborts the run and no partial results are returned.
func (q *QuestionAnswer) Run(ctx context.Context, n int) (Results, error) {
	questions, err := q.GenerateQuestions(ctx, n)
	if err != nil {
		return Results{}, err
	}
	if len(questions) == 0 {
		q.log.Info("no questions generated; skipping answers and evaluation")
		return Results{}, nil
	}
	answers, err := q.AnswerQuestions(ctx, questions)
	if err != nil {
		return Results{}, err
	}
	answerEval, err := q.EvaluateAnswers(ctx, answers)
	if err != nil {
		return Results{}, err
	}
	questionEval, err := q.EvaluateQuestions(ctx, answerEval)
	if err != nil {
		return Results{}, err
	}
	return Results{
		Questions:          questions,
		Answers:            answers,
		AnswerEvaluation:   answerEval,
		QuestionEvaluation: questionEval,
	}, nil
}
