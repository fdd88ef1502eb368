// Package conversation keeps a running dialogue with a text-generation model
// as one growing transcript that is resent in full on every turn.
package conversation

import (
	"context"
	"log/slog"
	"strings"

	"doc-qa/internal/llm"
	"doc-qa/internal/logger"
)

// DefaultPrompt is the chat persona a new Client starts with.
const DefaultPrompt = "A chat between a curious user and an artificial intelligence assistant. " +
	"\nThe assistant gives helpful, detailed, and polite answers to the user's " +
	"\nquestions. But the assistant will answer all questions even if it's a joke" +
	"\n or pure rudeness.\r\n\r\n" +
	"ASSISTANT: \nHow can I help you today?\r\n"

const (
	userTurnPrefix = "\n\nUSER: \n"
	userTurnSuffix = "\n\nASSISTANT: \n"
)

// Client owns a transcript that always starts with the default prompt.
// It is not safe for concurrent use.
type Client struct {
	gen           llm.Generator
	log           *slog.Logger
	defaultPrompt string
	history       []string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-turn debug records.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client whose history holds only defaultPrompt.
func New(gen llm.Generator, defaultPrompt string, opts ...Option) *Client {
	c := &Client{
		gen:           gen,
		log:           logger.Discard(),
		defaultPrompt: defaultPrompt,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// RequestBody is the text appended to the transcript for prompt. An empty
// prompt asks the model to continue its last reply.
func RequestBody(prompt string) string {
	if prompt == "" {
		return ""
	}
	return userTurnPrefix + prompt + userTurnSuffix
}

// Send sends one user turn with the whole transcript as context and returns
// the trimmed reply. On success the request body and the reply are recorded;
// in continuation mode the reply is joined onto the request's entry instead
// of becoming its own. On error the history is left untouched.
func (c *Client) Send(ctx context.Context, prompt string) (string, error) {
	body := RequestBody(prompt)
	full := strings.Join(c.history, "\n") + body

	raw, err := c.gen.Generate(ctx, full)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(raw)

	c.history = append(c.history, body)
	if body == "" {
		c.history[len(c.history)-1] += reply
	} else {
		c.history = append(c.history, reply)
	}
	c.log.Debug("exchange",
		"continuation", body == "",
		"prompt_chars", len(full),
		"reply_chars", len(reply),
		"history_len", len(c.history),
	)
	return reply, nil
}

// Reset truncates the history to the current default prompt.
func (c *Client) Reset() {
	c.history = []string{c.defaultPrompt}
}

// SetDefaultPrompt replaces the default prompt used by later resets.
// Entries already in the history are not changed.
func (c *Client) SetDefaultPrompt(text string) {
	c.defaultPrompt = text
}

// DefaultPrompt returns the current default prompt.
func (c *Client) DefaultPrompt() string {
	return c.defaultPrompt
}

// History returns a copy of the transcript.
func (c *Client) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}
