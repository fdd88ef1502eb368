package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"doc-qa/internal/app"
	"doc-qa/internal/config"
	"doc-qa/internal/conversation"
)

const exitCommand = "exit"

// lineReader is the part of *liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// historyReader records every non-empty line in liner's history.
type historyReader struct {
	*liner.State
}

func (h historyReader) Prompt(prompt string) (string, error) {
	line, err := h.State.Prompt(prompt)
	if err == nil && line != "" {
		h.AppendHistory(line)
	}
	return line, err
}

func main() {
	var host string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a local text-generation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.Build(func(cfg *config.Config) {
				if host != "" {
					cfg.LLMHost = host
				}
			})
			if err != nil {
				return err
			}

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			client := deps.NewConversation(conversation.DefaultPrompt)
			return runChat(cmd.Context(), client, historyReader{line}, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "generation server host:port (overrides LLM_HOST)")
	cmd.SilenceUsage = true

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Default().Error("chat failed", "err", err)
		os.Exit(1)
	}
}

// runChat prints the default prompt, then sends every line read from in
// until the user sends "exit" or input ends. An empty line asks the model to
// continue its last reply.
func runChat(ctx context.Context, client *conversation.Client, in lineReader, out io.Writer) error {
	fmt.Fprintln(out, client.DefaultPrompt())
	for {
		message, err := in.Prompt("USER: ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}

		text, err := client.Send(ctx, message)
		if err != nil {
			return err
		}
		if message == "" {
			fmt.Fprintln(out, text)
		} else {
			fmt.Fprintln(out, "ASSISTANT: "+text)
		}

		if message == exitCommand {
			return nil
		}
	}
}
