package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"doc-qa/internal/app"
	"doc-qa/internal/config"
	"doc-qa/internal/conversation"
	"doc-qa/internal/output"
	"doc-qa/internal/qa"
)

func main() {
	var (
		input     string
		questions int
		outDir    string
	)
	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Generate, answer and evaluate questions about a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.Build(func(cfg *config.Config) {
				if cmd.Flags().Changed("input") {
					cfg.InputPath = input
				}
				if cmd.Flags().Changed("questions") {
					cfg.QuestionCount = questions
				}
				if cmd.Flags().Changed("out") {
					cfg.OutputDir = outDir
				}
			})
			if err != nil {
				return err
			}
			dir, err := runPipeline(cmd.Context(), deps, time.Now())
			if err != nil {
				return err
			}
			deps.Log.Info("results written", "dir", dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "document to process, .txt or .pdf (default INPUT_PATH)")
	cmd.Flags().IntVarP(&questions, "questions", "n", 0, "number of questions to generate (default QUESTION_COUNT)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for the timestamped result folder (default OUTPUT_DIR)")
	cmd.SilenceUsage = true

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Default().Error("qa failed", "err", err)
		os.Exit(1)
	}
}

// runPipeline loads the configured document, runs every phase and writes the
// result files into a directory named after now.
func runPipeline(ctx context.Context, deps app.Deps, now time.Time) (string, error) {
	cfg := deps.Config
	orchestrator := qa.New(deps.NewConversation(conversation.DefaultPrompt), qa.WithLogger(deps.Log))
	if err := orchestrator.LoadTextData(cfg.InputPath); err != nil {
		return "", err
	}
	deps.Log.Info("document loaded", "path", cfg.InputPath, "chars", len([]rune(orchestrator.Text())), "questions", cfg.QuestionCount)

	res, err := orchestrator.Run(ctx, cfg.QuestionCount)
	if err != nil {
		return "", err
	}
	return output.Write(cfg.OutputDir, now, res)
}
