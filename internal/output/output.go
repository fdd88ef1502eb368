// Package output persists pipeline results as plain text files.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doc-qa/internal/qa"
)

// DirLayout is the time layout of result directory names.
const DirLayout = "2006-01-02_15-04-05"

const (
	QuestionsFile  = "questions.txt"
	AnswersFile    = "ai_answers.txt"
	EvaluationFile = "ai_evaluation.txt"
)

// Write creates baseDir/<timestamp> and writes the three result files into
// it, returning the directory path.
func Write(baseDir string, now time.Time, res qa.Results) (string, error) {
	dir := filepath.Join(baseDir, now.Format(DirLayout))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		QuestionsFile:  FormatQuestions(res.Questions),
		AnswersFile:    FormatAnswers(res.Answers),
		EvaluationFile: FormatEvaluation(res),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}
	return dir, nil
}

// FormatQuestions separates question blocks with blank lines.
func FormatQuestions(blocks []string) string {
	return strings.Join(blocks, "\n\n") + "\n"
}

// FormatAnswers renders each pair as the question block followed by its answer.
func FormatAnswers(pairs []qa.QAResult) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.Question)
		b.WriteString("\n\n")
		b.WriteString(p.Answer)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatEvaluation holds the answer evaluation followed by the question evaluation.
func FormatEvaluation(res qa.Results) string {
	return res.AnswerEvaluation + "\n\n" + res.QuestionEvaluation + "\n"
}
