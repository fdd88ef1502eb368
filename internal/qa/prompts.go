package qa

import (
	"strconv"
	"strings"
)

// Personas are the default prompts each phase runs under.
type Personas struct {
	Questions          string
	Answers            string
	AnswerEvaluation   string
	QuestionEvaluation string
}

// DefaultPersonas returns the built-in phase personas.
func DefaultPersonas() Personas {
	return Personas{
		Questions: "User provides data to the assistant. " +
			"The assistant will generate questions based on the data.",
		Answers: "User provides questions to the assistant. " +
			"The assistant will answer each question as accurately and completely as possible.",
		AnswerEvaluation: "User provides questions with answers to the assistant. " +
			"The assistant will evaluate how correct and complete each answer is.",
		QuestionEvaluation: "User provides an evaluation of answers to the assistant. " +
			"The assistant will evaluate the quality of the questions that were asked.",
	}
}

const scoringRubric = "Score each answer from 0 to 10, where 0 is completely wrong and 10 is " +
	"fully correct, and explain the reason for each score."

func generateInstruction(chunk string, perChunk int) string {
	return "Generate " + strconv.Itoa(perChunk) + " questions based on the following data: \n" + chunk
}

func answerInstruction(questions string) string {
	return "Answer the following questions: \n" + questions
}

func evaluateAnswersInstruction(pairs []QAResult) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("Questions: \n")
		b.WriteString(p.Question)
		b.WriteString("\nAnswers: \n")
		b.WriteString(p.Answer)
		b.WriteString("\n\n")
	}
	b.WriteString(scoringRubric)
	return b.String()
}

func evaluateQuestionsInstruction(answersEvaluation string) string {
	return "The following is an evaluation of answers to generated questions: \n" +
		answersEvaluation +
		"\n\nScore the quality of each question from 0 to 10, where 0 is useless and 10 is " +
		"clear and relevant to the data, and explain the reason for each score."
}
