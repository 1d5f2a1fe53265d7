// Package grading scores a learner's answer against a task's server-only validation data.
package grading

import "strings"

type TaskType string

const (
	TypeChoice         TaskType = "choice"
	TypeMultipleChoice TaskType = "multiple_choice"
	TypeGap            TaskType = "gap"
	TypeOrder          TaskType = "order"
	TypeTranslate      TaskType = "translate"
	TypeListening      TaskType = "listening"
	TypeSpeak          TaskType = "speak"
	TypeMatching       TaskType = "matching"
	TypeFlashcard      TaskType = "flashcard"
)

var aliases = map[string]TaskType{
	"listen": TypeListening,
	"match":  TypeMatching,
}

// Canonical lower-cases raw and resolves aliases. It does not check the type is known.
func Canonical(raw string) TaskType {
	t := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := aliases[t]; ok {
		return c
	}
	return TaskType(t)
}

// Result is the only thing ever returned to a client about correctness.
type Result struct {
	IsCorrect     bool    `json:"is_correct"`
	Score         float64 `json:"score"`
	CorrectAnswer string  `json:"correct_answer,omitempty"`
	Feedback      string  `json:"feedback,omitempty"`
	Explanation   string  `json:"explanation,omitempty"`
}

const feedbackInvalidFormat = "invalid format"

func invalidFormat() Result {
	return Result{IsCorrect: false, Score: 0, Feedback: feedbackInvalidFormat}
}

func verdict(ok bool) Result {
	if ok {
		return Result{IsCorrect: true, Score: 1}
	}
	return Result{IsCorrect: false, Score: 0}
}
