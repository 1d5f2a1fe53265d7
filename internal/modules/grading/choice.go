package grading

import (
	"strconv"
	"strings"
)

type choiceStrategy struct{}

func (choiceStrategy) Derive(p PublicData) ValidationData {
	v := ValidationData{Options: p.list("options", "choices")}
	if idx, ok := p.integer("correctIndex", "correct_index", "answerIndex", "answer_index"); ok {
		v.CorrectIndex = idx
	}
	return v
}

func (choiceStrategy) Missing(v ValidationData) string {
	if v.CorrectIndex == nil {
		return "correctIndex is required"
	}
	if *v.CorrectIndex < 0 || (len(v.Options) > 0 && *v.CorrectIndex >= len(v.Options)) {
		return "correctIndex out of range"
	}
	return ""
}

func (choiceStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	if v.CorrectIndex == nil {
		return verdict(false)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return invalidFormat()
	}
	res := verdict(idx == *v.CorrectIndex)
	if *v.CorrectIndex < len(v.Options) {
		res.CorrectAnswer = v.Options[*v.CorrectIndex]
	}
	return res
}
