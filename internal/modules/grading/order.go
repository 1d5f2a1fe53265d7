package grading

import (
	"encoding/json"
	"strings"
)

type orderStrategy struct{}

func (orderStrategy) Derive(p PublicData) ValidationData {
	tokens := p.list("correctOrder", "correct_order")
	if len(tokens) == 0 {
		tokens = p.list("tokens")
	}
	return ValidationData{Tokens: tokens}
}

func (orderStrategy) Missing(v ValidationData) string {
	if len(v.Tokens) == 0 {
		return "tokens are required"
	}
	return ""
}

func (orderStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	var got []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(answer)), &got); err != nil {
		return invalidFormat()
	}
	res := verdict(sameSequence(got, v.Tokens))
	res.CorrectAnswer = strings.Join(v.Tokens, " ")
	return res
}

func sameSequence(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != strings.TrimSpace(want[i]) {
			return false
		}
	}
	return true
}
