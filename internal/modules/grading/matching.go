package grading

import (
	"encoding/json"
	"fmt"
	"strings"
)

type matchingStrategy struct{}

func (matchingStrategy) Derive(p PublicData) ValidationData {
	return ValidationData{Pairs: p.pairs("pairs")}
}

func (matchingStrategy) Missing(v ValidationData) string {
	if len(v.Pairs) == 0 {
		return "pairs are required"
	}
	return ""
}

// Validate scores the share of canonical pairs present in the answer. Repeating a pair
// does not count it twice.
func (matchingStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	var got []Pair
	if err := json.Unmarshal([]byte(strings.TrimSpace(answer)), &got); err != nil {
		return invalidFormat()
	}
	canonical := make(map[string]struct{}, len(v.Pairs))
	for _, p := range v.Pairs {
		canonical[pairKey(p)] = struct{}{}
	}
	matched := make(map[string]struct{}, len(got))
	for _, p := range got {
		k := pairKey(p)
		if _, ok := canonical[k]; ok {
			matched[k] = struct{}{}
		}
	}
	score := float64(len(matched)) / float64(len(canonical))
	return Result{
		IsCorrect: len(matched) == len(canonical),
		Score:     score,
		Feedback:  fmt.Sprintf("%d of %d pairs correct", len(matched), len(canonical)),
	}
}

func pairKey(p Pair) string {
	return strings.TrimSpace(p.Left) + "\x00" + strings.TrimSpace(p.Right)
}
