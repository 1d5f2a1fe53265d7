package grading

type gapStrategy struct{}

func (gapStrategy) Derive(p PublicData) ValidationData {
	v := ValidationData{
		Answer:       p.str("answer", "correctAnswer", "correct_answer"),
		Alternatives: p.list("alternatives", "acceptable"),
	}
	if cs, ok := p.boolean("caseSensitive", "case_sensitive"); ok {
		v.CaseSensitive = &cs
	}
	return v
}

func (gapStrategy) Missing(v ValidationData) string {
	if normalizeText(v.Answer) == "" {
		return "answer is required"
	}
	return ""
}

func (gapStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	cs := v.caseSensitive()
	ok := textEqual(answer, v.Answer, cs) || containsText(v.Alternatives, answer, cs)
	res := verdict(ok)
	res.CorrectAnswer = v.Answer
	return res
}

type translateStrategy struct{}

func (translateStrategy) Derive(p PublicData) ValidationData {
	expected := p.list("expected", "translations")
	if len(expected) == 0 {
		expected = p.list("answer")
	}
	return ValidationData{Expected: expected}
}

func (translateStrategy) Missing(v ValidationData) string {
	for _, e := range v.Expected {
		if normalizeText(e) != "" {
			return ""
		}
	}
	return "expected translations are required"
}

func (translateStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	res := verdict(containsText(v.Expected, answer, false))
	res.CorrectAnswer = v.Expected[0]
	return res
}

// listeningStrategy compares against the target transcript. Speech recognition happens
// upstream; the answer arrives as text.
type listeningStrategy struct{}

func (listeningStrategy) Derive(p PublicData) ValidationData {
	return ValidationData{Target: p.str("target", "transcript", "text")}
}

func (listeningStrategy) Missing(v ValidationData) string {
	if normalizeText(v.Target) == "" {
		return "target transcript is required"
	}
	return ""
}

func (listeningStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	res := verdict(textEqual(answer, v.Target, false))
	res.CorrectAnswer = v.Target
	return res
}

type flashcardStrategy struct{}

func (flashcardStrategy) Derive(p PublicData) ValidationData {
	return ValidationData{Back: p.str("back"), Expected: p.list("expected")}
}

func (flashcardStrategy) Missing(v ValidationData) string {
	if normalizeText(v.Back) == "" && len(nonBlank(v.Expected)) == 0 {
		return "back or expected is required"
	}
	return ""
}

func (flashcardStrategy) Validate(answer string, v ValidationData, _ PublicData) Result {
	ok := (normalizeText(v.Back) != "" && textEqual(answer, v.Back, false)) || containsText(v.Expected, answer, false)
	res := verdict(ok)
	res.CorrectAnswer = v.Back
	if res.CorrectAnswer == "" && len(v.Expected) > 0 {
		res.CorrectAnswer = v.Expected[0]
	}
	return res
}
