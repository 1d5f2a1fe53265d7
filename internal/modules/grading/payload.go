package grading

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pair is one left/right association of a matching task.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ValidationData is the answer key for every task type; each strategy reads its own fields.
type ValidationData struct {
	Options       []string `json:"options,omitempty"`
	CorrectIndex  *int     `json:"correctIndex,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Alternatives  []string `json:"alternatives,omitempty"`
	CaseSensitive *bool    `json:"caseSensitive,omitempty"`
	Tokens        []string `json:"tokens,omitempty"`
	Expected      []string `json:"expected,omitempty"`
	Target        string   `json:"target,omitempty"`
	Pairs         []Pair   `json:"pairs,omitempty"`
	Back          string   `json:"back,omitempty"`
}

func (v ValidationData) caseSensitive() bool {
	return v.CaseSensitive != nil && *v.CaseSensitive
}

// withoutBlankText drops empty accepted-text entries so they never count as answers.
func (v ValidationData) withoutBlankText() ValidationData {
	v.Alternatives = nonBlank(v.Alternatives)
	v.Expected = nonBlank(v.Expected)
	return v
}

func nonBlank(list []string) []string {
	var out []string
	for _, s := range list {
		if normalizeText(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// PublicData is the client-visible task payload.
type PublicData map[string]any

func parsePublic(raw []byte) PublicData {
	out := PublicData{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

// Explanation is the optional authored explanation surfaced with every verdict.
func (p PublicData) Explanation() string {
	return p.str("explanation")
}

func (p PublicData) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (p PublicData) str(keys ...string) string {
	v, ok := p.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func (p PublicData) boolean(keys ...string) (bool, bool) {
	v, ok := p.lookup(keys...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

func (p PublicData) integer(keys ...string) (*int, bool) {
	v, ok := p.lookup(keys...)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return nil, false
		}
		i := int(t)
		return &i, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, false
		}
		return &i, true
	default:
		return nil, false
	}
}

// list accepts a list of strings, a list of {text|value|label} objects, or a single string.
func (p PublicData) list(keys ...string) []string {
	v, ok := p.lookup(keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			switch e := x.(type) {
			case string:
				out = append(out, e)
			case map[string]any:
				out = append(out, PublicData(e).str("text", "value", "label"))
			case nil:
			default:
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	default:
		return nil
	}
}

func (p PublicData) pairs(keys ...string) []Pair {
	v, ok := p.lookup(keys...)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Pair, 0, len(list))
	for _, x := range list {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		pm := PublicData(m)
		l, r := pm.str("left"), pm.str("right")
		if l == "" || r == "" {
			continue
		}
		out = append(out, Pair{Left: l, Right: r})
	}
	return out
}

// normalizeText trims and collapses inner whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textEqual(a, b string, caseSensitive bool) bool {
	a, b = normalizeText(a), normalizeText(b)
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func containsText(list []string, s string, caseSensitive bool) bool {
	for _, x := range list {
		if textEqual(x, s, caseSensitive) {
			return true
		}
	}
	return false
}
