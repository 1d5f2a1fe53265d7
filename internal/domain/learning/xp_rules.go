package learning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultTaskXP           = 10
	DefaultLessonCompleteXP = 50
)

// XPRules holds the fixed XP amounts granted by the progress recorder.
type XPRules struct {
	TaskXP           int
	LessonCompleteXP int
	// StreakMilestones maps a streak length to the bonus granted when the streak reaches it.
	StreakMilestones map[int]int
}

func DefaultXPRules() XPRules {
	return XPRules{
		TaskXP:           DefaultTaskXP,
		LessonCompleteXP: DefaultLessonCompleteXP,
		StreakMilestones: map[int]int{3: 15, 7: 50, 14: 100, 30: 250},
	}
}

// MilestoneBonus returns the bonus for reaching streak, if streak is a milestone.
func (r XPRules) MilestoneBonus(streak int) (int, bool) {
	if r.StreakMilestones == nil {
		return 0, false
	}
	bonus, ok := r.StreakMilestones[streak]
	if !ok || bonus <= 0 {
		return 0, false
	}
	return bonus, true
}

// Milestones returns the configured milestone lengths in ascending order.
func (r XPRules) Milestones() []int {
	out := make([]int, 0, len(r.StreakMilestones))
	for k := range r.StreakMilestones {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// ParseStreakMilestones parses "3:15,7:50" into a milestone table.
func ParseStreakMilestones(raw string) (map[int]int, error) {
	out := map[int]int{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		days, bonus, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("streak milestone %q: expected days:bonus", part)
		}
		d, err := strconv.Atoi(strings.TrimSpace(days))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("streak milestone %q: invalid day count", part)
		}
		b, err := strconv.Atoi(strings.TrimSpace(bonus))
		if err != nil || b < 0 {
			return nil, fmt.Errorf("streak milestone %q: invalid bonus", part)
		}
		out[d] = b
	}
	return out, nil
}
