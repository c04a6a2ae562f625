package services

import (
	"fmt"
	"math"
	"time"
)

// Answers maps a question id to the points of the selected option.
type Answers map[string]int

// DiagnosticResult is the scored outcome of a completed quiz.
type DiagnosticResult struct {
	TotalScore    int       `json:"totalScore"`
	MaxScore      int       `json:"maxScore"`
	Percentage    int       `json:"percentage"`
	Level         string    `json:"level"`
	DateCompleted time.Time `json:"dateCompleted"`
}

// Complete reports whether every question of bank has an answer.
func Complete(bank *QuestionBank, answers Answers) bool {
	if bank.Len() == 0 {
		return false
	}
	for _, q := range bank.Questions() {
		if _, ok := answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// TotalScore sums the answered points of the bank's questions. Answers to
// unknown ids are ignored and each value is clamped to what its question offers.
func TotalScore(bank *QuestionBank, answers Answers) int {
	total := 0
	for _, q := range bank.Questions() {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		if v < 0 {
			v = 0
		}
		if m := q.MaxPoints(); v > m {
			v = m
		}
		total += v
	}
	return total
}

// Percentage is round(100*total/max) clamped to [0,100].
func Percentage(total, max int) int {
	if max <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(total) / float64(max)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Score computes the result for answers, which may be partial. DateCompleted is
// left zero; the caller stamps it when the quiz is finished.
func Score(bank *QuestionBank, levels LevelTable, answers Answers) (DiagnosticResult, error) {
	max := bank.MaxScore()
	if max == 0 {
		return DiagnosticResult{}, fmt.Errorf("%w: max score is zero", ErrInvalidConfiguration)
	}
	total := TotalScore(bank, answers)
	pct := Percentage(total, max)
	return DiagnosticResult{
		TotalScore: total,
		MaxScore:   max,
		Percentage: pct,
		Level:      levels.Level(levels.Value(total, pct)),
	}, nil
}
