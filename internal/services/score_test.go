package services

import (
	"errors"
	"fmt"
	"testing"
)

func bankOf(n int) *QuestionBank {
	b := &QuestionBank{Kind: AnswerScored, Blocks: []Block{{ID: "b1", Title: "Bloc"}}}
	for i := 1; i <= n; i++ {
		b.Blocks[0].Questions = append(b.Blocks[0].Questions, ScoredQuestion(fmt.Sprintf("q%d", i), "Question", "Non", "En partie", "Oui"))
	}
	return b
}

var testLevels = LevelTable{Basis: BasisPercentage, Bands: []Band{
	{Min: 0, Label: "Fragile"},
	{Min: 40, Label: "Intermédiaire"},
	{Min: 60, Label: "Solide"},
	{Min: 80, Label: "Avancé"},
}}

func answerAll(b *QuestionBank, v int) Answers {
	a := Answers{}
	for _, q := range b.Questions() {
		a[q.ID] = v
	}
	return a
}

func TestScoreAllTop(t *testing.T) {
	b := bankOf(24)
	r, err := Score(b, testLevels, answerAll(b, 2))
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if r.TotalScore != 48 || r.MaxScore != 48 || r.Percentage != 100 || r.Level != "Avancé" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestScoreAllZero(t *testing.T) {
	b := bankOf(24)
	r, err := Score(b, testLevels, answerAll(b, 0))
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if r.TotalScore != 0 || r.Percentage != 0 || r.Level != "Fragile" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestScoreBoundsForEveryUniformAnswer(t *testing.T) {
	b := bankOf(7)
	for v := 0; v <= 2; v++ {
		r, err := Score(b, testLevels, answerAll(b, v))
		if err != nil {
			t.Fatalf("Score error: %v", err)
		}
		if r.TotalScore < 0 || r.TotalScore > r.MaxScore || r.Percentage < 0 || r.Percentage > 100 {
			t.Fatalf("out of bounds for %d: %+v", v, r)
		}
	}
}

func TestScoreIgnoresUnknownAndClamps(t *testing.T) {
	b := bankOf(2)
	r, err := Score(b, testLevels, Answers{"q1": 9, "q2": -3, "zz": 2})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if r.TotalScore != 2 {
		t.Fatalf("total = %d, want 2", r.TotalScore)
	}
}

func TestScorePartialAndComplete(t *testing.T) {
	b := bankOf(3)
	a := Answers{"q1": 2}
	if Complete(b, a) {
		t.Fatalf("partial answers reported complete")
	}
	r, err := Score(b, testLevels, a)
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if r.TotalScore != 2 || r.Percentage != 33 {
		t.Fatalf("partial result %+v", r)
	}
	a["q2"], a["q3"] = 0, 1
	if !Complete(b, a) {
		t.Fatalf("full answers reported incomplete")
	}
}

func TestScoreEmptyBank(t *testing.T) {
	_, err := Score(&QuestionBank{Kind: AnswerScored}, testLevels, Answers{})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}

func TestPercentageRounding(t *testing.T) {
	cases := []struct{ total, max, want int }{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{30, 48, 63},
		{0, 0, 0},
		{60, 48, 100},
	}
	for _, c := range cases {
		if got := Percentage(c.total, c.max); got != c.want {
			t.Fatalf("Percentage(%d,%d)=%d, want %d", c.total, c.max, got, c.want)
		}
	}
}
