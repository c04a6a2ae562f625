package services

import "fmt"

// AnswerKind tags how the options of a bank are scored.
type AnswerKind string

const (
	// AnswerScored questions offer graded options worth 0, 1 or 2 points.
	AnswerScored AnswerKind = "scored"
	// AnswerBoolean questions are checklist items worth 0 (no) or 1 (yes).
	AnswerBoolean AnswerKind = "boolean"
)

type Option struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// MaxPoints returns the best value any option of q is worth.
func (q Question) MaxPoints() int {
	best := 0
	for _, o := range q.Options {
		if o.Points > best {
			best = o.Points
		}
	}
	return best
}

// Offers reports whether points is the value of one of the options.
func (q Question) Offers(points int) bool {
	for _, o := range q.Options {
		if o.Points == points {
			return true
		}
	}
	return false
}

// LabelFor resolves the label of the option worth points.
func (q Question) LabelFor(points int) (string, bool) {
	for _, o := range q.Options {
		if o.Points == points {
			return o.Label, true
		}
	}
	return "", false
}

// Block groups questions under a chapter title for display.
type Block struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// QuestionBank is the ordered, immutable question set of one guide.
type QuestionBank struct {
	Kind   AnswerKind `json:"kind"`
	Blocks []Block    `json:"blocks"`
}

// Questions flattens the blocks in display order.
func (b *QuestionBank) Questions() []Question {
	if b == nil {
		return nil
	}
	var out []Question
	for _, bl := range b.Blocks {
		out = append(out, bl.Questions...)
	}
	return out
}

// Question looks up a question by id.
func (b *QuestionBank) Question(id string) (Question, bool) {
	if b == nil {
		return Question{}, false
	}
	for _, bl := range b.Blocks {
		for _, q := range bl.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Len is the number of questions across all blocks.
func (b *QuestionBank) Len() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, bl := range b.Blocks {
		n += len(bl.Questions)
	}
	return n
}

// MaxScore sums the best option of every question.
func (b *QuestionBank) MaxScore() int {
	total := 0
	for _, q := range b.Questions() {
		total += q.MaxPoints()
	}
	return total
}

// Validate checks the structural invariants of the bank.
func (b *QuestionBank) Validate() error {
	if b == nil || b.Len() == 0 {
		return fmt.Errorf("%w: empty question bank", ErrInvalidConfiguration)
	}
	limit := 2
	switch b.Kind {
	case AnswerScored:
	case AnswerBoolean:
		limit = 1
	default:
		return fmt.Errorf("%w: unknown answer kind %q", ErrInvalidConfiguration, b.Kind)
	}
	seen := map[string]struct{}{}
	for _, q := range b.Questions() {
		if q.ID == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidConfiguration)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidConfiguration, q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q has no options", ErrInvalidConfiguration, q.ID)
		}
		for _, o := range q.Options {
			if o.Points < 0 || o.Points > limit {
				return fmt.Errorf("%w: question %q option %q worth %d points", ErrInvalidConfiguration, q.ID, o.Label, o.Points)
			}
		}
	}
	if b.MaxScore() == 0 {
		return fmt.Errorf("%w: bank cannot score above zero", ErrInvalidConfiguration)
	}
	return nil
}

// ScoredQuestion builds a graded question from its three option labels, worst first.
func ScoredQuestion(id, text string, low, mid, high string) Question {
	return Question{ID: id, Text: text, Options: []Option{
		{Label: low, Points: 0},
		{Label: mid, Points: 1},
		{Label: high, Points: 2},
	}}
}

// CheckItem builds a checklist question answered yes or no.
func CheckItem(id, text string) Question {
	return Question{ID: id, Text: text, Options: []Option{
		{Label: "Non", Points: 0},
		{Label: "Oui", Points: 1},
	}}
}
