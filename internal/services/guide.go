package services

import (
	"fmt"
	"time"
)

// Guide configures the diagnostic attached to one guide page.
type Guide struct {
	Slug string
	Name string
	Bank *QuestionBank
	// Levels drives the tier shown to the visitor.
	Levels LevelTable
	// Recommendations is a percentage table only used when annotating the lead.
	Recommendations LevelTable
	StorageKey      string
	// Freshness bounds the age of a stored result; zero disables expiry.
	Freshness    time.Duration
	RequiresForm bool
}

func (g *Guide) Validate() error {
	if g == nil || g.Slug == "" {
		return fmt.Errorf("%w: guide without slug", ErrInvalidConfiguration)
	}
	if g.StorageKey == "" {
		return fmt.Errorf("%w: guide %q has no storage key", ErrInvalidConfiguration, g.Slug)
	}
	if err := g.Bank.Validate(); err != nil {
		return fmt.Errorf("guide %q: %w", g.Slug, err)
	}
	if err := g.Levels.Validate(g.Bank.MaxScore()); err != nil {
		return fmt.Errorf("guide %q levels: %w", g.Slug, err)
	}
	if g.RequiresForm {
		if g.Recommendations.Basis != BasisPercentage {
			return fmt.Errorf("%w: guide %q recommendations must use percentages", ErrInvalidConfiguration, g.Slug)
		}
		if err := g.Recommendations.Validate(g.Bank.MaxScore()); err != nil {
			return fmt.Errorf("guide %q recommendations: %w", g.Slug, err)
		}
	}
	return nil
}
