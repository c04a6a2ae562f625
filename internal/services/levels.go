package services

import (
	"fmt"
	"sort"
	"strings"
)

// LevelBasis selects which number a LevelTable thresholds on.
type LevelBasis string

const (
	BasisPercentage LevelBasis = "percentage"
	BasisRawScore   LevelBasis = "raw_score"
)

// Band assigns Label to every value >= Min up to the next band.
type Band struct {
	Min   int    `json:"min"`
	Label string `json:"label"`
}

// LevelTable maps a score to a qualitative tier.
type LevelTable struct {
	Basis LevelBasis `json:"basis"`
	Bands []Band     `json:"bands"`
}

// sorted returns the bands highest threshold first.
func (t LevelTable) sorted() []Band {
	out := append([]Band(nil), t.Bands...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min > out[j].Min })
	return out
}

// Level returns the label of the first band whose threshold value reaches.
// Values below every threshold fall into the lowest band.
func (t LevelTable) Level(value int) string {
	bands := t.sorted()
	if len(bands) == 0 {
		return ""
	}
	for _, b := range bands {
		if value >= b.Min {
			return b.Label
		}
	}
	return bands[len(bands)-1].Label
}

// Value picks the number the table thresholds on from a computed result.
func (t LevelTable) Value(total, percentage int) int {
	if t.Basis == BasisRawScore {
		return total
	}
	return percentage
}

// Validate checks that the bands cover [0, upper] contiguously. upper is 100 for
// percentage tables and the bank's max score for raw-score tables.
func (t LevelTable) Validate(maxScore int) error {
	upper := 100
	switch t.Basis {
	case BasisPercentage:
	case BasisRawScore:
		upper = maxScore
	default:
		return fmt.Errorf("%w: unknown level basis %q", ErrInvalidConfiguration, t.Basis)
	}
	if len(t.Bands) == 0 {
		return fmt.Errorf("%w: empty level table", ErrInvalidConfiguration)
	}
	seen := map[int]struct{}{}
	lowest := t.Bands[0].Min
	for _, b := range t.Bands {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("%w: band at %d has no label", ErrInvalidConfiguration, b.Min)
		}
		if _, dup := seen[b.Min]; dup {
			return fmt.Errorf("%w: overlapping bands at %d", ErrInvalidConfiguration, b.Min)
		}
		seen[b.Min] = struct{}{}
		if b.Min > upper {
			return fmt.Errorf("%w: band %q starts at %d above %d", ErrInvalidConfiguration, b.Label, b.Min, upper)
		}
		if b.Min < lowest {
			lowest = b.Min
		}
	}
	if lowest != 0 {
		return fmt.Errorf("%w: lowest band starts at %d, not 0", ErrInvalidConfiguration, lowest)
	}
	return nil
}
