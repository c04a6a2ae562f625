// Package guides holds the diagnostic content of each guide page.
package guides

import (
	"fmt"
	"sort"
	"time"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

const week = 7 * 24 * time.Hour

// defaultRecommendations annotates leads; it is not shown to visitors.
var defaultRecommendations = services.LevelTable{Basis: services.BasisPercentage, Bands: []services.Band{
	{Min: 0, Label: "Priorité : reconstruire les fondamentaux (structure comptable, reporting de base)"},
	{Min: 35, Label: "Priorité : fiabiliser les processus et installer des indicateurs mensuels"},
	{Min: 60, Label: "Priorité : consolider le pilotage et automatiser les tâches récurrentes"},
	{Min: 85, Label: "Priorité : passer au pilotage stratégique (prévisionnel, scénarios)"},
}}

// Catalog indexes guides by slug.
type Catalog struct {
	bySlug map[string]*services.Guide
}

// NewCatalog validates every guide.
func NewCatalog(gs ...*services.Guide) (*Catalog, error) {
	c := &Catalog{bySlug: map[string]*services.Guide{}}
	keys := map[string]string{}
	for _, g := range gs {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.bySlug[g.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate guide %q", services.ErrInvalidConfiguration, g.Slug)
		}
		if other, dup := keys[g.StorageKey]; dup {
			return nil, fmt.Errorf("%w: guides %q and %q share storage key", services.ErrInvalidConfiguration, other, g.Slug)
		}
		keys[g.StorageKey] = g.Slug
		c.bySlug[g.Slug] = g
	}
	return c, nil
}

// Default returns the site's guides.
func Default() (*Catalog, error) {
	return NewCatalog(DAFPME(), DiagnosticGestion(), Automatisation(), PlanAction2026(), ControleGestion())
}

// MustDefault panics on a configuration error; used at startup.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(slug string) (*services.Guide, bool) {
	g, ok := c.bySlug[slug]
	return g, ok
}

// List returns the guides ordered by slug.
func (c *Catalog) List() []*services.Guide {
	out := make([]*services.Guide, 0, len(c.bySlug))
	for _, g := range c.bySlug {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
