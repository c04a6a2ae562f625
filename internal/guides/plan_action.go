package guides

import "github.com/msl-itech/MSL-Conseil-sub002/internal/services"

// PlanAction2026 prepares the visitor's 2026 finance action plan.
func PlanAction2026() *services.Guide {
	const todo, started, done = "Pas encore", "En cours", "C'est fait"
	return &services.Guide{
		Slug: "plan-action-2026",
		Name: "Plan d'action financier 2026",
		Bank: &services.QuestionBank{Kind: services.AnswerScored, Blocks: []services.Block{
			{ID: "bilan", Title: "Bilan 2025", Questions: []services.Question{
				sq("pa-1", "Avez-vous analysé vos résultats 2025 par activité ?", todo, started, done),
				sq("pa-2", "Avez-vous identifié vos trois principaux postes de coûts ?", todo, started, done),
				sq("pa-3", "Avez-vous mesuré l'écart entre budget et réalisé 2025 ?", todo, started, done),
				sq("pa-4", "Avez-vous revu vos conditions bancaires ?", todo, started, done),
			}},
			{ID: "objectifs", Title: "Objectifs 2026", Questions: []services.Question{
				sq("pa-5", "Vos objectifs de chiffre d'affaires 2026 sont-ils chiffrés ?", todo, started, done),
				sq("pa-6", "Votre budget 2026 est-il validé ?", todo, started, done),
				sq("pa-7", "Vos investissements 2026 sont-ils planifiés ?", todo, started, done),
				sq("pa-8", "Vos recrutements 2026 sont-ils budgétés ?", todo, started, done),
			}},
			{ID: "execution", Title: "Mise en œuvre", Questions: []services.Question{
				sq("pa-9", "Un responsable est-il nommé pour chaque action ?", todo, started, done),
				sq("pa-10", "Un point de suivi mensuel est-il planifié ?", todo, started, done),
				sq("pa-11", "Vos indicateurs de suivi sont-ils définis ?", todo, started, done),
				sq("pa-12", "Votre plan de trésorerie 2026 est-il établi ?", todo, started, done),
			}},
		}},
		Levels: services.LevelTable{Basis: services.BasisPercentage, Bands: []services.Band{
			{Min: 0, Label: "À construire"},
			{Min: 34, Label: "En préparation"},
			{Min: 67, Label: "Prêt pour 2026"},
		}},
		Recommendations: defaultRecommendations,
		StorageKey:      "plan-action-2026-result",
		Freshness:       week,
		RequiresForm:    true,
	}
}
