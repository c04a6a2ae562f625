package guides

import "github.com/msl-itech/MSL-Conseil-sub002/internal/services"

// ControleGestion thresholds on the raw score out of 32.
func ControleGestion() *services.Guide {
	const absent, basic, mastered = "Absent", "Basique", "Maîtrisé"
	return &services.Guide{
		Slug: "controle-gestion",
		Name: "Guide du contrôle de gestion",
		Bank: &services.QuestionBank{Kind: services.AnswerScored, Blocks: []services.Block{
			{ID: "couts", Title: "Calcul des coûts", Questions: []services.Question{
				sq("cg-1", "Comptabilité analytique", absent, basic, mastered),
				sq("cg-2", "Coûts de revient par produit", absent, basic, mastered),
				sq("cg-3", "Répartition des charges indirectes", absent, basic, mastered),
				sq("cg-4", "Suivi des marges par client", absent, basic, mastered),
			}},
			{ID: "budget", Title: "Processus budgétaire", Questions: []services.Question{
				sq("cg-5", "Budget par centre de responsabilité", absent, basic, mastered),
				sq("cg-6", "Reforecast trimestriel", absent, basic, mastered),
				sq("cg-7", "Analyse des écarts", absent, basic, mastered),
				sq("cg-8", "Plan d'actions correctives", absent, basic, mastered),
			}},
			{ID: "reporting", Title: "Reporting", Questions: []services.Question{
				sq("cg-9", "Tableau de bord de direction", absent, basic, mastered),
				sq("cg-10", "Indicateurs opérationnels", absent, basic, mastered),
				sq("cg-11", "Délai de production du reporting", absent, basic, mastered),
				sq("cg-12", "Fiabilité des données sources", absent, basic, mastered),
			}},
			{ID: "outils", Title: "Outils", Questions: []services.Question{
				sq("cg-13", "Outil de consolidation des données", absent, basic, mastered),
				sq("cg-14", "Automatisation des extractions", absent, basic, mastered),
				sq("cg-15", "Visualisation des indicateurs", absent, basic, mastered),
				sq("cg-16", "Documentation des règles de calcul", absent, basic, mastered),
			}},
		}},
		Levels: services.LevelTable{Basis: services.BasisRawScore, Bands: []services.Band{
			{Min: 0, Label: "Embryonnaire"},
			{Min: 9, Label: "En construction"},
			{Min: 17, Label: "Structuré"},
			{Min: 25, Label: "Performant"},
		}},
		Recommendations: defaultRecommendations,
		StorageKey:      "controle-gestion-result",
		Freshness:       week,
		RequiresForm:    true,
	}
}
