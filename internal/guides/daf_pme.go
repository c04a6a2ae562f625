package guides

import "github.com/msl-itech/MSL-Conseil-sub002/internal/services"

var sq = services.ScoredQuestion

// DAFPME is the 24-question maturity diagnostic of the outsourced CFO guide.
func DAFPME() *services.Guide {
	const no, partly, yes = "Non", "En partie", "Oui, systématiquement"
	return &services.Guide{
		Slug: "daf-pme",
		Name: "Guide DAF externalisé pour PME",
		Bank: &services.QuestionBank{Kind: services.AnswerScored, Blocks: []services.Block{
			{ID: "structure", Title: "Structure financière", Questions: []services.Question{
				sq("daf-1", "Votre plan comptable est-il adapté à votre activité ?", no, partly, yes),
				sq("daf-2", "Les clôtures mensuelles sont-elles réalisées dans les 10 jours ?", no, partly, yes),
				sq("daf-3", "Disposez-vous d'une séparation claire des rôles financiers ?", no, partly, yes),
				sq("daf-4", "Vos procédures financières sont-elles documentées ?", no, partly, yes),
			}},
			{ID: "tresorerie", Title: "Trésorerie", Questions: []services.Question{
				sq("daf-5", "Suivez-vous un plan de trésorerie à 13 semaines ?", no, partly, yes),
				sq("daf-6", "Vos délais de paiement clients sont-ils suivis ?", no, partly, yes),
				sq("daf-7", "Les relances clients sont-elles automatisées ?", no, partly, yes),
				sq("daf-8", "Connaissez-vous votre besoin en fonds de roulement ?", no, partly, yes),
			}},
			{ID: "pilotage", Title: "Pilotage et reporting", Questions: []services.Question{
				sq("daf-9", "Disposez-vous d'un tableau de bord mensuel ?", no, partly, yes),
				sq("daf-10", "Vos indicateurs clés sont-ils définis et partagés ?", no, partly, yes),
				sq("daf-11", "Comparez-vous le réalisé au budget chaque mois ?", no, partly, yes),
				sq("daf-12", "Vos marges sont-elles suivies par produit ou client ?", no, partly, yes),
			}},
			{ID: "budget", Title: "Budget et prévisionnel", Questions: []services.Question{
				sq("daf-13", "Établissez-vous un budget annuel ?", no, partly, yes),
				sq("daf-14", "Le budget est-il révisé en cours d'année ?", no, partly, yes),
				sq("daf-15", "Disposez-vous d'un prévisionnel à trois ans ?", no, partly, yes),
				sq("daf-16", "Modélisez-vous plusieurs scénarios ?", no, partly, yes),
			}},
			{ID: "financement", Title: "Financement et risques", Questions: []services.Question{
				sq("daf-17", "Vos relations bancaires sont-elles suivies activement ?", no, partly, yes),
				sq("daf-18", "Connaissez-vous vos capacités d'endettement ?", no, partly, yes),
				sq("daf-19", "Vos risques financiers sont-ils cartographiés ?", no, partly, yes),
				sq("daf-20", "Vos assurances sont-elles revues chaque année ?", no, partly, yes),
			}},
			{ID: "outils", Title: "Outils et organisation", Questions: []services.Question{
				sq("daf-21", "Votre logiciel comptable est-il connecté à vos autres outils ?", no, partly, yes),
				sq("daf-22", "Les factures fournisseurs sont-elles dématérialisées ?", no, partly, yes),
				sq("daf-23", "Vos données financières sont-elles accessibles en temps réel ?", no, partly, yes),
				sq("daf-24", "La direction dispose-t-elle d'un interlocuteur financier dédié ?", no, partly, yes),
			}},
		}},
		Levels: services.LevelTable{Basis: services.BasisPercentage, Bands: []services.Band{
			{Min: 0, Label: "Fragile"},
			{Min: 40, Label: "Intermédiaire"},
			{Min: 60, Label: "Solide"},
			{Min: 80, Label: "Avancé"},
		}},
		Recommendations: defaultRecommendations,
		StorageKey:      "diagnostic-daf-pme",
		Freshness:       week,
		RequiresForm:    true,
	}
}
