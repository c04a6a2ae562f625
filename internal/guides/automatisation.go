package guides

import "github.com/msl-itech/MSL-Conseil-sub002/internal/services"

var ci = services.CheckItem

// Automatisation is a yes/no checklist with no lead form.
func Automatisation() *services.Guide {
	return &services.Guide{
		Slug: "automatisation-diagnostic",
		Name: "Diagnostic d'automatisation",
		Bank: &services.QuestionBank{Kind: services.AnswerBoolean, Blocks: []services.Block{
			{ID: "ventes", Title: "Ventes et facturation", Questions: []services.Question{
				ci("auto-1", "Les devis sont générés depuis un outil et non un tableur"),
				ci("auto-2", "Les factures partent automatiquement à la livraison"),
				ci("auto-3", "Les relances d'impayés sont envoyées automatiquement"),
				ci("auto-4", "Les paiements clients sont lettrés automatiquement"),
				ci("auto-5", "Le CRM est synchronisé avec la facturation"),
			}},
			{ID: "achats", Title: "Achats et dépenses", Questions: []services.Question{
				ci("auto-6", "Les factures fournisseurs sont captées par OCR"),
				ci("auto-7", "Les notes de frais sont saisies depuis mobile"),
				ci("auto-8", "Les validations de dépenses suivent un circuit numérique"),
				ci("auto-9", "Les paiements fournisseurs sont programmés"),
				ci("auto-10", "Les abonnements logiciels sont inventoriés"),
			}},
			{ID: "comptabilite", Title: "Comptabilité", Questions: []services.Question{
				ci("auto-11", "Les flux bancaires remontent automatiquement en comptabilité"),
				ci("auto-12", "Les écritures récurrentes sont générées automatiquement"),
				ci("auto-13", "Les rapprochements bancaires sont assistés"),
				ci("auto-14", "Les déclarations fiscales sont préparées depuis l'outil comptable"),
				ci("auto-15", "Les pièces sont archivées avec valeur probante"),
			}},
			{ID: "pilotage", Title: "Pilotage", Questions: []services.Question{
				ci("auto-16", "Le tableau de bord se met à jour sans ressaisie"),
				ci("auto-17", "Les alertes de trésorerie sont automatiques"),
				ci("auto-18", "Les données RH alimentent la paie sans ressaisie"),
				ci("auto-19", "Les exports pour l'expert-comptable sont automatisés"),
				ci("auto-20", "Les accès aux outils sont centralisés"),
			}},
		}},
		Levels: services.LevelTable{Basis: services.BasisPercentage, Bands: []services.Band{
			{Min: 0, Label: "Débutant"},
			{Min: 40, Label: "Intermédiaire"},
			{Min: 70, Label: "Avancé"},
		}},
		StorageKey: "automatisation-diagnostic-result",
		Freshness:  week,
	}
}
