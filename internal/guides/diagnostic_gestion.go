package guides

import "github.com/msl-itech/MSL-Conseil-sub002/internal/services"

// DiagnosticGestion thresholds on the raw score and keeps results without expiry.
func DiagnosticGestion() *services.Guide {
	const never, sometimes, always = "Jamais", "Parfois", "Toujours"
	return &services.Guide{
		Slug: "diagnostic-gestion",
		Name: "Diagnostic de gestion",
		Bank: &services.QuestionBank{Kind: services.AnswerScored, Blocks: []services.Block{
			{ID: "comptabilite", Title: "Comptabilité", Questions: []services.Question{
				sq("dg-1", "Vos pièces comptables sont-elles transmises chaque mois ?", never, sometimes, always),
				sq("dg-2", "Vos comptes bancaires sont-ils rapprochés chaque mois ?", never, sometimes, always),
				sq("dg-3", "Vos déclarations de TVA sont-elles préparées sans urgence ?", never, sometimes, always),
				sq("dg-4", "Recevez-vous une situation intermédiaire en cours d'année ?", never, sometimes, always),
				sq("dg-5", "Vos immobilisations sont-elles suivies ?", never, sometimes, always),
			}},
			{ID: "gestion", Title: "Gestion courante", Questions: []services.Question{
				sq("dg-6", "Vos devis sont-ils chiffrés à partir de coûts réels ?", never, sometimes, always),
				sq("dg-7", "Vos factures sont-elles émises le jour de la livraison ?", never, sometimes, always),
				sq("dg-8", "Vos stocks sont-ils inventoriés régulièrement ?", never, sometimes, always),
				sq("dg-9", "Les dépenses sont-elles validées avant engagement ?", never, sometimes, always),
				sq("dg-10", "Vos contrats fournisseurs sont-ils renégociés ?", never, sometimes, always),
			}},
			{ID: "decision", Title: "Aide à la décision", Questions: []services.Question{
				sq("dg-11", "Vos décisions d'investissement s'appuient-elles sur des chiffres ?", never, sometimes, always),
				sq("dg-12", "Connaissez-vous votre seuil de rentabilité ?", never, sometimes, always),
				sq("dg-13", "Suivez-vous la rentabilité de chaque activité ?", never, sometimes, always),
				sq("dg-14", "Anticipez-vous vos besoins de recrutement ?", never, sometimes, always),
				sq("dg-15", "Partagez-vous les chiffres clés avec vos équipes ?", never, sometimes, always),
			}},
		}},
		Levels: services.LevelTable{Basis: services.BasisRawScore, Bands: []services.Band{
			{Min: 0, Label: "Fragile"},
			{Min: 15, Label: "Intermédiaire"},
			{Min: 24, Label: "Solide"},
		}},
		Recommendations: defaultRecommendations,
		StorageKey:      "diagnostic-gestion-result",
		RequiresForm:    true,
	}
}
