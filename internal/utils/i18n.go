package utils

// Server-side strings are limited to the transient notices of the diagnostic flow.

var translations = map[string]map[string]string{
	"fr": {
		"health.ok":          "ok",
		"lead_saved":         "Vos résultats ont bien été transmis.",
		"lead_create_failed": "Vos coordonnées n'ont pas pu être enregistrées, mais vous pouvez continuer le diagnostic.",
		"lead_update_failed": "Vos résultats n'ont pas pu être transmis, mais ils restent disponibles ici.",
		"lead_missing":       "Vos résultats n'ont pas été transmis car vos coordonnées n'ont pas été enregistrées.",
	},
	"en": {
		"health.ok":          "ok",
		"lead_saved":         "Your results have been sent.",
		"lead_create_failed": "We couldn't save your details, but you may continue the diagnostic.",
		"lead_update_failed": "We couldn't send your results, but they remain available here.",
		"lead_missing":       "Your results were not sent because your details were not saved.",
	},
}

// DefaultLocale is the site's language.
const DefaultLocale = "fr"

// SupportedLocales lists the locales T knows, default first.
var SupportedLocales = []string{"fr", "en"}

// T returns the translated string for key in locale; falls back to French, then to the key.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations[DefaultLocale][key]; ok {
		return v
	}
	return key
}
