package utils

// Server-side strings for the few values the API renders itself.
// Question texts and UI copy live with the catalog and the frontend.

const DefaultLocale = "nl"

// SupportedLocales lists the locales LocaleMiddleware accepts.
var SupportedLocales = []string{"nl", "en"}

var translations = map[string]map[string]string{
	"nl": {
		"health.ok":  "ok",
		"maturity.1": "Zeer laag volwassenheidsniveau",
		"maturity.2": "Laag volwassenheidsniveau",
		"maturity.3": "Gemiddeld volwassenheidsniveau",
		"maturity.4": "Hoog volwassenheidsniveau",
		"maturity.5": "Zeer hoog volwassenheidsniveau",
	},
	"en": {
		"health.ok":  "ok",
		"maturity.1": "Very low maturity level",
		"maturity.2": "Low maturity level",
		"maturity.3": "Average maturity level",
		"maturity.4": "High maturity level",
		"maturity.5": "Very high maturity level",
	},
}

// T returns the translated string for key in locale; falls back to Dutch, then the key.
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
