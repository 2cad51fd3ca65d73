package services

const (
	CategoryOrganisation = "Organisatie"
	CategoryRisk         = "Risk Management"
	CategoryTechnology   = "Techniek"
	CategoryTraining     = "Training & Awareness"
	CategoryMonitoring   = "Monitoring & Verbetering"
)

func choice(id int, category, text string, opts ...Option) Question {
	return Question{ID: id, Text: text, Category: category, Type: AnswerChoice, Options: opts}
}

func numeric(id int, category, text string, ts ...Threshold) Question {
	return Question{ID: id, Text: text, Category: category, Type: AnswerNumeric, Thresholds: ts}
}

func opt(label, value string, score int) Option {
	return Option{Label: label, Value: value, Score: score}
}

func atLeast(min float64, score int) Threshold {
	return Threshold{MinValue: min, Score: score}
}

var frequencyOptions = []Option{
	opt("Elke 6 maanden", "every_6_months", 4),
	opt("Jaarlijks", "annually", 3),
	opt("Om de 2 jaar", "biannually", 2),
	opt("Onregelmatig", "irregular", 1),
	opt("Nooit", "never", 0),
}

func freq(labels ...string) []Option {
	out := append([]Option(nil), frequencyOptions...)
	for i, l := range labels {
		out[i].Label = l
	}
	return out
}

var percentageThresholds = []Threshold{atLeast(90, 4), atLeast(75, 3), atLeast(50, 2), atLeast(25, 1), atLeast(0, 0)}

// quickScanQuestions is the business continuity maturity questionnaire.
var quickScanQuestions = []Question{
	choice(1, CategoryOrganisation, "Heeft uw organisatie een formeel business continuity management systeem?",
		opt("Ja, volledig geïmplementeerd en gecertificeerd", "fully_implemented", 4),
		opt("Ja, maar nog niet gecertificeerd", "implemented", 3),
		opt("Gedeeltelijk geïmplementeerd", "partially", 2),
		opt("In ontwikkeling", "developing", 1),
		opt("Nee, nog niet gestart", "not_started", 0)),
	choice(2, CategoryOrganisation, "Heeft uw organisatie een business continuity beleid?",
		opt("Ja, goedgekeurd door management en regelmatig gereviewed", "approved_reviewed", 4),
		opt("Ja, goedgekeurd door management", "approved", 3),
		opt("Ja, maar nog niet goedgekeurd", "draft", 2),
		opt("In ontwikkeling", "developing", 1),
		opt("Nee", "no", 0)),
	choice(3, CategoryOrganisation, "Zijn er duidelijke rollen en verantwoordelijkheden gedefinieerd voor business continuity?",
		opt("Ja, volledig gedefinieerd en getraind", "fully_defined", 4),
		opt("Ja, gedefinieerd maar training is beperkt", "defined_limited", 3),
		opt("Gedeeltelijk gedefinieerd", "partially", 2),
		opt("Informeel gedefinieerd", "informal", 1),
		opt("Nee", "no", 0)),
	choice(4, CategoryOrganisation, "Hoe vaak worden business continuity plannen gereviewed?",
		freq("Elke 6 maanden of bij wijzigingen")...),
	choice(5, CategoryOrganisation, "Heeft uw organisatie een crisis management team?",
		opt("Ja, volledig operationeel met regelmatige training", "fully_operational", 4),
		opt("Ja, maar beperkte training", "limited_training", 3),
		opt("Ja, maar niet getraind", "not_trained", 2),
		opt("Informeel team", "informal", 1),
		opt("Nee", "no", 0)),
	numeric(6, CategoryOrganisation, "Hoeveel werkdagen per jaar besteedt u aan business continuity activiteiten?",
		atLeast(20, 4), atLeast(10, 3), atLeast(5, 2), atLeast(1, 1), atLeast(0, 0)),
	choice(7, CategoryOrganisation, "Heeft uw organisatie een communicatieplan voor crisis situaties?",
		opt("Ja, volledig uitgewerkt en getest", "fully_tested", 4),
		opt("Ja, volledig uitgewerkt maar niet getest", "not_tested", 3),
		opt("Gedeeltelijk uitgewerkt", "partially", 2),
		opt("Basis communicatieplan", "basic", 1),
		opt("Nee", "no", 0)),
	choice(8, CategoryOrganisation, "Wordt business continuity meegenomen in nieuwe projecten?",
		opt("Ja, altijd vanaf het begin", "always", 4),
		opt("Ja, meestal", "usually", 3),
		opt("Soms", "sometimes", 2),
		opt("Zelden", "rarely", 1),
		opt("Nooit", "never", 0)),

	choice(9, CategoryRisk, "Heeft uw organisatie een formele business impact analyse (BIA) uitgevoerd?",
		opt("Ja, recent uitgevoerd en regelmatig geüpdatet", "recent_updated", 4),
		opt("Ja, recent uitgevoerd", "recent", 3),
		opt("Ja, maar meer dan 2 jaar geleden", "outdated", 2),
		opt("Informele analyse", "informal", 1),
		opt("Nee", "no", 0)),
	choice(10, CategoryRisk, "Zijn kritieke bedrijfsprocessen geïdentificeerd en gedocumenteerd?",
		opt("Ja, volledig geïdentificeerd en up-to-date", "fully_current", 4),
		opt("Ja, volledig geïdentificeerd maar niet recent geüpdatet", "fully_outdated", 3),
		opt("Gedeeltelijk geïdentificeerd", "partially", 2),
		opt("Informeel geïdentificeerd", "informal", 1),
		opt("Nee", "no", 0)),
	numeric(11, CategoryRisk, "Hoeveel kritieke bedrijfsprocessen heeft uw organisatie geïdentificeerd?",
		atLeast(20, 4), atLeast(10, 3), atLeast(5, 2), atLeast(1, 1), atLeast(0, 0)),
	choice(12, CategoryRisk, "Zijn recovery time objectives (RTO) gedefinieerd voor kritieke processen?",
		opt("Ja, voor alle kritieke processen", "all_processes", 4),
		opt("Ja, voor de meeste processen", "most_processes", 3),
		opt("Ja, voor enkele processen", "some_processes", 2),
		opt("Informeel gedefinieerd", "informal", 1),
		opt("Nee", "no", 0)),
	choice(13, CategoryRisk, "Wordt er regelmatig risk assessment uitgevoerd?",
		freq("Ja, elke 6 maanden", "Ja, jaarlijks", "Ja, om de 2 jaar")...),
	choice(14, CategoryRisk, "Heeft uw organisatie een leveranciers continuity plan?",
		opt("Ja, volledig uitgewerkt en getest", "fully_tested", 4),
		opt("Ja, volledig uitgewerkt maar niet getest", "not_tested", 3),
		opt("Gedeeltelijk uitgewerkt", "partially", 2),
		opt("Basis plan", "basic", 1),
		opt("Nee", "no", 0)),

	choice(15, CategoryTechnology, "Heeft uw organisatie een disaster recovery plan voor IT-systemen?",
		opt("Ja, volledig getest en up-to-date", "fully_tested", 4),
		opt("Ja, maar niet recent getest", "not_recent", 3),
		opt("Ja, maar nooit getest", "never_tested", 2),
		opt("Basis plan", "basic", 1),
		opt("Nee", "no", 0)),
	choice(16, CategoryTechnology, "Hoe vaak worden backups getest?",
		opt("Wekelijks", "weekly", 4),
		opt("Maandelijks", "monthly", 3),
		opt("Per kwartaal", "quarterly", 2),
		opt("Jaarlijks", "annually", 1),
		opt("Nooit", "never", 0)),
	numeric(17, CategoryTechnology, "Hoeveel procent van uw IT-systemen wordt gemonitord?", percentageThresholds...),
	choice(18, CategoryTechnology, "Heeft uw organisatie een alternatieve werklocatie?",
		opt("Ja, volledig ingericht en getest", "fully_tested", 4),
		opt("Ja, volledig ingericht maar niet getest", "not_tested", 3),
		opt("Ja, maar beperkt ingericht", "limited", 2),
		opt("Informele afspraak", "informal", 1),
		opt("Nee", "no", 0)),
	choice(19, CategoryTechnology, "Wordt er regelmatig penetration testing uitgevoerd?",
		freq("Ja, elke 6 maanden", "Ja, jaarlijks", "Ja, om de 2 jaar")...),
	// Recovery time is the one numeric question where a smaller answer scores
	// higher, so its score falls as the input rises.
	{
		ID:            20,
		Text:          "Hoeveel minuten is uw gemiddelde system recovery time?",
		Category:      CategoryTechnology,
		Type:          AnswerNumeric,
		LowerIsBetter: true,
		Thresholds:    []Threshold{atLeast(0, 4), atLeast(30, 3), atLeast(60, 2), atLeast(240, 1), atLeast(1440, 0)},
	},
	choice(21, CategoryTechnology, "Heeft uw organisatie een cybersecurity incident response plan?",
		opt("Ja, volledig getest en up-to-date", "fully_tested", 4),
		opt("Ja, maar niet recent getest", "not_recent", 3),
		opt("Ja, maar nooit getest", "never_tested", 2),
		opt("Basis plan", "basic", 1),
		opt("Nee", "no", 0)),

	choice(22, CategoryTraining, "Hoe vaak worden business continuity oefeningen uitgevoerd?", freq()...),
	choice(23, CategoryTraining, "Ontvangen medewerkers training over business continuity?",
		opt("Ja, reguliere training voor alle medewerkers", "all_regular", 4),
		opt("Ja, voor sleutelpersoneel", "key_personnel", 3),
		opt("Ja, eenmalige training", "one_time", 2),
		opt("Informele training", "informal", 1),
		opt("Nee", "no", 0)),
	numeric(24, CategoryTraining, "Hoeveel procent van uw medewerkers is bewust van business continuity procedures?", percentageThresholds...),

	choice(25, CategoryMonitoring, "Wordt de effectiviteit van business continuity plannen gemeten?",
		opt("Ja, met KPIs en regelmatige rapportage", "kpis_reporting", 4),
		opt("Ja, maar informeel", "informal", 3),
		opt("Soms", "sometimes", 2),
		opt("Zelden", "rarely", 1),
		opt("Nooit", "never", 0)),
	choice(26, CategoryMonitoring, "Worden lessons learned na incidenten gedocumenteerd?",
		opt("Ja, altijd met follow-up acties", "always_followup", 4),
		opt("Ja, meestal", "usually", 3),
		opt("Soms", "sometimes", 2),
		opt("Zelden", "rarely", 1),
		opt("Nooit", "never", 0)),
	numeric(27, CategoryMonitoring, "Hoeveel verbeterinitiatieven zijn het afgelopen jaar geïmplementeerd?",
		atLeast(10, 4), atLeast(5, 3), atLeast(3, 2), atLeast(1, 1), atLeast(0, 0)),
}

var defaultCatalog = MustCatalog(quickScanQuestions)

// DefaultCatalog returns the built-in 27-question catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }
