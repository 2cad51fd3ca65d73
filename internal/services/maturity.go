package services

type maturityBand struct {
	min   int
	level int
	label string
}

// maturityBands is ordered highest first; lower bounds are inclusive.
var maturityBands = []maturityBand{
	{81, 5, "Zeer hoog volwassenheidsniveau"},
	{61, 4, "Hoog volwassenheidsniveau"},
	{41, 3, "Gemiddeld volwassenheidsniveau"},
	{21, 2, "Laag volwassenheidsniveau"},
	{0, 1, "Zeer laag volwassenheidsniveau"},
}

type recommendationBand struct {
	min   int
	texts []string
}

// recommendationBands partitions the percentage axis independently of maturityBands.
var recommendationBands = []recommendationBand{
	{80, []string{
		"Blijf innoveren met nieuwe technologieën",
		"Deel best practices met de industrie",
		"Mentor andere organisaties in BC excellence",
	}},
	{60, []string{
		"Optimaliseer recovery time objectives (RTO)",
		"Implementeer geautomatiseerde monitoring",
		"Voer regelmatige BCP oefeningen uit",
	}},
	{30, []string{
		"Verbeter incident response procedures",
		"Implementeer regelmatige backup tests",
		"Ontwikkel communicatieplannen voor crisis situaties",
	}},
	{0, []string{
		"Start met het ontwikkelen van een basis business continuity plan",
		"Implementeer basisprocessen voor risk management",
		"Zorg voor documentatie van kritieke bedrijfsprocessen",
	}},
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ClassifyMaturity maps a total percentage onto the five maturity tiers.
// Values outside [0,100] are clamped first.
func ClassifyMaturity(pct int) MaturityLevel {
	pct = clampPercentage(pct)
	for _, b := range maturityBands {
		if pct >= b.min {
			return MaturityLevel{Level: b.level, Label: b.label}
		}
	}
	last := maturityBands[len(maturityBands)-1]
	return MaturityLevel{Level: last.level, Label: last.label}
}

// maturityLabel returns the Dutch label of a level number, or "" for unknown levels.
func maturityLabel(level int) string {
	for _, b := range maturityBands {
		if b.level == level {
			return b.label
		}
	}
	return ""
}

// Recommendations returns a fresh copy of the advice texts for pct (clamped to [0,100]).
func Recommendations(pct int) []string {
	pct = clampPercentage(pct)
	for _, b := range recommendationBands {
		if pct >= b.min {
			return append([]string(nil), b.texts...)
		}
	}
	return nil
}
