package services

import "testing"

func TestClassifyMaturityBoundaries(t *testing.T) {
	cases := []struct {
		pct, level int
	}{
		{0, 1},
		{20, 1},
		{21, 2},
		{40, 2},
		{41, 3},
		{60, 3},
		{61, 4},
		{80, 4},
		{81, 5},
		{100, 5},
	}
	for _, c := range cases {
		got := ClassifyMaturity(c.pct)
		if got.Level != c.level {
			t.Fatalf("ClassifyMaturity(%d)=%d, want %d", c.pct, got.Level, c.level)
		}
		if got.Label != maturityLabel(c.level) {
			t.Fatalf("ClassifyMaturity(%d) label %q, want %q", c.pct, got.Label, maturityLabel(c.level))
		}
	}
}

func TestClassifyMaturityClamps(t *testing.T) {
	if got := ClassifyMaturity(-15); got.Level != 1 || got.Label != "Zeer laag volwassenheidsniveau" {
		t.Fatalf("negative percentage: %+v", got)
	}
	if got := ClassifyMaturity(250); got.Level != 5 || got.Label != "Zeer hoog volwassenheidsniveau" {
		t.Fatalf("percentage above 100: %+v", got)
	}
}

func TestMaturityLabelUnknown(t *testing.T) {
	if maturityLabel(0) != "" || maturityLabel(6) != "" {
		t.Fatalf("expected empty label for unknown levels")
	}
	if maturityLabel(4) != "Hoog volwassenheidsniveau" {
		t.Fatalf("level 4 label = %q", maturityLabel(4))
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		pct   int
		first string
	}{
		{0, "Start met het ontwikkelen van een basis business continuity plan"},
		{29, "Start met het ontwikkelen van een basis business continuity plan"},
		{30, "Verbeter incident response procedures"},
		{59, "Verbeter incident response procedures"},
		{60, "Optimaliseer recovery time objectives (RTO)"},
		{79, "Optimaliseer recovery time objectives (RTO)"},
		{80, "Blijf innoveren met nieuwe technologieën"},
		{100, "Blijf innoveren met nieuwe technologieën"},
		{-1, "Start met het ontwikkelen van een basis business continuity plan"},
		{101, "Blijf innoveren met nieuwe technologieën"},
	}
	for _, c := range cases {
		recs := Recommendations(c.pct)
		if len(recs) != 3 {
			t.Fatalf("Recommendations(%d) returned %d texts", c.pct, len(recs))
		}
		if recs[0] != c.first {
			t.Fatalf("Recommendations(%d)[0]=%q, want %q", c.pct, recs[0], c.first)
		}
	}
}

// The two tables partition the same axis differently; 80 is level 4 but already top advice.
func TestRecommendationAndMaturityTablesStayIndependent(t *testing.T) {
	if ClassifyMaturity(80).Level != 4 {
		t.Fatalf("80%% should be level 4")
	}
	if Recommendations(80)[0] != "Blijf innoveren met nieuwe technologieën" {
		t.Fatalf("80%% should get the top recommendation tier")
	}
	if ClassifyMaturity(30).Level != 2 || Recommendations(30)[0] != "Verbeter incident response procedures" {
		t.Fatalf("30%% boundary mismatch")
	}
}

func TestRecommendationsReturnsCopy(t *testing.T) {
	a := Recommendations(90)
	a[0] = "changed"
	if Recommendations(90)[0] == "changed" {
		t.Fatalf("Recommendations leaked table storage")
	}
}
