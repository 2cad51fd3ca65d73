package services

import "testing"

func TestDefaultCatalogShape(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 27 {
		t.Fatalf("questions=%d, want 27", c.Len())
	}
	want := map[string]int{
		CategoryOrganisation: 32,
		CategoryRisk:         24,
		CategoryTechnology:   28,
		CategoryTraining:     12,
		CategoryMonitoring:   12,
	}
	cats := c.Categories()
	if len(cats) != len(want) {
		t.Fatalf("categories=%v", cats)
	}
	if cats[0] != CategoryOrganisation || cats[4] != CategoryMonitoring {
		t.Fatalf("categories not in catalog order: %v", cats)
	}
	for cat, max := range want {
		if got := c.CategoryMax(cat); got != max {
			t.Fatalf("CategoryMax(%q)=%d, want %d", cat, got, max)
		}
	}
	if c.MaxTotal() != 108 {
		t.Fatalf("MaxTotal=%d, want 108", c.MaxTotal())
	}
}

func TestCatalogSortsThresholdsDescending(t *testing.T) {
	q, ok := DefaultCatalog().Question(20)
	if !ok {
		t.Fatalf("question 20 missing")
	}
	for i := 1; i < len(q.Thresholds); i++ {
		if q.Thresholds[i-1].MinValue <= q.Thresholds[i].MinValue {
			t.Fatalf("thresholds not descending: %+v", q.Thresholds)
		}
	}
	if q.Thresholds[0].MinValue != 1440 || q.Thresholds[0].Score != 0 {
		t.Fatalf("unexpected first threshold %+v", q.Thresholds[0])
	}
}

func TestCatalogDoesNotAliasInput(t *testing.T) {
	qs := []Question{numeric(1, "A", "n", atLeast(0, 0), atLeast(10, 2))}
	c, err := NewCatalog(qs)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if qs[0].Thresholds[0].MinValue != 0 {
		t.Fatalf("input thresholds were reordered in place")
	}
	got, _ := c.Question(1)
	if got.Thresholds[0].MinValue != 10 {
		t.Fatalf("catalog thresholds not sorted: %+v", got.Thresholds)
	}
}

func TestNewCatalogRejects(t *testing.T) {
	cases := []struct {
		name string
		qs   []Question
	}{
		{"empty", nil},
		{"zero id", []Question{choice(0, "A", "q", opt("a", "a", 1))}},
		{"duplicate id", []Question{choice(1, "A", "q", opt("a", "a", 1)), choice(1, "A", "q", opt("a", "a", 1))}},
		{"no category", []Question{choice(1, " ", "q", opt("a", "a", 1))}},
		{"no options", []Question{choice(1, "A", "q")}},
		{"negative option", []Question{choice(1, "A", "q", opt("a", "a", -1))}},
		{"duplicate option", []Question{choice(1, "A", "q", opt("a", "a", 1), opt("b", "a", 2))}},
		{"no thresholds", []Question{numeric(1, "A", "q")}},
		{"no floor", []Question{numeric(1, "A", "q", atLeast(5, 1))}},
		{"duplicate threshold", []Question{numeric(1, "A", "q", atLeast(0, 0), atLeast(0, 1))}},
		{"not monotonic", []Question{numeric(1, "A", "q", atLeast(0, 2), atLeast(10, 1))}},
		{"lower is better but rising", []Question{{ID: 1, Category: "A", Type: AnswerNumeric, LowerIsBetter: true, Thresholds: []Threshold{atLeast(0, 0), atLeast(10, 2)}}}},
		{"unknown type", []Question{{ID: 1, Category: "A", Type: "slider"}}},
	}
	for _, c := range cases {
		if _, err := NewCatalog(c.qs); err == nil {
			t.Fatalf("%s: expected error", c.name)
		} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Fatalf("%s: expected invalid service error, got %v", c.name, err)
		}
	}
}

func TestMustCatalogPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustCatalog(nil)
}

func TestQuestionMaxScore(t *testing.T) {
	q := choice(1, "A", "q", opt("a", "a", 1), opt("b", "b", 7), opt("c", "c", 3))
	if q.MaxScore() != 7 {
		t.Fatalf("MaxScore=%d, want 7", q.MaxScore())
	}
	n := numeric(2, "A", "q", atLeast(0, 0), atLeast(5, 6))
	if n.MaxScore() != 6 {
		t.Fatalf("MaxScore=%d, want 6", n.MaxScore())
	}
}
