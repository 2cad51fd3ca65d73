package services

import (
	"math"
	"sort"
)

// AnalyticsStore is the read side ScanService persistence exposes to analytics.
type AnalyticsStore interface {
	ListScans() ([]*StoredScan, error)
}

type AnalyticsService struct {
	store   AnalyticsStore
	catalog *Catalog
}

type CategoryAverage struct {
	Category          string  `json:"category"`
	MaxScore          int     `json:"max_score"`
	AveragePercentage float64 `json:"average_percentage"`
}

// QuestionStat counts how often each score was awarded for one question.
type QuestionStat struct {
	ID        int     `json:"id"`
	Category  string  `json:"category"`
	Histogram []int   `json:"histogram"`
	Total     int     `json:"total"`
	Mean      float64 `json:"mean"`
}

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsSummary struct {
	TotalScans        int                   `json:"total_scans"`
	AveragePercentage float64               `json:"average_percentage"`
	MaturityHistogram []int                 `json:"maturity_histogram"`
	ScoreBands        map[string]int        `json:"score_bands"`
	Categories        []CategoryAverage     `json:"categories"`
	Questions         []QuestionStat        `json:"questions"`
	Timeseries        []AnalyticsTimeseries `json:"timeseries"`
	Alpha             float64               `json:"alpha"`
	N                 int                   `json:"n"`
}

// Score band names used by the admin results table.
const (
	BandGreen  = "green"
	BandBlue   = "blue"
	BandYellow = "yellow"
	BandOrange = "orange"
	BandRed    = "red"
)

// ScoreBand buckets a total percentage the way the admin overview colours it.
func ScoreBand(pct int) string {
	switch {
	case pct >= 80:
		return BandGreen
	case pct >= 60:
		return BandBlue
	case pct >= 40:
		return BandYellow
	case pct >= 20:
		return BandOrange
	}
	return BandRed
}

func NewAnalyticsService(store AnalyticsStore, catalog *Catalog) *AnalyticsService {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &AnalyticsService{store: store, catalog: catalog}
}

func (s *AnalyticsService) Summary() (*AnalyticsSummary, error) {
	scans, err := s.store.ListScans()
	if err != nil {
		return nil, err
	}
	out := &AnalyticsSummary{
		TotalScans:        len(scans),
		MaturityHistogram: make([]int, len(maturityBands)),
		ScoreBands:        map[string]int{BandGreen: 0, BandBlue: 0, BandYellow: 0, BandOrange: 0, BandRed: 0},
	}
	catSums := map[string]int{}
	countsByDay := map[string]int{}
	var pctSum int
	for _, sc := range scans {
		res := sc.Result
		pctSum += res.TotalPercentage
		if lvl := res.MaturityLevel.Level; lvl >= 1 && lvl <= len(out.MaturityHistogram) {
			out.MaturityHistogram[lvl-1]++
		}
		out.ScoreBands[ScoreBand(res.TotalPercentage)]++
		for cat, cs := range res.CategoryScores {
			catSums[cat] += cs.Percentage
		}
		countsByDay[sc.CreatedAt.UTC().Format("2006-01-02")]++
	}
	if len(scans) > 0 {
		out.AveragePercentage = roundTenth(float64(pctSum) / float64(len(scans)))
	}
	for _, cat := range s.catalog.Categories() {
		avg := 0.0
		if len(scans) > 0 {
			avg = roundTenth(float64(catSums[cat]) / float64(len(scans)))
		}
		out.Categories = append(out.Categories, CategoryAverage{Category: cat, MaxScore: s.catalog.CategoryMax(cat), AveragePercentage: avg})
	}
	out.Questions = buildQuestionStats(s.catalog, scans)
	out.Timeseries = buildTimeseries(countsByDay)
	// Alpha covers only scans that answered every catalog question.
	matrix, n := buildAlphaMatrix(s.catalog, scans)
	out.Alpha = CronbachAlpha(matrix)
	out.N = n
	return out, nil
}

func buildQuestionStats(c *Catalog, scans []*StoredScan) []QuestionStat {
	stats := make([]QuestionStat, 0, c.Len())
	index := make(map[int]int, c.Len())
	for i, q := range c.Questions() {
		stats = append(stats, QuestionStat{ID: q.ID, Category: q.Category, Histogram: make([]int, q.MaxScore()+1)})
		index[q.ID] = i
	}
	sums := make([]int, len(stats))
	for _, sc := range scans {
		for _, a := range sc.Result.Answers {
			i, ok := index[a.QuestionID]
			if !ok || a.Score < 0 || a.Score >= len(stats[i].Histogram) {
				continue
			}
			stats[i].Histogram[a.Score]++
			stats[i].Total++
			sums[i] += a.Score
		}
	}
	for i := range stats {
		if stats[i].Total > 0 {
			stats[i].Mean = roundTenth(float64(sums[i]) / float64(stats[i].Total))
		}
	}
	return stats
}

func buildAlphaMatrix(c *Catalog, scans []*StoredScan) ([][]float64, int) {
	matrix := make([][]float64, 0, len(scans))
	for _, sc := range scans {
		byID := make(map[int]int, len(sc.Result.Answers))
		for _, a := range sc.Result.Answers {
			byID[a.QuestionID] = a.Score
		}
		row := make([]float64, 0, c.Len())
		complete := true
		for _, q := range c.Questions() {
			v, ok := byID[q.ID]
			if !ok {
				complete = false
				break
			}
			row = append(row, float64(v))
		}
		if complete {
			matrix = append(matrix, row)
		}
	}
	return matrix, len(matrix)
}

func buildTimeseries(counts map[string]int) []AnalyticsTimeseries {
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
