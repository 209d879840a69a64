package services

import (
	"math"
	"sort"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"

	"hqi-analyzer/internal/models"
)

// correlationFeatures names the indicators entering the correlation matrix,
// in display order.
var correlationFeatures = []struct {
	label string
	value func(*models.MergedRecord) float64
}{
	{"HQI", func(r *models.MergedRecord) float64 { return r.HQI }},
	{"Literacy_Rate", func(r *models.MergedRecord) float64 { return r.LiteracyRate }},
	{"Female_Literacy_Rate", func(r *models.MergedRecord) float64 { return r.FemaleLiteracyRate }},
	{"SC_Percent", func(r *models.MergedRecord) float64 { return r.SCPercent }},
	{"ST_Percent", func(r *models.MergedRecord) float64 { return r.STPercent }},
	{"Households", func(r *models.MergedRecord) float64 { return r.Households }},
	{"Population", func(r *models.MergedRecord) float64 { return r.Population }},
}

// AnalyticsService computes the descriptive, ranking, state-aggregation and
// correlation outputs over the merged table.
type AnalyticsService struct{}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Describe returns the run-level descriptive statistics of the index.
// Districts with an undefined index are counted but excluded from the
// statistics.
func (s *AnalyticsService) Describe(records []*models.MergedRecord) models.IndexSummary {
	values := definedHQI(records)
	summary := models.IndexSummary{
		Districts: len(records),
		Undefined: len(records) - len(values),
	}
	if len(values) == 0 {
		summary.Mean = math.NaN()
		summary.Median = math.NaN()
		summary.Min = math.NaN()
		summary.Max = math.NaN()
		return summary
	}

	sort.Float64s(values)
	summary.Mean = stat.Mean(values, nil)
	summary.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	summary.Min = values[0]
	summary.Max = values[len(values)-1]
	return summary
}

// RankByHQI returns the n best and n worst districts by index value. The
// sort is stable, so districts with equal index values keep their input
// order. Both slices are ordered from the extreme inward: top starts at the
// highest index, bottom at the lowest. Districts with an undefined index are
// excluded.
func (s *AnalyticsService) RankByHQI(records []*models.MergedRecord, n int) (top, bottom []*models.MergedRecord) {
	ranked := make([]*models.MergedRecord, 0, len(records))
	for _, r := range records {
		if r.HasHQI() {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HQI > ranked[j].HQI
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top = slices.Clone(ranked[:n])
	bottom = slices.Clone(ranked[len(ranked)-n:])
	slices.Reverse(bottom)
	return top, bottom
}

// SummarizeStates groups the merged table by state and aggregates the index
// per group, sorted by mean index descending. States whose districts all
// have an undefined index are dropped.
func (s *AnalyticsService) SummarizeStates(records []*models.MergedRecord) []*models.StateSummary {
	order := make([]string, 0)
	districts := make(map[string]int)
	values := make(map[string][]float64)

	for _, r := range records {
		if _, seen := districts[r.StateName]; !seen {
			order = append(order, r.StateName)
		}
		districts[r.StateName]++
		if r.HasHQI() {
			values[r.StateName] = append(values[r.StateName], r.HQI)
		}
	}

	summaries := make([]*models.StateSummary, 0, len(order))
	for _, state := range order {
		vs := values[state]
		if len(vs) == 0 {
			continue
		}
		sort.Float64s(vs)
		summaries = append(summaries, &models.StateSummary{
			StateName: state,
			Districts: districts[state],
			MeanHQI:   stat.Mean(vs, nil),
			MedianHQI: stat.Quantile(0.5, stat.Empirical, vs, nil),
			MinHQI:    vs[0],
			MaxHQI:    vs[len(vs)-1],
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].MeanHQI > summaries[j].MeanHQI
	})
	return summaries
}

// Correlations computes the pairwise Pearson correlation matrix over the
// configured indicators. Rows are excluded pairwise: a district missing one
// indicator still contributes to every pair it has values for. Cells backed
// by fewer than two complete pairs are NaN.
func (s *AnalyticsService) Correlations(records []*models.MergedRecord) *models.CorrelationMatrix {
	n := len(correlationFeatures)
	cm := &models.CorrelationMatrix{
		Labels: make([]string, n),
		Values: make([][]float64, n),
		Pairs:  make([][]int, n),
	}
	for i := range correlationFeatures {
		cm.Labels[i] = correlationFeatures[i].label
		cm.Values[i] = make([]float64, n)
		cm.Pairs[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			xs := make([]float64, 0, len(records))
			ys := make([]float64, 0, len(records))
			for _, r := range records {
				x := correlationFeatures[i].value(r)
				y := correlationFeatures[j].value(r)
				if math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}

			c := math.NaN()
			if len(xs) >= 2 {
				c = stat.Correlation(xs, ys, nil)
			}
			cm.Values[i][j] = c
			cm.Values[j][i] = c
			cm.Pairs[i][j] = len(xs)
			cm.Pairs[j][i] = len(xs)
		}
	}

	return cm
}

// definedHQI collects the defined index values in input order
func definedHQI(records []*models.MergedRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if r.HasHQI() {
			values = append(values, r.HQI)
		}
	}
	return values
}
