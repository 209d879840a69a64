package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqi-analyzer/internal/models"
)

func mergedFixture(code, state, district string, hqi float64) *models.MergedRecord {
	return &models.MergedRecord{
		DistrictCode: code,
		StateName:    state,
		DistrictName: district,
		HQI:          hqi,
	}
}

func TestAnalyticsService_Describe(t *testing.T) {
	records := []*models.MergedRecord{
		mergedFixture("0001", "S", "A", 0.2),
		mergedFixture("0002", "S", "B", 0.4),
		mergedFixture("0003", "S", "C", 0.9),
		mergedFixture("0004", "S", "D", math.NaN()),
	}

	summary := NewAnalyticsService().Describe(records)

	assert.Equal(t, 4, summary.Districts)
	assert.Equal(t, 1, summary.Undefined)
	assert.InDelta(t, 0.5, summary.Mean, 1e-9)
	assert.InDelta(t, 0.4, summary.Median, 1e-9)
	assert.InDelta(t, 0.2, summary.Min, 1e-9)
	assert.InDelta(t, 0.9, summary.Max, 1e-9)
}

func TestAnalyticsService_RankByHQI(t *testing.T) {
	records := []*models.MergedRecord{
		mergedFixture("0001", "S", "A", 0.5),
		mergedFixture("0002", "S", "B", 0.9),
		mergedFixture("0003", "S", "C", 0.1),
		mergedFixture("0004", "S", "D", math.NaN()),
		mergedFixture("0005", "S", "E", 0.7),
	}

	top, bottom := NewAnalyticsService().RankByHQI(records, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].DistrictName)
	assert.Equal(t, "E", top[1].DistrictName)

	require.Len(t, bottom, 2)
	assert.Equal(t, "C", bottom[0].DistrictName)
	assert.Equal(t, "A", bottom[1].DistrictName)
}

func TestAnalyticsService_RankTiesKeepInputOrder(t *testing.T) {
	records := []*models.MergedRecord{
		mergedFixture("0001", "S", "First", 0.5),
		mergedFixture("0002", "S", "Second", 0.5),
		mergedFixture("0003", "S", "Third", 0.5),
	}

	top, _ := NewAnalyticsService().RankByHQI(records, 3)
	assert.Equal(t, "First", top[0].DistrictName)
	assert.Equal(t, "Second", top[1].DistrictName)
	assert.Equal(t, "Third", top[2].DistrictName)
}

func TestAnalyticsService_SummarizeStates(t *testing.T) {
	records := []*models.MergedRecord{
		mergedFixture("0001", "Solo", "Only", 0.61),
		mergedFixture("0002", "Pair", "P1", 0.4),
		mergedFixture("0003", "Pair", "P2", 0.6),
	}

	summaries := NewAnalyticsService().SummarizeStates(records)
	require.Len(t, summaries, 2)

	// Sorted by mean descending: Solo (0.61) above Pair (0.5)
	solo := summaries[0]
	assert.Equal(t, "Solo", solo.StateName)
	assert.Equal(t, 1, solo.Districts)

	// A single-district state's mean equals that district's index exactly
	assert.Equal(t, 0.61, solo.MeanHQI)
	assert.Equal(t, 0.61, solo.MedianHQI)
	assert.Equal(t, 0.61, solo.MinHQI)
	assert.Equal(t, 0.61, solo.MaxHQI)

	pair := summaries[1]
	assert.Equal(t, 2, pair.Districts)
	assert.InDelta(t, 0.5, pair.MeanHQI, 1e-9)
	assert.InDelta(t, 0.4, pair.MinHQI, 1e-9)
	assert.InDelta(t, 0.6, pair.MaxHQI, 1e-9)
}

func TestAnalyticsService_Correlations(t *testing.T) {
	records := make([]*models.MergedRecord, 0, 10)
	for i := 0; i < 10; i++ {
		r := mergedFixture("000"+string(rune('0'+i)), "S", "D", float64(i)/10)
		r.LiteracyRate = 100 * r.HQI // perfectly correlated with the index
		r.FemaleLiteracyRate = math.NaN()
		r.SCPercent = 10
		r.STPercent = 5
		r.Households = float64(100 + i)
		r.Population = float64(1000 + 10*i)
		records = append(records, r)
	}

	cm := NewAnalyticsService().Correlations(records)
	require.Equal(t, 7, len(cm.Labels))

	hqi := indexOf(t, cm.Labels, "HQI")
	literacy := indexOf(t, cm.Labels, "Literacy_Rate")
	female := indexOf(t, cm.Labels, "Female_Literacy_Rate")

	assert.InDelta(t, 1.0, cm.Values[hqi][hqi], 1e-9)
	assert.InDelta(t, 1.0, cm.Values[hqi][literacy], 1e-9)
	assert.Equal(t, cm.Values[hqi][literacy], cm.Values[literacy][hqi], "matrix is symmetric")
	assert.Equal(t, 10, cm.Pairs[hqi][literacy])

	// A column with no defined values yields NaN cells and zero pairs
	assert.True(t, math.IsNaN(cm.Values[hqi][female]))
	assert.Equal(t, 0, cm.Pairs[hqi][female])
}

func TestAnalyticsService_CorrelationsPairwiseExclusion(t *testing.T) {
	records := []*models.MergedRecord{
		mergedFixture("0001", "S", "A", 0.1),
		mergedFixture("0002", "S", "B", 0.2),
		mergedFixture("0003", "S", "C", 0.3),
	}
	for i, r := range records {
		r.LiteracyRate = 50 + float64(i)
		r.SCPercent = 10 - float64(i)
		r.STPercent = 5
		r.Households = 100
		r.Population = 1000
	}
	// One district misses literacy only; it must still contribute to pairs
	records[2].LiteracyRate = math.NaN()

	cm := NewAnalyticsService().Correlations(records)

	hqi := indexOf(t, cm.Labels, "HQI")
	literacy := indexOf(t, cm.Labels, "Literacy_Rate")
	sc := indexOf(t, cm.Labels, "SC_Percent")

	assert.Equal(t, 2, cm.Pairs[hqi][literacy], "row with missing literacy excluded from this pair")
	assert.Equal(t, 3, cm.Pairs[hqi][sc], "but kept for pairs it has values for")
}

func indexOf(t *testing.T, labels []string, want string) int {
	t.Helper()
	for i, l := range labels {
		if l == want {
			return i
		}
	}
	t.Fatalf("label %q not found in %v", want, labels)
	return -1
}
