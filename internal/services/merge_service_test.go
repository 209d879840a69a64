package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqi-analyzer/internal/models"
)

func housingFixture(code, state, district string, hqi float64) *models.HousingRecord {
	return &models.HousingRecord{
		DistrictCode: code,
		StateName:    state,
		DistrictName: district,
		HQI:          hqi,
	}
}

func TestMergeService_EndToEndExample(t *testing.T) {
	housing := []*models.HousingRecord{
		{
			DistrictCode:     "0001",
			StateName:        "StateA",
			DistrictName:     "Alpha",
			CountGood:        80,
			CountLivable:     15,
			CountDilapidated: 5,
			TotalHouses:      100,
			HQI:              0.875,
		},
	}
	demographics := []*models.DemographicRecord{
		{
			DistrictCode:        "0001",
			LiterateCount:       700,
			FemaleLiterateCount: 300,
			SCCount:             100,
			STCount:             50,
			Households:          200,
			Population:          1000,
		},
	}

	merged := NewMergeService().Merge(housing, demographics)
	require.Len(t, merged, 1)

	m := merged[0]
	assert.InDelta(t, 0.875, m.HQI, 1e-9)
	assert.InDelta(t, 5.0, m.PopulationDensity, 1e-9)
	assert.InDelta(t, 70.0, m.LiteracyRate, 1e-9)
	assert.InDelta(t, 30.0, m.FemaleLiteracyRate, 1e-9)
	assert.InDelta(t, 10.0, m.SCPercent, 1e-9)
	assert.InDelta(t, 5.0, m.STPercent, 1e-9)
	assert.InDelta(t, 40.0, m.LiteracyGenderGap, 1e-9)
}

func TestMergeService_InnerJoinSemantics(t *testing.T) {
	housing := []*models.HousingRecord{
		housingFixture("0001", "S", "A", 0.8),
		housingFixture("0002", "S", "B", 0.7),
		housingFixture("0003", "S", "C", 0.6),
	}
	demographics := []*models.DemographicRecord{
		{DistrictCode: "0002", Population: 100, Households: 10},
		{DistrictCode: "0004", Population: 100, Households: 10},
	}

	merged := NewMergeService().Merge(housing, demographics)

	require.Len(t, merged, 1, "districts present in only one input are dropped")
	assert.LessOrEqual(t, len(merged), len(housing))
	assert.LessOrEqual(t, len(merged), len(demographics))
	assert.Equal(t, "0002", merged[0].DistrictCode)
}

func TestMergeService_ZeroDenominators(t *testing.T) {
	housing := []*models.HousingRecord{housingFixture("0001", "S", "A", 0.5)}
	demographics := []*models.DemographicRecord{
		{DistrictCode: "0001", LiterateCount: 10, Population: 0, Households: 0},
	}

	merged := NewMergeService().Merge(housing, demographics)
	require.Len(t, merged, 1)

	// Zero denominators surface as undefined values, not as zero
	m := merged[0]
	assert.True(t, math.IsNaN(m.LiteracyRate))
	assert.True(t, math.IsNaN(m.FemaleLiteracyRate))
	assert.True(t, math.IsNaN(m.SCPercent))
	assert.True(t, math.IsNaN(m.STPercent))
	assert.True(t, math.IsNaN(m.PopulationDensity))
	assert.True(t, math.IsNaN(m.LiteracyGenderGap))
}

func TestMergeService_PreservesHousingOrder(t *testing.T) {
	housing := []*models.HousingRecord{
		housingFixture("0003", "S", "C", 0.6),
		housingFixture("0001", "S", "A", 0.8),
		housingFixture("0002", "S", "B", 0.7),
	}
	demographics := []*models.DemographicRecord{
		{DistrictCode: "0001", Population: 1, Households: 1},
		{DistrictCode: "0002", Population: 1, Households: 1},
		{DistrictCode: "0003", Population: 1, Households: 1},
	}

	merged := NewMergeService().Merge(housing, demographics)
	require.Len(t, merged, 3)
	assert.Equal(t, "0003", merged[0].DistrictCode)
	assert.Equal(t, "0001", merged[1].DistrictCode)
	assert.Equal(t, "0002", merged[2].DistrictCode)
}
