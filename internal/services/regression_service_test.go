package services

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqi-analyzer/internal/models"
)

func regressionFixture(n int) []*models.MergedRecord {
	// y = 2 + 0.5*sc - 0.25*st with a small alternating disturbance
	records := make([]*models.MergedRecord, 0, n)
	for i := 0; i < n; i++ {
		sc := 5 + float64(i%7)*3
		st := 2 + float64(i%5)*4
		noise := 0.05
		if i%2 == 1 {
			noise = -0.05
		}
		r := mergedFixture(fmt.Sprintf("%04d", i+1), "S", fmt.Sprintf("D%d", i+1), 0.5)
		r.SCPercent = sc
		r.STPercent = st
		r.FemaleLiteracyRate = 2 + 0.5*sc - 0.25*st + noise
		records = append(records, r)
	}
	return records
}

func TestRegressionService_RecoversCoefficients(t *testing.T) {
	result, err := NewRegressionService().FitFemaleLiteracy(regressionFixture(30))
	require.NoError(t, err)

	assert.Equal(t, "Female_Literacy_Rate", result.Response)
	require.Equal(t, []string{"Intercept", "SC_Percent", "ST_Percent"}, result.Terms)
	assert.Equal(t, 30, result.Observations)

	require.Len(t, result.Coefficients, 3)
	assert.InDelta(t, 2.0, result.Coefficients[0], 0.1)
	assert.InDelta(t, 0.5, result.Coefficients[1], 0.05)
	assert.InDelta(t, -0.25, result.Coefficients[2], 0.05)

	assert.Greater(t, result.RSquared, 0.99)

	for j := range result.Terms {
		assert.Greater(t, result.StdErrors[j], 0.0)
		assert.InDelta(t, result.Coefficients[j]/result.StdErrors[j], result.TValues[j], 1e-9)
		assert.GreaterOrEqual(t, result.PValues[j], 0.0)
		assert.LessOrEqual(t, result.PValues[j], 1.0)
	}

	// The slope terms dominate the noise, so both come out significant
	assert.Less(t, result.PValues[1], 0.05)
	assert.Less(t, result.PValues[2], 0.05)
}

func TestRegressionService_ExcludesIncompleteRows(t *testing.T) {
	records := regressionFixture(30)
	records[4].FemaleLiteracyRate = math.NaN()
	records[9].SCPercent = math.NaN()
	records[14].STPercent = math.NaN()

	result, err := NewRegressionService().FitFemaleLiteracy(records)
	require.NoError(t, err)
	assert.Equal(t, 27, result.Observations)
}

func TestRegressionService_TooFewObservations(t *testing.T) {
	_, err := NewRegressionService().FitFemaleLiteracy(regressionFixture(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than 3")
}
