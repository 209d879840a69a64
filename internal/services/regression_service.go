package services

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"hqi-analyzer/internal/models"
)

// RegressionService fits ordinary least squares models over the merged table
type RegressionService struct{}

// NewRegressionService creates a new RegressionService instance
func NewRegressionService() *RegressionService {
	return &RegressionService{}
}

// FitFemaleLiteracy fits an OLS model predicting the female literacy rate
// from the scheduled-caste and scheduled-tribe shares. Districts with any
// undefined value among the three indicators are excluded. The result is a
// terminal analytical output; nothing downstream consumes it.
func (s *RegressionService) FitFemaleLiteracy(records []*models.MergedRecord) (*models.RegressionResult, error) {
	var ys, sc, st []float64
	for _, r := range records {
		if math.IsNaN(r.FemaleLiteracyRate) || math.IsNaN(r.SCPercent) || math.IsNaN(r.STPercent) {
			continue
		}
		ys = append(ys, r.FemaleLiteracyRate)
		sc = append(sc, r.SCPercent)
		st = append(st, r.STPercent)
	}

	n := len(ys)
	const p = 3 // intercept, SC_Percent, ST_Percent
	if n <= p {
		return nil, fmt.Errorf("regression needs more than %d complete districts, have %d", p, n)
	}

	data := make([]float64, 0, n*p)
	for i := 0; i < n; i++ {
		data = append(data, 1, sc[i], st[i])
	}
	X := mat.NewDense(n, p, data)
	y := mat.NewVecDense(n, ys)

	// Solve the normal equations; (X'X)^-1 is also needed for the standard
	// errors, so the explicit inverse is not wasted work at this scale.
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("error solving normal equations: %v", err)
	}
	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(X, &beta)

	rss := 0.0
	for i := 0; i < n; i++ {
		resid := ys[i] - fitted.AtVec(i)
		rss += resid * resid
	}
	meanY := stat.Mean(ys, nil)
	tss := 0.0
	for _, v := range ys {
		tss += (v - meanY) * (v - meanY)
	}

	sigma2 := rss / float64(n-p)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - p)}

	result := &models.RegressionResult{
		Response:     "Female_Literacy_Rate",
		Terms:        []string{"Intercept", "SC_Percent", "ST_Percent"},
		Coefficients: make([]float64, p),
		StdErrors:    make([]float64, p),
		TValues:      make([]float64, p),
		PValues:      make([]float64, p),
		Observations: n,
	}
	for j := 0; j < p; j++ {
		result.Coefficients[j] = beta.AtVec(j)
		result.StdErrors[j] = math.Sqrt(sigma2 * xtxInv.At(j, j))
		result.TValues[j] = result.Coefficients[j] / result.StdErrors[j]
		result.PValues[j] = 2 * tDist.CDF(-math.Abs(result.TValues[j]))
	}
	if tss > 0 {
		result.RSquared = 1 - rss/tss
	} else {
		result.RSquared = math.NaN()
	}

	log.Printf("Regression: fitted %s on %d districts (R²=%.4f)", result.Response, n, result.RSquared)

	return result, nil
}
