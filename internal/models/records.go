package models

import "math"

// HousingRecord holds one district's housing-condition counts from the census
// housing table, restricted to the Total stratum, together with the derived
// percentage splits and the housing quality index.
type HousingRecord struct {
	DistrictCode     string `json:"district_code"`
	StateName        string `json:"state_name"`
	DistrictName     string `json:"district_name"`
	CountGood        int    `json:"count_good"`
	CountLivable     int    `json:"count_livable"`
	CountDilapidated int    `json:"count_dilapidated"`

	// Derived fields. The percentages and the index are NaN when the
	// district reports no houses at all.
	TotalHouses    int     `json:"total_houses"`
	PctGood        float64 `json:"pct_good"`
	PctLivable     float64 `json:"pct_livable"`
	PctDilapidated float64 `json:"pct_dilapidated"`
	HQI            float64 `json:"hqi"`
}

// DemographicRecord holds one district's demographic counts
type DemographicRecord struct {
	DistrictCode        string  `json:"district_code"`
	LiterateCount       float64 `json:"literate_count"`
	FemaleLiterateCount float64 `json:"female_literate_count"`
	SCCount             float64 `json:"sc_count"`
	STCount             float64 `json:"st_count"`
	Households          float64 `json:"households"`
	Population          float64 `json:"population"`
}

// MergedRecord is the inner join of a housing record and a demographic record
// on the normalized district code, with the secondary indicators derived from
// both sides. Ratio fields are NaN when their denominator is zero.
type MergedRecord struct {
	DistrictCode string `json:"district_code"`
	StateName    string `json:"state_name"`
	DistrictName string `json:"district_name"`

	HQI        float64 `json:"hqi"`
	Households float64 `json:"households"`
	Population float64 `json:"population"`

	SCPercent          float64 `json:"sc_percent"`
	STPercent          float64 `json:"st_percent"`
	LiteracyRate       float64 `json:"literacy_rate"`
	FemaleLiteracyRate float64 `json:"female_literacy_rate"`
	PopulationDensity  float64 `json:"population_density"`
	LiteracyGenderGap  float64 `json:"literacy_gender_gap"`

	// ClusterID is 0 until clustering assigns a 1-based label
	ClusterID int `json:"cluster_id,omitempty"`
}

// ClusterAssignment labels one district with its k-means cluster
type ClusterAssignment struct {
	DistrictName string `json:"district_name"`
	StateName    string `json:"state_name"`
	ClusterID    int    `json:"cluster_id"`
}

// ClusterProfile summarizes the mean feature values of one cluster
type ClusterProfile struct {
	ClusterID     int     `json:"cluster_id"`
	Districts     int     `json:"districts"`
	MeanHQI       float64 `json:"mean_hqi"`
	MeanLiteracy  float64 `json:"mean_literacy_rate"`
	MeanSCPercent float64 `json:"mean_sc_percent"`
	MeanSTPercent float64 `json:"mean_st_percent"`
	MeanDensity   float64 `json:"mean_population_density"`
}

// IndexSummary holds the run-level descriptive statistics of the index
type IndexSummary struct {
	Districts int     `json:"districts"`
	Undefined int     `json:"undefined"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// StateSummary aggregates the index per state
type StateSummary struct {
	StateName string  `json:"state_name"`
	Districts int     `json:"districts"`
	MeanHQI   float64 `json:"mean_hqi"`
	MedianHQI float64 `json:"median_hqi"`
	MinHQI    float64 `json:"min_hqi"`
	MaxHQI    float64 `json:"max_hqi"`
}

// CorrelationMatrix is a pairwise Pearson correlation matrix. Values[i][j] is
// the correlation between Labels[i] and Labels[j] over the rows where both
// are defined; Pairs[i][j] is the number of such rows.
type CorrelationMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
	Pairs  [][]int     `json:"pairs"`
}

// RegressionResult holds an ordinary least squares fit. The slices are
// indexed by term, intercept first.
type RegressionResult struct {
	Response     string    `json:"response"`
	Terms        []string  `json:"terms"`
	Coefficients []float64 `json:"coefficients"`
	StdErrors    []float64 `json:"std_errors"`
	TValues      []float64 `json:"t_values"`
	PValues      []float64 `json:"p_values"`
	RSquared     float64   `json:"r_squared"`
	Observations int       `json:"observations"`
}

// HasHQI reports whether the record carries a defined index value
func (r *MergedRecord) HasHQI() bool {
	return !math.IsNaN(r.HQI)
}
