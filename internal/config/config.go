package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DataDir is the base directory for all input data files
var DataDir string

// OutputDir is the directory where charts, maps and reports are written
var OutputDir string

// DataConfig holds the input file names, resolved against DataDir
type DataConfig struct {
	HousingData     string `json:"housing_data"`
	DemographicData string `json:"demographic_data"`
	BoundaryData    string `json:"boundary_data"`
}

// IndexWeights is the housing quality index weight vector. The default gives
// full credit to good houses, half credit to livable ones and none to
// dilapidated ones.
type IndexWeights struct {
	Good        float64 `json:"good"`
	Livable     float64 `json:"livable"`
	Dilapidated float64 `json:"dilapidated"`
}

// ClusterConfig holds the k-means parameters. The seed is fixed so that
// repeated runs over the same input produce identical assignments.
type ClusterConfig struct {
	K             int   `json:"k"`
	Seed          int64 `json:"seed"`
	MaxIterations int   `json:"max_iterations"`
}

// MatchConfig holds the fuzzy name-matching parameters for the geometry join
type MatchConfig struct {
	SimilarityCutoff float64 `json:"similarity_cutoff"`
}

// Config is the full analyzer configuration
type Config struct {
	Data    DataConfig    `json:"data"`
	Weights IndexWeights  `json:"weights"`
	Cluster ClusterConfig `json:"cluster"`
	Match   MatchConfig   `json:"match"`
}

var cfg Config

func init() {
	// Set up data and output directories
	if envDataDir := os.Getenv("DATA_DIR"); envDataDir != "" {
		DataDir = envDataDir
	} else {
		DataDir = filepath.Join(".", "data")
	}
	if envOutputDir := os.Getenv("OUTPUT_DIR"); envOutputDir != "" {
		OutputDir = envOutputDir
	} else {
		OutputDir = filepath.Join(".", "output")
	}

	// Default configuration
	cfg = Config{
		Data: DataConfig{
			HousingData:     "district_housing_conditions_2011.csv",
			DemographicData: "district_demographics_2011.csv",
			BoundaryData:    "india_district_boundaries.geojson",
		},
		Weights: IndexWeights{
			Good:        1.0,
			Livable:     0.5,
			Dilapidated: 0.0,
		},
		Cluster: ClusterConfig{
			K:             4,
			Seed:          42,
			MaxIterations: 100,
		},
		Match: MatchConfig{
			SimilarityCutoff: 0.72,
		},
	}

	// Try to load config from file
	if configFile, err := os.Open("config.json"); err == nil {
		defer configFile.Close()
		json.NewDecoder(configFile).Decode(&cfg)
	}
}

// GetDataFilePath returns the full path for a data file given its name
func GetDataFilePath(filename string) string {
	return filepath.Join(DataDir, filename)
}

// GetConfig returns the analyzer configuration
func GetConfig() Config {
	return cfg
}
