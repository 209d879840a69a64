package main

import (
	"log"
	"os"

	"hqi-analyzer/internal/config"
	"hqi-analyzer/internal/models"
	"hqi-analyzer/internal/services"
)

const (
	AppVersion = "1.0.0"
)

func main() {
	log.Printf("Starting District HQI Analyzer v%s", AppVersion)

	cfg := config.GetConfig()
	housingPath := config.GetDataFilePath(cfg.Data.HousingData)
	demographicPath := config.GetDataFilePath(cfg.Data.DemographicData)
	boundaryPath := config.GetDataFilePath(cfg.Data.BoundaryData)

	// Check that the input files exist
	if _, err := os.Stat(housingPath); os.IsNotExist(err) {
		log.Fatalf("Housing CSV file not found at: %s", housingPath)
	}
	if _, err := os.Stat(demographicPath); os.IsNotExist(err) {
		log.Fatalf("Demographic CSV file not found at: %s", demographicPath)
	}
	if _, err := os.Stat(boundaryPath); os.IsNotExist(err) {
		log.Fatalf("Boundary file not found at: %s", boundaryPath)
	}

	log.Printf("Using housing CSV file at: %s", housingPath)
	log.Printf("Using demographic CSV file at: %s", demographicPath)
	log.Printf("Using boundary file at: %s", boundaryPath)

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	// Initialize services
	housingService := services.NewHousingService(housingPath, cfg.Weights)
	demographicService := services.NewDemographicService(demographicPath)
	mergeService := services.NewMergeService()
	analyticsService := services.NewAnalyticsService()
	clusterService := services.NewClusterService(cfg.Cluster)
	regressionService := services.NewRegressionService()
	geoService := services.NewGeoService(boundaryPath, cfg.Match.SimilarityCutoff)
	reportService := services.NewReportService()
	chartService := services.NewChartService(config.OutputDir)
	mapService := services.NewMapService(config.OutputDir)

	// Build the merged district table
	housing, err := housingService.LoadRecords()
	if err != nil {
		log.Fatalf("Error loading housing data: %v", err)
	}
	demographics, err := demographicService.LoadRecords()
	if err != nil {
		log.Fatalf("Error loading demographic data: %v", err)
	}
	merged := mergeService.Merge(housing, demographics)
	if len(merged) == 0 {
		log.Fatalf("No districts carry both housing and demographic data")
	}

	// Analytics over the merged table
	summary := analyticsService.Describe(merged)
	top, bottom := analyticsService.RankByHQI(merged, 10)
	states := analyticsService.SummarizeStates(merged)
	correlations := analyticsService.Correlations(merged)

	var profiles []*models.ClusterProfile
	if _, err := clusterService.Cluster(merged); err != nil {
		log.Printf("Warning: clustering skipped: %v", err)
	} else {
		profiles = clusterService.ProfileClusters(merged)
	}

	regression, err := regressionService.FitFemaleLiteracy(merged)
	if err != nil {
		log.Printf("Warning: regression skipped: %v", err)
	}

	// Resolve district boundaries
	geometries, err := geoService.LoadGeometries()
	if err != nil {
		log.Fatalf("Error loading boundaries: %v", err)
	}
	geoResult := geoService.JoinHQI(geometries, housing)

	// Printed reports
	reportService.PrintIndexSummary(summary)
	reportService.PrintRanking(top, bottom)
	reportService.PrintStateSummaries(states)
	reportService.PrintCorrelations(correlations)
	if profiles != nil {
		reportService.PrintClusterProfiles(profiles)
	}
	if regression != nil {
		reportService.PrintRegression(regression)
	}
	reportService.PrintGeoJoin(geoResult)

	// Rendered artifacts
	if err := chartService.RenderHistogram(merged); err != nil {
		log.Printf("Warning: error rendering histogram: %v", err)
	}
	if err := chartService.RenderRanking(top, bottom); err != nil {
		log.Printf("Warning: error rendering ranking charts: %v", err)
	}
	if err := chartService.RenderCorrelations(correlations); err != nil {
		log.Printf("Warning: error rendering correlation matrix: %v", err)
	}
	if err := chartService.RenderChoropleth(geoResult); err != nil {
		log.Printf("Warning: error rendering choropleth: %v", err)
	}
	if err := mapService.RenderInteractive(geoResult); err != nil {
		log.Printf("Warning: error rendering interactive map: %v", err)
	}

	log.Printf("Run complete: %d districts analyzed, %d boundaries without an index value",
		len(merged), geoResult.Unresolved)
}
