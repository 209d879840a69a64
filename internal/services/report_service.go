package services

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"hqi-analyzer/internal/models"
)

// ReportService prints the summary tables of a run to standard output
type ReportService struct{}

// NewReportService creates a new ReportService instance
func NewReportService() *ReportService {
	return &ReportService{}
}

// PrintIndexSummary prints the run-level descriptive statistics
func (s *ReportService) PrintIndexSummary(summary models.IndexSummary) {
	color.Cyan("\n=== Housing Quality Index ===")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Districts", "Undefined", "Mean", "Median", "Min", "Max"})
	table.Append([]string{
		strconv.Itoa(summary.Districts),
		strconv.Itoa(summary.Undefined),
		fmtValue(summary.Mean, 4),
		fmtValue(summary.Median, 4),
		fmtValue(summary.Min, 4),
		fmtValue(summary.Max, 4),
	})
	table.Render()
}

// PrintRanking prints the best and worst districts by index value
func (s *ReportService) PrintRanking(top, bottom []*models.MergedRecord) {
	color.Yellow("\nTop %d Districts by HQI", len(top))
	s.rankingTable(top)

	color.Yellow("\nBottom %d Districts by HQI", len(bottom))
	s.rankingTable(bottom)
}

func (s *ReportService) rankingTable(records []*models.MergedRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "District", "State", "HQI", "Literacy Rate"})

	for i, r := range records {
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.DistrictName,
			r.StateName,
			fmtValue(r.HQI, 4),
			fmtValue(r.LiteracyRate, 1),
		})
	}
	table.Render()
}

// PrintStateSummaries prints the per-state aggregation, ordered by mean
// index descending.
func (s *ReportService) PrintStateSummaries(summaries []*models.StateSummary) {
	color.Yellow("\nState HQI Summary")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"State", "Districts", "Mean", "Median", "Min", "Max"})

	for _, st := range summaries {
		table.Append([]string{
			st.StateName,
			strconv.Itoa(st.Districts),
			fmtValue(st.MeanHQI, 4),
			fmtValue(st.MedianHQI, 4),
			fmtValue(st.MinHQI, 4),
			fmtValue(st.MaxHQI, 4),
		})
	}
	table.Render()
}

// PrintCorrelations prints the pairwise correlation matrix
func (s *ReportService) PrintCorrelations(cm *models.CorrelationMatrix) {
	color.Yellow("\nCorrelation Matrix (pairwise complete)")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(append([]string{""}, cm.Labels...))

	for i, label := range cm.Labels {
		row := make([]string, 0, len(cm.Labels)+1)
		row = append(row, label)
		for j := range cm.Labels {
			row = append(row, fmtValue(cm.Values[i][j], 3))
		}
		table.Append(row)
	}
	table.Render()
}

// PrintClusterProfiles prints the mean feature values per cluster
func (s *ReportService) PrintClusterProfiles(profiles []*models.ClusterProfile) {
	color.Yellow("\nCluster Profiles")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Cluster", "Districts", "Mean HQI", "Mean Literacy", "Mean SC%", "Mean ST%", "Mean Density"})

	for _, p := range profiles {
		table.Append([]string{
			strconv.Itoa(p.ClusterID),
			strconv.Itoa(p.Districts),
			fmtValue(p.MeanHQI, 4),
			fmtValue(p.MeanLiteracy, 1),
			fmtValue(p.MeanSCPercent, 1),
			fmtValue(p.MeanSTPercent, 1),
			fmtValue(p.MeanDensity, 2),
		})
	}
	table.Render()
}

// PrintRegression prints the OLS fit summary
func (s *ReportService) PrintRegression(result *models.RegressionResult) {
	color.Yellow("\nOLS: %s ~ SC_Percent + ST_Percent", result.Response)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Term", "Coefficient", "Std Error", "t", "p"})

	for i, term := range result.Terms {
		table.Append([]string{
			term,
			fmtValue(result.Coefficients[i], 4),
			fmtValue(result.StdErrors[i], 4),
			fmtValue(result.TValues[i], 3),
			fmtValue(result.PValues[i], 4),
		})
	}
	table.Render()
	fmt.Printf("R² = %s on %d districts\n", fmtValue(result.RSquared, 4), result.Observations)
}

// PrintGeoJoin prints the geometry join outcome, including the unresolved
// count and the fuzzy matches accepted.
func (s *ReportService) PrintGeoJoin(result *models.GeoJoinResult) {
	color.Yellow("\nBoundary Join")
	fmt.Printf("Exact code matches:  %d\n", result.Exact)
	fmt.Printf("Fuzzy name matches:  %d\n", result.Fuzzy)
	if result.Unresolved > 0 {
		color.Red("Unresolved boundaries (no HQI): %d", result.Unresolved)
	} else {
		fmt.Println("Unresolved boundaries (no HQI): 0")
	}

	if result.Fuzzy > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Boundary District", "Boundary State", "Matched District", "Matched State", "Similarity"})
		for _, r := range result.Records {
			if r.Match != models.MatchFuzzy {
				continue
			}
			table.Append([]string{
				r.Geometry.DistrictName,
				r.Geometry.StateName,
				r.MatchedDistrict,
				r.MatchedState,
				fmtValue(r.Similarity, 3),
			})
		}
		table.Render()
	}

	if result.Unresolved > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Unmatched District", "State", "Centroid"})
		for _, r := range result.Records {
			if r.Match != models.MatchNone {
				continue
			}
			location := "unknown"
			if x, y, ok := r.Geometry.Centroid(); ok {
				location = fmt.Sprintf("%.3f, %.3f", x, y)
			}
			table.Append([]string{
				r.Geometry.DistrictName,
				r.Geometry.StateName,
				location,
			})
		}
		table.Render()
	}
}

// fmtValue formats a statistic, rendering undefined values as NA
func fmtValue(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
