package services

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"hqi-analyzer/internal/config"
	"hqi-analyzer/internal/models"
)

// Housing table column names
const (
	colDistrictCode = "District Code"
	colStateName    = "State Name"
	colDistrictName = "District Name"
	colStratum      = "Rural/Urban"
	colGood         = "Good"
	colLivable      = "Livable"
	colDilapidated  = "Dilapidated"
)

// totalStratum is the only stratum retained; the Rural and Urban partitions
// are subsets of it.
const totalStratum = "Total"

// HousingService loads the housing-conditions table and builds the housing
// quality index per district.
type HousingService struct {
	filePath string
	weights  config.IndexWeights
}

// NewHousingService creates a new HousingService instance
func NewHousingService(filePath string, weights config.IndexWeights) *HousingService {
	return &HousingService{
		filePath: filePath,
		weights:  weights,
	}
}

// LoadRecords reads the housing CSV and returns one record per district,
// restricted to the Total stratum, with percentage splits and the index
// computed. Districts reporting no houses at all keep NaN percentages and a
// NaN index; their count is logged rather than silently treated as zero.
func (s *HousingService) LoadRecords() ([]*models.HousingRecord, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening housing CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading housing CSV header: %v", err)
	}
	idx, err := headerIndex(header,
		colDistrictCode, colStateName, colDistrictName, colStratum,
		colGood, colLivable, colDilapidated)
	if err != nil {
		return nil, fmt.Errorf("housing CSV: %v", err)
	}

	records := make([]*models.HousingRecord, 0, 700)
	seen := make(map[string]bool)
	row := 1
	zeroTotal := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading housing CSV row %d: %v", row+1, err)
		}
		row++

		// Only the Total stratum contributes; Rural and Urban are subsets
		if record[idx[colStratum]] != totalStratum {
			continue
		}

		code := models.NormalizeDistrictCode(record[idx[colDistrictCode]])
		if seen[code] {
			log.Printf("Warning: duplicate housing row for district %s ignored (row %d)", code, row)
			continue
		}
		seen[code] = true

		good, err := parseCount(record[idx[colGood]], colGood, row)
		if err != nil {
			return nil, fmt.Errorf("housing CSV: %v", err)
		}
		livable, err := parseCount(record[idx[colLivable]], colLivable, row)
		if err != nil {
			return nil, fmt.Errorf("housing CSV: %v", err)
		}
		dilapidated, err := parseCount(record[idx[colDilapidated]], colDilapidated, row)
		if err != nil {
			return nil, fmt.Errorf("housing CSV: %v", err)
		}

		housing := &models.HousingRecord{
			DistrictCode:     code,
			StateName:        record[idx[colStateName]],
			DistrictName:     record[idx[colDistrictName]],
			CountGood:        good,
			CountLivable:     livable,
			CountDilapidated: dilapidated,
			TotalHouses:      good + livable + dilapidated,
		}
		s.deriveIndex(housing)
		if math.IsNaN(housing.HQI) {
			zeroTotal++
		}

		records = append(records, housing)
	}

	if zeroTotal > 0 {
		log.Printf("Warning: %d district(s) report no housing stock; their index is undefined", zeroTotal)
	}
	log.Printf("Loaded %d housing records from %s", len(records), s.filePath)

	return records, nil
}

// deriveIndex fills the percentage splits and the weighted index. With the
// default weights the index is (pct_good + 0.5*pct_livable) / 100, in [0, 1].
func (s *HousingService) deriveIndex(r *models.HousingRecord) {
	if r.TotalHouses == 0 {
		r.PctGood = math.NaN()
		r.PctLivable = math.NaN()
		r.PctDilapidated = math.NaN()
		r.HQI = math.NaN()
		return
	}

	total := float64(r.TotalHouses)
	r.PctGood = float64(r.CountGood) / total * 100
	r.PctLivable = float64(r.CountLivable) / total * 100
	r.PctDilapidated = float64(r.CountDilapidated) / total * 100

	r.HQI = (s.weights.Good*r.PctGood +
		s.weights.Livable*r.PctLivable +
		s.weights.Dilapidated*r.PctDilapidated) / 100
}
