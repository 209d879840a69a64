package services

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"hqi-analyzer/internal/models"
)

// Demographic table column names
const (
	colDemoDistrictCode = "District code"
	colLiterate         = "Literate"
	colFemaleLiterate   = "Female_Literate"
	colScheduledCaste   = "SC"
	colScheduledTribe   = "ST"
	colHouseholds       = "Households"
	colTotalPopulation  = "Population"
)

// DemographicService loads the district demographic table and normalizes it
// to canonical field names and district codes.
type DemographicService struct {
	filePath string
}

// NewDemographicService creates a new DemographicService instance
func NewDemographicService(filePath string) *DemographicService {
	return &DemographicService{
		filePath: filePath,
	}
}

// LoadRecords reads the demographic CSV and returns one record per district
// with the district code normalized to the canonical zero-padded form.
// Non-numeric input in a count column fails the run with the offending cell
// named.
func (s *DemographicService) LoadRecords() ([]*models.DemographicRecord, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening demographic CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading demographic CSV header: %v", err)
	}
	idx, err := headerIndex(header,
		colDemoDistrictCode, colLiterate, colFemaleLiterate,
		colScheduledCaste, colScheduledTribe, colHouseholds, colTotalPopulation)
	if err != nil {
		return nil, fmt.Errorf("demographic CSV: %v", err)
	}

	records := make([]*models.DemographicRecord, 0, 700)
	seen := make(map[string]bool)
	row := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading demographic CSV row %d: %v", row+1, err)
		}
		row++

		code := models.NormalizeDistrictCode(record[idx[colDemoDistrictCode]])
		if seen[code] {
			log.Printf("Warning: duplicate demographic row for district %s ignored (row %d)", code, row)
			continue
		}
		seen[code] = true

		demographic := &models.DemographicRecord{DistrictCode: code}

		fields := []struct {
			column string
			dst    *float64
		}{
			{colLiterate, &demographic.LiterateCount},
			{colFemaleLiterate, &demographic.FemaleLiterateCount},
			{colScheduledCaste, &demographic.SCCount},
			{colScheduledTribe, &demographic.STCount},
			{colHouseholds, &demographic.Households},
			{colTotalPopulation, &demographic.Population},
		}
		for _, f := range fields {
			v, err := parseAmount(record[idx[f.column]], f.column, row)
			if err != nil {
				return nil, fmt.Errorf("demographic CSV: %v", err)
			}
			*f.dst = v
		}

		records = append(records, demographic)
	}

	log.Printf("Loaded %d demographic records from %s", len(records), s.filePath)

	return records, nil
}
