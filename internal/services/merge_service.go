package services

import (
	"log"
	"math"

	"hqi-analyzer/internal/models"
)

// MergeService inner-joins housing and demographic records on the normalized
// district code and derives the secondary indicators.
type MergeService struct{}

// NewMergeService creates a new MergeService instance
func NewMergeService() *MergeService {
	return &MergeService{}
}

// Merge inner-joins the two inputs on district code. Districts present in
// only one input are excluded by design; the counts of dropped rows are
// logged. The output preserves the housing input order, and every output row
// has both sides populated.
func (s *MergeService) Merge(housing []*models.HousingRecord, demographics []*models.DemographicRecord) []*models.MergedRecord {
	byCode := make(map[string]*models.DemographicRecord, len(demographics))
	for _, d := range demographics {
		byCode[d.DistrictCode] = d
	}

	merged := make([]*models.MergedRecord, 0, len(housing))
	matched := make(map[string]bool, len(housing))

	for _, h := range housing {
		d, ok := byCode[h.DistrictCode]
		if !ok {
			continue
		}
		matched[h.DistrictCode] = true
		merged = append(merged, s.derive(h, d))
	}

	if dropped := len(housing) - len(merged); dropped > 0 {
		log.Printf("Merge: %d housing district(s) had no demographic match and were dropped", dropped)
	}
	if dropped := len(demographics) - len(matched); dropped > 0 {
		log.Printf("Merge: %d demographic district(s) had no housing match and were dropped", dropped)
	}
	log.Printf("Merge: %d districts carry both housing and demographic data", len(merged))

	return merged
}

// derive builds one merged record. Ratios against the population and the
// household count are NaN when their denominator is zero; downstream
// aggregates skip such values explicitly.
func (s *MergeService) derive(h *models.HousingRecord, d *models.DemographicRecord) *models.MergedRecord {
	m := &models.MergedRecord{
		DistrictCode: h.DistrictCode,
		StateName:    h.StateName,
		DistrictName: h.DistrictName,
		HQI:          h.HQI,
		Households:   d.Households,
		Population:   d.Population,
	}

	if d.Population > 0 {
		m.SCPercent = d.SCCount / d.Population * 100
		m.STPercent = d.STCount / d.Population * 100
		m.LiteracyRate = d.LiterateCount / d.Population * 100
		m.FemaleLiteracyRate = d.FemaleLiterateCount / d.Population * 100
	} else {
		m.SCPercent = math.NaN()
		m.STPercent = math.NaN()
		m.LiteracyRate = math.NaN()
		m.FemaleLiteracyRate = math.NaN()
	}

	if d.Households > 0 {
		m.PopulationDensity = d.Population / d.Households
	} else {
		m.PopulationDensity = math.NaN()
	}

	// NaN literacy rates propagate into the gap
	m.LiteracyGenderGap = m.LiteracyRate - m.FemaleLiteracyRate

	return m
}
