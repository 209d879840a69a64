package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strings"

	geom2 "github.com/peterstace/simplefeatures/geom"

	"hqi-analyzer/internal/models"
)

// geoJSONFeature mirrors the boundary file's feature layout. The census code
// is kept raw because sources disagree on whether it is a number or a
// string.
type geoJSONFeature struct {
	Type       string `json:"type"`
	Properties struct {
		CensusCode json.RawMessage `json:"censuscode"`
		District   string          `json:"DISTRICT"`
		State      string          `json:"ST_NM"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// GeoService loads the district boundary dataset and resolves each boundary
// to an index value: exact join on the normalized census code first, then
// approximate name matching for the remainder.
type GeoService struct {
	filePath string
	cutoff   float64
}

// NewGeoService creates a new GeoService instance
func NewGeoService(filePath string, cutoff float64) *GeoService {
	return &GeoService{
		filePath: filePath,
		cutoff:   cutoff,
	}
}

// LoadGeometries reads the boundary GeoJSON and returns one record per
// district feature. Features whose geometry cannot be parsed are skipped
// with a warning rather than failing the run.
func (s *GeoService) LoadGeometries() ([]*models.GeometryRecord, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening boundary file: %v", err)
	}

	var collection geoJSONCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		return nil, fmt.Errorf("error parsing boundary GeoJSON: %v", err)
	}
	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported boundary GeoJSON type: %s", collection.Type)
	}

	records := make([]*models.GeometryRecord, 0, len(collection.Features))
	for i, feature := range collection.Features {
		parts, err := parseCoordinates(feature.Geometry.Type, feature.Geometry.Coordinates)
		if err != nil {
			log.Printf("Warning: boundary feature %d (%s) skipped: %v", i, feature.Properties.District, err)
			continue
		}
		geometry, err := buildGeometry(parts)
		if err != nil {
			log.Printf("Warning: boundary feature %d (%s) skipped: %v", i, feature.Properties.District, err)
			continue
		}

		records = append(records, &models.GeometryRecord{
			CensusCode:   models.NormalizeDistrictCode(rawCodeString(feature.Properties.CensusCode)),
			DistrictName: feature.Properties.District,
			StateName:    feature.Properties.State,
			Parts:        parts,
			Geometry:     geometry,
		})
	}

	log.Printf("Loaded %d district boundaries from %s", len(records), s.filePath)

	return records, nil
}

// JoinHQI left-joins the boundaries to index values. Every geometry keeps a
// record: exact code matches first, then the best fuzzy name match clearing
// the similarity cutoff, and otherwise a NaN index. The unresolved count is
// carried on the result so the run can report it.
func (s *GeoService) JoinHQI(geometries []*models.GeometryRecord, housing []*models.HousingRecord) *models.GeoJoinResult {
	byCode := make(map[string]*models.HousingRecord, len(housing))
	for _, h := range housing {
		byCode[h.DistrictCode] = h
	}

	// Fuzzy candidates sorted lexicographically by (district, state) so that
	// equal-similarity ties always resolve to the first pair in that order.
	type candidate struct {
		district string
		state    string
		record   *models.HousingRecord
	}
	candidates := make([]candidate, 0, len(housing))
	for _, h := range housing {
		candidates = append(candidates, candidate{
			district: models.NormalizeName(h.DistrictName),
			state:    models.NormalizeName(h.StateName),
			record:   h,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].district != candidates[j].district {
			return candidates[i].district < candidates[j].district
		}
		return candidates[i].state < candidates[j].state
	})

	result := &models.GeoJoinResult{
		Records: make([]*models.GeoJoinRecord, 0, len(geometries)),
	}

	for _, g := range geometries {
		record := &models.GeoJoinRecord{
			Geometry: g,
			HQI:      math.NaN(),
		}

		if h, ok := byCode[g.CensusCode]; ok {
			record.HQI = h.HQI
			record.Match = models.MatchExact
			result.Exact++
		} else {
			district := models.NormalizeName(g.DistrictName)
			state := models.NormalizeName(g.StateName)

			var best *candidate
			bestSim := 0.0
			for i := range candidates {
				sim := nameSimilarity(district, state, candidates[i].district, candidates[i].state)
				if sim > bestSim {
					best, bestSim = &candidates[i], sim
				}
			}

			if best != nil && bestSim >= s.cutoff {
				record.HQI = best.record.HQI
				record.Match = models.MatchFuzzy
				record.Similarity = bestSim
				record.MatchedDistrict = best.record.DistrictName
				record.MatchedState = best.record.StateName
				result.Fuzzy++
			} else {
				result.Unresolved++
			}
		}

		result.Records = append(result.Records, record)
	}

	log.Printf("Geo join: %d exact, %d fuzzy, %d unresolved of %d boundaries",
		result.Exact, result.Fuzzy, result.Unresolved, len(geometries))

	return result
}

// rawCodeString strips JSON quoting from a census code encoded as either a
// number or a string.
func rawCodeString(raw json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

// parseCoordinates normalizes Polygon and MultiPolygon coordinate arrays to
// a list of polygon parts.
func parseCoordinates(geomType string, raw json.RawMessage) ([][][][]float64, error) {
	switch geomType {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(raw, &rings); err != nil {
			return nil, fmt.Errorf("error parsing Polygon coordinates: %v", err)
		}
		if len(rings) == 0 || len(rings[0]) == 0 {
			return nil, fmt.Errorf("empty polygon coordinates")
		}
		return [][][][]float64{rings}, nil
	case "MultiPolygon":
		var parts [][][][]float64
		if err := json.Unmarshal(raw, &parts); err != nil {
			return nil, fmt.Errorf("error parsing MultiPolygon coordinates: %v", err)
		}
		if len(parts) == 0 || len(parts[0]) == 0 || len(parts[0][0]) == 0 {
			return nil, fmt.Errorf("empty MultiPolygon coordinates")
		}
		return parts, nil
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type: %s", geomType)
	}
}

// buildGeometry converts the largest part's outer ring into a geometry used
// for area and centroid computations.
func buildGeometry(parts [][][][]float64) (geom2.Geometry, error) {
	best := -1
	for i := range parts {
		if len(parts[i]) == 0 || len(parts[i][0]) == 0 {
			continue
		}
		if best < 0 || len(parts[i][0]) > len(parts[best][0]) {
			best = i
		}
	}
	if best < 0 {
		return geom2.Geometry{}, fmt.Errorf("no usable polygon part")
	}

	coords := parts[best][0]
	flatCoords := make([]float64, len(coords)*2)
	for i, coord := range coords {
		flatCoords[i*2] = coord[0]
		flatCoords[i*2+1] = coord[1]
	}

	lineString := geom2.NewLineString(geom2.NewSequence(flatCoords, geom2.DimXY))
	if lineString.IsEmpty() {
		return geom2.Geometry{}, fmt.Errorf("error creating line string")
	}

	polygon := geom2.NewPolygon([]geom2.LineString{lineString})
	if polygon.IsEmpty() {
		return geom2.Geometry{}, fmt.Errorf("error creating polygon")
	}
	return polygon.AsGeometry(), nil
}
