package models

import (
	"math"

	geom2 "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// GeometryRecord is one district boundary from the boundary dataset. Parts
// holds the raw GeoJSON polygon parts (one ring set per part, ring zero being
// the outer ring) kept for rendering; Geometry is the parsed form used for
// area and centroid computations.
type GeometryRecord struct {
	CensusCode   string          `json:"census_code"`
	DistrictName string          `json:"district_name"`
	StateName    string          `json:"state_name"`
	Parts        [][][][]float64 `json:"-"`
	Geometry     geom2.Geometry  `json:"-"`
}

// OuterRings returns the outer ring of every polygon part
func (g *GeometryRecord) OuterRings() [][][]float64 {
	rings := make([][][]float64, 0, len(g.Parts))
	for _, part := range g.Parts {
		if len(part) > 0 {
			rings = append(rings, part[0])
		}
	}
	return rings
}

// Centroid returns the centroid of the boundary, or false when the geometry
// is empty.
func (g *GeometryRecord) Centroid() (x, y float64, ok bool) {
	centroid := g.Geometry.Centroid()
	xy, ok := centroid.XY()
	if !ok {
		return 0, 0, false
	}
	return xy.X, xy.Y, true
}

// MatchKind tells how a geometry was resolved to an index value
type MatchKind int

const (
	// MatchNone marks a geometry with no resolved index value
	MatchNone MatchKind = iota
	// MatchExact marks a geometry resolved by census code
	MatchExact
	// MatchFuzzy marks a geometry resolved by approximate name matching
	MatchFuzzy
)

// String returns the match kind label used in reports and map properties
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unresolved"
	}
}

// GeoJoinRecord annotates one geometry with the index value resolved for it.
// HQI is NaN when the geometry stayed unresolved.
type GeoJoinRecord struct {
	Geometry        *GeometryRecord `json:"geometry"`
	HQI             float64         `json:"hqi"`
	Match           MatchKind       `json:"match"`
	Similarity      float64         `json:"similarity,omitempty"`
	MatchedDistrict string          `json:"matched_district,omitempty"`
	MatchedState    string          `json:"matched_state,omitempty"`
}

// Resolved reports whether the record carries a defined index value
func (r *GeoJoinRecord) Resolved() bool {
	return !math.IsNaN(r.HQI)
}

// GeoJoinResult is the outcome of the geometry join
type GeoJoinResult struct {
	Records    []*GeoJoinRecord `json:"records"`
	Exact      int              `json:"exact"`
	Fuzzy      int              `json:"fuzzy"`
	Unresolved int              `json:"unresolved"`
}

// DatasetBounds returns the bounding box covering every geometry in the
// dataset, or nil when no geometry has coordinates.
func DatasetBounds(records []*GeometryRecord) *geom.Bounds {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	found := false

	// Calculate bounds in a single pass over the outer rings
	for _, record := range records {
		for _, ring := range record.OuterRings() {
			for _, coord := range ring {
				if len(coord) < 2 {
					continue
				}
				found = true
				if coord[0] < minX {
					minX = coord[0]
				}
				if coord[0] > maxX {
					maxX = coord[0]
				}
				if coord[1] < minY {
					minY = coord[1]
				}
				if coord[1] > maxY {
					maxY = coord[1]
				}
			}
		}
	}

	if !found {
		return nil
	}

	bounds := geom.NewBounds(geom.XY)
	bounds.Set(minX, minY, maxX, maxY)
	return bounds
}
