package services

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"math"
	"os"
	"path/filepath"

	"hqi-analyzer/internal/models"
)

// Constants for ring complexity thresholds
const (
	// Maximum number of points before simplification is considered
	maxRingPoints = 700
	// Minimum number of points to consider for simplification
	minRingPoints = 400
	// Base percentage of bounding box diagonal for epsilon
	baseEpsilonPercent = 0.1
)

// MapService renders the interactive district map as a self-contained HTML
// document. Boundary rings are simplified before embedding to keep the file
// and the browser workload reasonable.
type MapService struct {
	outputDir string
}

// NewMapService creates a new MapService instance
func NewMapService(outputDir string) *MapService {
	return &MapService{
		outputDir: outputDir,
	}
}

type mapFeature struct {
	Type       string `json:"type"`
	Properties struct {
		District   string   `json:"district"`
		State      string   `json:"state"`
		HQI        *float64 `json:"hqi"`
		Match      string   `json:"match"`
		Similarity *float64 `json:"similarity,omitempty"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates [][][][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

type mapCollection struct {
	Type     string       `json:"type"`
	Features []mapFeature `json:"features"`
}

// RenderInteractive writes the interactive map to district_hqi_map.html
func (s *MapService) RenderInteractive(result *models.GeoJoinResult) error {
	collection := mapCollection{Type: "FeatureCollection"}
	pointsBefore, pointsAfter := 0, 0

	geometries := make([]*models.GeometryRecord, 0, len(result.Records))
	for _, record := range result.Records {
		geometries = append(geometries, record.Geometry)

		feature := mapFeature{Type: "Feature"}
		feature.Properties.District = record.Geometry.DistrictName
		feature.Properties.State = record.Geometry.StateName
		feature.Properties.Match = record.Match.String()
		if record.Resolved() {
			hqi := record.HQI
			feature.Properties.HQI = &hqi
		}
		if record.Match == models.MatchFuzzy {
			sim := record.Similarity
			feature.Properties.Similarity = &sim
		}

		feature.Geometry.Type = "MultiPolygon"
		feature.Geometry.Coordinates = make([][][][]float64, 0, len(record.Geometry.Parts))
		for _, part := range record.Geometry.Parts {
			simplified := make([][][]float64, 0, len(part))
			for _, ring := range part {
				pointsBefore += len(ring)
				ring = simplifyCoordinates(ring)
				pointsAfter += len(ring)
				simplified = append(simplified, ring)
			}
			feature.Geometry.Coordinates = append(feature.Geometry.Coordinates, simplified)
		}

		collection.Features = append(collection.Features, feature)
	}

	if pointsBefore > pointsAfter {
		log.Printf("Map: boundary rings simplified from %d to %d points", pointsBefore, pointsAfter)
	}

	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("error encoding map features: %v", err)
	}

	centerLat, centerLng := 22.5, 80.0
	if bounds := models.DatasetBounds(geometries); bounds != nil {
		centerLng = (bounds.Min(0) + bounds.Max(0)) / 2
		centerLat = (bounds.Min(1) + bounds.Max(1)) / 2
	}

	path := filepath.Join(s.outputDir, "district_hqi_map.html")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating map file: %v", err)
	}
	defer file.Close()

	data := struct {
		CenterLat float64
		CenterLng float64
		GeoJSON   template.JS
	}{
		CenterLat: centerLat,
		CenterLng: centerLng,
		GeoJSON:   template.JS(payload),
	}
	if err := mapTemplate.Execute(file, data); err != nil {
		return fmt.Errorf("error rendering map template: %v", err)
	}

	log.Printf("Interactive map written to: %s", path)
	return nil
}

// point represents a 2D point
type point struct {
	x float64
	y float64
}

// ringArea calculates the area of a ring using the shoelace formula
func ringArea(points []point) float64 {
	area := 0.0
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		area += (points[j].x + points[i].x) * (points[j].y - points[i].y)
		j = i
	}
	return math.Abs(area) / 2
}

// boundingBoxDiagonal calculates the diagonal length of the ring's bounding box
func boundingBoxDiagonal(points []point) float64 {
	if len(points) == 0 {
		return 0
	}

	minX, minY := points[0].x, points[0].y
	maxX, maxY := points[0].x, points[0].y
	for _, p := range points {
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}

	dx := maxX - minX
	dy := maxY - minY
	return math.Sqrt(dx*dx + dy*dy)
}

// ringComplexity determines whether a ring needs simplification and returns
// an appropriate epsilon value.
func ringComplexity(points []point) (bool, float64) {
	numPoints := len(points)
	if numPoints < minRingPoints {
		return false, 0
	}

	area := ringArea(points)
	pointsPerArea := float64(numPoints) / area
	if numPoints <= maxRingPoints && pointsPerArea <= 700 {
		return false, 0
	}

	diagonal := boundingBoxDiagonal(points)
	baseEpsilon := diagonal * baseEpsilonPercent / 100.0

	// More points means a larger epsilon, capped at 1% of the diagonal to
	// prevent over-simplification.
	epsilon := baseEpsilon * math.Pow(float64(numPoints)/float64(minRingPoints), 0.55)
	maxEpsilon := diagonal * 0.01
	if epsilon > maxEpsilon {
		epsilon = maxEpsilon
	}
	return true, epsilon
}

// perpendicularDistance calculates the perpendicular distance from a point
// to a line segment.
func perpendicularDistance(p, lineStart, lineEnd point) float64 {
	if lineStart.x == lineEnd.x && lineStart.y == lineEnd.y {
		return math.Hypot(p.x-lineStart.x, p.y-lineStart.y)
	}

	area := math.Abs((lineEnd.y-lineStart.y)*p.x - (lineEnd.x-lineStart.x)*p.y + lineEnd.x*lineStart.y - lineEnd.y*lineStart.x)
	lineLength := math.Hypot(lineEnd.x-lineStart.x, lineEnd.y-lineStart.y)
	return area / lineLength
}

// simplifyRing applies the Ramer-Douglas-Peucker algorithm to a ring
func simplifyRing(points []point, epsilon float64) []point {
	if len(points) <= 2 {
		return points
	}

	maxDistance := 0.0
	maxIndex := 0
	for i := 1; i < len(points)-1; i++ {
		distance := perpendicularDistance(points[i], points[0], points[len(points)-1])
		if distance > maxDistance {
			maxDistance = distance
			maxIndex = i
		}
	}

	if maxDistance > epsilon {
		firstLine := simplifyRing(points[:maxIndex+1], epsilon)
		secondLine := simplifyRing(points[maxIndex:], epsilon)
		return append(firstLine[:len(firstLine)-1], secondLine...)
	}

	return []point{points[0], points[len(points)-1]}
}

// simplifyCoordinates simplifies one GeoJSON ring when it is dense enough to
// matter; sparse rings pass through unchanged.
func simplifyCoordinates(ring [][]float64) [][]float64 {
	points := make([]point, 0, len(ring))
	for _, coord := range ring {
		if len(coord) < 2 {
			continue
		}
		points = append(points, point{x: coord[0], y: coord[1]})
	}

	needed, epsilon := ringComplexity(points)
	if !needed {
		return ring
	}

	simplified := simplifyRing(points, epsilon)
	out := make([][]float64, len(simplified))
	for i, p := range simplified {
		out[i] = []float64{p.x, p.y}
	}
	return out
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>District Housing Quality Index</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .legend { background: white; padding: 8px 10px; line-height: 1.5; }
  .legend i { width: 14px; height: 14px; display: inline-block; margin-right: 6px; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var districts = {{.GeoJSON}};

var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLng}}], 5);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

function hqiColor(h) {
  if (h === null) return '#d0d0d0';
  return h > 0.8 ? '#1a9850' :
         h > 0.7 ? '#91cf60' :
         h > 0.6 ? '#d9ef8b' :
         h > 0.5 ? '#fee08b' :
         h > 0.4 ? '#fc8d59' : '#d73027';
}

L.geoJSON(districts, {
  style: function (feature) {
    return {
      fillColor: hqiColor(feature.properties.hqi),
      fillOpacity: 0.7,
      color: '#555',
      weight: 1
    };
  },
  onEachFeature: function (feature, layer) {
    var p = feature.properties;
    var hqi = p.hqi === null ? 'unresolved' : p.hqi.toFixed(4);
    var html = '<b>' + p.district + '</b><br>' + p.state +
               '<br>HQI: ' + hqi + '<br>Match: ' + p.match;
    if (p.similarity !== undefined) {
      html += ' (' + p.similarity.toFixed(3) + ')';
    }
    layer.bindPopup(html);
  }
}).addTo(map);

var legend = L.control({position: 'bottomright'});
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  var grades = [0.8, 0.7, 0.6, 0.5, 0.4, 0];
  div.innerHTML = '<b>HQI</b><br>';
  for (var i = 0; i < grades.length; i++) {
    div.innerHTML += '<i style="background:' + hqiColor(grades[i] + 0.01) + '"></i>' +
      (i === grades.length - 1 ? '&le; 0.4' : '&gt; ' + grades[i]) + '<br>';
  }
  div.innerHTML += '<i style="background:#d0d0d0"></i>unresolved<br>';
  return div;
};
legend.addTo(map);
</script>
</body>
</html>
`))
