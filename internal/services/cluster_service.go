package services

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hqi-analyzer/internal/config"
	"hqi-analyzer/internal/models"
)

// clusterFeatures names the indicators entering the feature vectors, in
// standardization order.
var clusterFeatures = []struct {
	label string
	value func(*models.MergedRecord) float64
}{
	{"HQI", func(r *models.MergedRecord) float64 { return r.HQI }},
	{"Literacy_Rate", func(r *models.MergedRecord) float64 { return r.LiteracyRate }},
	{"SC_Percent", func(r *models.MergedRecord) float64 { return r.SCPercent }},
	{"ST_Percent", func(r *models.MergedRecord) float64 { return r.STPercent }},
	{"Population_Density", func(r *models.MergedRecord) float64 { return r.PopulationDensity }},
}

// ClusterService groups districts by k-means over standardized feature
// vectors. With a fixed seed and fixed input order the assignment is
// reproducible; the labels themselves are arbitrary, not semantically
// ordered.
type ClusterService struct {
	k       int
	seed    int64
	maxIter int
}

// NewClusterService creates a new ClusterService instance
func NewClusterService(cfg config.ClusterConfig) *ClusterService {
	return &ClusterService{
		k:       cfg.K,
		seed:    cfg.Seed,
		maxIter: cfg.MaxIterations,
	}
}

// Cluster selects the districts with a complete feature vector, standardizes
// each feature to zero mean and unit variance, runs k-means and writes
// 1-based cluster labels back onto the records. Labels are written through
// the record itself, keyed by district code; the returned assignment list
// carries district and state names for reporting only. Districts with any
// missing feature keep ClusterID 0.
func (s *ClusterService) Cluster(records []*models.MergedRecord) ([]*models.ClusterAssignment, error) {
	complete := make([]int, 0, len(records))
	for i, r := range records {
		if hasCompleteFeatures(r) {
			complete = append(complete, i)
		}
	}
	if len(complete) < s.k {
		return nil, fmt.Errorf("clustering needs at least %d districts with complete features, have %d", s.k, len(complete))
	}

	points := standardize(records, complete)
	assign := s.lloyd(points)

	assignments := make([]*models.ClusterAssignment, 0, len(complete))
	for i, ri := range complete {
		r := records[ri]
		r.ClusterID = assign[i] + 1
		assignments = append(assignments, &models.ClusterAssignment{
			DistrictName: r.DistrictName,
			StateName:    r.StateName,
			ClusterID:    r.ClusterID,
		})
	}

	if skipped := len(records) - len(complete); skipped > 0 {
		log.Printf("Clustering: %d district(s) skipped for missing features", skipped)
	}
	log.Printf("Clustering: %d districts assigned to %d clusters (seed %d)", len(complete), s.k, s.seed)

	return assignments, nil
}

// ProfileClusters summarizes the mean raw feature values of each cluster
func (s *ClusterService) ProfileClusters(records []*models.MergedRecord) []*models.ClusterProfile {
	profiles := make([]*models.ClusterProfile, s.k)
	for c := range profiles {
		profiles[c] = &models.ClusterProfile{ClusterID: c + 1}
	}

	for _, r := range records {
		if r.ClusterID < 1 || r.ClusterID > s.k {
			continue
		}
		p := profiles[r.ClusterID-1]
		p.Districts++
		p.MeanHQI += r.HQI
		p.MeanLiteracy += r.LiteracyRate
		p.MeanSCPercent += r.SCPercent
		p.MeanSTPercent += r.STPercent
		p.MeanDensity += r.PopulationDensity
	}

	for _, p := range profiles {
		if p.Districts == 0 {
			continue
		}
		n := float64(p.Districts)
		p.MeanHQI /= n
		p.MeanLiteracy /= n
		p.MeanSCPercent /= n
		p.MeanSTPercent /= n
		p.MeanDensity /= n
	}

	return profiles
}

// lloyd runs the standard k-means iteration until the assignment stabilizes
// or the iteration budget runs out. Initial centroids are sampled from the
// points with the seeded source, so repeated runs are identical.
func (s *ClusterService) lloyd(points [][]float64) []int {
	rng := rand.New(rand.NewSource(s.seed))
	nf := len(points[0])

	centroids := make([][]float64, s.k)
	for c, pi := range rng.Perm(len(points))[:s.k] {
		centroids[c] = make([]float64, nf)
		copy(centroids[c], points[pi])
	}

	assign := make([]int, len(points))
	for iter := 0; iter < s.maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				if d := floats.Distance(p, centroids[c], 2); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, s.k)
		sums := make([][]float64, s.k)
		for c := range sums {
			sums[c] = make([]float64, nf)
		}
		for i, p := range points {
			counts[assign[i]]++
			floats.Add(sums[assign[i]], p)
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Reseat an emptied cluster on the point farthest from its
				// current centroid; ties take the first such point, keeping
				// the run deterministic.
				copy(centroids[c], points[farthestPoint(points, assign, centroids)])
				continue
			}
			for f := 0; f < nf; f++ {
				centroids[c][f] = sums[c][f] / float64(counts[c])
			}
		}
	}

	return assign
}

// farthestPoint returns the index of the point with the greatest distance to
// its assigned centroid.
func farthestPoint(points [][]float64, assign []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, p := range points {
		if d := floats.Distance(p, centroids[assign[i]], 2); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// standardize builds the feature matrix for the selected rows with every
// feature scaled to zero mean and unit variance. Constant features collapse
// to zero rather than dividing by a zero deviation.
func standardize(records []*models.MergedRecord, complete []int) [][]float64 {
	nf := len(clusterFeatures)
	points := make([][]float64, len(complete))
	for i, ri := range complete {
		points[i] = make([]float64, nf)
		for f := range clusterFeatures {
			points[i][f] = clusterFeatures[f].value(records[ri])
		}
	}

	col := make([]float64, len(complete))
	for f := 0; f < nf; f++ {
		for i := range points {
			col[i] = points[i][f]
		}
		mean, std := stat.MeanStdDev(col, nil)
		for i := range points {
			if std > 0 {
				points[i][f] = (points[i][f] - mean) / std
			} else {
				points[i][f] = 0
			}
		}
	}

	return points
}

// hasCompleteFeatures reports whether every clustering feature is defined
func hasCompleteFeatures(r *models.MergedRecord) bool {
	for _, f := range clusterFeatures {
		if math.IsNaN(f.value(r)) {
			return false
		}
	}
	return true
}
