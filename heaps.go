/**
 * Filename: /Users/bao/code/micropan/heaps.go
 * Path: /Users/bao/code/micropan
 * Created Date: Thursday, October 15th 2026, 6:28:03 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"fmt"
	"math"
	"math/rand"
)

// HeapsEstimator fits Heaps' law to the number of new gene clusters each
// genome brings when genomes are added in random order
//
//   new(x) = Intercept * x ^ (-alpha)
//
// alpha > 1 points to a closed pan-genome, alpha < 1 to an open one.
type HeapsEstimator struct {
	NPerm     int
	Seed      int64
	Minimizer Minimizer
}

// HeapsFit contains the fitted Heaps' law coefficients
type HeapsFit struct {
	Intercept float64
	Alpha     float64
}

// Open tells if the pan-genome keeps growing with new genomes
func (r *HeapsFit) Open() bool {
	return r.Alpha < 1
}

// String prints the fit
func (r *HeapsFit) String() string {
	return fmt.Sprintf("Intercept=%.4f alpha=%.4f", r.Intercept, r.Alpha)
}

// heapsUpper caps the intercept and the exponent during the fit
var heapsUpper = []float64{10000, 2}

// NewHeapsEstimator returns the estimator with HeapsPerm orderings
func NewHeapsEstimator(seed int64) *HeapsEstimator {
	return &HeapsEstimator{NPerm: HeapsPerm, Seed: seed}
}

// newClusters counts, for a genome ordering, how many clusters are seen for
// the first time at each position
func newClusters(pm *PanMatrix, order []int) []int {
	counts := make([]int, len(order))
	for j := 0; j < pm.NClusters(); j++ {
		for pos, i := range order {
			if pm.Counts[i][j] > 0 {
				counts[pos]++
				break
			}
		}
	}
	return counts
}

// meanByPosition averages the new cluster counts at each position x = 2..G,
// positions that never add a cluster are left out
func meanByPosition(xs, ys []float64, G int) ([]float64, []float64) {
	total := make([]float64, G+1)
	count := make([]int, G+1)
	for i, x := range xs {
		total[int(x)] += ys[i]
		count[int(x)]++
	}
	var mx, my []float64
	for x := 2; x <= G; x++ {
		if count[x] == 0 || total[x] == 0 {
			continue
		}
		mx = append(mx, float64(x))
		my = append(my, total[x]/float64(count[x]))
	}
	return mx, my
}

// fitPowerLaw fits Y = A * X^B by least squares on log X and log Y
// See reference: http://mathworld.wolfram.com/LeastSquaresFittingPowerLaw.html
// Falls back to (1, -1) with fewer than 2 points.
func fitPowerLaw(Xs, Ys []float64) (A, B float64) {
	n := len(Xs)
	if n < 2 {
		return 1, -1
	}
	SumLogXLogY, SumLogXLogX, SumLogX, SumLogY := 0.0, 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		logXs, logYs := math.Log(Xs[i]), math.Log(Ys[i])
		SumLogXLogY += logXs * logYs
		SumLogXLogX += logXs * logXs
		SumLogX += logXs
		SumLogY += logYs
	}

	B = (float64(n)*SumLogXLogY - SumLogX*SumLogY) / (float64(n)*SumLogXLogX - SumLogX*SumLogX)
	A = math.Exp((SumLogY - B*SumLogX) / float64(n))
	log.Debugf("Power law Y = %.4f * X ^ %.4f", A, B)
	return
}

// Estimate samples NPerm genome orderings and fits the power law
func (r *HeapsEstimator) Estimate(pm *PanMatrix) (*HeapsFit, error) {
	G := pm.NGenomes()
	if G < 3 {
		return nil, fmt.Errorf("%d genomes: %w", G, ErrTooFewGenomes)
	}
	nperm := r.NPerm
	if nperm <= 0 {
		nperm = HeapsPerm
	}
	rng := rand.New(rand.NewSource(r.Seed))

	var xs, ys []float64
	for p := 0; p < nperm; p++ {
		counts := newClusters(pm, rng.Perm(G))
		for pos := 1; pos < G; pos++ {
			xs = append(xs, float64(pos+1))
			ys = append(ys, float64(counts[pos]))
		}
	}

	// Start from the least squares line through the log-log means, then
	// refine on the raw counts inside the box
	A, B := fitPowerLaw(meanByPosition(xs, ys, G))
	eps := 1e-3
	p0 := []float64{
		math.Min(math.Max(A, eps), heapsUpper[0]-eps),
		math.Min(math.Max(-B, eps), heapsUpper[1]-eps),
	}

	f := func(p []float64) float64 {
		ss := 0.0
		for i, x := range xs {
			d := ys[i] - p[0]*math.Pow(x, -p[1])
			ss += d * d
		}
		return math.Sqrt(ss) / float64(len(xs))
	}

	m := r.Minimizer
	if m == nil {
		m = NewBarrierNelderMead()
	}
	est, err := m.Minimize(f, p0, BoxConstraints([]float64{0, 0}, heapsUpper))
	if err != nil {
		return nil, err
	}
	fit := &HeapsFit{Intercept: est.X[0], Alpha: est.X[1]}
	log.Noticef("Heaps law fitted on %d orderings: %v", nperm, fit)
	return fit, nil
}
