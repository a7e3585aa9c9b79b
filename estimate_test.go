/*
 *  estimate_test.go
 *  micropan
 *
 *  Created by Haibao Tang on 10/16/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package micropan_test

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"

	logging "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/micropan"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// fixedMinimizer returns the starting point with a preset objective per K
type fixedMinimizer struct {
	F         map[int]float64
	Stalled   bool
	mu        sync.Mutex
	callCount int
}

func (r *fixedMinimizer) Minimize(f micropan.Objective, x0 []float64, cons *micropan.LinearConstraints) (*micropan.Optimum, error) {
	r.mu.Lock()
	r.callCount++
	r.mu.Unlock()
	K := len(x0)/2 + 1
	x := make([]float64, len(x0))
	copy(x, x0)
	return &micropan.Optimum{X: x, F: r.F[K], Converged: !r.Stalled}, nil
}

func TestEstimateBoundaryWarning(t *testing.T) {
	y := micropan.PresenceHistogram{2, 1, 5}
	e := micropan.NewEstimator()
	e.KRange = []int{3, 4}
	e.Minimizer = &fixedMinimizer{F: map[int]float64{3: 10, 4: 5}}

	res, err := e.EstimateHistogram(y)
	require.NoError(t, err)
	require.Len(t, res.Comparison, 2)
	assert.Equal(t, 4, res.Best().K)
	assert.True(t, res.HasWarning(micropan.BoundaryOptimum))
	assert.False(t, res.HasWarning(micropan.NonConvergence))
	assert.Equal(t, 4, res.Warnings[0].K)

	// BIC = 2 F + log(n) (2K - 1)
	assert.InDelta(t, 20+math.Log(8)*5, res.Comparison[0].BIC, 1e-9)
	assert.InDelta(t, 10+math.Log(8)*7, res.Comparison[1].BIC, 1e-9)
}

func TestEstimateInteriorOptimum(t *testing.T) {
	y := micropan.PresenceHistogram{2, 1, 5}
	e := micropan.NewEstimator()
	e.Minimizer = &fixedMinimizer{F: map[int]float64{3: 10, 4: 2, 5: 10}}

	res, err := e.EstimateHistogram(y)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, []int{res.Comparison[0].K, res.Comparison[1].K, res.Comparison[2].K})
	assert.Equal(t, 4, res.Best().K)
	assert.Empty(t, res.Warnings)
}

func TestEstimateNonConvergence(t *testing.T) {
	y := micropan.PresenceHistogram{2, 1, 5}
	e := micropan.NewEstimator()
	e.KRange = []int{3, 4}
	e.Minimizer = &fixedMinimizer{F: map[int]float64{3: 5, 4: 10}, Stalled: true}

	res, err := e.EstimateHistogram(y)
	require.NoError(t, err)
	assert.True(t, res.HasWarning(micropan.NonConvergence))
	assert.False(t, res.HasWarning(micropan.BoundaryOptimum))
	assert.Len(t, res.Comparison, 2)
}

func TestEstimateProgressOrder(t *testing.T) {
	y := micropan.PresenceHistogram{2, 1, 5}
	var events []string
	e := micropan.NewEstimator()
	e.KRange = []int{3, 4}
	e.Verbose = false
	e.Minimizer = &fixedMinimizer{F: map[int]float64{3: 5, 4: 10}}
	e.Progress = func(k int, status string) {
		events = append(events, fmt.Sprintf("%s %d", status, k))
	}

	_, err := e.EstimateHistogram(y)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fitting 3", "Done fitting 3", "Fitting 4", "Done fitting 4"}, events)
}

func TestEstimateInvalidInput(t *testing.T) {
	y := micropan.PresenceHistogram{2, 1, 5}
	m := &fixedMinimizer{F: map[int]float64{}}

	e := micropan.NewEstimator()
	e.Minimizer = m
	e.KRange = []int{3, 1}
	_, err := e.EstimateHistogram(y)
	assert.True(t, errors.Is(err, micropan.ErrInvalidRange))

	e.KRange = nil
	_, err = e.EstimateHistogram(y)
	assert.True(t, errors.Is(err, micropan.ErrInvalidRange))

	e.KRange = []int{3}
	e.CoreDetectProb = 2
	_, err = e.EstimateHistogram(y)
	assert.True(t, errors.Is(err, micropan.ErrDetectProb))

	e.CoreDetectProb = 1
	_, err = e.EstimateHistogram(micropan.PresenceHistogram{0, 0})
	assert.True(t, errors.Is(err, micropan.ErrEmptyHistogram))

	// Nothing is fitted before the input is rejected
	assert.Equal(t, 0, m.callCount)
}

func TestEstimateParallelMatchesSequential(t *testing.T) {
	pm, err := micropan.NewPanMatrix([][]int{
		{2, 1, 0, 1, 1, 0, 0, 1},
		{1, 0, 0, 1, 1, 1, 0, 0},
		{1, 0, 0, 0, 3, 1, 1, 0},
		{1, 0, 0, 1, 1, 0, 0, 0},
	}, nil, nil)
	require.NoError(t, err)

	e := micropan.NewEstimator()
	e.KRange = []int{2, 3, 4}
	e.Verbose = false
	seq, err := e.Estimate(pm)
	require.NoError(t, err)

	e.Parallel = true
	par, err := e.Estimate(pm)
	require.NoError(t, err)

	assert.Equal(t, seq.Comparison, par.Comparison)
	assert.Equal(t, seq.Detail, par.Detail)
}

func TestEstimateDetailGroups(t *testing.T) {
	y := micropan.PresenceHistogram{3, 1, 1, 2}
	e := micropan.NewEstimator()
	e.KRange = []int{2, 3}
	e.Verbose = false

	res, err := e.EstimateHistogram(y)
	require.NoError(t, err)
	require.Len(t, res.Detail, 5)

	groups := map[int][]micropan.DetailRow{}
	for _, row := range res.Detail {
		groups[row.K] = append(groups[row.K], row)
	}
	for K, rows := range groups {
		require.Len(t, rows, K)
		var mix, detect []float64
		for _, row := range rows {
			mix = append(mix, row.MixingProp)
			detect = append(detect, row.DetectionProb)
		}
		assert.InDelta(t, 1, floats.Sum(mix), 1e-6, "K = %d", K)
		assert.True(t, sort.Float64sAreSorted(detect), "K = %d", K)
	}
	for _, row := range res.Comparison {
		assert.GreaterOrEqual(t, row.PanSize, y.Total())
		assert.LessOrEqual(t, row.CoreSize, row.PanSize)
	}
}

// syntheticHistogram gives the expected cluster counts of a binomial mixture
// with N clusters in total, the zero class is dropped
func syntheticHistogram(G, N int, detect, mix []float64) micropan.PresenceHistogram {
	y := make(micropan.PresenceHistogram, G)
	for g := 1; g <= G; g++ {
		p := 0.0
		for k := range detect {
			p += mix[k] * float64(combin.Binomial(G, g)) *
				math.Pow(detect[k], float64(g)) * math.Pow(1-detect[k], float64(G-g))
		}
		y[g-1] = int(micropan.Round(float64(N) * p))
	}
	return y
}

func TestEstimateRangeTooNarrow(t *testing.T) {
	y := syntheticHistogram(20, 100000,
		[]float64{0.05, 0.2, 0.5, 0.8, 1},
		[]float64{0.4, 0.2, 0.15, 0.1, 0.15})

	e := micropan.NewEstimator()
	e.KRange = []int{3, 4}
	e.Verbose = false
	res, err := e.EstimateHistogram(y)
	require.NoError(t, err)

	require.Len(t, res.Comparison, 2)
	assert.Equal(t, 4, res.Best().K)
	assert.True(t, res.HasWarning(micropan.BoundaryOptimum))
	assert.Len(t, res.Detail, 7)
}

// capturedMessages runs fn with the package logger writing to memory
func capturedMessages(fn func()) []string {
	mem := logging.NewMemoryBackend(1024)
	logging.SetBackend(mem)
	defer logging.SetBackend(micropan.BackendFormatter)
	fn()

	var messages []string
	for node := mem.Head(); node != nil; node = node.Next() {
		messages = append(messages, node.Record.Message())
	}
	return messages
}

func TestEstimateQuiet(t *testing.T) {
	pm, err := micropan.NewPanMatrix([][]int{{1, 1, 0}, {1, 0, 1}, {1, 1, 1}}, nil, nil)
	require.NoError(t, err)
	e := micropan.NewEstimator()
	e.KRange = []int{3}
	e.Minimizer = &fixedMinimizer{F: map[int]float64{3: 5}}

	e.Verbose = false
	quiet := capturedMessages(func() {
		_, err := e.Estimate(pm)
		require.NoError(t, err)
	})
	for _, msg := range quiet {
		assert.NotContains(t, msg, "Presence histogram")
		assert.NotContains(t, msg, "Fitting")
	}

	e.Verbose = true
	verbose := capturedMessages(func() {
		_, err := e.Estimate(pm)
		require.NoError(t, err)
	})
	assert.Contains(t, strings.Join(verbose, "\n"), "Presence histogram over 3 genomes")
}
