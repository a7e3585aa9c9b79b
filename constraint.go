/**
 * Filename: /Users/bao/code/micropan/constraint.go
 * Path: /Users/bao/code/micropan
 * Created Date: Wednesday, October 14th 2026, 11:20:05 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"github.com/gonum/matrix/mat64"
)

// LinearConstraints is the feasible region U x - C >= 0, one row per inequality
type LinearConstraints struct {
	U *mat64.Dense
	C *mat64.Vector
}

// NewLinearConstraints builds the system from row-major U and the bounds C
func NewLinearConstraints(nrows, ncols int, u, c []float64) *LinearConstraints {
	return &LinearConstraints{
		U: mat64.NewDense(nrows, ncols, u),
		C: mat64.NewVector(nrows, c),
	}
}

// MixtureConstraints restricts np free weights followed by np free detection
// probabilities:
//
//    sum(w)  >= 0
//   -sum(w)  >= -1
//    x_i     >= 0      for all 2np parameters
//   -x_i     >= -1     for all 2np parameters
func MixtureConstraints(np int) *LinearConstraints {
	ncols := 2 * np
	nrows := 2 + 2*ncols
	U := mat64.NewDense(nrows, ncols, nil)
	C := mat64.NewVector(nrows, nil)
	for j := 0; j < np; j++ {
		U.Set(0, j, 1)
		U.Set(1, j, -1)
	}
	C.SetVec(1, -1)
	for j := 0; j < ncols; j++ {
		U.Set(2+j, j, 1)
		U.Set(2+ncols+j, j, -1)
		C.SetVec(2+ncols+j, -1)
	}
	return &LinearConstraints{U: U, C: C}
}

// BoxConstraints expresses lower[i] <= x_i <= upper[i] as linear rows
func BoxConstraints(lower, upper []float64) *LinearConstraints {
	n := len(lower)
	U := mat64.NewDense(2*n, n, nil)
	C := mat64.NewVector(2*n, nil)
	for j := 0; j < n; j++ {
		U.Set(j, j, 1)
		C.SetVec(j, lower[j])
		U.Set(n+j, j, -1)
		C.SetVec(n+j, -upper[j])
	}
	return &LinearConstraints{U: U, C: C}
}

// Dims returns the number of inequalities and the number of parameters
func (r *LinearConstraints) Dims() (int, int) {
	return r.U.Dims()
}

// Slack computes U x - C, negative entries mark violated rows
func (r *LinearConstraints) Slack(x []float64) []float64 {
	nrows, _ := r.U.Dims()
	gi := make([]float64, nrows)
	for i := 0; i < nrows; i++ {
		s := 0.0
		for j, u := range r.U.RawRowView(i) {
			s += u * x[j]
		}
		gi[i] = s - r.C.At(i, 0)
	}
	return gi
}

// Interior reports whether every inequality holds strictly
func (r *LinearConstraints) Interior(x []float64) bool {
	for _, g := range r.Slack(x) {
		if !(g > 0) {
			return false
		}
	}
	return true
}

// Feasible reports whether every inequality holds
func (r *LinearConstraints) Feasible(x []float64) bool {
	for _, g := range r.Slack(x) {
		if !(g >= 0) {
			return false
		}
	}
	return true
}

// Bounds derives the per-parameter box implied by single-variable rows, used
// to seed random search. Parameters without bounds get [0,1].
func (r *LinearConstraints) Bounds() (lower, upper []float64) {
	nrows, ncols := r.U.Dims()
	lower = make([]float64, ncols)
	upper = make([]float64, ncols)
	hasLower := make([]bool, ncols)
	hasUpper := make([]bool, ncols)
	for i := 0; i < nrows; i++ {
		row := r.U.RawRowView(i)
		col, nz := -1, 0
		for j, u := range row {
			if u != 0 {
				col = j
				nz++
			}
		}
		if nz != 1 {
			continue
		}
		bound := r.C.At(i, 0) / row[col]
		if row[col] > 0 && (!hasLower[col] || bound > lower[col]) {
			lower[col], hasLower[col] = bound, true
		} else if row[col] < 0 && (!hasUpper[col] || bound < upper[col]) {
			upper[col], hasUpper[col] = bound, true
		}
	}
	for j := 0; j < ncols; j++ {
		if !hasUpper[j] {
			upper[j] = lower[j] + 1
		}
	}
	return
}
