/**
 * Filename: /Users/bao/code/micropan/minimizer.go
 * Path: /Users/bao/code/micropan
 * Created Date: Wednesday, October 14th 2026, 2:33:51 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Objective is a scalar function to be minimized
type Objective func(x []float64) float64

// Optimum is the best point found by a Minimizer
type Optimum struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Converged   bool // false if the final search ran out of iterations
}

// Minimizer searches for the minimum of f from x0 inside cons, cons may be nil
type Minimizer interface {
	Minimize(f Objective, x0 []float64, cons *LinearConstraints) (*Optimum, error)
}

// stallIter is how many simplex steps without relative improvement end a run
const stallIter = 50

// rejected replaces +Inf and NaN before values reach the simplex, gonum refuses
// to start from an infinite value
func rejected(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

// BarrierNelderMead handles linear inequalities with an adaptive logarithmic
// barrier, each outer step runs a fresh Nelder-Mead simplex on
//
//   R(x) = f(x) - mu * sum_i [ g_i(x_old) log g_i(x) - (U x)_i ]
//
// where g(x) = U x - C is the slack at the current and previous iterate.
type BarrierNelderMead struct {
	MaxIter     int     // simplex iterations per outer step
	RelTol      float64 // relative improvement to declare the simplex converged
	Mu          float64
	OuterIter   int
	OuterEps    float64
	SimplexSize float64 // 0 keeps the gonum default
}

// NewBarrierNelderMead returns the minimizer with the default settings
func NewBarrierNelderMead() *BarrierNelderMead {
	return &BarrierNelderMead{
		MaxIter:   MaxIter,
		RelTol:    RelTol,
		Mu:        BarrierMu,
		OuterIter: OuterIter,
		OuterEps:  OuterEps,
	}
}

// simplex runs a single unconstrained Nelder-Mead search
func (r *BarrierNelderMead) simplex(f Objective, x0 []float64) (*Optimum, error) {
	p := optimize.Problem{
		Func: func(x []float64) float64 { return rejected(f(x)) },
	}
	settings := &optimize.Settings{
		MajorIterations: r.MaxIter,
		Converger: &optimize.FunctionConverge{
			Relative:   r.RelTol,
			Iterations: stallIter,
		},
	}
	method := &optimize.NelderMead{SimplexSize: r.SimplexSize}
	res, err := optimize.Minimize(p, x0, settings, method)
	if res == nil {
		return nil, err
	}
	if err != nil {
		log.Debugf("Nelder-Mead stopped early: %v", err)
	}
	x := make([]float64, len(res.X))
	copy(x, res.X)
	return &Optimum{
		X:           x,
		F:           res.F,
		Iterations:  res.MajorIterations,
		Evaluations: res.FuncEvaluations,
		Converged:   res.Status != optimize.IterationLimit,
	}, nil
}

// Minimize implements Minimizer
func (r *BarrierNelderMead) Minimize(f Objective, x0 []float64, cons *LinearConstraints) (*Optimum, error) {
	if cons == nil {
		return r.simplex(f, x0)
	}
	if !cons.Interior(x0) {
		return nil, ErrInfeasibleStart
	}

	// barrier builds R anchored at the slack of xOld
	barrier := func(xOld []float64) Objective {
		gOld := cons.Slack(xOld)
		return func(x []float64) float64 {
			g := cons.Slack(x)
			bar := 0.0
			for i, gi := range g {
				if gi < 0 {
					return math.Inf(1)
				}
				bar += gOld[i]*math.Log(gi) - (gi + cons.C.At(i, 0))
			}
			if math.IsNaN(bar) || math.IsInf(bar, 0) {
				return math.Inf(1)
			}
			return f(x) - r.Mu*bar
		}
	}

	theta := make([]float64, len(x0))
	copy(theta, x0)
	obj := f(theta)
	rval := barrier(theta)(theta)
	best := &Optimum{X: theta, F: obj, Converged: true}
	outerConverged := false
	for i := 0; i < r.OuterIter; i++ {
		objOld, rOld := obj, rval
		a, err := r.simplex(barrier(theta), theta)
		if err != nil {
			return nil, err
		}
		best.Iterations += a.Iterations
		best.Evaluations += a.Evaluations
		best.Converged = a.Converged
		best.X = a.X
		rval = a.F
		if !math.IsInf(rval, 0) && !math.IsInf(rOld, 0) && rval < math.MaxFloat64 &&
			math.Abs(rval-rOld) < (0.001+math.Abs(rval))*r.OuterEps {
			outerConverged = true
			break
		}
		theta = a.X
		obj = f(theta)
		if obj > objOld {
			outerConverged = true
			break
		}
	}
	best.F = f(best.X)
	best.Converged = best.Converged && outerConverged
	log.Debugf("Barrier Nelder-Mead: f = %.6f after %d iterations (%d evaluations)",
		best.F, best.Iterations, best.Evaluations)
	return best, nil
}
