/**
 * Filename: /Users/bao/code/micropan/estimate.go
 * Path: /Users/bao/code/micropan
 * Created Date: Thursday, October 15th 2026, 2:10:14 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// WarningKind classifies the non-fatal diagnostics of an estimate
type WarningKind int

const (
	// BoundaryOptimum means the minimum BIC sits at the largest K tried
	BoundaryOptimum WarningKind = iota
	// NonConvergence means the optimizer ran out of iterations for some K
	NonConvergence
)

// String returns the name of the warning kind
func (w WarningKind) String() string {
	switch w {
	case BoundaryOptimum:
		return "BoundaryOptimum"
	case NonConvergence:
		return "NonConvergence"
	}
	return "Unknown"
}

// Warning is a diagnostic attached to a result, it never discards output
type Warning struct {
	Kind    WarningKind
	K       int
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}

// ProgressFunc is notified once before and once after each K is fitted. In
// parallel mode it is called from several goroutines.
type ProgressFunc func(k int, status string)

// ComparisonRow summarizes one fitted model
type ComparisonRow struct {
	K        int
	CoreSize int
	PanSize  int
	BIC      float64
}

// BinomixResult holds the comparison and detail tables in K.range order
type BinomixResult struct {
	Comparison []ComparisonRow
	Detail     []DetailRow
	Models     []*MixtureModel
	Warnings   []Warning
}

// Best returns the comparison row with the smallest BIC, first one on ties
func (r *BinomixResult) Best() ComparisonRow {
	best := r.Comparison[0]
	for _, row := range r.Comparison[1:] {
		if row.BIC < best.BIC {
			best = row
		}
	}
	return best
}

// HasWarning checks for a diagnostic of the given kind
func (r *BinomixResult) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// Estimator fits binomial mixtures over a range of component counts and
// compares them by BIC
type Estimator struct {
	KRange         []int
	CoreDetectProb float64
	Verbose        bool
	Parallel       bool
	Minimizer      Minimizer
	Progress       ProgressFunc
}

// NewEstimator returns an Estimator with the default K.range {3,4,5} and a
// core detection probability of 1
func NewEstimator() *Estimator {
	kRange := make([]int, len(DefaultKRange))
	copy(kRange, DefaultKRange)
	return &Estimator{
		KRange:         kRange,
		CoreDetectProb: CoreDetectProb,
		Verbose:        true,
	}
}

// Estimate runs the mixture fits on the pan-matrix
func (r *Estimator) Estimate(pm *PanMatrix) (*BinomixResult, error) {
	y := NewPresenceHistogram(pm)
	if r.Verbose {
		log.Noticef("Presence histogram over %d genomes: %s", y.Genomes(), y)
	}
	return r.EstimateHistogram(y)
}

// notify reports progress to the callback and the log
func (r *Estimator) notify(k int, status string) {
	if r.Verbose {
		log.Noticef("binomixEstimate: %s %d component model", status, k)
	}
	if r.Progress != nil {
		r.Progress(k, status)
	}
}

// validate checks K.range and core.detect.prob before any fitting starts
func (r *Estimator) validate() error {
	if len(r.KRange) == 0 {
		return fmt.Errorf("empty K.range: %w", ErrInvalidRange)
	}
	for _, k := range r.KRange {
		if k < 2 {
			return fmt.Errorf("K.range contains %d: %w", k, ErrInvalidRange)
		}
	}
	if !(r.CoreDetectProb >= 0 && r.CoreDetectProb <= 1) {
		return fmt.Errorf("core.detect.prob = %g: %w", r.CoreDetectProb, ErrDetectProb)
	}
	return nil
}

// EstimateHistogram runs the mixture fits for every K in K.range
func (r *Estimator) EstimateHistogram(y PresenceHistogram) (*BinomixResult, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if y.Total() == 0 {
		return nil, ErrEmptyHistogram
	}

	models := make([]*MixtureModel, len(r.KRange))
	fit := func(i int) error {
		k := r.KRange[i]
		r.notify(k, "Fitting")
		m, err := BinomixMachine(y, k, r.CoreDetectProb, r.minimizer())
		if err != nil {
			return err
		}
		models[i] = m
		r.notify(k, "Done fitting")
		return nil
	}

	if r.Parallel {
		var g errgroup.Group
		for i := range r.KRange {
			i := i
			g.Go(func() error { return fit(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range r.KRange {
			if err := fit(i); err != nil {
				return nil, err
			}
		}
	}

	return r.assemble(models), nil
}

// minimizer falls back to the barrier simplex, Minimizers keep no state
// between calls so parallel fits may share one
func (r *Estimator) minimizer() Minimizer {
	if r.Minimizer == nil {
		return NewBarrierNelderMead()
	}
	return r.Minimizer
}

// assemble builds the tables in K.range order and attaches the diagnostics
func (r *Estimator) assemble(models []*MixtureModel) *BinomixResult {
	res := &BinomixResult{Models: models}
	for _, m := range models {
		res.Comparison = append(res.Comparison, ComparisonRow{
			K: m.K, CoreSize: m.CoreSize, PanSize: m.PanSize, BIC: m.BIC,
		})
		res.Detail = append(res.Detail, m.Rows()...)
		if !m.Converged {
			res.addWarning(Warning{
				Kind:    NonConvergence,
				K:       m.K,
				Message: fmt.Sprintf("optimizer hit its iteration limit for K = %d, best iterate used", m.K),
			})
		}
	}

	last := res.Comparison[len(res.Comparison)-1]
	if res.Best().BIC == last.BIC {
		res.addWarning(Warning{
			Kind:    BoundaryOptimum,
			K:       last.K,
			Message: "minimum BIC at maximum K, increase upper limit of K.range",
		})
	}
	return res
}

// addWarning logs and keeps a diagnostic
func (r *BinomixResult) addWarning(w Warning) {
	log.Warning(w.String())
	r.Warnings = append(r.Warnings, w)
}
