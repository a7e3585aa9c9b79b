/**
 * Filename: /Users/bao/code/micropan/binomix.go
 * Path: /Users/bao/code/micropan
 * Created Date: Thursday, October 15th 2026, 10:47:29 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MixtureModel is a fitted K-component binomial mixture. DetectionProbs is
// sorted ascending and MixingProps follows the same order.
type MixtureModel struct {
	K              int
	DetectionProbs []float64
	MixingProps    []float64
	CoreSize       int
	PanSize        int
	BIC            float64
	LogLik         float64
	Converged      bool
}

// DetailRow is one component of one fitted model
type DetailRow struct {
	K             int
	DetectionProb float64
	MixingProp    float64
}

// Rows lists the components of the model, one row each
func (r *MixtureModel) Rows() []DetailRow {
	rows := make([]DetailRow, r.K)
	for k := 0; k < r.K; k++ {
		rows[k] = DetailRow{K: r.K, DetectionProb: r.DetectionProbs[k], MixingProp: r.MixingProps[k]}
	}
	return rows
}

// String prints a one-line summary
func (r *MixtureModel) String() string {
	return fmt.Sprintf("K=%d core=%d pan=%d BIC=%.4f", r.K, r.CoreSize, r.PanSize, r.BIC)
}

// BinomixMachine fits a K-component zero-truncated binomial mixture to the
// presence histogram y and derives the core and pan-genome sizes.
//
// The K-1 free weights and K-1 free detection probabilities are searched
// inside 0 <= sum(w) <= 1, 0 <= x_i <= 1 starting from flat weights and evenly
// spaced detections. An exhausted iteration budget is not an error, the best
// iterate is used and Converged is false.
func BinomixMachine(y PresenceHistogram, K int, coreDetectProb float64, m Minimizer) (*MixtureModel, error) {
	if K < 2 {
		return nil, fmt.Errorf("K = %d: %w", K, ErrInvalidRange)
	}
	if !(coreDetectProb >= 0 && coreDetectProb <= 1) {
		return nil, fmt.Errorf("core.detect.prob = %g: %w", coreDetectProb, ErrDetectProb)
	}
	n := y.Total()
	if n == 0 {
		return nil, ErrEmptyHistogram
	}
	if m == nil {
		m = NewBarrierNelderMead()
	}

	np := K - 1
	G := y.Genomes()
	f := func(free []float64) float64 {
		return NegTruncLogLike(free, y, coreDetectProb)
	}
	est, err := m.Minimize(f, InitialFree(K, coreDetectProb), MixtureConstraints(np))
	if err != nil {
		return nil, fmt.Errorf("fitting %d component model: %w", K, err)
	}

	params := Unpack(est.X, coreDetectProb).SortByDetect()
	theta0 := params.ZeroClassProb(G)
	panSize := n + params.UnobservedCount(n, G)
	coreSize := int(Round(float64(panSize) * params.CoreMass(coreDetectProb)))

	model := &MixtureModel{
		K:              K,
		DetectionProbs: params.Detect,
		MixingProps:    params.Mix,
		CoreSize:       coreSize,
		PanSize:        panSize,
		BIC:            2*est.F + math.Log(float64(n))*float64(np+K),
		LogLik:         -est.F,
		Converged:      est.Converged,
	}
	if s := floats.Sum(model.MixingProps); math.Abs(s-1) > 1e-6 {
		log.Warningf("Mixing proportions of %d component model sum to %.8f", K, s)
	}
	log.Debugf("Fitted %v (theta_0 = %.6g, core %s)", model, theta0, Percentage(coreSize, panSize))
	return model, nil
}
