/**
 * Filename: /Users/bao/code/micropan/likelihood.go
 * Path: /Users/bao/code/micropan
 * Created Date: Wednesday, October 14th 2026, 9:40:36 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// MixtureParams is the full K-component binomial mixture. The optimizer only
// sees the K-1 free weights and K-1 free detection probabilities, component 0
// is implied: its weight is one minus the others and its detection
// probability is pinned at the core value.
type MixtureParams struct {
	Mix    []float64
	Detect []float64
}

// Unpack expands the free vector [w_1..w_np, d_1..d_np] into K components
func Unpack(free []float64, coreDetectProb float64) MixtureParams {
	np := len(free) / 2
	mix := make([]float64, np+1)
	detect := make([]float64, np+1)
	mix[0] = 1 - floats.Sum(free[:np])
	detect[0] = coreDetectProb
	copy(mix[1:], free[:np])
	copy(detect[1:], free[np:])
	return MixtureParams{Mix: mix, Detect: detect}
}

// Pack is the inverse of Unpack, component 0 must be the core component
func (r MixtureParams) Pack() []float64 {
	np := len(r.Mix) - 1
	free := make([]float64, 2*np)
	copy(free[:np], r.Mix[1:])
	copy(free[np:], r.Detect[1:])
	return free
}

// K returns the number of components
func (r MixtureParams) K() int {
	return len(r.Mix)
}

// InitialFree gives the starting point for a K-component fit: flat weights
// 1/K and detection probabilities i/K spread strictly inside (0,1)
func InitialFree(K int, coreDetectProb float64) []float64 {
	np := K - 1
	r := MixtureParams{
		Mix:    make([]float64, K),
		Detect: make([]float64, K),
	}
	r.Mix[0] = 1.0 / float64(K)
	r.Detect[0] = coreDetectProb
	for i := 1; i <= np; i++ {
		r.Mix[i] = 1.0 / float64(K)
		r.Detect[i] = float64(i) / float64(np+1)
	}
	return r.Pack()
}

// SortByDetect applies one ascending permutation by detection probability
// to both Detect and Mix, ties keep their order
func (r MixtureParams) SortByDetect() MixtureParams {
	K := r.K()
	idx := make([]int, K)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return r.Detect[idx[a]] < r.Detect[idx[b]]
	})
	sorted := MixtureParams{
		Mix:    make([]float64, K),
		Detect: make([]float64, K),
	}
	for i, j := range idx {
		sorted.Mix[i] = r.Mix[j]
		sorted.Detect[i] = r.Detect[j]
	}
	return sorted
}

// valid checks that weights and probabilities are inside [0,1]
func (r MixtureParams) valid() bool {
	for k := range r.Mix {
		if !(r.Mix[k] >= 0 && r.Mix[k] <= 1) || !(r.Detect[k] >= 0 && r.Detect[k] <= 1) {
			return false
		}
	}
	return true
}

// ZeroClassProb is theta_0, the mass on clusters found in none of G genomes
func (r MixtureParams) ZeroClassProb(G int) float64 {
	theta0 := 0.0
	for k := range r.Mix {
		theta0 += r.Mix[k] * math.Pow(1-r.Detect[k], float64(G))
	}
	return theta0
}

// observedProb is 1 - theta_0, summed per component so small detection
// probabilities do not cancel out
func (r MixtureParams) observedProb(G int) float64 {
	obs := 0.0
	for k := range r.Mix {
		obs += r.Mix[k] * -math.Expm1(float64(G)*math.Log1p(-r.Detect[k]))
	}
	return obs
}

// logClassProb is log(theta_g), worked in log space so that large G neither
// overflows the binomial coefficient nor underflows the powers
func (r MixtureParams) logClassProb(G, g int) float64 {
	terms := make([]float64, r.K())
	for k := range r.Mix {
		p := r.Detect[k]
		lt := math.Log(r.Mix[k])
		if g > 0 {
			lt += float64(g) * math.Log(p)
		}
		if G-g > 0 {
			lt += float64(G-g) * math.Log1p(-p)
		}
		terms[k] = lt
	}
	return combin.LogGeneralizedBinomial(float64(G), float64(g)) + floats.LogSumExp(terms)
}

// UnobservedCount extrapolates the clusters found in none of G genomes from
// the n observed ones, n theta_0 / (1 - theta_0), capped at MaxUnobserved
func (r MixtureParams) UnobservedCount(n, G int) int {
	obs := r.observedProb(G)
	extra := float64(n) * r.ZeroClassProb(G) / obs
	if !(obs > 0) || math.IsNaN(extra) || extra > MaxUnobserved {
		log.Warningf("Zero class extrapolation of %d clusters capped at %d", n, MaxUnobserved)
		return MaxUnobserved
	}
	return int(Round(extra))
}

// CoreMass sums the weights of the components detected at least as well as
// the core component. The barrier keeps free detections strictly below 1, so
// anything within CoreTol of coreDetectProb counts as core.
func (r MixtureParams) CoreMass(coreDetectProb float64) float64 {
	mass := 0.0
	for k, p := range r.Detect {
		if p >= coreDetectProb-CoreTol {
			mass += r.Mix[k]
		}
	}
	return mass
}

// ClassProb is theta_g, the probability that a cluster is found in exactly g
// of G genomes
func (r MixtureParams) ClassProb(G, g int) float64 {
	return math.Exp(r.logClassProb(G, g))
}

// LogLik is the zero-truncated log-likelihood of the histogram
//
//   L = -n log(1 - theta_0) + sum_g y[g] log(theta_g)
//
// it returns -Inf when the parameters cannot have produced y
func (r MixtureParams) LogLik(y PresenceHistogram) float64 {
	if !r.valid() {
		return math.Inf(-1)
	}
	G := y.Genomes()
	n := y.Total()
	obs := r.observedProb(G)
	if !(obs > 0) {
		return math.Inf(-1)
	}
	L := -float64(n) * math.Log(obs)
	for g := 1; g <= G; g++ {
		if y.Bin(g) == 0 {
			continue
		}
		L += float64(y.Bin(g)) * r.logClassProb(G, g)
	}
	if math.IsNaN(L) {
		return math.Inf(-1)
	}
	return L
}

// NegTruncLogLike is the objective handed to the minimizer. Parameter sets
// that put zero mass on an observed bin are rejected with +Inf.
func NegTruncLogLike(free []float64, y PresenceHistogram, coreDetectProb float64) float64 {
	return -Unpack(free, coreDetectProb).LogLik(y)
}
