/**
 * Filename: /Users/bao/code/micropan/evolve.go
 * Path: /Users/bao/code/micropan
 * Created Date: Wednesday, October 14th 2026, 4:51:09 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"math"
	"math/rand"

	"github.com/MaxHalford/eaopt"
)

// GeneticMinimizer is a global alternative to the barrier simplex. The
// population is drawn inside the box implied by the constraints, points
// outside the feasible region score as rejected.
type GeneticMinimizer struct {
	Seed      int64
	NPop      uint
	NGen      uint
	MutProb   float64
	CrossProb float64
}

// NewGeneticMinimizer returns the GA with default settings
func NewGeneticMinimizer(seed int64) *GeneticMinimizer {
	return &GeneticMinimizer{
		Seed:      seed,
		NPop:      100,
		NGen:      500,
		MutProb:   .2,
		CrossProb: .7,
	}
}

// Candidate is a point in parameter space evaluated against an Objective
type Candidate struct {
	X     []float64
	f     Objective
	cons  *LinearConstraints
	lower []float64
	upper []float64
}

// Evaluate method from Genome
func (c *Candidate) Evaluate() (float64, error) {
	if c.cons != nil && !c.cons.Feasible(c.X) {
		return rejected(math.Inf(1)), nil
	}
	return rejected(c.f(c.X)), nil
}

// Mutate method from Genome, mutated genes are clamped back into the box
func (c *Candidate) Mutate(rng *rand.Rand) {
	eaopt.MutNormalFloat64(c.X, 0.8, rng)
	for i := range c.X {
		if c.X[i] < c.lower[i] {
			c.X[i] = c.lower[i]
		} else if c.X[i] > c.upper[i] {
			c.X[i] = c.upper[i]
		}
	}
}

// Crossover method from Genome
func (c *Candidate) Crossover(q eaopt.Genome, rng *rand.Rand) {
	eaopt.CrossUniformFloat64(c.X, q.(*Candidate).X, rng)
}

// Clone method from Genome
func (c *Candidate) Clone() eaopt.Genome {
	clone := *c
	clone.X = make([]float64, len(c.X))
	copy(clone.X, c.X)
	return &clone
}

// Minimize implements Minimizer
func (r *GeneticMinimizer) Minimize(f Objective, x0 []float64, cons *LinearConstraints) (*Optimum, error) {
	var lower, upper []float64
	if cons != nil {
		if !cons.Feasible(x0) {
			return nil, ErrInfeasibleStart
		}
		lower, upper = cons.Bounds()
	} else {
		lower = make([]float64, len(x0))
		upper = make([]float64, len(x0))
		for i, x := range x0 {
			lower[i], upper[i] = x-1, x+1
		}
	}

	ga, err := eaopt.GAConfig{
		NPops:        1,
		PopSize:      r.NPop,
		NGenerations: r.NGen,
		HofSize:      1,
		Model: eaopt.ModGenerational{
			Selector:  eaopt.SelTournament{NContestants: 3},
			MutRate:   r.MutProb,
			CrossRate: r.CrossProb,
		},
		RNG: rand.New(rand.NewSource(r.Seed)),
	}.NewGA()
	if err != nil {
		return nil, err
	}
	ga.Callback = func(ga *eaopt.GA) {
		if r.NGen >= 10 && ga.Generations%(r.NGen/10) == 0 {
			log.Debugf("GA generation %d: min_score=%.5f", ga.Generations, ga.HallOfFame[0].Fitness)
		}
	}

	// The first genome is the starting point so the GA never does worse
	seeded := false
	MakeCandidate := func(rng *rand.Rand) eaopt.Genome {
		c := &Candidate{f: f, cons: cons, lower: lower, upper: upper}
		c.X = make([]float64, len(x0))
		if !seeded {
			seeded = true
			copy(c.X, x0)
			return c
		}
		for i := range c.X {
			c.X[i] = lower[i] + rng.Float64()*(upper[i]-lower[i])
		}
		return c
	}

	log.Noticef("GA initialized (npop: %v, ngen: %v, mu: %.3f, cx: %.3f)",
		r.NPop, r.NGen, r.MutProb, r.CrossProb)
	if err := ga.Minimize(MakeCandidate); err != nil {
		return nil, err
	}

	best := ga.HallOfFame[0].Genome.(*Candidate)
	x := make([]float64, len(best.X))
	copy(x, best.X)
	return &Optimum{
		X:          x,
		F:          ga.HallOfFame[0].Fitness,
		Iterations: int(ga.Generations),
		Converged:  true,
	}, nil
}
