/**
 * Filename: /Users/bao/code/micropan/options.go
 * Path: /Users/bao/code/micropan
 * Created Date: Friday, October 16th 2026, 9:15:32 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"errors"
	"fmt"
	"io"

	"github.com/shenwei356/xopen"
	"gopkg.in/yaml.v3"
)

// Optimizer names accepted in the options
const (
	OptNelderMead = "neldermead"
	OptGA         = "ga"
)

// BinomixOptions configures the mixture estimate, a YAML file such as
//
//   k_range: [3, 4, 5, 6]
//   core_detect_prob: 1.0
//   optimizer: neldermead
//
// overrides the defaults field by field
type BinomixOptions struct {
	KRange         []int   `yaml:"k_range"`
	CoreDetectProb float64 `yaml:"core_detect_prob"`
	Verbose        bool    `yaml:"verbose"`
	Parallel       bool    `yaml:"parallel"`
	Optimizer      string  `yaml:"optimizer"`
	MaxIter        int     `yaml:"maxit"`
	RelTol         float64 `yaml:"reltol"`
	Seed           int64   `yaml:"seed"`
	NPop           uint    `yaml:"npop"`
	NGen           uint    `yaml:"ngen"`
}

// DefaultBinomixOptions returns the defaults
func DefaultBinomixOptions() *BinomixOptions {
	kRange := make([]int, len(DefaultKRange))
	copy(kRange, DefaultKRange)
	return &BinomixOptions{
		KRange:         kRange,
		CoreDetectProb: CoreDetectProb,
		Verbose:        true,
		Optimizer:      OptNelderMead,
		MaxIter:        MaxIter,
		RelTol:         RelTol,
		Seed:           42,
		NPop:           100,
		NGen:           500,
	}
}

// LoadBinomixOptions reads a YAML file on top of the defaults
func LoadBinomixOptions(filename string) (*BinomixOptions, error) {
	opts := DefaultBinomixOptions()
	fh, err := xopen.Ropen(filename)
	if errors.Is(err, xopen.ErrNoContent) {
		log.Noticef("Options file `%s` is empty, using defaults", filename)
		return opts, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	if err := yaml.NewDecoder(fh).Decode(opts); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse options `%s`: %v", filename, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log.Noticef("Options loaded from `%s`", filename)
	return opts, nil
}

// Validate rejects options that cannot produce a fit
func (r *BinomixOptions) Validate() error {
	if len(r.KRange) == 0 {
		return fmt.Errorf("empty k_range: %w", ErrInvalidRange)
	}
	for _, k := range r.KRange {
		if k < 2 {
			return fmt.Errorf("k_range contains %d: %w", k, ErrInvalidRange)
		}
	}
	if !(r.CoreDetectProb >= 0 && r.CoreDetectProb <= 1) {
		return fmt.Errorf("core_detect_prob = %g: %w", r.CoreDetectProb, ErrDetectProb)
	}
	if r.Optimizer != OptNelderMead && r.Optimizer != OptGA {
		return fmt.Errorf("unknown optimizer %q, expected %s or %s", r.Optimizer, OptNelderMead, OptGA)
	}
	if r.MaxIter <= 0 || r.RelTol <= 0 {
		return fmt.Errorf("maxit and reltol must be positive, got %d and %g", r.MaxIter, r.RelTol)
	}
	return nil
}

// Minimizer builds the configured optimizer
func (r *BinomixOptions) Minimizer() Minimizer {
	if r.Optimizer == OptGA {
		ga := NewGeneticMinimizer(r.Seed)
		ga.NPop, ga.NGen = r.NPop, r.NGen
		return ga
	}
	nm := NewBarrierNelderMead()
	nm.MaxIter, nm.RelTol = r.MaxIter, r.RelTol
	return nm
}

// Estimator builds the mixture estimator from the options
func (r *BinomixOptions) Estimator() (*Estimator, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{
		KRange:         r.KRange,
		CoreDetectProb: r.CoreDetectProb,
		Verbose:        r.Verbose,
		Parallel:       r.Parallel,
		Minimizer:      r.Minimizer(),
	}, nil
}
