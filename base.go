/**
 * Filename: /Users/bao/code/micropan/base.go
 * Path: /Users/bao/code/micropan
 * Created Date: Tuesday, October 13th 2026, 8:07:22 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"strings"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of micropan
	Version = "0.3.1"
	// CoreDetectProb is the default detection probability of the core component
	CoreDetectProb = 1.0
	// MaxIter is the iteration budget for each simplex run
	MaxIter = 300
	// RelTol is the relative improvement below which a simplex run stops
	RelTol = 1e-6
	// BarrierMu is the weight of the adaptive log barrier
	BarrierMu = 1e-4
	// OuterEps is the relative tolerance for the barrier outer loop
	OuterEps = 1e-5
	// OuterIter caps the number of barrier outer iterations
	OuterIter = 100
	// HeapsPerm is the default number of genome orderings in the Heaps fit
	HeapsPerm = 100
	// CoreTol is how far below the core detection probability a component
	// may sit and still count as core
	CoreTol = 1e-3
	// MaxUnobserved caps the extrapolated number of unobserved clusters
	MaxUnobserved = math.MaxInt32
)

// DefaultKRange lists the mixture complexities tried when none are given
var DefaultKRange = []int{3, 4, 5}

// Sentinel errors, match with errors.Is
var (
	// ErrEmptyMatrix is returned when the pan-matrix has no genomes or no clusters
	ErrEmptyMatrix = errors.New("micropan: empty pan-matrix")
	// ErrRaggedMatrix is returned when the pan-matrix rows differ in length
	ErrRaggedMatrix = errors.New("micropan: pan-matrix rows differ in length")
	// ErrNegativeCount is returned for copy numbers below zero
	ErrNegativeCount = errors.New("micropan: negative copy number")
	// ErrLabelMismatch is returned when labels do not match the matrix shape
	ErrLabelMismatch = errors.New("micropan: labels do not match pan-matrix shape")
	// ErrInvalidRange is returned for a mixture with fewer than 2 components
	ErrInvalidRange = errors.New("micropan: K must be at least 2")
	// ErrDetectProb is returned when core.detect.prob is outside [0,1]
	ErrDetectProb = errors.New("micropan: core detection probability must be in [0,1]")
	// ErrEmptyHistogram is returned when no gene cluster has been observed
	ErrEmptyHistogram = errors.New("micropan: histogram has no observed clusters")
	// ErrInfeasibleStart is returned when the starting point violates the constraints
	ErrInfeasibleStart = errors.New("micropan: starting point is not strictly feasible")
	// ErrNoDoubletons is returned by Chao when no cluster is seen in exactly 2 genomes
	ErrNoDoubletons = errors.New("micropan: no clusters observed in exactly 2 genomes")
	// ErrTooFewGenomes is returned by Heaps when there are fewer than 3 genomes
	ErrTooFewGenomes = errors.New("micropan: at least 3 genomes are required")
)

var log = logging.MustGetLogger("micropan")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// SetVerbosity switches the package logger between NOTICE and WARNING
func SetVerbosity(verbose bool) {
	level := logging.WARNING
	if verbose {
		level = logging.NOTICE
	}
	logging.SetLevel(level, "micropan")
}

// RemoveExt returns the substring minus the extension
func RemoveExt(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// Round makes a round number, halves away from zero
func Round(input float64) float64 {
	if input < 0 {
		return math.Ceil(input - 0.5)
	}
	return math.Floor(input + 0.5)
}

// sum gets the sum for an int slice
func sum(a []int) int {
	ans := 0
	for _, x := range a {
		ans += x
	}
	return ans
}

// Make2DSlice allocates a 2D matrix with shape (m, n)
func Make2DSlice(m, n int) [][]int {
	P := make([][]int, m)
	for i := 0; i < m; i++ {
		P[i] = make([]int, n)
	}
	return P
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int) string {
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}

// arrayToString print delimited int slice
func arrayToString(a []int, delim string) string {
	return strings.Trim(strings.Replace(fmt.Sprint(a), " ", delim, -1), "[]")
}
