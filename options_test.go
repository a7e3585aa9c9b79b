/*
 *  options_test.go
 *  micropan
 *
 *  Created by Haibao Tang on 10/16/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package micropan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/micropan"
)

func writeOptions(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "binomix.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadBinomixOptions(t *testing.T) {
	filename := writeOptions(t, "k_range: [2, 3, 4, 5, 6]\nparallel: true\nmaxit: 500\n")
	opts, err := micropan.LoadBinomixOptions(filename)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4, 5, 6}, opts.KRange)
	assert.True(t, opts.Parallel)
	assert.Equal(t, 500, opts.MaxIter)
	// Untouched fields keep their defaults
	assert.Equal(t, 1.0, opts.CoreDetectProb)
	assert.Equal(t, micropan.OptNelderMead, opts.Optimizer)
	assert.Equal(t, micropan.RelTol, opts.RelTol)
}

func TestLoadBinomixOptionsEmpty(t *testing.T) {
	opts, err := micropan.LoadBinomixOptions(writeOptions(t, ""))
	require.NoError(t, err)
	assert.Equal(t, micropan.DefaultBinomixOptions(), opts)

	opts, err = micropan.LoadBinomixOptions(writeOptions(t, "# nothing to override\n"))
	require.NoError(t, err)
	assert.Equal(t, micropan.DefaultBinomixOptions(), opts)
}

func TestLoadBinomixOptionsInvalid(t *testing.T) {
	_, err := micropan.LoadBinomixOptions(writeOptions(t, "optimizer: simulated-annealing\n"))
	assert.Error(t, err)

	_, err = micropan.LoadBinomixOptions(writeOptions(t, "k_range: [1, 2]\n"))
	assert.True(t, errors.Is(err, micropan.ErrInvalidRange))

	_, err = micropan.LoadBinomixOptions(writeOptions(t, "core_detect_prob: 1.2\n"))
	assert.True(t, errors.Is(err, micropan.ErrDetectProb))

	_, err = micropan.LoadBinomixOptions(writeOptions(t, "k_range: {3: 4}\n"))
	assert.Error(t, err)
}

func TestBinomixOptionsMinimizer(t *testing.T) {
	opts := micropan.DefaultBinomixOptions()
	opts.MaxIter = 1000
	nm, ok := opts.Minimizer().(*micropan.BarrierNelderMead)
	require.True(t, ok)
	assert.Equal(t, 1000, nm.MaxIter)

	opts.Optimizer = micropan.OptGA
	opts.NGen = 20
	ga, ok := opts.Minimizer().(*micropan.GeneticMinimizer)
	require.True(t, ok)
	assert.Equal(t, uint(20), ga.NGen)
	assert.Equal(t, int64(42), ga.Seed)

	e, err := opts.Estimator()
	require.NoError(t, err)
	assert.Equal(t, opts.KRange, e.KRange)
	assert.IsType(t, &micropan.GeneticMinimizer{}, e.Minimizer)
}
