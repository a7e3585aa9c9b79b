/*
 *  report_test.go
 *  micropan
 *
 *  Created by Haibao Tang on 10/16/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package micropan_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/micropan"
)

func sampleResult() *micropan.BinomixResult {
	return &micropan.BinomixResult{
		Comparison: []micropan.ComparisonRow{
			{K: 2, CoreSize: 3, PanSize: 9, BIC: 21.5},
			{K: 3, CoreSize: 2, PanSize: 10, BIC: 24.125},
		},
		Detail: []micropan.DetailRow{
			{K: 2, DetectionProb: 0.25, MixingProp: 0.6},
			{K: 2, DetectionProb: 1, MixingProp: 0.4},
			{K: 3, DetectionProb: 0.1, MixingProp: 0.5},
			{K: 3, DetectionProb: 0.5, MixingProp: 0.3},
			{K: 3, DetectionProb: 1, MixingProp: 0.2},
		},
	}
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().PrintComparison(&buf)
	assert.Equal(t, "#K\tCore.size\tPan.size\tBIC\n"+
		"2\t3\t9\t21.5000\n"+
		"3\t2\t10\t24.1250\n", buf.String())
}

func TestPrintDetail(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().PrintDetail(&buf)
	assert.Equal(t, "#K\tDetection.prob\tMixing.prop\n"+
		"2\t0.25\t0.6\n"+
		"2\t1\t0.4\n"+
		"3\t0.1\t0.5\n"+
		"3\t0.5\t0.3\n"+
		"3\t1\t0.2\n", buf.String())
}

func TestPrintHistogram(t *testing.T) {
	var buf bytes.Buffer
	micropan.PrintHistogram(&buf, micropan.PresenceHistogram{3, 0, 2})
	assert.Equal(t, "#Genomes\tClusters\n1\t3\n2\t0\n3\t2\n", buf.String())
}

func TestWriteTables(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "sample")
	require.NoError(t, sampleResult().WriteTables(prefix))

	comparison, err := os.ReadFile(prefix + ".comparison.tsv")
	require.NoError(t, err)
	assert.Contains(t, string(comparison), "3\t2\t10\t24.1250\n")

	detail, err := os.ReadFile(prefix + ".detail.tsv")
	require.NoError(t, err)
	assert.Equal(t, 6, bytes.Count(detail, []byte("\n")))
}

func TestWriteDetailNpy(t *testing.T) {
	outfile := filepath.Join(t.TempDir(), "sample.detail.npy")
	require.NoError(t, sampleResult().WriteDetailNpy(outfile))

	rdr, err := gonpy.NewFileReader(outfile)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3}, rdr.Shape)
	data, err := rdr.GetFloat64()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0.25, 0.6}, data[:3])
	assert.Equal(t, []float64{3, 1, 0.2}, data[12:])
}
