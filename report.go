/**
 * Filename: /Users/bao/code/micropan/report.go
 * Path: /Users/bao/code/micropan
 * Created Date: Friday, October 16th 2026, 10:40:12 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"fmt"
	"io"

	"github.com/kshedden/gonpy"
	"github.com/shenwei356/xopen"
)

// PrintComparison writes the one-row-per-K table
func (r *BinomixResult) PrintComparison(w io.Writer) {
	fmt.Fprintf(w, "#K\tCore.size\tPan.size\tBIC\n")
	for _, row := range r.Comparison {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\n", row.K, row.CoreSize, row.PanSize, row.BIC)
	}
}

// PrintDetail writes the per-component table, grouped by K
func (r *BinomixResult) PrintDetail(w io.Writer) {
	fmt.Fprintf(w, "#K\tDetection.prob\tMixing.prop\n")
	for _, row := range r.Detail {
		fmt.Fprintf(w, "%d\t%.6g\t%.6g\n", row.K, row.DetectionProb, row.MixingProp)
	}
}

// PrintHistogram writes the number of clusters per genome count
func PrintHistogram(w io.Writer, y PresenceHistogram) {
	fmt.Fprintf(w, "#Genomes\tClusters\n")
	for g := 1; g <= y.Genomes(); g++ {
		fmt.Fprintf(w, "%d\t%d\n", g, y.Bin(g))
	}
}

// writeTable opens the file (gzipped on .gz) and hands it to print
func writeTable(outfile string, print func(io.Writer)) error {
	w, err := xopen.Wopen(outfile)
	if err != nil {
		return err
	}
	print(w)
	return w.Close()
}

// WriteTables writes prefix.comparison.tsv and prefix.detail.tsv
func (r *BinomixResult) WriteTables(prefix string) error {
	comparisonFile := prefix + ".comparison.tsv"
	if err := writeTable(comparisonFile, r.PrintComparison); err != nil {
		return err
	}
	log.Noticef("Model comparison written to `%s`", comparisonFile)

	detailFile := prefix + ".detail.tsv"
	if err := writeTable(detailFile, r.PrintDetail); err != nil {
		return err
	}
	log.Noticef("Mixture components written to `%s`", detailFile)
	return nil
}

// WriteDetailNpy serializes the detail table as a (rows x 3) float64 array
// with columns K, detection probability and mixing proportion
func (r *BinomixResult) WriteDetailNpy(outfile string) error {
	data := make([]float64, 0, 3*len(r.Detail))
	for _, row := range r.Detail {
		data = append(data, float64(row.K), row.DetectionProb, row.MixingProp)
	}
	npy, err := gonpy.NewFileWriter(outfile)
	if err != nil {
		return err
	}
	npy.Shape = []int{len(r.Detail), 3}
	if err := npy.WriteFloat64(data); err != nil {
		return err
	}
	log.Noticef("Mixture components written to `%s`", outfile)
	return nil
}
