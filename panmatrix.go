/**
 * Filename: /Users/bao/code/micropan/panmatrix.go
 * Path: /Users/bao/code/micropan
 * Created Date: Tuesday, October 13th 2026, 9:12:40 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/kshedden/gonpy"
	"github.com/shenwei356/xopen"
)

// PanMatrix stores copy numbers with genomes as rows and gene clusters as columns
//
//              cluster1  cluster2  cluster3
//   genome1    1         0         2
//   genome2    1         1         0
type PanMatrix struct {
	Genomes  []string
	Clusters []string
	Counts   [][]int
}

// NewPanMatrix validates the counts and fills in missing labels
func NewPanMatrix(counts [][]int, genomes, clusters []string) (*PanMatrix, error) {
	if len(counts) == 0 || len(counts[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	C := len(counts[0])
	for i, row := range counts {
		if len(row) != C {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w",
				i+1, len(row), C, ErrRaggedMatrix)
		}
		for j, x := range row {
			if x < 0 {
				return nil, fmt.Errorf("entry (%d, %d) = %d: %w", i+1, j+1, x, ErrNegativeCount)
			}
		}
	}
	if genomes == nil {
		genomes = makeLabels("genome", len(counts))
	}
	if clusters == nil {
		clusters = makeLabels("cluster", C)
	}
	if len(genomes) != len(counts) || len(clusters) != C {
		return nil, fmt.Errorf("%d x %d matrix with %d genome and %d cluster labels: %w",
			len(counts), C, len(genomes), len(clusters), ErrLabelMismatch)
	}
	return &PanMatrix{Genomes: genomes, Clusters: clusters, Counts: counts}, nil
}

// makeLabels generates prefix1, prefix2, ...
func makeLabels(prefix string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = prefix + strconv.Itoa(i+1)
	}
	return labels
}

// NGenomes returns the number of rows
func (r *PanMatrix) NGenomes() int {
	return len(r.Counts)
}

// NClusters returns the number of columns
func (r *PanMatrix) NClusters() int {
	if len(r.Counts) == 0 {
		return 0
	}
	return len(r.Counts[0])
}

// Binarize returns a presence/absence copy, the receiver is left untouched
func (r *PanMatrix) Binarize() *PanMatrix {
	P := Make2DSlice(r.NGenomes(), r.NClusters())
	for i, row := range r.Counts {
		for j, x := range row {
			if x > 0 {
				P[i][j] = 1
			}
		}
	}
	return &PanMatrix{Genomes: r.Genomes, Clusters: r.Clusters, Counts: P}
}

// ReadPanMatrix loads a pan-matrix, `.npy` files go through gonpy and
// everything else is parsed as a (possibly gzipped) tab-separated table
func ReadPanMatrix(filename string) (*PanMatrix, error) {
	if path.Ext(filename) == ".npy" {
		return readPanMatrixNpy(filename)
	}
	return readPanMatrixTSV(filename)
}

// readPanMatrixTSV parses the table, first row holds cluster ids and first
// column holds genome ids
func readPanMatrixTSV(filename string) (*PanMatrix, error) {
	log.Noticef("Parse pan-matrix `%s`", filename)
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.Comma = '\t'
	var clusters, genomes []string
	var counts [][]int
	for i := 0; ; i++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if i == 0 {
			clusters = rec[1:]
			continue
		}
		row := make([]int, len(rec)-1)
		for j, word := range rec[1:] {
			x, err := strconv.Atoi(strings.TrimSpace(word))
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %v", i+1, j+2, err)
			}
			row[j] = x
		}
		genomes = append(genomes, rec[0])
		counts = append(counts, row)
	}

	pm, err := NewPanMatrix(counts, genomes, clusters)
	if err != nil {
		return nil, err
	}
	log.Noticef("Imported %d genomes and %d gene clusters", pm.NGenomes(), pm.NClusters())
	return pm, nil
}

// readPanMatrixNpy loads a 2D numpy array, labels are generated
func readPanMatrixNpy(filename string) (*PanMatrix, error) {
	log.Noticef("Parse numpy pan-matrix `%s`", filename)
	rdr, err := gonpy.NewFileReader(filename)
	if err != nil {
		return nil, err
	}
	if len(rdr.Shape) != 2 {
		return nil, fmt.Errorf("expected a 2D array in `%s`, got shape %v", filename, rdr.Shape)
	}
	m, n := rdr.Shape[0], rdr.Shape[1]

	var values []int
	switch dtype := strings.TrimLeft(rdr.Dtype, "<>|="); dtype {
	case "f8":
		data, err := rdr.GetFloat64()
		if err != nil {
			return nil, err
		}
		values = make([]int, len(data))
		for i, x := range data {
			values[i] = int(Round(x))
		}
	case "i8":
		data, err := rdr.GetInt64()
		if err != nil {
			return nil, err
		}
		values = make([]int, len(data))
		for i, x := range data {
			values[i] = int(x)
		}
	case "i4":
		data, err := rdr.GetInt32()
		if err != nil {
			return nil, err
		}
		values = make([]int, len(data))
		for i, x := range data {
			values[i] = int(x)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype %q in `%s`", rdr.Dtype, filename)
	}

	counts := Make2DSlice(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if rdr.ColumnMajor {
				counts[i][j] = values[j*m+i]
			} else {
				counts[i][j] = values[i*n+j]
			}
		}
	}
	return NewPanMatrix(counts, nil, nil)
}
