/**
 * Filename: /Users/bao/code/micropan/histogram.go
 * Path: /Users/bao/code/micropan
 * Created Date: Tuesday, October 13th 2026, 10:01:17 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

// PresenceHistogram counts gene clusters by the number of genomes they occur in.
// Element g-1 holds the number of clusters present in exactly g genomes, so the
// length equals the number of genomes G. Clusters seen in no genome are
// unobservable and never counted.
type PresenceHistogram []int

// NewPresenceHistogram reduces a pan-matrix to its presence/absence histogram.
// Copy numbers are irrelevant, every positive entry counts as present.
func NewPresenceHistogram(pm *PanMatrix) PresenceHistogram {
	G := pm.NGenomes()
	y := make(PresenceHistogram, G)
	for j := 0; j < pm.NClusters(); j++ {
		g := 0
		for i := 0; i < G; i++ {
			if pm.Counts[i][j] > 0 {
				g++
			}
		}
		if g == 0 {
			continue
		}
		y[g-1]++
	}
	return y
}

// Genomes returns G
func (y PresenceHistogram) Genomes() int {
	return len(y)
}

// Total returns n, the number of observed gene clusters
func (y PresenceHistogram) Total() int {
	return sum(y)
}

// Bin returns the count of clusters found in exactly g genomes, g is 1-based
func (y PresenceHistogram) Bin(g int) int {
	if g < 1 || g > len(y) {
		return 0
	}
	return y[g-1]
}

// String prints the histogram as comma-separated counts
func (y PresenceHistogram) String() string {
	return arrayToString(y, ",")
}
