/**
 * Filename: /Users/bao/code/micropan/chao.go
 * Path: /Users/bao/code/micropan
 * Created Date: Thursday, October 15th 2026, 5:02:44 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package micropan

// Chao gives the lower bound of the pan-genome size from the singletons and
// doubletons of the histogram: n + y1^2 / (2 y2)
func Chao(y PresenceHistogram) (int, error) {
	y1, y2 := y.Bin(1), y.Bin(2)
	if y2 == 0 {
		return 0, ErrNoDoubletons
	}
	panSize := int(Round(float64(y.Total()) + float64(y1*y1)/float64(2*y2)))
	log.Noticef("Chao lower bound: %d (singletons: %d, doubletons: %d)", panSize, y1, y2)
	return panSize, nil
}
