package seeds

import "SwingScan/internal/domain/models"

// SwingPoint is a local extreme confirmed by strictly lower highs (or
// strictly higher lows) on both sides of the pivot bar.
type SwingPoint struct {
	Index int
	Price float64
}

// FindSwingHighs scans bars for pivot highs using a symmetric window.
// A bar qualifies when its high strictly exceeds every high within
// window bars on each side.
func FindSwingHighs(bars []models.Bar, window int) []SwingPoint {
	var out []SwingPoint
	for i := window; i < len(bars)-window; i++ {
		h := bars[i].High
		pivot := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= h {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, SwingPoint{Index: i, Price: h})
		}
	}
	return out
}

// FindSwingLows is the mirror of FindSwingHighs for pivot lows.
func FindSwingLows(bars []models.Bar, window int) []SwingPoint {
	var out []SwingPoint
	for i := window; i < len(bars)-window; i++ {
		l := bars[i].Low
		pivot := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if bars[j].Low <= l {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, SwingPoint{Index: i, Price: l})
		}
	}
	return out
}
