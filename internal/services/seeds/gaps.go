package seeds

import "SwingScan/internal/domain/models"

// Gap is an unfilled or filled price gap between two consecutive
// sessions. The edge is the prior session's extreme on the gap side:
// prior high for a gap up, prior low for a gap down.
type Gap struct {
	Index  int
	Edge   float64
	Up     bool
	Filled bool
}

// FindGaps scans daily bars for opens at least minPct away from the
// prior close and marks each gap filled when a later session trades
// back through its edge.
func FindGaps(bars []models.Bar, minPct float64) []Gap {
	var out []Gap
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1]
		if prev.Close == 0 {
			continue
		}
		pct := (bars[i].Open - prev.Close) / prev.Close
		if pct >= minPct {
			out = append(out, Gap{Index: i, Edge: prev.High, Up: true, Filled: gapFilled(bars[i:], prev.High, true)})
		} else if pct <= -minPct {
			out = append(out, Gap{Index: i, Edge: prev.Low, Up: false, Filled: gapFilled(bars[i:], prev.Low, false)})
		}
	}
	return out
}

func gapFilled(later []models.Bar, edge float64, up bool) bool {
	for _, b := range later {
		if up && b.Low <= edge {
			return true
		}
		if !up && b.High >= edge {
			return true
		}
	}
	return false
}
