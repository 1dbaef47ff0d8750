package seeds

import (
	"sort"

	"SwingScan/internal/domain/models"
)

const (
	profileBins    = 30
	hvnPercentile  = 0.80
	maxHVNLevels   = 5
	profileMinBars = 30
)

// HVNLevels builds a volume-by-price histogram over the bars and returns
// the price centers of high-volume nodes: bins that are local volume
// maxima at or above the 80th percentile of bin volume. At most five
// levels come back, strongest first.
func HVNLevels(bars []models.Bar) []float64 {
	if len(bars) < profileMinBars {
		return nil
	}

	lo, hi := bars[0].Low, bars[0].High
	for _, b := range bars[1:] {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	if hi <= lo {
		return nil
	}

	width := (hi - lo) / profileBins
	vols := make([]float64, profileBins)
	for _, b := range bars {
		// typical price keeps a wide-range bar from landing on its close
		p := (b.High + b.Low + b.Close) / 3
		bin := int((p - lo) / width)
		if bin >= profileBins {
			bin = profileBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		vols[bin] += float64(b.Volume)
	}

	threshold := percentile(vols, hvnPercentile)
	type node struct {
		price  float64
		volume float64
	}
	var nodes []node
	for i, v := range vols {
		if v < threshold || v == 0 {
			continue
		}
		if i > 0 && vols[i-1] > v {
			continue
		}
		if i < profileBins-1 && vols[i+1] > v {
			continue
		}
		nodes = append(nodes, node{price: lo + (float64(i)+0.5)*width, volume: v})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].volume != nodes[j].volume {
			return nodes[i].volume > nodes[j].volume
		}
		return nodes[i].price < nodes[j].price
	})
	if len(nodes) > maxHVNLevels {
		nodes = nodes[:maxHVNLevels]
	}

	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = n.price
	}
	return out
}

func percentile(vals []float64, p float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
