package reco

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal width binning of time-sum samples over [Min, Max).
type Histogram struct {
	Min       int64
	Max       int64
	Counts    []int64
	Underflow int64
	Overflow  int64
	Entries   int64
	dividers  []float64
	samples   []float64
}

func NewHistogram(config HistogramConfig) (*Histogram, error) {
	if config.Bins < 1 || config.Max <= config.Min {
		return nil, fmt.Errorf("invalid histogram binning %+v", config)
	}
	dividers := floats.Span(make([]float64, config.Bins+1), float64(config.Min), float64(config.Max))
	dividers[config.Bins] = float64(config.Max)
	return &Histogram{
		Min:      config.Min,
		Max:      config.Max,
		Counts:   make([]int64, config.Bins),
		dividers: dividers,
	}, nil
}

func (h *Histogram) Add(value int64) {
	h.Fill([]int64{value})
}

// Fill adds samples to the histogram. Values outside [Min, Max) go to the
// underflow and overflow counters but still enter Mean and RMS.
func (h *Histogram) Fill(values []int64) {
	inside := make([]float64, 0, len(values))
	for _, value := range values {
		x := float64(value)
		h.samples = append(h.samples, x)
		switch {
		case x < h.dividers[0]:
			h.Underflow++
		case x >= h.dividers[len(h.dividers)-1]:
			h.Overflow++
		default:
			inside = append(inside, x)
		}
	}
	h.Entries += int64(len(values))
	if len(inside) == 0 {
		return
	}

	sort.Float64s(inside)
	counts := stat.Histogram(nil, h.dividers, inside, nil)
	for bin, count := range counts {
		h.Counts[bin] += int64(count)
	}
}

// LowEdge returns the lower edge of a bin.
func (h *Histogram) LowEdge(bin int) float64 {
	return h.dividers[bin]
}

func (h *Histogram) BinWidth() float64 {
	return h.dividers[1] - h.dividers[0]
}

func (h *Histogram) Mean() float64 {
	if h.Entries == 0 {
		return 0
	}
	return stat.Mean(h.samples, nil)
}

// RMS is the population standard deviation of every entry.
func (h *Histogram) RMS() float64 {
	if h.Entries == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(h.samples, nil)
	return std
}

// Peak returns the bin with most entries, -1 if the histogram is empty.
func (h *Histogram) Peak() int {
	peak := -1
	var most int64
	for bin, count := range h.Counts {
		if count > most {
			peak = bin
			most = count
		}
	}
	return peak
}

// Suggest proposes a nominal time sum and tolerance from the histogram: the
// centre of the peak bin and the half width of the region around it holding
// counts above half the peak. The result is only printed for the operator,
// the extractor keeps using the configured values.
func (h *Histogram) Suggest() (AxisParams, bool) {
	peak := h.Peak()
	if peak < 0 {
		return AxisParams{}, false
	}
	half := h.Counts[peak] / 2
	lo, hi := peak, peak
	for lo > 0 && h.Counts[lo-1] > half {
		lo--
	}
	for hi < len(h.Counts)-1 && h.Counts[hi+1] > half {
		hi++
	}
	centre := (h.dividers[peak] + h.dividers[peak+1]) / 2
	tolerance := (h.dividers[hi+1] - h.dividers[lo]) / 2
	return AxisParams{TimeSum: int64(math.Round(centre)), Tolerance: int64(math.Round(tolerance))}, true
}
