package reco

import "golang.org/x/exp/slices"

// Width is the upper edge of the coincidence window, in ticks after the
// reference hit. Shared by the extractor and the time-sum calibrator.
const Width int64 = 4000

// Slack is how far before the reference hit the extractor window opens.
const Slack int64 = 0

// UpperBound returns the index of the first element of the ascending timeline
// strictly greater than value, or len(timeline) if there is none. That is also
// the number of elements <= value.
func UpperBound(timeline []int64, value int64) int {
	i, _ := slices.BinarySearchFunc(timeline, value, func(element, target int64) int {
		if element <= target {
			return -1
		}
		return 1
	})
	return i
}

// Window is a half-open index range [Lo, Hi) into one timeline.
type Window struct {
	Lo int
	Hi int
}

// WindowOf returns the indices of the values in (lo, hi]. The exclusive lower
// and inclusive upper edges decide ties at exact equality.
func WindowOf(timeline []int64, lo int64, hi int64) Window {
	w := Window{Lo: UpperBound(timeline, lo), Hi: UpperBound(timeline, hi)}
	if w.Hi < w.Lo {
		w.Hi = w.Lo
	}
	return w
}

// Len is the number of values inside the window.
func (w Window) Len() int {
	return w.Hi - w.Lo
}

// Values returns the window as a subslice of timeline, no copy is made.
func (w Window) Values(timeline []int64) []int64 {
	return timeline[w.Lo:w.Hi]
}
