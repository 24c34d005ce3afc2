package reco

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Timelines holds one ascending sequence of relative timestamps per channel,
// indexed by channel id. It grows to fit the highest channel seen.
type Timelines [][]int64

func (t *Timelines) push(channel int, value int64) {
	if channel >= len(*t) {
		grown := make([][]int64, channel+1)
		copy(grown, *t)
		*t = grown
	}
	(*t)[channel] = append((*t)[channel], value)
}

// Channel returns the timeline of a channel. Channels never seen return nil.
func (t Timelines) Channel(channel int) []int64 {
	if channel < 0 || channel >= len(t) {
		return nil
	}
	return t[channel]
}

// NumChannels is one past the highest channel id seen.
func (t Timelines) NumChannels() int {
	return len(t)
}

// Total is the number of hits over all channels.
func (t Timelines) Total() int {
	total := 0
	for _, timeline := range t {
		total += len(timeline)
	}
	return total
}

func (t Timelines) String() string {
	return fmt.Sprintf("Timelines{channels: %d, hits: %d}", t.NumChannels(), t.Total())
}

// SortTimeline sorts a timeline in place if needed and reports whether it had
// to. Calling it on an ascending timeline changes nothing.
func SortTimeline(timeline []int64) bool {
	if slices.IsSorted(timeline) {
		return false
	}
	slices.Sort(timeline)
	return true
}
