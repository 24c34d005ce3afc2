package reco

// RawRecord is one line of the TDC log: a channel id and its timestamp in
// device clock ticks.
type RawRecord struct {
	Channel   int
	Timestamp int64
}

// BatchContext carries the per-batch trigger settings. It is never mutated
// once the batch starts.
type BatchContext struct {
	TriggerChannel   int
	TriggerTolerance int64
}

// Batch is the demultiplexed content of one TDC log.
type Batch struct {
	Origin    int64
	Timelines Timelines
	Stats     DemuxStats
}

// DemuxStats counts what happened to the records of a batch. The origin
// trigger record is routed, so Routed == Records - Skipped.
type DemuxStats struct {
	Records int
	Skipped int
	Routed  int
	// Channels that arrived out of order and had to be sorted
	Sorted []int
}

// Reconstruction holds the per reference event result of one axis. Both
// slices have the length of the reference timeline. Coordinate is only
// meaningful where Matched is true.
type Reconstruction struct {
	Matched    []bool
	Coordinate []int64
	Stats      ExtractStats
}

type ExtractStats struct {
	NoHit          int
	Ambiguous      int
	OutOfTolerance int
	Matched        int
}

func (r Reconstruction) Count() int {
	count := 0
	for _, m := range r.Matched {
		if m {
			count++
		}
	}
	return count
}

// AxisResult is what the worker pool hands back for every configured axis.
type AxisResult struct {
	Axis           string
	Reconstruction Reconstruction
	TimeSums       []int64
	Err            error
}
