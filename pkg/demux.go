package reco

import (
	"errors"
	"fmt"
)

type demuxState int

const (
	seekingTrigger demuxState = iota
	skippingNoise
	collecting
)

func (s demuxState) String() string {
	switch s {
	case seekingTrigger:
		return "seeking-trigger"
	case skippingNoise:
		return "skipping-noise"
	case collecting:
		return "collecting"
	default:
		return "unknown"
	}
}

var errNegativeChannel = errors.New("negative channel id")

// Demultiplex splits the records of one batch into per channel timelines
// relative to the trigger. The first record must be on the trigger channel;
// it opens the trigger timeline at 0. After it, trigger records and records
// further than the tolerance from the trigger are dropped until the first
// genuine hit, which is kept. Every timeline of the result is ascending and
// their lengths add up to Records - Skipped.
func Demultiplex(records []RawRecord, ctx BatchContext, logger Logger) (Batch, error) {
	logger = loggerOrNop(logger)
	batch := Batch{Stats: DemuxStats{Records: len(records)}}
	if len(records) == 0 {
		return Batch{}, &TriggerError{Channel: ctx.TriggerChannel, Reason: "empty batch"}
	}

	state := seekingTrigger
	for i, record := range records {
		switch state {
		case seekingTrigger:
			if record.Channel != ctx.TriggerChannel {
				reason := fmt.Sprintf("first record is on channel %d", record.Channel)
				return Batch{}, &TriggerError{Channel: ctx.TriggerChannel, Reason: reason}
			}
			batch.Origin = record.Timestamp
			state = skippingNoise
		case skippingNoise:
			relative := record.Timestamp - batch.Origin
			if record.Channel == ctx.TriggerChannel || relative >= ctx.TriggerTolerance {
				batch.Stats.Skipped++
				continue
			}
			state = collecting
			logger.Info(fmt.Sprintf("Skipped %d records before first hit", batch.Stats.Skipped), "demux")
		}

		if record.Channel < 0 {
			return Batch{}, &InputFormatError{Line: i + 1, Text: fmt.Sprint(record), Err: errNegativeChannel}
		}
		batch.Timelines.push(record.Channel, record.Timestamp-batch.Origin)
		batch.Stats.Routed++
	}
	logger.Info(fmt.Sprintf("Done reading, %d records routed (%v)", batch.Stats.Routed, state), "demux")

	for channel, timeline := range batch.Timelines {
		if SortTimeline(timeline) {
			logger.Error(fmt.Sprintf("Channel %d is not sorted, sorted %d hits", channel, len(timeline)))
			batch.Stats.Sorted = append(batch.Stats.Sorted, channel)
		} else {
			logger.Info(fmt.Sprintf("Channel %d is sorted, %d hits", channel, len(timeline)), "demux")
		}
	}
	return batch, nil
}
