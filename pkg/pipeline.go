package reco

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome is everything one pass over a TDC log produced.
type Outcome struct {
	ProcessingID uuid.UUID
	Batch        Batch
	Reference    []int64
	Axes         []AxisResult
	// One per axis, only when time sums were requested
	Histograms []*Histogram
}

// ReadBatch reads config.FileIn and demultiplexes it.
func ReadBatch(config Configuration, logger Logger) (Batch, error) {
	logger = loggerOrNop(logger)
	records, err := ReadRecordsFile(config.FileIn)
	if err != nil {
		return Batch{}, fmt.Errorf("error reading records: %w", err)
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Number of records: %d", len(records)), "pipeline")
	}
	batch, err := Demultiplex(records, config.BatchContext(), logger)
	if err != nil {
		return Batch{}, fmt.Errorf("error demultiplexing records: %w", err)
	}
	for channel := 0; channel < batch.Timelines.NumChannels(); channel++ {
		logger.Info(fmt.Sprintf("Channel %d size %d", channel, len(batch.Timelines.Channel(channel))), "pipeline")
	}
	return batch, nil
}

// Reconstruct runs the selected tasks over the file named by config.FileIn.
// With TaskTimeSums every axis also gets its time-sum histogram.
func Reconstruct(config Configuration, tasks Task, logger Logger) (Outcome, error) {
	logger = loggerOrNop(logger)
	outcome := Outcome{ProcessingID: uuid.New()}
	logger.Info(fmt.Sprintf("Processing %s as %s", config.FileIn, outcome.ProcessingID), "pipeline")

	batch, err := ReadBatch(config, logger)
	if err != nil {
		return outcome, err
	}
	outcome.Batch = batch
	outcome.Reference = batch.Timelines.Channel(config.ReferenceChannel)

	outcome.Axes, err = ProcessAxes(batch, config, tasks, logger)
	if err != nil {
		return outcome, err
	}

	if tasks&TaskTimeSums == 0 {
		return outcome, nil
	}
	for _, result := range outcome.Axes {
		histogram, err := NewHistogram(config.Histogram)
		if err != nil {
			return outcome, err
		}
		histogram.Fill(result.TimeSums)
		outcome.Histograms = append(outcome.Histograms, histogram)
	}
	return outcome, nil
}
