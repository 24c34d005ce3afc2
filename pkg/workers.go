package reco

import (
	"errors"
	"fmt"
)

// Task selects what the pool computes for every axis.
type Task int

const (
	TaskExtract Task = 1 << iota
	TaskTimeSums
)

type axisJob struct {
	index int
	axis  AxisConfig
}

type axisOutput struct {
	index  int
	result AxisResult
}

// ProcessAxes runs the selected tasks for every configured axis on
// config.NumWorkers workers. The batch is only read. Results come back in
// the order of config.Axes; if any axis fails the joined errors are returned.
func ProcessAxes(batch Batch, config Configuration, tasks Task, logger Logger) ([]AxisResult, error) {
	logger = loggerOrNop(logger)
	numWorkers := config.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan axisJob, len(config.Axes))
	outputs := make(chan axisOutput, len(config.Axes))

	for w := 1; w <= numWorkers; w++ {
		go axisWorker(w, batch, config, tasks, logger, jobs, outputs)
	}
	for i, axis := range config.Axes {
		jobs <- axisJob{index: i, axis: axis}
	}
	close(jobs)

	results := make([]AxisResult, len(config.Axes))
	var errs []error
	for range config.Axes {
		output := <-outputs
		results[output.index] = output.result
		if output.result.Err != nil {
			errs = append(errs, output.result.Err)
		}
	}
	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

func axisWorker(id int, batch Batch, config Configuration, tasks Task, logger Logger,
	jobs <-chan axisJob, outputs chan<- axisOutput) {
	for job := range jobs {
		if config.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Worker %d processing axis %s", id, job.axis.Name), "workers")
		}
		outputs <- axisOutput{index: job.index, result: processAxis(batch, config, job.axis, tasks, logger)}
	}
}

func processAxis(batch Batch, config Configuration, axis AxisConfig, tasks Task, logger Logger) (result AxisResult) {
	result.Axis = axis.Name
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("axis %s: recovered from panic: %v", axis.Name, r)
			logger.Error(result.Err.Error())
		}
	}()

	reference := batch.Timelines.Channel(config.ReferenceChannel)
	end1 := batch.Timelines.Channel(axis.End1)
	end2 := batch.Timelines.Channel(axis.End2)

	if tasks&TaskTimeSums != 0 {
		logger.Info(fmt.Sprintf("Calculating time sums for axis %s", axis.Name), "timesum")
		result.TimeSums = TimeSums(reference, end1, end2, config.TimeSumOffset)
	}
	if tasks&TaskExtract != 0 {
		reconstruction, err := Extract(reference, end1, end2, axis.Params(), logger)
		if err != nil {
			result.Err = fmt.Errorf("error extracting axis %s: %w", axis.Name, err)
			logger.Error(result.Err.Error())
			return result
		}
		result.Reconstruction = reconstruction
	}
	return result
}
