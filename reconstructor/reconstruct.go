package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	reco "github.com/next-exp/tdc_go/pkg"
	"github.com/next-exp/tdc_go/pkg/writer"
	"github.com/spf13/cobra"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Reconstruct the position of every coincidence on every axis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconstruct(configuration)
	},
}

func runReconstruct(config reco.Configuration) error {
	start := time.Now()

	tasks := reco.TaskExtract
	if config.WriteTimeSums {
		tasks |= reco.TaskTimeSums
	}
	outcome, err := reco.Reconstruct(config, tasks, logger)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	printSummary(outcome)

	if config.WriteData {
		if err := writeResults(config, outcome); err != nil {
			logger.Error(err.Error())
			return err
		}
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
	return nil
}

func openWriter(config reco.Configuration) (*writer.Writer, error) {
	compression, err := writer.CompressionFromConfig(config)
	if err != nil {
		return nil, err
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Writing %s, %s", config.FileOut, compression), "main")
	}
	return writer.NewWriter(config.FileOut, compression)
}

func writeResults(config reco.Configuration, outcome reco.Outcome) (err error) {
	w, err := openWriter(config)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	if err := w.WriteRunInfo(config.RunNumber, outcome.ProcessingID, outcome.Batch); err != nil {
		return err
	}
	for _, result := range outcome.Axes {
		if err := w.WriteAxis(outcome.Reference, result); err != nil {
			return err
		}
		if result.TimeSums != nil {
			if err := w.WriteTimeSums(result.Axis, result.TimeSums); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSummary(outcome reco.Outcome) {
	reference := outcome.Reference
	fmt.Printf("Reference hits: %d\n", len(reference))
	for _, result := range outcome.Axes {
		stats := result.Reconstruction.Stats
		fraction := 0.0
		if len(reference) > 0 {
			fraction = 100 * float64(stats.Matched) / float64(len(reference))
		}
		fmt.Printf("Axis %s: %s matched (%.1f%%), %s no hit, %s ambiguous, %s out of tolerance\n",
			result.Axis,
			color.GreenString("%d", stats.Matched),
			fraction,
			color.YellowString("%d", stats.NoHit),
			color.YellowString("%d", stats.Ambiguous),
			color.RedString("%d", stats.OutOfTolerance))
	}
}
