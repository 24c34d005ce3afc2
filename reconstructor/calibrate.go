package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	reco "github.com/next-exp/tdc_go/pkg"
	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Build the time-sum distribution of every axis",
	Long: "Collects every end pair around every reference hit and histograms their time sum.\n" +
		"The suggested values are printed only, copy them to the configuration or the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalibrate(configuration)
	},
}

func runCalibrate(config reco.Configuration) (err error) {
	outcome, err := reco.Reconstruct(config, reco.TaskTimeSums, logger)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	for i, result := range outcome.Axes {
		printHistogram(result.Axis, outcome.Histograms[i])
	}
	if !config.WriteData {
		return nil
	}

	w, err := openWriter(config)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	if err := w.WriteRunInfo(config.RunNumber, outcome.ProcessingID, outcome.Batch); err != nil {
		return err
	}
	for i, result := range outcome.Axes {
		if err := w.WriteTimeSums(result.Axis, result.TimeSums); err != nil {
			return err
		}
		if err := w.WriteHistogram(result.Axis, outcome.Histograms[i]); err != nil {
			return err
		}
	}
	return nil
}

func printHistogram(axis string, histogram *reco.Histogram) {
	fmt.Printf("Axis %s: %d time sums, mean %.1f, rms %.1f, %d underflow, %d overflow\n",
		axis, histogram.Entries, histogram.Mean(), histogram.RMS(), histogram.Underflow, histogram.Overflow)
	suggestion, ok := histogram.Suggest()
	if !ok {
		fmt.Println(color.YellowString("  no entries inside the histogram range"))
		return
	}
	fmt.Printf("  suggested timesum %s, tolerance %s\n",
		color.GreenString("%d", suggestion.TimeSum),
		color.GreenString("%d", suggestion.Tolerance))
}
