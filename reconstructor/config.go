package main

import (
	"fmt"

	reco "github.com/next-exp/tdc_go/pkg"
)

func printConfiguration(config reco.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Trigger channel: %d", config.TriggerChannel), "config")
	logger.Info(fmt.Sprintf("Reference channel: %d", config.ReferenceChannel), "config")
	logger.Info(fmt.Sprintf("Trigger tolerance: %d", config.TriggerTolerance), "config")
	logger.Info(fmt.Sprintf("Time-sum offset: %d", config.TimeSumOffset), "config")
	for _, axis := range config.Axes {
		logger.Info(fmt.Sprintf("Axis %s: ends %d/%d, time sum %d +- %d",
			axis.Name, axis.End1, axis.End2, axis.TimeSum, axis.Tolerance), "config")
	}
	logger.Info(fmt.Sprintf("Histogram: [%d, %d) in %d bins", config.Histogram.Min, config.Histogram.Max, config.Histogram.Bins), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Write time sums: %t", config.WriteTimeSums), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Use blosc: %t (%s, %s)", config.UseBlosc, config.BloscAlgorithm, config.BloscShuffle), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
