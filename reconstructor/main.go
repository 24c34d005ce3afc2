package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	reco "github.com/next-exp/tdc_go/pkg"
	"github.com/spf13/cobra"
)

var (
	configuration  reco.Configuration
	logger         Logger
	configFilename string
	fileInFlag     string
	fileOutFlag    string
	runFlag        int
)

var rootCmd = &cobra.Command{
	Use:   "reconstructor",
	Short: "Coincidence reconstruction for delay-line detector TDC logs",
	Long: color.CyanString("reconstructor") + "\nMatches the MCP reference hits with the delay-line ends of every axis\n" +
		"and computes the position from the arrival time difference.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&fileInFlag, "file-in", "", "TDC log, overrides file_in")
	rootCmd.PersistentFlags().StringVar(&fileOutFlag, "file-out", "", "HDF5 output, overrides file_out")
	rootCmd.PersistentFlags().IntVar(&runFlag, "run", -1, "Run number, overrides run_number")
	rootCmd.MarkPersistentFlagRequired("config")

	rootCmd.AddCommand(reconstructCmd)
	rootCmd.AddCommand(calibrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) error {
	logger = NewLogger(0)

	var err error
	configuration, err = reco.LoadConfiguration(configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return message
	}
	if fileInFlag != "" {
		configuration.FileIn = fileInFlag
	}
	if fileOutFlag != "" {
		configuration.FileOut = fileOutFlag
	}
	if runFlag >= 0 {
		configuration.RunNumber = runFlag
	}

	logger = NewLogger(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", configFilename), "main")
	}

	if !configuration.NoDB {
		configuration, err = loadRunConditions(configuration)
		if err != nil {
			logger.Error(err.Error())
			return err
		}
	}

	if configuration.Verbosity > 0 {
		printConfiguration(configuration, logger)
	}
	return nil
}

func loadRunConditions(config reco.Configuration) (reco.Configuration, error) {
	dbConn, err := reco.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return config, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	conditions, err := reco.LoadRunConditions(dbConn, config.RunNumber, config.Verbosity, logger)
	if err != nil {
		return config, fmt.Errorf("error getting run conditions from database: %w", err)
	}
	return conditions.Apply(config)
}
