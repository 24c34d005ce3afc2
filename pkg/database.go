package reco

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type ChannelMappingEntry struct {
	Role    string `db:"Role"`
	Channel int    `db:"Channel"`
}

type TimeSumCalibrationEntry struct {
	Axis      string `db:"Axis"`
	TimeSum   int64  `db:"TimeSum"`
	Tolerance int64  `db:"Tolerance"`
}

// RunConditions is the detector setup valid for one run.
type RunConditions struct {
	RunNumber    int
	Channels     map[string]int
	Calibrations map[string]TimeSumCalibrationEntry
}

const (
	channelMappingQuery = "SELECT Role, Channel FROM ChannelMapping WHERE MinRun <= ? and MaxRun >= ? ORDER BY Role"
	calibrationQuery    = "SELECT Axis, TimeSum, Tolerance FROM TimeSumCalibration WHERE MinRun <= ? and MaxRun >= ? ORDER BY Axis"
)

func LoadRunConditions(db *sqlx.DB, runNumber int, verbosity int, logger Logger) (RunConditions, error) {
	logger = loggerOrNop(logger)
	conditions := RunConditions{
		RunNumber:    runNumber,
		Channels:     make(map[string]int),
		Calibrations: make(map[string]TimeSumCalibrationEntry),
	}

	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading channel mapping for run %d", runNumber), "database")
	}
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", channelMappingQuery), "database")
	}
	var channels []ChannelMappingEntry
	if err := db.Select(&channels, channelMappingQuery, runNumber, runNumber); err != nil {
		return conditions, fmt.Errorf("error querying channel mapping: %w", err)
	}
	for _, entry := range channels {
		conditions.Channels[strings.ToLower(entry.Role)] = entry.Channel
	}

	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading time-sum calibration for run %d", runNumber), "database")
	}
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", calibrationQuery), "database")
	}
	var calibrations []TimeSumCalibrationEntry
	if err := db.Select(&calibrations, calibrationQuery, runNumber, runNumber); err != nil {
		return conditions, fmt.Errorf("error querying time-sum calibration: %w", err)
	}
	for _, entry := range calibrations {
		conditions.Calibrations[strings.ToLower(entry.Axis)] = entry
	}
	return conditions, nil
}

// Apply overrides the channel ids and time-sum settings of a configuration
// with the ones found in the database. Roles are "trigger", "reference" and
// the axis name followed by 1 or 2 for its ends ("x1", "x2"...).
func (rc RunConditions) Apply(config Configuration) (Configuration, error) {
	if channel, ok := rc.Channels["trigger"]; ok {
		config.TriggerChannel = channel
	}
	if channel, ok := rc.Channels["reference"]; ok {
		config.ReferenceChannel = channel
	}
	axes := make([]AxisConfig, len(config.Axes))
	copy(axes, config.Axes)
	for i := range axes {
		name := strings.ToLower(axes[i].Name)
		if channel, ok := rc.Channels[name+"1"]; ok {
			axes[i].End1 = channel
		}
		if channel, ok := rc.Channels[name+"2"]; ok {
			axes[i].End2 = channel
		}
		if calibration, ok := rc.Calibrations[name]; ok {
			axes[i].TimeSum = calibration.TimeSum
			axes[i].Tolerance = calibration.Tolerance
		}
	}
	config.Axes = axes
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("run %d conditions: %w", rc.RunNumber, err)
	}
	return config, nil
}
