package reco

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

type AxisConfig struct {
	Name      string `json:"name"`
	End1      int    `json:"end1"`
	End2      int    `json:"end2"`
	TimeSum   int64  `json:"timesum"`
	Tolerance int64  `json:"tolerance"`
}

const (
	DefaultTimeSum          int64 = 4000
	DefaultTimeSumTolerance int64 = 1000
)

// UnmarshalJSON fills the time-sum settings an axis entry leaves out with
// the defaults.
func (a *AxisConfig) UnmarshalJSON(data []byte) error {
	type plain AxisConfig
	axis := plain{TimeSum: DefaultTimeSum, Tolerance: DefaultTimeSumTolerance}
	if err := json.Unmarshal(data, &axis); err != nil {
		return err
	}
	*a = AxisConfig(axis)
	return nil
}

func (a AxisConfig) Params() AxisParams {
	return AxisParams{Axis: a.Name, TimeSum: a.TimeSum, Tolerance: a.Tolerance}
}

type HistogramConfig struct {
	Min  int64 `json:"min" envconfig:"MIN"`
	Max  int64 `json:"max" envconfig:"MAX"`
	Bins int   `json:"bins" envconfig:"BINS"`
}

type Configuration struct {
	FileIn           string          `json:"file_in" envconfig:"FILE_IN"`
	FileOut          string          `json:"file_out" envconfig:"FILE_OUT"`
	Verbosity        int             `json:"verbosity" envconfig:"VERBOSITY"`
	TriggerChannel   int             `json:"trigger_channel" envconfig:"TRIGGER_CHANNEL"`
	ReferenceChannel int             `json:"reference_channel" envconfig:"REFERENCE_CHANNEL"`
	TriggerTolerance int64           `json:"trigger_tolerance" envconfig:"TRIGGER_TOLERANCE"`
	TimeSumOffset    int64           `json:"timesum_offset" envconfig:"TIMESUM_OFFSET"`
	Axes             []AxisConfig    `json:"axes" ignored:"true"`
	NumWorkers       int             `json:"num_workers" envconfig:"NUM_WORKERS"`
	WriteData        bool            `json:"write_data" envconfig:"WRITE_DATA"`
	WriteTimeSums    bool            `json:"write_timesums" envconfig:"WRITE_TIMESUMS"`
	Histogram        HistogramConfig `json:"histogram" envconfig:"HISTOGRAM"`
	CompressionLevel int             `json:"compression_level" envconfig:"COMPRESSION_LEVEL"`
	UseBlosc         bool            `json:"use_blosc" envconfig:"USE_BLOSC"`
	BloscAlgorithm   string          `json:"blosc_algorithm" envconfig:"BLOSC_ALGORITHM"`
	BloscShuffle     string          `json:"blosc_shuffle" envconfig:"BLOSC_SHUFFLE"`
	RunNumber        int             `json:"run_number" envconfig:"RUN_NUMBER"`
	NoDB             bool            `json:"no_db" envconfig:"NO_DB"`
	Host             string          `json:"host" envconfig:"DB_HOST"`
	User             string          `json:"user" envconfig:"DB_USER"`
	Passwd           string          `json:"pass" envconfig:"DB_PASS"`
	DBName           string          `json:"dbname" envconfig:"DB_NAME"`
}

// EnvPrefix is the prefix of the environment variables overriding the file.
const EnvPrefix = "TDC"

func DefaultConfiguration() Configuration {
	return Configuration{
		Verbosity:        0,
		TriggerChannel:   7,
		ReferenceChannel: 0,
		TriggerTolerance: 100_000_000,
		TimeSumOffset:    500,
		Axes: []AxisConfig{
			{Name: "x", End1: 1, End2: 2, TimeSum: DefaultTimeSum, Tolerance: DefaultTimeSumTolerance},
			{Name: "y", End1: 3, End2: 4, TimeSum: DefaultTimeSum, Tolerance: DefaultTimeSumTolerance},
			{Name: "z", End1: 5, End2: 6, TimeSum: DefaultTimeSum, Tolerance: DefaultTimeSumTolerance},
		},
		NumWorkers:       3,
		WriteData:        true,
		WriteTimeSums:    false,
		Histogram:        HistogramConfig{Min: 0, Max: 8000, Bins: 400},
		CompressionLevel: 4,
		UseBlosc:         false,
		BloscAlgorithm:   "blosclz",
		BloscShuffle:     "byte-shuffle",
		NoDB:             true,
		Host:             "localhost",
		User:             "dldreader",
		Passwd:           "readonly",
		DBName:           "DLD",
	}
}

// LoadConfiguration reads a JSON configuration file on top of the defaults.
// The file is checked against the configuration schema first and environment
// variables (TDC_*) are applied last.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	if err := ValidateConfigurationDocument(data); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, err
	}
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return config, fmt.Errorf("error reading environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks what the schema cannot: that channel ids do not collide.
func (c Configuration) Validate() error {
	var errs []error
	if c.NumWorkers < 1 {
		errs = append(errs, fmt.Errorf("num_workers must be at least 1, got %d", c.NumWorkers))
	}
	if c.TriggerTolerance < 0 {
		errs = append(errs, fmt.Errorf("trigger_tolerance must not be negative, got %d", c.TriggerTolerance))
	}
	used := map[int]string{
		c.TriggerChannel:   "trigger",
		c.ReferenceChannel: "reference",
	}
	if c.TriggerChannel == c.ReferenceChannel {
		errs = append(errs, fmt.Errorf("trigger and reference share channel %d", c.TriggerChannel))
	}
	names := make(map[string]bool)
	for _, axis := range c.Axes {
		if names[axis.Name] {
			errs = append(errs, fmt.Errorf("axis %s defined twice", axis.Name))
		}
		names[axis.Name] = true
		if axis.Tolerance < 0 {
			errs = append(errs, fmt.Errorf("axis %s: tolerance must not be negative", axis.Name))
		}
		for _, channel := range []int{axis.End1, axis.End2} {
			if owner, ok := used[channel]; ok {
				errs = append(errs, fmt.Errorf("axis %s: channel %d already used by %s", axis.Name, channel, owner))
				continue
			}
			used[channel] = "axis " + axis.Name
		}
	}
	if c.Histogram.Bins < 1 || c.Histogram.Max <= c.Histogram.Min {
		errs = append(errs, fmt.Errorf("invalid histogram binning %+v", c.Histogram))
	}
	return errors.Join(errs...)
}

func (c Configuration) BatchContext() BatchContext {
	return BatchContext{TriggerChannel: c.TriggerChannel, TriggerTolerance: c.TriggerTolerance}
}

const configurationSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"file_in": {"type": "string"},
		"file_out": {"type": "string"},
		"verbosity": {"type": "integer", "minimum": 0},
		"trigger_channel": {"type": "integer", "minimum": 0},
		"reference_channel": {"type": "integer", "minimum": 0},
		"trigger_tolerance": {"type": "integer", "minimum": 0},
		"timesum_offset": {"type": "integer"},
		"axes": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["name", "end1", "end2"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"end1": {"type": "integer", "minimum": 0},
					"end2": {"type": "integer", "minimum": 0},
					"timesum": {"type": "integer"},
					"tolerance": {"type": "integer", "minimum": 0}
				}
			}
		},
		"num_workers": {"type": "integer", "minimum": 1},
		"write_data": {"type": "boolean"},
		"write_timesums": {"type": "boolean"},
		"histogram": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"min": {"type": "integer"},
				"max": {"type": "integer"},
				"bins": {"type": "integer", "minimum": 1}
			}
		},
		"compression_level": {"type": "integer", "minimum": 0, "maximum": 9},
		"use_blosc": {"type": "boolean"},
		"blosc_algorithm": {"enum": ["blosclz", "lz4", "lz4hc", "snappy", "zlib", "zstd"]},
		"blosc_shuffle": {"enum": ["no-shuffle", "byte-shuffle", "bit-shuffle"]},
		"run_number": {"type": "integer", "minimum": 0},
		"no_db": {"type": "boolean"},
		"host": {"type": "string"},
		"user": {"type": "string"},
		"pass": {"type": "string"},
		"dbname": {"type": "string"}
	}
}`

const configurationSchemaURL = "configuration.schema.json"

func compileConfigurationSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configurationSchemaURL, strings.NewReader(configurationSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(configurationSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateConfigurationDocument checks a raw configuration file against the
// configuration schema.
func ValidateConfigurationDocument(data []byte) error {
	schema, err := compileConfigurationSchema()
	if err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return schema.Validate(payload)
}
