package reco

import (
	"testing"

	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const runConditionsSchema = `
CREATE TABLE ChannelMapping (
	Role    TEXT    NOT NULL,
	Channel INTEGER NOT NULL,
	MinRun  INTEGER NOT NULL,
	MaxRun  INTEGER NOT NULL
);
CREATE TABLE TimeSumCalibration (
	Axis      TEXT    NOT NULL,
	TimeSum   INTEGER NOT NULL,
	Tolerance INTEGER NOT NULL,
	MinRun    INTEGER NOT NULL,
	MaxRun    INTEGER NOT NULL
);
INSERT INTO ChannelMapping VALUES
	('trigger', 7, 0, 100), ('reference', 0, 0, 100),
	('x1', 1, 0, 100), ('x2', 2, 0, 100),
	('y1', 3, 0, 100), ('y2', 4, 0, 100),
	('z1', 5, 0, 100), ('z2', 6, 0, 100),
	('trigger', 15, 101, 200), ('reference', 8, 101, 200),
	('Z1', 9, 101, 200), ('z2', 10, 101, 200);
INSERT INTO TimeSumCalibration VALUES
	('x', 3950, 150, 0, 100),
	('y', 4020, 120, 0, 100),
	('x', 3800, 90, 101, 200);
`

func newTestDatabase(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// a single connection keeps the in-memory database alive
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if _, err := db.Exec(runConditionsSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestLoadRunConditions(t *testing.T) {
	db := newTestDatabase(t)

	conditions, err := LoadRunConditions(db, 50, 3, nil)
	if err != nil {
		t.Fatalf("load run conditions: %v", err)
	}
	if len(conditions.Channels) != 8 {
		t.Fatalf("channels = %v", conditions.Channels)
	}
	if conditions.Channels["y2"] != 4 {
		t.Errorf("y2 = %d, want 4", conditions.Channels["y2"])
	}
	if got := conditions.Calibrations["x"]; got.TimeSum != 3950 || got.Tolerance != 150 {
		t.Errorf("x calibration = %+v", got)
	}

	config, err := conditions.Apply(DefaultConfiguration())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if config.Axes[0].TimeSum != 3950 || config.Axes[1].TimeSum != 4020 {
		t.Errorf("time sums not applied: %+v", config.Axes)
	}
	if config.Axes[2].TimeSum != DefaultTimeSum {
		t.Errorf("z keeps the configured time sum, got %d", config.Axes[2].TimeSum)
	}
}

func TestLoadRunConditionsLaterRun(t *testing.T) {
	db := newTestDatabase(t)

	conditions, err := LoadRunConditions(db, 150, 0, NopLogger{})
	if err != nil {
		t.Fatalf("load run conditions: %v", err)
	}
	defaults := DefaultConfiguration()
	config, err := conditions.Apply(defaults)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if config.TriggerChannel != 15 || config.ReferenceChannel != 8 {
		t.Errorf("channels = %d/%d, want 15/8", config.TriggerChannel, config.ReferenceChannel)
	}
	z := config.Axes[2]
	if z.End1 != 9 || z.End2 != 10 {
		t.Errorf("z ends = %d/%d, want 9/10", z.End1, z.End2)
	}
	if config.Axes[0].End1 != 1 || config.Axes[0].TimeSum != 3800 {
		t.Errorf("x = %+v", config.Axes[0])
	}
	if defaults.Axes[0].TimeSum != DefaultTimeSum {
		t.Errorf("Apply must not modify the input configuration")
	}
}

func TestRunConditionsApplyRejectsCollisions(t *testing.T) {
	conditions := RunConditions{
		RunNumber: 3,
		Channels:  map[string]int{"x1": 3},
	}
	if _, err := conditions.Apply(DefaultConfiguration()); err == nil {
		t.Fatalf("x1 on the y1 channel should fail")
	}
}

func TestLoadRunConditionsUnknownRun(t *testing.T) {
	db := newTestDatabase(t)
	conditions, err := LoadRunConditions(db, 1000, 0, nil)
	if err != nil {
		t.Fatalf("load run conditions: %v", err)
	}
	if len(conditions.Channels) != 0 || len(conditions.Calibrations) != 0 {
		t.Fatalf("no rows expected, got %+v", conditions)
	}
}
