package reco

import (
	"errors"
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func TestDemultiplexRequiresTrigger(t *testing.T) {
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 100}

	_, err := Demultiplex(nil, ctx, nil)
	var trgErr *TriggerError
	if !errors.As(err, &trgErr) {
		t.Fatalf("empty batch: expected TriggerError, got %v", err)
	}

	records := []RawRecord{{Channel: 1, Timestamp: 10}, {Channel: 7, Timestamp: 20}}
	batch, err := Demultiplex(records, ctx, nil)
	if !errors.As(err, &trgErr) {
		t.Fatalf("expected TriggerError, got %v", err)
	}
	if batch.Timelines.Total() != 0 {
		t.Fatalf("nothing should be emitted on error, got %v", batch.Timelines)
	}
}

func TestDemultiplexSkipsNoiseAndKeepsFirstHit(t *testing.T) {
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 100}
	records := []RawRecord{
		{Channel: 7, Timestamp: 1000},
		{Channel: 7, Timestamp: 1005}, // trigger again, dropped
		{Channel: 1, Timestamp: 1100}, // exactly at the tolerance, dropped
		{Channel: 0, Timestamp: 1010}, // first genuine hit, kept
		{Channel: 1, Timestamp: 1020},
		{Channel: 2, Timestamp: 1015},
		{Channel: 7, Timestamp: 1030},
		{Channel: 1, Timestamp: 1018},
	}

	batch, err := Demultiplex(records, ctx, nil)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if batch.Origin != 1000 {
		t.Errorf("origin = %d, want 1000", batch.Origin)
	}
	if batch.Stats.Records != 8 || batch.Stats.Skipped != 2 || batch.Stats.Routed != 6 {
		t.Errorf("unexpected stats %+v", batch.Stats)
	}
	if !slices.Equal(batch.Stats.Sorted, []int{1}) {
		t.Errorf("sorted channels = %v, want [1]", batch.Stats.Sorted)
	}

	want := map[int][]int64{
		0: {10},
		1: {18, 20},
		2: {15},
		7: {0, 30},
	}
	for channel, timeline := range want {
		if got := batch.Timelines.Channel(channel); !slices.Equal(got, timeline) {
			t.Errorf("channel %d = %v, want %v", channel, got, timeline)
		}
	}
	if got := batch.Timelines.Channel(3); len(got) != 0 {
		t.Errorf("channel 3 should be empty, got %v", got)
	}
	if got := batch.Timelines.Channel(99); got != nil {
		t.Errorf("unknown channel should be nil, got %v", got)
	}
	if batch.Timelines.NumChannels() != 8 {
		t.Errorf("NumChannels = %d, want 8", batch.Timelines.NumChannels())
	}
}

func TestDemultiplexHitsBeforeTrigger(t *testing.T) {
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 100}
	records := []RawRecord{
		{Channel: 7, Timestamp: 1000},
		{Channel: 1, Timestamp: 950},
		{Channel: 1, Timestamp: 900},
	}
	batch, err := Demultiplex(records, ctx, nil)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if got := batch.Timelines.Channel(1); !slices.Equal(got, []int64{-100, -50}) {
		t.Fatalf("channel 1 = %v", got)
	}
}

func TestDemultiplexRoutesOrigin(t *testing.T) {
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 100}
	batch, err := Demultiplex([]RawRecord{{Channel: 7, Timestamp: 500}}, ctx, nil)
	if err != nil {
		t.Fatalf("demultiplex: %v", err)
	}
	if got := batch.Timelines.Channel(7); !slices.Equal(got, []int64{0}) {
		t.Errorf("trigger channel = %v, want [0]", got)
	}
	if batch.Stats.Routed != 1 || batch.Timelines.Total() != 1 {
		t.Errorf("unexpected stats %+v", batch.Stats)
	}
}

func TestDemultiplexRejectsNegativeChannel(t *testing.T) {
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 100}
	records := []RawRecord{{Channel: 7, Timestamp: 0}, {Channel: 1, Timestamp: 5}, {Channel: -1, Timestamp: 6}}
	_, err := Demultiplex(records, ctx, nil)
	var formatErr *InputFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected InputFormatError, got %v", err)
	}
	if formatErr.Line != 3 {
		t.Errorf("line = %d, want 3", formatErr.Line)
	}
}

func TestDemultiplexConservesRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ctx := BatchContext{TriggerChannel: 7, TriggerTolerance: 500}
	for round := 0; round < 50; round++ {
		records := []RawRecord{{Channel: 7, Timestamp: 10000}}
		for i := 0; i < 200; i++ {
			records = append(records, RawRecord{Channel: rng.Intn(8), Timestamp: 10000 + rng.Int63n(1000)})
		}

		batch, err := Demultiplex(records, ctx, NopLogger{})
		if err != nil {
			t.Fatalf("demultiplex: %v", err)
		}
		if batch.Timelines.Total() != batch.Stats.Routed {
			t.Fatalf("total %d != routed %d", batch.Timelines.Total(), batch.Stats.Routed)
		}
		if batch.Stats.Routed != len(records)-batch.Stats.Skipped {
			t.Fatalf("routed %d, records %d, skipped %d", batch.Stats.Routed, len(records), batch.Stats.Skipped)
		}
		for channel, timeline := range batch.Timelines {
			if !slices.IsSorted(timeline) {
				t.Fatalf("channel %d not sorted", channel)
			}
		}
	}
}

func TestSortTimelineIdempotent(t *testing.T) {
	timeline := []int64{3, 1, 2}
	if !SortTimeline(timeline) {
		t.Fatalf("expected a sort")
	}
	sorted := slices.Clone(timeline)
	if SortTimeline(timeline) {
		t.Fatalf("second sort should be a no-op")
	}
	if !slices.Equal(timeline, sorted) {
		t.Fatalf("timeline changed: %v", timeline)
	}
}
