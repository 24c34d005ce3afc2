package reco

import (
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func TestUpperBound(t *testing.T) {
	tests := []struct {
		timeline []int64
		value    int64
		want     int
	}{
		{[]int64{10, 22, 33, 45}, 4, 0},
		{[]int64{10, 22, 33, 45}, 10, 1},
		{[]int64{10, 22, 33, 45}, 13, 1},
		{[]int64{10, 22, 33, 45}, 23, 2},
		{[]int64{10, 22, 33, 45}, 45, 4},
		{[]int64{10, 22, 33, 45}, 46, 4},
		{[]int64{0, 2, 3, 5}, 4, 3},
		{[]int64{0, 2, 3, 5}, 6, 4},
		{[]int64{0, 2, 3, 5}, 1, 1},
		{[]int64{5, 5, 5}, 5, 3},
		{[]int64{5, 5, 5}, 4, 0},
		{[]int64{-20, -10, 0}, -15, 1},
		{nil, 100, 0},
		{[]int64{}, -100, 0},
	}
	for _, tt := range tests {
		if got := UpperBound(tt.timeline, tt.value); got != tt.want {
			t.Errorf("UpperBound(%v, %d) = %d, want %d", tt.timeline, tt.value, got, tt.want)
		}
	}
}

func TestUpperBoundCountsElementsNotAbove(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for round := 0; round < 200; round++ {
		timeline := make([]int64, rng.Intn(50))
		for i := range timeline {
			timeline[i] = rng.Int63n(100)
		}
		slices.Sort(timeline)

		previous := 0
		for q := int64(-5); q <= 105; q++ {
			count := 0
			for _, v := range timeline {
				if v <= q {
					count++
				}
			}
			got := UpperBound(timeline, q)
			if got != count {
				t.Fatalf("UpperBound(%v, %d) = %d, want %d", timeline, q, got, count)
			}
			if got < previous {
				t.Fatalf("UpperBound not monotonic at %d: %d < %d", q, got, previous)
			}
			previous = got
			if len(timeline) > 0 && (got == 0) != (q < timeline[0]) {
				t.Fatalf("UpperBound(%v, %d) = 0 mismatch", timeline, q)
			}
			if len(timeline) > 0 && (got == len(timeline)) != (q >= timeline[len(timeline)-1]) {
				t.Fatalf("UpperBound(%v, %d) = len mismatch", timeline, q)
			}
		}
	}
}

func TestWindowOfEdges(t *testing.T) {
	timeline := []int64{100, 150, 4100, 4101}

	// (100, 4100]: the hit at the lower edge is out, the one at the upper edge in
	w := WindowOf(timeline, 100, 4100)
	if w.Lo != 1 || w.Hi != 3 {
		t.Fatalf("WindowOf = %+v, want [1, 3)", w)
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}
	if got := w.Values(timeline); !slices.Equal(got, []int64{150, 4100}) {
		t.Fatalf("Values = %v", got)
	}

	if w := WindowOf(timeline, 5000, 6000); w.Len() != 0 {
		t.Fatalf("window past the end should be empty, got %+v", w)
	}
	if w := WindowOf(nil, 0, 10); w.Len() != 0 || w.Lo != 0 {
		t.Fatalf("window on empty timeline should be [0, 0), got %+v", w)
	}
	if w := WindowOf(timeline, 200, 100); w.Len() != 0 {
		t.Fatalf("inverted window should be empty, got %+v", w)
	}
}
