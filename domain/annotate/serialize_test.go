package annotate

import (
	"math"
	"math/rand"
	"testing"
)

func TestToNormalized_Scenario800x600(t *testing.T) {
	r := ToNormalized(Box{X1: 100, Y1: 100, X2: 300, Y2: 200, Class: 0}, 800, 600)
	want := Record{Class: 0, XCenter: 0.25, YCenter: 0.25, Width: 0.25, Height: 0.166667}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestFromNormalized_ExpandsCorners(t *testing.T) {
	b := FromNormalized(Record{Class: 3, XCenter: 0.5, YCenter: 0.5, Width: 0.25, Height: 0.5}, 800, 600)
	want := Box{X1: 300, Y1: 150, X2: 500, Y2: 450, Class: 3}
	if b != want {
		t.Fatalf("expected %+v, got %+v", want, b)
	}
}

func TestSerializer_RoundTripWithinPrecision(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		w := 1 + rng.Float64()*4000
		h := 1 + rng.Float64()*4000
		b := Box{
			X1: rng.Float64() * w, X2: rng.Float64() * w,
			Y1: rng.Float64() * h, Y2: rng.Float64() * h,
			Class: rng.Intn(10),
		}.Normalize()
		got := FromNormalized(ToNormalized(b, w, h), w, h)
		tolX, tolY := 1e-6*w, 1e-6*h
		if math.Abs(got.X1-b.X1) > tolX || math.Abs(got.X2-b.X2) > tolX ||
			math.Abs(got.Y1-b.Y1) > tolY || math.Abs(got.Y2-b.Y2) > tolY || got.Class != b.Class {
			t.Fatalf("round trip %d drifted: %+v -> %+v (W=%v H=%v)", i, b, got, w, h)
		}
	}
}

func TestSerializer_LoadSaveIsStable(t *testing.T) {
	records := []Record{
		{Class: 0, XCenter: 0.25, YCenter: 0.25, Width: 0.25, Height: 0.166667},
		{Class: 2, XCenter: 0.5, YCenter: 0.125, Width: 0.5, Height: 0.25},
	}
	boxes := FromRecords(records, 800, 600)
	again := ToRecords(boxes, 800, 600)
	for i := range records {
		if again[i] != records[i] {
			t.Fatalf("record %d changed across load/save: %+v -> %+v", i, records[i], again[i])
		}
	}
}

func TestRound6(t *testing.T) {
	if got := Round6(1.0 / 3.0); got != 0.333333 {
		t.Fatalf("expected 0.333333, got %v", got)
	}
	if got := Round6(0.1666666); got != 0.166667 {
		t.Fatalf("expected 0.166667, got %v", got)
	}
}
