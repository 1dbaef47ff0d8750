package zones

import (
	"math"
	"testing"

	"SwingScan/internal/domain/models"
)

func zone(id string, kind models.ZoneKind, low, mid, high float64) models.Zone {
	return models.Zone{ID: id, Symbol: "TEST", Kind: kind, Low: low, Mid: mid, High: high}
}

func TestDistanceATR(t *testing.T) {
	z := zone("z", models.ZoneSupport, 99, 100, 101)

	if d := DistanceATR(z, 100.5, 2); d != 0 {
		t.Errorf("inside band = %v, want 0", d)
	}
	if d := DistanceATR(z, 102, 2); math.Abs(d-0.5) > 1e-9 {
		t.Errorf("above band = %v, want 0.5 ATR", d)
	}
	if d := DistanceATR(z, 98, 2); math.Abs(d-0.5) > 1e-9 {
		t.Errorf("below band = %v, want 0.5 ATR", d)
	}
	if d := DistanceATR(z, 102, 0); !math.IsInf(d, 1) {
		t.Errorf("zero ATR = %v, want +Inf", d)
	}
}

func TestNearest(t *testing.T) {
	zs := []models.Zone{
		zone("far", models.ZoneSupport, 89, 90, 91),
		zone("near", models.ZoneResistance, 103, 104, 105),
	}
	got, ok := Nearest(zs, 100)
	if !ok || got.ID != "near" {
		t.Fatalf("Nearest = %v %v, want the 104 zone", got.ID, ok)
	}
	if _, ok := Nearest(nil, 100); ok {
		t.Fatal("Nearest on empty slice reported a zone")
	}
}

func TestNextOpposing(t *testing.T) {
	zs := []models.Zone{
		zone("s1", models.ZoneSupport, 94, 95, 96),
		zone("r1", models.ZoneResistance, 104, 105, 106),
		zone("r2", models.ZoneResistance, 109, 110, 111),
	}

	got, ok := NextOpposing(zs, models.SideLong, 100)
	if !ok || got.ID != "r1" {
		t.Fatalf("long target = %v %v, want nearest resistance r1", got.ID, ok)
	}
	got, ok = NextOpposing(zs, models.SideShort, 100)
	if !ok || got.ID != "s1" {
		t.Fatalf("short target = %v %v, want nearest support s1", got.ID, ok)
	}
	if _, ok := NextOpposing(zs[:1], models.SideLong, 100); ok {
		t.Fatal("found a resistance target with only supports present")
	}
}

func TestWithDistancesSortsNearestFirst(t *testing.T) {
	zs := []models.Zone{
		zone("far", models.ZoneSupport, 89, 90, 91),
		zone("near", models.ZoneResistance, 101.5, 102, 102.5),
	}
	got := WithDistances(zs, 101, 2)
	if got[0].ID != "near" || got[1].ID != "far" {
		t.Fatalf("order = [%s %s], want nearest first", got[0].ID, got[1].ID)
	}
	if got[0].DistanceATR != 0.25 {
		t.Errorf("near distance = %v, want 0.25", got[0].DistanceATR)
	}
	// input slice untouched
	if zs[0].DistanceATR != 0 || zs[0].ID != "far" {
		t.Error("WithDistances mutated its input")
	}
}
