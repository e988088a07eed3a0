package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := Distance(0, 0, 0, 0); d != 0 {
		t.Errorf("Distance(0,0,0,0) = %v, want 0", d)
	}
	if d := Distance(-34.6, -58.4, -34.6, -58.4); d != 0 {
		t.Errorf("distance to same point = %v, want 0", d)
	}
}

func TestDistanceLatitudeDegree(t *testing.T) {
	// One degree of latitude is about 111 km regardless of longitude.
	d := Distance(0, 0, 1, 0)
	want := EarthRadiusKm * math.Pi / 180
	if math.Abs(d-want) > 1e-9 {
		t.Errorf("Distance(0,0,1,0) = %v, want %v", d, want)
	}
}

func TestDistanceLongitudeScaling(t *testing.T) {
	// A degree of longitude shrinks with the cosine of the center latitude.
	atEquator := Distance(0, 0, 0, 1)
	at60 := Distance(60, 0, 60, 1)
	ratio := at60 / atEquator
	if math.Abs(ratio-math.Cos(60*math.Pi/180)) > 1e-9 {
		t.Errorf("longitude scaling ratio = %v, want cos(60°) = %v", ratio, math.Cos(60*math.Pi/180))
	}
}

func TestDistanceSymmetryOfComponents(t *testing.T) {
	// The planar formula is not symmetric in general (cosine uses the
	// center latitude), so pin the documented argument order instead.
	d1 := Distance(10, 20, 11, 21)
	d2 := Distance(11, 21, 10, 20)
	if d1 == 0 || d2 == 0 {
		t.Fatal("expected non-zero distances")
	}
	// Both are close but computed from their own center latitude.
	if math.Abs(d1-d2) > 0.5 {
		t.Errorf("distances diverge too much: %v vs %v", d1, d2)
	}
}
