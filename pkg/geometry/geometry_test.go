package geometry

import (
	"math"
	"testing"
)

func TestInchesToCentimeters(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1, 2.54},
		{24, 60.96},
		{-2, -5.08},
	}
	for _, tt := range tests {
		if got := InchesToCentimeters(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("InchesToCentimeters(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPixelsForVisualAngleZero(t *testing.T) {
	for _, ppc := range []float64{0, 1, 37.8, 1000} {
		for _, d := range []float64{0, 30, 60, 120} {
			if got := PixelsForVisualAngle(ppc, 0, d); got != 0 {
				t.Errorf("PixelsForVisualAngle(%v, 0, %v) = %v, want 0", ppc, d, got)
			}
		}
	}
}

func TestPixelsForVisualAngle45(t *testing.T) {
	// tan(45°) = 1, so the radius is ppc * distance.
	got := PixelsForVisualAngle(10, 45, 60)
	if math.Abs(got-600) > 1e-9 {
		t.Errorf("PixelsForVisualAngle(10, 45, 60) = %v, want 600", got)
	}
}

func TestPixelsPerCentimeter(t *testing.T) {
	// 3-4-5 triangle: a 300x400 surface has a 500 px diagonal.
	got := PixelsPerCentimeter(300, 400, 10)
	want := 500 / 25.4
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PixelsPerCentimeter(300, 400, 10) = %v, want %v", got, want)
	}

	if got := PixelsPerCentimeter(300, 400, 0); !math.IsInf(got, 1) {
		t.Errorf("PixelsPerCentimeter with zero diagonal = %v, want +Inf", got)
	}
}

func TestRulerRadiiOrdering(t *testing.T) {
	ppc := PixelsPerCentimeter(1920, 1080, 24)
	r5 := PixelsForVisualAngle(ppc, 5, 60)
	r10 := PixelsForVisualAngle(ppc, 10, 60)

	if math.IsNaN(r5) || math.IsInf(r5, 0) || r5 <= 0 {
		t.Fatalf("5 deg radius = %v, want finite positive", r5)
	}
	if r5 >= r10 {
		t.Errorf("5 deg radius %v should be smaller than 10 deg radius %v", r5, r10)
	}
}

func TestBoundingRect(t *testing.T) {
	r := BoundingRect(1920, 1080, 0.5, 0.5, 0.5, 0.5)
	if r.CX != 960 || r.CY != 540 || r.Width != 960 || r.Height != 540 {
		t.Fatalf("BoundingRect = %+v", r)
	}
	if r.Left() != 480 || r.Top() != 270 {
		t.Errorf("Left/Top = %v/%v, want 480/270", r.Left(), r.Top())
	}

	x, y := r.Diagonal45(10)
	k := math.Sqrt2 / 2
	if math.Abs(x-(960+10*k)) > 1e-9 || math.Abs(y-(540+10*k)) > 1e-9 {
		t.Errorf("Diagonal45(10) = (%v, %v)", x, y)
	}
}
