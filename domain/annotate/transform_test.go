package annotate

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestToImageSpace_ScaleCorrectionAndTransform(t *testing.T) {
	v := Viewport{Left: 10, Top: 20, DisplayW: 400, DisplayH: 300, CanvasW: 800, CanvasH: 600}
	tr := Transform{Zoom: 2, OffsetX: -100, OffsetY: 0}
	p := ToImageSpace(v, tr, Point{X: 110, Y: 70})
	if !near(p.X, 150, 1e-9) || !near(p.Y, 50, 1e-9) {
		t.Fatalf("expected (150,50), got %+v", p)
	}
}

func TestViewport_CollapsedDisplayFallsBackToUnitScale(t *testing.T) {
	v := Viewport{CanvasW: 800, CanvasH: 600}
	sx, sy := v.Scale()
	if sx != 1 || sy != 1 {
		t.Fatalf("expected unit scale, got %v,%v", sx, sy)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := Transform{Zoom: 3.5, OffsetX: 12, OffsetY: -40}
	in := Point{X: 33.25, Y: 71}
	out := tr.ToImage(tr.ToCanvas(in))
	if !near(out.X, in.X, 1e-9) || !near(out.Y, in.Y, 1e-9) {
		t.Fatalf("round trip drifted: %+v -> %+v", in, out)
	}
}

func TestTransform_ZoomAtKeepsAnchor(t *testing.T) {
	zooms := []float64{MinZoom, 0.5, 1, 2.7, 9, MaxZoom}
	factors := []float64{ZoomInFactor, ZoomOutFactor}
	points := []Point{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: 799, Y: 12}, {X: -50, Y: 640}}
	for _, z := range zooms {
		for _, f := range factors {
			for _, c := range points {
				tr := Transform{Zoom: z, OffsetX: 37, OffsetY: -21}
				before := tr.ToImage(c)
				after := tr.ZoomAt(c, f).ToImage(c)
				if !near(before.X, after.X, 1e-9*math.Max(1, math.Abs(before.X))) ||
					!near(before.Y, after.Y, 1e-9*math.Max(1, math.Abs(before.Y))) {
					t.Fatalf("zoom %v factor %v at %+v moved anchor %+v -> %+v", z, f, c, before, after)
				}
			}
		}
	}
}

func TestTransform_ZoomIsClamped(t *testing.T) {
	tr := Identity()
	for i := 0; i < 100; i++ {
		tr = tr.ZoomAt(Point{X: 10, Y: 10}, ZoomInFactor)
	}
	if tr.Zoom != MaxZoom {
		t.Fatalf("expected zoom clamped to %v, got %v", MaxZoom, tr.Zoom)
	}
	for i := 0; i < 100; i++ {
		tr = tr.ZoomAt(Point{X: 10, Y: 10}, ZoomOutFactor)
	}
	if tr.Zoom != MinZoom {
		t.Fatalf("expected zoom clamped to %v, got %v", MinZoom, tr.Zoom)
	}
}
