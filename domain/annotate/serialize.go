package annotate

import "math"

// Record is a YOLO-style normalized box: center, width and height as
// fractions of the image size. It is the only shape that leaves the engine.
type Record struct {
	Class   int     `json:"cls" yaml:"cls"`
	XCenter float64 `json:"x_center" yaml:"x_center"`
	YCenter float64 `json:"y_center" yaml:"y_center"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
}

// Round6 rounds v to 6 decimal places, the storage precision.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ToNormalized converts a pixel box to a record against a canvas of w x h pixels.
func ToNormalized(b Box, w, h float64) Record {
	b = b.Normalize()
	return Record{
		Class:   b.Class,
		XCenter: Round6((b.X1 + b.X2) / 2 / w),
		YCenter: Round6((b.Y1 + b.Y2) / 2 / h),
		Width:   Round6((b.X2 - b.X1) / w),
		Height:  Round6((b.Y2 - b.Y1) / h),
	}
}

// FromNormalized expands a record back to pixel corners. The record is first
// quantized to 6 decimals so load/save cycles stay stable.
func FromNormalized(r Record, w, h float64) Box {
	xc, yc := Round6(r.XCenter)*w, Round6(r.YCenter)*h
	bw, bh := Round6(r.Width)*w, Round6(r.Height)*h
	return Box{
		X1:    xc - bw/2,
		Y1:    yc - bh/2,
		X2:    xc + bw/2,
		Y2:    yc + bh/2,
		Class: r.Class,
	}.Normalize()
}

// ToRecords converts boxes in order.
func ToRecords(boxes []Box, w, h float64) []Record {
	out := make([]Record, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, ToNormalized(b, w, h))
	}
	return out
}

// FromRecords converts records in order.
func FromRecords(records []Record, w, h float64) []Box {
	out := make([]Box, 0, len(records))
	for _, r := range records {
		out = append(out, FromNormalized(r, w, h))
	}
	return out
}
