package metrics

import (
	"math"

	"github.com/bbag/minedash/internal/domain/models"
)

// Inputs are the raw daily figures a record is derived from.
type Inputs struct {
	Pro      float64
	Stb      float64
	Bd       float64
	Ritase   int
	Volume   float64
	TargetM3 float64
}

// Derived holds the computed KPI fields of one day.
type Derived struct {
	Wt         float64
	Pa         float64
	Ua         float64
	Ma         float64
	Eu         float64
	AverageM3  float64
	Pencapaian float64
}

// Derive computes the derived fields. Every ratio whose denominator is not
// positive yields 0. Inputs are not validated or clamped and nothing is rounded.
func Derive(in Inputs) Derived {
	wt := in.Pro + in.Stb + in.Bd
	working := in.Pro + in.Stb

	var out Derived
	out.Wt = wt
	if wt > 0 {
		out.Pa = working / wt * 100
		out.Eu = in.Pro / wt * 100
	}
	// MA is reported separately but shares the PA formula.
	out.Ma = out.Pa
	if working > 0 {
		out.Ua = in.Pro / working * 100
	}
	if in.Ritase > 0 {
		out.AverageM3 = in.Volume / float64(in.Ritase)
	}
	if in.TargetM3 > 0 {
		out.Pencapaian = in.Volume / in.TargetM3 * 100
	}
	return out
}

// InputsOf extracts the raw inputs of a record.
func InputsOf(r models.OperationalRecord) Inputs {
	return Inputs{
		Pro:      r.Pro,
		Stb:      r.Stb,
		Bd:       r.Bd,
		Ritase:   r.Ritase,
		Volume:   r.Volume,
		TargetM3: r.TargetM3,
	}
}

// Apply overwrites the derived fields of r from its own raw inputs.
func Apply(r *models.OperationalRecord) {
	d := Derive(InputsOf(*r))
	r.Wt = d.Wt
	r.Pa = d.Pa
	r.Ua = d.Ua
	r.Ma = d.Ma
	r.Eu = d.Eu
	r.AverageM3 = d.AverageM3
	r.Pencapaian = d.Pencapaian
}

// Stale reports whether the derived fields of r disagree with its inputs.
func Stale(r models.OperationalRecord) bool {
	fresh := r
	Apply(&fresh)
	return fresh != r
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
