package design

import (
	"math"
	"strconv"
)

// Patch is one flicker stimulus as produced by the layout generator.
type Patch struct {
	PID   string  `json:"pid"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	W     int     `json:"w"`
	H     int     `json:"h"`
	Omega float64 `json:"omega"`
	Phi   float64 `json:"phi"`
}

// Record is one patch as read back from design text. Fields hold the literal
// text of the record; missing fields are empty.
type Record struct {
	PID string `json:"pid"`
	X   string `json:"x"`
	Y   string `json:"y"`
	W   string `json:"w"`
	H   string `json:"h"`
}

// Design is an ordered sequence of records.
type Design []Record

// PIDs returns the patch ids in design order.
func (d Design) PIDs() []string {
	ids := make([]string, len(d))
	for i, r := range d {
		ids[i] = r.PID
	}
	return ids
}

// Box is a record's geometry after numeric coercion.
type Box struct {
	X, Y, W, H float64
}

// Box coerces the record's geometry to numbers. Fields that are not finite
// numbers become 0 and ok is false.
func (r Record) Box() (b Box, ok bool) {
	ok = true
	coerce := func(s string) float64 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			ok = false
			return 0
		}
		return f
	}
	b = Box{X: coerce(r.X), Y: coerce(r.Y), W: coerce(r.W), H: coerce(r.H)}
	return b, ok
}

// Record returns the patch as it reads back through [Parse].
func (p Patch) Record() Record {
	return Record{
		PID: p.PID,
		X:   strconv.Itoa(p.X),
		Y:   strconv.Itoa(p.Y),
		W:   strconv.Itoa(p.W),
		H:   strconv.Itoa(p.H),
	}
}
