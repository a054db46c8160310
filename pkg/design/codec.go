package design

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

const (
	recordSep = ";"
	joinSep   = ";\n"
	fieldSep  = ","

	// fieldCount is the number of fields Serialize writes per record.
	fieldCount = 8
)

// Serialize renders patches as design text.
func Serialize(patches []Patch) string {
	lines := make([]string, len(patches))
	for i, p := range patches {
		lines[i] = strings.Join([]string{
			strconv.Itoa(i),
			p.PID,
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(p.W),
			strconv.Itoa(p.H),
			strconv.FormatFloat(p.Omega, 'f', 2, 64),
			strconv.FormatFloat(p.Phi, 'f', 2, 64),
		}, fieldSep)
	}
	return strings.Join(lines, joinSep)
}

// Parse reads design text leniently. Blank segments are skipped; every other
// segment becomes a record whose fields are the trimmed strings at positions
// 1 to 5. Parse never fails.
func Parse(text string) Design {
	var d Design
	for _, segment := range strings.Split(text, recordSep) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		fields := splitFields(segment)
		d = append(d, Record{
			PID: field(fields, 1),
			X:   field(fields, 2),
			Y:   field(fields, 3),
			W:   field(fields, 4),
			H:   field(fields, 5),
		})
	}
	return d
}

func splitFields(segment string) []string {
	fields := strings.Split(segment, fieldSep)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// ParseSpectral reads design text strictly, keeping omega and phi. Every
// non-blank record must have eight fields with a non-empty pid, integral
// geometry and finite omega and phi. Geometry written as "720.0" is accepted
// and truncated.
func ParseSpectral(text string) ([]Patch, error) {
	var patches []Patch
	for _, segment := range strings.Split(text, recordSep) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		n := len(patches)
		fields := splitFields(segment)
		if len(fields) != fieldCount {
			return nil, errors.New(errors.ErrCodeInvalidDesign,
				"record %d: want %d fields, got %d", n, fieldCount, len(fields))
		}
		p := Patch{PID: fields[1]}
		if p.PID == "" {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "record %d: empty pid", n)
		}

		var err error
		ints := []*int{&p.X, &p.Y, &p.W, &p.H}
		for i, dst := range ints {
			if *dst, err = parseInt(fields[2+i]); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "record %d (%s)", n, p.PID)
			}
		}
		if p.Omega, err = parseFinite(fields[6]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "record %d (%s) omega", n, p.PID)
		}
		if p.Phi, err = parseFinite(fields[7]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "record %d (%s) phi", n, p.PID)
		}
		patches = append(patches, p)
	}
	return patches, nil
}

func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := parseFinite(s)
	if err != nil {
		return 0, err
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", s)
	}
	return f, nil
}
