package operations

import (
	"bytes"
	"math"
	"strconv"
)

// Number is a numeric calculation input or result. It keeps integer values
// exact for as long as the arithmetic allows and falls back to float64
// otherwise.
type Number struct {
	i     int64
	f     float64
	isInt bool
}

// Int returns an integer Number.
func Int(v int64) Number {
	return Number{i: v, isInt: true}
}

// Float returns a floating point Number.
func Float(v float64) Number {
	return Number{f: v}
}

// Numbers converts float64 values into Numbers, turning integral values
// into integers.
func Numbers(values ...float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			out[i] = Int(int64(v))
			continue
		}
		out[i] = Float(v)
	}
	return out
}

func (n Number) IsInt() bool {
	return n.isInt
}

// Int64 reports the integer value when n is an integer.
func (n Number) Int64() (int64, bool) {
	return n.i, n.isInt
}

func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func (n Number) IsZero() bool {
	return n.Float64() == 0
}

// IsFinite is false for NaN and ±Inf.
func (n Number) IsFinite() bool {
	if n.isInt {
		return true
	}
	return !math.IsNaN(n.f) && !math.IsInf(n.f, 0)
}

func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}

	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if math.IsInf(n.f, 0) || math.IsNaN(n.f) {
		return s
	}
	if !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	return s
}

// MarshalJSON keeps floats recognisable as floats ("5.0" rather than "5").
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return nil, &Error{Class: ErrDomainViolation, Msg: "Result is not a finite number"}
	}
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number. Any other JSON value is an input
// shape error.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return shapeError("")
	}

	switch data[0] {
	case '"', 't', 'f', 'n', '[', '{':
		return shapeError("")
	}

	s := string(data)
	if !bytes.ContainsAny(data, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			*n = Int(v)
			return nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return shapeError("")
	}
	*n = Float(v)
	return nil
}
