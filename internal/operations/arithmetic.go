package operations

import "math"

// Add returns a + b.
func Add(a, b Number) Number {
	if a.isInt && b.isInt {
		s := a.i + b.i
		if (a.i > 0 && b.i > 0 && s < 0) || (a.i < 0 && b.i < 0 && s >= 0) {
			return Float(a.Float64() + b.Float64())
		}
		return Int(s)
	}
	return Float(a.Float64() + b.Float64())
}

// Subtract returns a - b.
func Subtract(a, b Number) Number {
	if a.isInt && b.isInt {
		d := a.i - b.i
		if (b.i > 0 && d > a.i) || (b.i < 0 && d < a.i) {
			return Float(a.Float64() - b.Float64())
		}
		return Int(d)
	}
	return Float(a.Float64() - b.Float64())
}

// Multiply returns a * b.
func Multiply(a, b Number) Number {
	if a.isInt && b.isInt {
		if p, ok := mulInt64(a.i, b.i); ok {
			return Int(p)
		}
	}
	return Float(a.Float64() * b.Float64())
}

// Divide returns a / b as a float.
func Divide(a, b Number) (Number, error) {
	if b.IsZero() {
		return Number{}, domainError(KindDivision, "Cannot divide by zero!")
	}
	return Float(a.Float64() / b.Float64()), nil
}

// Exponentiate returns base raised to exp. Integer powers with a
// non-negative integer exponent stay exact until they overflow int64.
func Exponentiate(base, exp Number) (Number, error) {
	if base.IsZero() && exp.Float64() < 0 {
		return Number{}, domainError(KindExponentiation, "Cannot raise zero to a negative power!")
	}

	if base.isInt && exp.isInt && exp.i >= 0 {
		if p, ok := powInt64(base.i, exp.i); ok {
			return Int(p), nil
		}
	}

	r := math.Pow(base.Float64(), exp.Float64())
	if math.IsInf(r, 0) {
		return Number{}, domainError(KindExponentiation, "Result too large (overflow)")
	}
	if math.IsNaN(r) {
		return Number{}, domainError(KindExponentiation, "Result is not a real number")
	}
	return Float(r), nil
}

// Modulus returns the remainder of a / b. The remainder takes the sign of
// the divisor, so -7 mod 3 is 2.
func Modulus(a, b Number) (Number, error) {
	if b.IsZero() {
		return Number{}, domainError(KindModulus, "Cannot perform modulus with zero!")
	}

	if a.isInt && b.isInt {
		r := a.i % b.i
		if r != 0 && (r < 0) != (b.i < 0) {
			r += b.i
		}
		return Int(r), nil
	}

	bf := b.Float64()
	r := math.Mod(a.Float64(), bf)
	if r != 0 && (r < 0) != (bf < 0) {
		r += bf
	}
	return Float(r), nil
}

// SquareRoot returns the non-negative square root of a.
func SquareRoot(a Number) (Number, error) {
	if a.Float64() < 0 {
		return Number{}, domainError(KindSquareRoot, "Cannot calculate square root of negative number!")
	}
	return Float(math.Sqrt(a.Float64())), nil
}

// Logarithm returns log_base(value). The base defaults to e when omitted;
// only the first extra argument is used.
func Logarithm(value Number, base ...Number) (Number, error) {
	b := Float(math.E)
	if len(base) > 0 {
		b = base[0]
	}

	if value.Float64() <= 0 {
		return Number{}, domainError(KindLogarithm, "Logarithm value must be positive!")
	}
	if bf := b.Float64(); bf <= 0 || bf == 1 {
		return Number{}, domainError(KindLogarithm, "Logarithm base must be positive and not equal to 1!")
	}

	return Float(math.Log(value.Float64()) / math.Log(b.Float64())), nil
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func powInt64(base, exp int64) (int64, bool) {
	result := int64(1)
	ok := true

	for exp > 0 {
		if exp&1 == 1 {
			if result, ok = mulInt64(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt64(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}
