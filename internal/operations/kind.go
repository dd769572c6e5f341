// Package operations holds the catalog of arithmetic operations a
// calculation can use, the rules each one places on its inputs, and the
// evaluator that folds inputs into a result.
package operations

import "math"

// Kind names one operation of the fixed catalog.
type Kind string

const (
	KindAddition       Kind = "addition"
	KindSubtraction    Kind = "subtraction"
	KindMultiplication Kind = "multiplication"
	KindDivision       Kind = "division"
	KindExponentiation Kind = "exponentiation"
	KindModulus        Kind = "modulus"
	KindSquareRoot     Kind = "square_root"
	KindLogarithm      Kind = "logarithm"
)

// Arity is the input count class of an operation.
type Arity int

const (
	// ArityVariadic accepts two or more inputs folded left to right.
	ArityVariadic Arity = iota
	// ArityUnary accepts exactly one input.
	ArityUnary
	// ArityBinary accepts exactly two inputs.
	ArityBinary
)

func (a Arity) String() string {
	switch a {
	case ArityUnary:
		return "exactly-1"
	case ArityBinary:
		return "exactly-2"
	default:
		return "variadic-min-2"
	}
}

// Accepts reports whether n inputs satisfy the arity.
func (a Arity) Accepts(n int) bool {
	switch a {
	case ArityUnary:
		return n == 1
	case ArityBinary:
		return n == 2
	default:
		return n >= 2
	}
}

// variant is one row of the rule table.
type variant struct {
	kind  Kind
	label string
	arity Arity
	usage string

	// domain rejects inputs that satisfy the arity but not the mathematics.
	domain func(inputs []Number) error
	// eval computes the result of inputs that passed the arity and domain
	// checks. Its error is a validation failure too.
	eval func(inputs []Number) (Number, error)
}

var catalog = []variant{
	{
		kind:  KindAddition,
		label: "Addition",
		eval: func(in []Number) (Number, error) {
			return fold(KindAddition, in, lift(Add))
		},
	},
	{
		kind:  KindSubtraction,
		label: "Subtraction",
		eval: func(in []Number) (Number, error) {
			return fold(KindSubtraction, in, lift(Subtract))
		},
	},
	{
		kind:  KindMultiplication,
		label: "Multiplication",
		eval: func(in []Number) (Number, error) {
			return fold(KindMultiplication, in, lift(Multiply))
		},
	},
	{
		kind:   KindDivision,
		label:  "Division",
		domain: nonZeroDivisors(KindDivision, "Cannot divide by zero!"),
		eval: func(in []Number) (Number, error) {
			return fold(KindDivision, in, Divide)
		},
	},
	{
		kind:  KindExponentiation,
		label: "Exponentiation",
		eval: func(in []Number) (Number, error) {
			return fold(KindExponentiation, in, Exponentiate)
		},
	},
	{
		kind:   KindModulus,
		label:  "Modulus",
		domain: nonZeroDivisors(KindModulus, "Cannot perform modulus with zero!"),
		eval: func(in []Number) (Number, error) {
			return fold(KindModulus, in, Modulus)
		},
	},
	{
		kind:  KindSquareRoot,
		label: "Square root",
		arity: ArityUnary,
		domain: func(in []Number) error {
			if in[0].Float64() < 0 {
				return domainError(KindSquareRoot, "Cannot calculate square root of negative number!")
			}
			return nil
		},
		eval: func(in []Number) (Number, error) {
			return SquareRoot(in[0])
		},
	},
	{
		kind:  KindLogarithm,
		label: "Logarithm",
		arity: ArityBinary,
		usage: "(value, base)",
		domain: func(in []Number) error {
			if in[0].Float64() <= 0 {
				return domainError(KindLogarithm, "Logarithm value must be positive!")
			}
			if b := in[1].Float64(); b <= 0 || b == 1 {
				return domainError(KindLogarithm, "Logarithm base must be positive and not equal to 1!")
			}
			return nil
		},
		eval: func(in []Number) (Number, error) {
			return Logarithm(in[0], in[1])
		},
	},
}

var byKind = func() map[Kind]*variant {
	m := make(map[Kind]*variant, len(catalog))
	for i := range catalog {
		m[catalog[i].kind] = &catalog[i]
	}
	return m
}()

// Kinds returns the catalog in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(catalog))
	for i, v := range catalog {
		kinds[i] = v.kind
	}
	return kinds
}

// ParseKind resolves an operation name. It is the only place that maps
// names to operations.
func ParseKind(name string) (Kind, error) {
	if _, ok := byKind[Kind(name)]; !ok {
		return "", unsupportedError(name)
	}
	return Kind(name), nil
}

func (k Kind) Valid() bool {
	_, ok := byKind[k]
	return ok
}

// Arity returns the input count class of k. Unknown kinds report
// ArityVariadic.
func (k Kind) Arity() Arity {
	if v, ok := byKind[k]; ok {
		return v.arity
	}
	return ArityVariadic
}

// Label is the display name used in messages, e.g. "Square root".
func (k Kind) Label() string {
	if v, ok := byKind[k]; ok {
		return v.label
	}
	return string(k)
}

func nonZeroDivisors(kind Kind, msg string) func([]Number) error {
	return func(in []Number) error {
		for _, n := range in[1:] {
			if n.IsZero() {
				return domainError(kind, msg)
			}
		}
		return nil
	}
}

func lift(f func(a, b Number) Number) func(a, b Number) (Number, error) {
	return func(a, b Number) (Number, error) {
		return f(a, b), nil
	}
}

// fold accumulates step over inputs left to right. A non-finite running
// value stops the fold.
func fold(kind Kind, inputs []Number, step func(acc, x Number) (Number, error)) (Number, error) {
	acc := inputs[0]
	for _, x := range inputs[1:] {
		var err error
		if acc, err = step(acc, x); err != nil {
			return Number{}, err
		}
		if err := checkFinite(kind, acc); err != nil {
			return Number{}, err
		}
	}
	return acc, nil
}

func checkFinite(kind Kind, n Number) error {
	if n.IsFinite() {
		return nil
	}
	if math.IsNaN(n.f) {
		return domainError(kind, "Result is not a real number")
	}
	return domainError(kind, "Result too large (overflow)")
}
