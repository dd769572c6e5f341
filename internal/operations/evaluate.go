package operations

// Operation is an operation kind bound to its inputs.
type Operation struct {
	Kind   Kind
	Inputs []Number
}

// New resolves name and binds inputs to the resolved operation. Inputs are
// not checked until Validate or Result is called.
func New(name string, inputs []Number) (Operation, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Kind: kind, Inputs: inputs}, nil
}

func (o Operation) Validate() error {
	return Validate(o.Kind, o.Inputs)
}

func (o Operation) Result() (Number, error) {
	return Evaluate(o.Kind, o.Inputs)
}

// Validate applies the rule table for kind to inputs: shape first, then
// arity, then domain, then the finiteness of the result. Both the request
// decoder and the persisted calculation call it, so they accept and reject
// exactly the same inputs.
func Validate(kind Kind, inputs []Number) error {
	_, err := check(kind, inputs)
	return err
}

// Evaluate validates inputs and computes the result of kind over them.
// It has no side effects; the same inputs always give the same result.
func Evaluate(kind Kind, inputs []Number) (Number, error) {
	return check(kind, inputs)
}

// check runs every rule for kind. An overflow or a non-real intermediate
// can only be found by folding the inputs, so the fold is part of
// validation and its value is handed back to Evaluate.
func check(kind Kind, inputs []Number) (Number, error) {
	v, ok := byKind[kind]
	if !ok {
		return Number{}, unsupportedError(string(kind))
	}

	if inputs == nil {
		return Number{}, shapeError(kind)
	}
	for _, n := range inputs {
		if !n.IsFinite() {
			return Number{}, shapeError(kind)
		}
	}

	if !v.arity.Accepts(len(inputs)) {
		return Number{}, arityError(kind, v.arity, v.label, v.usage)
	}

	if v.domain != nil {
		if err := v.domain(inputs); err != nil {
			return Number{}, err
		}
	}
	return v.eval(inputs)
}
