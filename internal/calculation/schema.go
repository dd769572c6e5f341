package calculation

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/techy-Nik/final-term/internal/operations"
	"github.com/techy-Nik/final-term/internal/validation"
)

// CalculationCreate is the validated body of a create or evaluate request.
type CalculationCreate struct {
	Type   string              `json:"type" validate:"required"`
	Inputs []operations.Number `json:"inputs" validate:"required"`
}

// CalculationUpdate is the validated body of an update request. A nil
// Inputs means "leave the inputs as they are".
type CalculationUpdate struct {
	Inputs []operations.Number `json:"inputs" validate:"omitempty,min=1"`
}

// DecodeCreate reads a create payload and applies the operation rules to
// it. Any failure is returned as validation.Errors and nothing should be
// built from the payload.
func DecodeCreate(body io.Reader) (CalculationCreate, error) {
	var req CalculationCreate
	if err := decode(body, &req); err != nil {
		return CalculationCreate{}, err
	}

	if err := req.Validate(); err != nil {
		return CalculationCreate{}, err
	}
	return req, nil
}

// Validate checks field presence, resolves the type, and runs the shared
// operation rules over the inputs.
func (c CalculationCreate) Validate() error {
	if err := validation.Struct(c); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			for i := range verrs {
				if verrs[i].Field == "inputs" {
					verrs[i].Err = inputShapeError()
				}
			}
		}
		return err
	}

	kind, err := operations.ParseKind(c.Type)
	if err != nil {
		return validation.Field("type", err)
	}

	if err := operations.Validate(kind, c.Inputs); err != nil {
		return validation.Field("inputs", err)
	}
	return nil
}

// DecodeUpdate reads an update payload. The operation rules need the
// stored type, so they are applied by ValidateFor.
func DecodeUpdate(body io.Reader) (CalculationUpdate, error) {
	var req CalculationUpdate
	if err := decode(body, &req); err != nil {
		return CalculationUpdate{}, err
	}

	if err := validation.Struct(req); err != nil {
		return CalculationUpdate{}, err
	}
	return req, nil
}

// ValidateFor applies the rules of kind to the replacement inputs.
func (u CalculationUpdate) ValidateFor(kind operations.Kind) error {
	if u.Inputs == nil {
		return nil
	}
	if err := operations.Validate(kind, u.Inputs); err != nil {
		return validation.Field("inputs", err)
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

func decode(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	err := dec.Decode(dst)
	if err == nil {
		// The body must hold exactly one JSON value.
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return validation.Errors{{Field: "body", Message: "Invalid JSON body", Err: errTrailingData}}
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "type":
			return validation.Errors{{Field: "type", Message: "Input should be a valid string", Err: err}}
		case "inputs":
			return validation.Errors{{
				Field:   "inputs",
				Message: "Input should be a valid list",
				Err:     inputShapeError(),
			}}
		}
	}

	var opErr *operations.Error
	if errors.As(err, &opErr) {
		return validation.Field("inputs", opErr)
	}

	return validation.Errors{{Field: "body", Message: "Invalid JSON body", Err: err}}
}

func inputShapeError() error {
	return &operations.Error{Class: operations.ErrInvalidInputShape, Msg: "Inputs must be a list of numbers"}
}
