package calculation

import "github.com/techy-Nik/final-term/internal/operations"

// EvaluateResponse is the JSON response for POST /calculations/evaluate.
type EvaluateResponse struct {
	Type   operations.Kind     `json:"type"`
	Inputs []operations.Number `json:"inputs"`
	Result operations.Number   `json:"result"`
}

// TypeInfo describes one supported calculation type.
type TypeInfo struct {
	Type  operations.Kind `json:"type"`
	Label string          `json:"label"`
	Arity string          `json:"arity"`
}
