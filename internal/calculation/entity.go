package calculation

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/techy-Nik/final-term/internal/operations"
)

// Calculation is a persisted calculation owned by one user. Result is always
// the evaluation of the stored Type and Inputs.
type Calculation struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	UserID    string             `gorm:"index;not null;size:36" json:"user_id"`
	Type      operations.Kind    `gorm:"size:32;not null" json:"type"`
	Inputs    datatypes.JSON     `gorm:"not null" json:"inputs"`
	Result    *operations.Number `gorm:"serializer:json;type:text" json:"result"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName returns the table name for the Calculation model.
func (Calculation) TableName() string {
	return "calculations"
}

// New constructs a calculation for owner and computes its result. Nothing is
// returned when the type or inputs are rejected.
func New(calcType string, inputs []operations.Number, owner string) (*Calculation, error) {
	kind, err := operations.ParseKind(calcType)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(inputs)
	if err != nil {
		return nil, err
	}

	c := &Calculation{
		ID:     uuid.New().String(),
		UserID: owner,
		Type:   kind,
		Inputs: datatypes.JSON(raw),
	}
	if err := c.Compute(); err != nil {
		return nil, err
	}
	return c, nil
}

// InputNumbers decodes the stored inputs. A stored value that is not a list
// of numbers is an input shape error.
func (c *Calculation) InputNumbers() ([]operations.Number, error) {
	raw := bytes.TrimSpace(c.Inputs)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, shapeError(c.Type)
	}

	var inputs []operations.Number
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, shapeError(c.Type)
	}
	return inputs, nil
}

// Compute validates the stored type and inputs and sets Result. Result is
// left unchanged on failure.
func (c *Calculation) Compute() error {
	inputs, err := c.InputNumbers()
	if err != nil {
		return err
	}

	result, err := operations.Evaluate(c.Type, inputs)
	if err != nil {
		return err
	}

	c.Result = &result
	return nil
}

// Recompute replaces the inputs and recomputes the result. On failure the
// calculation is not modified.
func (c *Calculation) Recompute(inputs []operations.Number) error {
	result, err := operations.Evaluate(c.Type, inputs)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(inputs)
	if err != nil {
		return err
	}

	c.Inputs = datatypes.JSON(raw)
	c.Result = &result
	return nil
}

// BeforeSave re-validates the calculation right before every insert and
// update, so a rejected calculation never reaches the table.
func (c *Calculation) BeforeSave(*gorm.DB) error {
	return c.Compute()
}

func shapeError(kind operations.Kind) error {
	return &operations.Error{
		Class: operations.ErrInvalidInputShape,
		Kind:  kind,
		Msg:   "Inputs must be a list of numbers",
	}
}
