package calculation

import (
	"context"
	"fmt"

	"github.com/techy-Nik/final-term/internal/operations"
)

// Service implements the calculation use cases for an authenticated user.
type Service struct {
	repo *Repository
}

// NewService creates a new Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create builds a calculation from a validated request and stores it.
func (s *Service) Create(ctx context.Context, userID string, req CalculationCreate) (*Calculation, error) {
	calc, err := New(req.Type, req.Inputs, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// List returns the calculations of userID.
func (s *Service) List(ctx context.Context, userID string) ([]*Calculation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one calculation of userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Calculation, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// Update replaces the inputs of a calculation and recomputes its result.
// When validation fails the stored calculation is left untouched.
func (s *Service) Update(ctx context.Context, userID, id string, req CalculationUpdate) (*Calculation, error) {
	calc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Inputs == nil {
		return calc, nil
	}

	if err := req.ValidateFor(calc.Type); err != nil {
		return nil, err
	}
	if err := calc.Recompute(req.Inputs); err != nil {
		return nil, fmt.Errorf("recompute calculation %s: %w", id, err)
	}

	if err := s.repo.UpdateInputs(ctx, calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// Delete removes a calculation of userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Evaluate computes a result without storing anything.
func (s *Service) Evaluate(req CalculationCreate) (operations.Number, error) {
	op, err := operations.New(req.Type, req.Inputs)
	if err != nil {
		return operations.Number{}, err
	}
	return op.Result()
}
