package calculation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a calculation does not exist or belongs to
// another user.
var ErrNotFound = errors.New("calculation not found")

// Repository provides access to calculation storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new calculation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new calculation. The BeforeSave hook rejects invalid ones.
func (r *Repository) Create(ctx context.Context, calc *Calculation) error {
	if err := r.db.WithContext(ctx).Create(calc).Error; err != nil {
		return fmt.Errorf("failed to create calculation: %w", err)
	}
	return nil
}

// FindByID retrieves a calculation owned by userID.
func (r *Repository) FindByID(ctx context.Context, userID, id string) (*Calculation, error) {
	var calc Calculation
	err := r.db.WithContext(ctx).First(&calc, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}
	return &calc, nil
}

// ListByUser retrieves all calculations of userID, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*Calculation, error) {
	calcs := []*Calculation{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&calcs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	return calcs, nil
}

// UpdateInputs persists the inputs and result of an existing calculation.
func (r *Repository) UpdateInputs(ctx context.Context, calc *Calculation) error {
	result := r.db.WithContext(ctx).
		Model(calc).
		Where("user_id = ?", calc.UserID).
		Select("inputs", "result", "updated_at").
		Updates(calc)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update calculation: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a calculation owned by userID.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Delete(&Calculation{}, "id = ? AND user_id = ?", id, userID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
