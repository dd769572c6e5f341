package calculation

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techy-Nik/final-term/internal/operations"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Calculation{}))
	return db
}

func TestNewComputesResult(t *testing.T) {
	calc, err := New("division", operations.Numbers(100, 2, 5), "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, calc.ID)
	assert.Equal(t, "user-1", calc.UserID)
	assert.Equal(t, operations.KindDivision, calc.Type)
	assert.JSONEq(t, `[100,2,5]`, string(calc.Inputs))
	require.NotNil(t, calc.Result)
	assert.Equal(t, 10.0, calc.Result.Float64())
}

func TestNewRejectsInvalidCalculations(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		inputs []operations.Number
		class  error
	}{
		{"unsupported type", "power", operations.Numbers(2, 3), operations.ErrUnsupportedOperation},
		{"divide by zero", "division", operations.Numbers(1, 0), operations.ErrDomainViolation},
		{"single input", "addition", operations.Numbers(1), operations.ErrArityViolation},
		{"nil inputs", "addition", nil, operations.ErrInvalidInputShape},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calc, err := New(tc.kind, tc.inputs, "user-1")
			assert.Nil(t, calc)
			assert.ErrorIs(t, err, tc.class)
		})
	}
}

func TestRecomputeLeavesCalculationUntouchedOnFailure(t *testing.T) {
	calc, err := New("division", operations.Numbers(10, 2), "user-1")
	require.NoError(t, err)

	before := string(calc.Inputs)
	err = calc.Recompute(operations.Numbers(10, 0))
	require.ErrorIs(t, err, operations.ErrDomainViolation)

	assert.Equal(t, before, string(calc.Inputs))
	assert.Equal(t, 5.0, calc.Result.Float64())

	require.NoError(t, calc.Recompute(operations.Numbers(9, 3)))
	assert.Equal(t, 3.0, calc.Result.Float64())
	assert.JSONEq(t, `[9,3]`, string(calc.Inputs))
}

func TestInputNumbersRejectsNonListStorage(t *testing.T) {
	for _, raw := range []string{`"1,2"`, `{"a":1}`, ``, `[1,"x"]`} {
		calc := &Calculation{Type: operations.KindAddition, Inputs: datatypes.JSON(raw)}
		_, err := calc.InputNumbers()
		assert.ErrorIs(t, err, operations.ErrInvalidInputShape, "raw %q", raw)
	}
}

func TestBeforeSaveBlocksInvalidRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	bad := &Calculation{
		ID:     "calc-bad",
		UserID: "user-1",
		Type:   operations.KindModulus,
		Inputs: datatypes.JSON(`[10,0]`),
	}
	err := repo.Create(ctx, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, operations.ErrDomainViolation)
	assert.True(t, strings.Contains(err.Error(), "Cannot perform modulus with zero"), err.Error())

	var count int64
	require.NoError(t, db.Model(&Calculation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStoredResultSurvivesReload(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	calc, err := New("logarithm", operations.Numbers(8, 2), "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, calc))

	got, err := repo.FindByID(ctx, "user-1", calc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.InDelta(t, 3.0, got.Result.Float64(), 1e-12)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"logarithm"`)
}
