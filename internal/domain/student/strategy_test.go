package student_test

import (
	"errors"
	"testing"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	tests := map[string]domain.Strategy{
		"":         domain.StrategySkip,
		"skip":     domain.StrategySkip,
		" Update ": domain.StrategyUpdate,
		"SUFFIX":   domain.StrategySuffix,
	}
	for raw, want := range tests {
		got, err := domain.ParseStrategy(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := domain.ParseStrategy("merge")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStrategy))
}

func TestSummaryAccountsEveryRow(t *testing.T) {
	t.Parallel()

	var s domain.Summary
	s.AddOutcome(domain.Outcome{Status: domain.StatusCreated})
	s.AddOutcome(domain.Outcome{Status: domain.StatusCreatedWithSuffix})
	s.AddOutcome(domain.Outcome{Status: domain.StatusUpdated})
	s.AddOutcome(domain.Outcome{Status: domain.StatusSkipped})
	s.AddOutcome(domain.Outcome{Status: domain.StatusFailed})
	s.AddInvalid(domain.ValidatedRow{Row: domain.Row{LineNumber: 9}, Errors: []domain.FieldError{{Field: "email"}}})

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, s.Total, s.Created+s.CreatedWithSuffix+s.Updated+s.Skipped+s.Failed)
	assert.Len(t, s.Details, 5)
	require.Len(t, s.Invalid, 1)
	assert.Equal(t, 9, s.Invalid[0].LineNumber)
}
