package student_test

import (
	"errors"
	"testing"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectInternalDuplicatesNone(t *testing.T) {
	t.Parallel()

	report := app.DetectInternalDuplicates([]domain.ValidatedRow{
		validated(2, "A", "a@x.com", "S1"),
		validated(3, "B", "b@x.com", "S2"),
	})
	assert.False(t, report.HasDuplicates())
}

func TestDetectInternalDuplicatesEmailIsNormalized(t *testing.T) {
	t.Parallel()

	report := app.DetectInternalDuplicates([]domain.ValidatedRow{
		validated(2, "A", "a@x.com", "S1"),
		validated(3, "B", "b@x.com", "S2"),
		validated(4, "C", " A@X.com", "S3"),
	})
	require.True(t, report.HasDuplicates())
	assert.Equal(t, []app.InternalDuplicate{
		{LineNumber: 4, Field: "email", Value: "a@x.com", FirstSeenAtLine: 2},
	}, report.Duplicates)
}

func TestDetectInternalDuplicatesCodeIsExact(t *testing.T) {
	t.Parallel()

	report := app.DetectInternalDuplicates([]domain.ValidatedRow{
		validated(2, "A", "a@x.com", "S1"),
		validated(3, "B", "b@x.com", "s1"),
		validated(4, "C", "c@x.com", "S1"),
	})
	assert.Equal(t, []app.InternalDuplicate{
		{LineNumber: 4, Field: "student_code", Value: "S1", FirstSeenAtLine: 2},
	}, report.Duplicates)
}

func TestDetectInternalDuplicatesBothFields(t *testing.T) {
	t.Parallel()

	report := app.DetectInternalDuplicates([]domain.ValidatedRow{
		validated(2, "A", "a@x.com", "S1"),
		validated(3, "A", "a@x.com", "S1"),
	})
	assert.Len(t, report.Duplicates, 2)
}

func TestDetectInternalDuplicatesIgnoresInvalidRows(t *testing.T) {
	t.Parallel()

	invalid := validated(3, "", "a@x.com", "S1")
	invalid.Errors = []domain.FieldError{{Field: "name", Message: "is required"}}

	report := app.DetectInternalDuplicates([]domain.ValidatedRow{
		validated(2, "A", "a@x.com", "S1"),
		invalid,
	})
	assert.False(t, report.HasDuplicates())
}

func TestInternalDuplicatesErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	var err error = &app.InternalDuplicatesError{Duplicates: make([]app.InternalDuplicate, 3)}
	assert.True(t, errors.Is(err, app.ErrInternalDuplicates))
	assert.Contains(t, err.Error(), "3 conflicting row(s)")
}
