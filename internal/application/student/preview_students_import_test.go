package student_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewStudentsImportFlagsRows(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	store.Seed("John", "j@x.com", "S1", "")
	uc := app.NewPreviewStudentsImport(store, 2)

	out, err := uc.Execute(context.Background(), app.PreviewStudentsImportInput{
		CSV: csvOf("name,email,student_code",
			"Jane,j@x.com,S2",
			"Bob,b@x.com,S1",
			"Ann,a@x.com,S3",
			"Bad,not-an-email,S4",
			"Ann Two,A@x.com,S5",
		),
	})
	require.NoError(t, err)

	assert.Equal(t, app.PreviewSummary{
		Total:              5,
		Valid:              4,
		Invalid:            1,
		InternalDuplicates: 1,
		ExistingEmails:     1,
		ExistingCodes:      1,
		New:                1,
	}, out.Summary)

	require.Len(t, out.Rows, 5)
	assert.True(t, out.Rows[0].EmailExists)
	assert.False(t, out.Rows[0].CodeExists)
	assert.True(t, out.Rows[1].CodeExists)
	assert.False(t, out.Rows[2].EmailExists || out.Rows[2].CodeExists || out.Rows[2].InternalDuplicate)
	assert.False(t, out.Rows[3].Valid)
	assert.NotEmpty(t, out.Rows[3].Errors)
	assert.True(t, out.Rows[4].InternalDuplicate)
	assert.Equal(t, 6, out.Rows[4].LineNumber)

	require.Len(t, out.InternalDuplicates, 1)
	assert.Equal(t, 4, out.InternalDuplicates[0].FirstSeenAtLine)

	stats := store.Stats()
	assert.Zero(t, stats.Begins, "preview never writes")
	assert.Equal(t, 2, stats.FindByEmail, "one lookup per window of valid rows")
}

func TestPreviewStudentsImportStructuralError(t *testing.T) {
	t.Parallel()

	_, err := app.NewPreviewStudentsImport(memstore.New(), 0).Execute(context.Background(), app.PreviewStudentsImportInput{
		CSV: []byte("email\nj@x.com\n"),
	})
	assert.True(t, errors.Is(err, app.ErrMissingColumns))
}

func TestPreviewStudentsImportLookupError(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	store.FailFind = errDBDown

	_, err := app.NewPreviewStudentsImport(store, 0).Execute(context.Background(), app.PreviewStudentsImportInput{
		CSV: uniqueRowsCSV(3),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrPreviewLookup))
}
