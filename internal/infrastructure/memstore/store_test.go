package memstore_test

import (
	"context"
	"errors"
	"testing"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWritesVisibleAfterCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.CreateAccountAndProfile(ctx, domain.NewRecord{Email: "Alice@Example.com", Name: "Alice", StudentCode: "S1"})
	require.NoError(t, err)

	exists, err := store.EmailExists(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "uncommitted write must not be visible")

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	exists, err = store.EmailExists(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	refs, err := store.FindProfilesByCode(ctx, []string{"S1"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "alice@example.com", refs[0].Email)
}

func TestStoreRollbackDiscardsWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	seeded := store.Seed("Bob", "bob@example.com", "S2", "1")

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateProfile(ctx, domain.RecordRef{AccountID: seeded.AccountID, ProfileID: seeded.ProfileID}, domain.ProfileUpdate{Name: "Robert"}))
	require.NoError(t, tx.Rollback(ctx))

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0].Name)
	assert.Equal(t, 1, store.Stats().Rollbacks)
}

func TestStoreRejectsDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	store.Seed("Bob", "bob@example.com", "S2", "")

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.CreateAccountAndProfile(ctx, domain.NewRecord{Email: "bob@example.com", StudentCode: "S3"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateRecord))

	_, err = tx.CreateAccountAndProfile(ctx, domain.NewRecord{Email: "new@example.com", StudentCode: "S2"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateRecord))
}

func TestStoreAccountWithoutProfileIsNotFoundByCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	store.SeedAccount("lonely@example.com")

	byEmail, err := store.FindAccountsByEmail(ctx, []string{"lonely@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.False(t, byEmail[0].HasProfile())

	byCode, err := store.FindProfilesByCode(ctx, []string{""})
	require.NoError(t, err)
	assert.Empty(t, byCode)
}
