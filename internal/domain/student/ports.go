package student

import "context"

// RecordFinder runs the bulk lookups used to build duplicate indexes.
type RecordFinder interface {
	FindAccountsByEmail(ctx context.Context, emails []string) ([]RecordRef, error)
	FindProfilesByCode(ctx context.Context, codes []string) ([]RecordRef, error)
}

// Gateway is the persistence boundary of the import engine. Writes made in a
// Tx become visible to the lookups once the Tx commits.
type Gateway interface {
	RecordFinder
	EmailExists(ctx context.Context, email string) (bool, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single-row unit of work. Rollback after Commit is a no-op.
type Tx interface {
	CreateAccountAndProfile(ctx context.Context, rec NewRecord) (RecordRef, error)
	UpdateProfile(ctx context.Context, ref RecordRef, upd ProfileUpdate) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type ImportRunRepository interface {
	Save(ctx context.Context, run ImportRun) error
	GetByID(ctx context.Context, id string) (*ImportRun, error)
}
