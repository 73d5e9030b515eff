package student

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type suffixAllocator interface {
	Allocate(ctx context.Context, baseEmail string) (string, error)
}

// StrategyResolver decides what happens to one validated row and performs
// the write inside the caller's transaction. Email collisions are always
// examined before code collisions.
type StrategyResolver struct {
	allocator       suffixAllocator
	hasher          PasswordHasher
	defaultPassword string
}

func NewStrategyResolver(allocator suffixAllocator, hasher PasswordHasher, defaultPassword string) *StrategyResolver {
	return &StrategyResolver{
		allocator:       allocator,
		hasher:          hasher,
		defaultPassword: defaultPassword,
	}
}

// Resolve returns the row outcome. A non-nil error means the row failed and
// the transaction must be rolled back.
func (r *StrategyResolver) Resolve(
	ctx context.Context,
	tx domain.Tx,
	row domain.ValidatedRow,
	index DuplicateIndex,
	strategy domain.Strategy,
) (domain.Outcome, error) {
	dupEmail, emailTaken := index.ByEmail(row.Email)
	_, codeTaken := index.ByCode(row.StudentCode)

	if !emailTaken && !codeTaken {
		return r.create(ctx, tx, row, row.NormalizedEmail(), domain.StatusCreated, "created")
	}

	switch strategy {
	case domain.StrategySkip:
		if emailTaken {
			return skipped(row, fmt.Sprintf("email %s already exists", row.NormalizedEmail())), nil
		}
		return skipped(row, fmt.Sprintf("student code %s already exists", row.StudentCode)), nil
	case domain.StrategyUpdate:
		return r.update(ctx, tx, row, dupEmail, emailTaken)
	case domain.StrategySuffix:
		return r.suffix(ctx, tx, row, emailTaken, codeTaken)
	default:
		return domain.Outcome{}, fmt.Errorf("%w: %q", domain.ErrInvalidStrategy, strategy)
	}
}

func (r *StrategyResolver) update(
	ctx context.Context,
	tx domain.Tx,
	row domain.ValidatedRow,
	existing domain.RecordRef,
	emailTaken bool,
) (domain.Outcome, error) {
	if !emailTaken {
		return skipped(row, fmt.Sprintf("student code %s belongs to another account; update requires a matching email", row.StudentCode)), nil
	}
	if !existing.HasProfile() {
		return skipped(row, fmt.Sprintf("account %s has no profile to update", existing.Email)), nil
	}
	if existing.StudentCode != row.StudentCode {
		return skipped(row, fmt.Sprintf("email %s is linked to student code %s, not %s; not updated", existing.Email, existing.StudentCode, row.StudentCode)), nil
	}

	upd := domain.ProfileUpdate{Name: row.Name}
	phone := existing.Phone
	if row.Phone != "" {
		phone = row.Phone
		upd.Phone = &phone
	}

	if err := tx.UpdateProfile(ctx, existing, upd); err != nil {
		return domain.Outcome{}, fmt.Errorf("update profile: %w", err)
	}

	return domain.Outcome{
		LineNumber: row.LineNumber,
		Status:     domain.StatusUpdated,
		Record: domain.RecordSnapshot{
			Email:       existing.Email,
			Name:        row.Name,
			StudentCode: existing.StudentCode,
			Phone:       phone,
		},
		Message: "updated existing profile",
	}, nil
}

func (r *StrategyResolver) suffix(
	ctx context.Context,
	tx domain.Tx,
	row domain.ValidatedRow,
	emailTaken, codeTaken bool,
) (domain.Outcome, error) {
	if !emailTaken {
		return skipped(row, fmt.Sprintf("student code %s already exists; a suffix cannot resolve a code collision", row.StudentCode)), nil
	}

	email, err := r.allocator.Allocate(ctx, row.NormalizedEmail())
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("allocate email suffix: %w", err)
	}

	// The suffixed email would be created under a code that is already
	// taken; the row is abandoned and its transaction rolled back.
	if codeTaken {
		return skipped(row, "student code collision, cannot create with suffix"), nil
	}

	msg := fmt.Sprintf("email %s already exists; created as %s", row.NormalizedEmail(), email)
	return r.create(ctx, tx, row, email, domain.StatusCreatedWithSuffix, msg)
}

func (r *StrategyResolver) create(
	ctx context.Context,
	tx domain.Tx,
	row domain.ValidatedRow,
	email string,
	status domain.Status,
	msg string,
) (domain.Outcome, error) {
	password := row.Password
	if password == "" {
		password = r.defaultPassword
	}
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	ref, err := tx.CreateAccountAndProfile(ctx, domain.NewRecord{
		Email:        email,
		PasswordHash: hash,
		Name:         row.Name,
		StudentCode:  row.StudentCode,
		Phone:        row.Phone,
	})
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("create account and profile: %w", err)
	}

	return domain.Outcome{
		LineNumber: row.LineNumber,
		Status:     status,
		Record: domain.RecordSnapshot{
			Email:       ref.Email,
			Name:        row.Name,
			StudentCode: row.StudentCode,
			Phone:       row.Phone,
		},
		Message: msg,
	}, nil
}

func skipped(row domain.ValidatedRow, msg string) domain.Outcome {
	return domain.Outcome{
		LineNumber: row.LineNumber,
		Status:     domain.StatusSkipped,
		Record:     domain.SnapshotOf(row.Row),
		Message:    msg,
	}
}

func failed(row domain.ValidatedRow, err error) domain.Outcome {
	return domain.Outcome{
		LineNumber: row.LineNumber,
		Status:     domain.StatusFailed,
		Record:     domain.SnapshotOf(row.Row),
		Message:    err.Error(),
	}
}
