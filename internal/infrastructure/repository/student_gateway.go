package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// StudentGateway stores accounts and their student profiles in PostgreSQL.
type StudentGateway struct {
	db *gorm.DB
}

func NewStudentGateway(db *gorm.DB) *StudentGateway {
	return &StudentGateway{db: db}
}

type recordRow struct {
	AccountID   string
	ProfileID   *string
	Email       string
	StudentCode *string
	Name        *string
	Phone       *string
}

func (r recordRow) ref() domain.RecordRef {
	return domain.RecordRef{
		AccountID:   r.AccountID,
		ProfileID:   deref(r.ProfileID),
		Email:       r.Email,
		StudentCode: deref(r.StudentCode),
		Name:        deref(r.Name),
		Phone:       deref(r.Phone),
	}
}

func (g *StudentGateway) FindAccountsByEmail(ctx context.Context, emails []string) ([]domain.RecordRef, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		normalized = append(normalized, domain.NormalizeEmail(email))
	}

	var rows []recordRow
	err := g.db.WithContext(ctx).Raw(`
SELECT a.id AS account_id, p.id AS profile_id, a.email, p.student_code, p.name, p.phone
FROM accounts a
LEFT JOIN profiles p ON p.account_id = a.id
WHERE a.email IN ?
`, normalized).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find accounts by email: %w", err)
	}

	return refs(rows), nil
}

func (g *StudentGateway) FindProfilesByCode(ctx context.Context, codes []string) ([]domain.RecordRef, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var rows []recordRow
	err := g.db.WithContext(ctx).Raw(`
SELECT a.id AS account_id, p.id AS profile_id, a.email, p.student_code, p.name, p.phone
FROM profiles p
JOIN accounts a ON a.id = p.account_id
WHERE p.student_code IN ?
`, codes).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find profiles by code: %w", err)
	}

	return refs(rows), nil
}

func (g *StudentGateway) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := g.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM accounts WHERE email = ?)", domain.NormalizeEmail(email)).
		Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (g *StudentGateway) Begin(ctx context.Context) (domain.Tx, error) {
	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin tx: %w", tx.Error)
	}
	return &studentTx{db: tx}, nil
}

type studentTx struct {
	db   *gorm.DB
	done bool
}

func (t *studentTx) CreateAccountAndProfile(ctx context.Context, rec domain.NewRecord) (domain.RecordRef, error) {
	if t.done {
		return domain.RecordRef{}, domain.ErrTxDone
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        domain.NormalizeEmail(rec.Email),
		PasswordHash: rec.PasswordHash,
	}
	profile := models.Profile{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Name:        rec.Name,
		StudentCode: rec.StudentCode,
		Phone:       rec.Phone,
	}

	db := t.db.WithContext(ctx)
	if err := db.Create(&account).Error; err != nil {
		return domain.RecordRef{}, mapWriteError("create account", err)
	}
	if err := db.Create(&profile).Error; err != nil {
		return domain.RecordRef{}, mapWriteError("create profile", err)
	}

	return domain.RecordRef{
		AccountID:   account.ID,
		ProfileID:   profile.ID,
		Email:       account.Email,
		StudentCode: profile.StudentCode,
		Name:        profile.Name,
		Phone:       profile.Phone,
	}, nil
}

func (t *studentTx) UpdateProfile(ctx context.Context, ref domain.RecordRef, upd domain.ProfileUpdate) error {
	if t.done {
		return domain.ErrTxDone
	}
	if !ref.HasProfile() {
		return fmt.Errorf("%w: account %s has no profile", domain.ErrRecordNotFound, ref.AccountID)
	}

	changes := map[string]any{"name": upd.Name}
	if upd.Phone != nil {
		changes["phone"] = *upd.Phone
	}

	res := t.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", ref.ProfileID).
		Updates(changes)
	if res.Error != nil {
		return mapWriteError("update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: profile %s", domain.ErrRecordNotFound, ref.ProfileID)
	}
	return nil
}

func (t *studentTx) Commit(ctx context.Context) error {
	if t.done {
		return domain.ErrTxDone
	}
	t.done = true

	if err := t.db.Commit().Error; err != nil {
		return mapWriteError("commit", err)
	}
	return nil
}

func (t *studentTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %s", domain.ErrDuplicateRecord, op, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func refs(rows []recordRow) []domain.RecordRef {
	out := make([]domain.RecordRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ref())
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
