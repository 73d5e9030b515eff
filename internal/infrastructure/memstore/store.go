// Package memstore is an in-memory student.Gateway used as the contract fake
// for the import engine's tests; production code always runs on the
// PostgreSQL gateway. Writes are staged per transaction and become visible to
// lookups on commit, matching the read-your-writes guarantee of the
// PostgreSQL gateway.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

// Record is a stored account with its optional profile.
type Record struct {
	AccountID    string
	ProfileID    string
	Email        string
	PasswordHash string
	Name         string
	StudentCode  string
	Phone        string
}

func (r Record) ref() domain.RecordRef {
	return domain.RecordRef{
		AccountID:   r.AccountID,
		ProfileID:   r.ProfileID,
		Email:       r.Email,
		StudentCode: r.StudentCode,
		Name:        r.Name,
		Phone:       r.Phone,
	}
}

// Stats counts gateway calls.
type Stats struct {
	FindByEmail int
	FindByCode  int
	EmailExists int
	Begins      int
	Commits     int
	Rollbacks   int
}

type Store struct {
	mu      sync.Mutex
	records []Record
	stats   Stats

	// FailCreate, when set, is consulted before every create; a non-nil
	// result fails that create.
	FailCreate func(rec domain.NewRecord) error
	// FailFind fails every bulk lookup.
	FailFind error
}

func New() *Store {
	return &Store{}
}

// Seed stores an account with a linked profile and returns it.
func (s *Store) Seed(name, email, code, phone string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		AccountID:   uuid.NewString(),
		ProfileID:   uuid.NewString(),
		Email:       domain.NormalizeEmail(email),
		Name:        name,
		StudentCode: code,
		Phone:       phone,
	}
	s.records = append(s.records, rec)
	return rec
}

// SeedAccount stores an account that has no profile.
func (s *Store) SeedAccount(email string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{AccountID: uuid.NewString(), Email: domain.NormalizeEmail(email)}
	s.records = append(s.records, rec)
	return rec
}

// Records returns the committed records in insertion order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) FindAccountsByEmail(ctx context.Context, emails []string) ([]domain.RecordRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FindByEmail++
	if s.FailFind != nil {
		return nil, s.FailFind
	}

	wanted := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		wanted[domain.NormalizeEmail(email)] = struct{}{}
	}

	var out []domain.RecordRef
	for _, rec := range s.records {
		if _, ok := wanted[rec.Email]; ok {
			out = append(out, rec.ref())
		}
	}
	return out, nil
}

func (s *Store) FindProfilesByCode(ctx context.Context, codes []string) ([]domain.RecordRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FindByCode++
	if s.FailFind != nil {
		return nil, s.FailFind
	}

	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}

	var out []domain.RecordRef
	for _, rec := range s.records {
		if !rec.hasProfile() {
			continue
		}
		if _, ok := wanted[rec.StudentCode]; ok {
			out = append(out, rec.ref())
		}
	}
	return out, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.EmailExists++
	_, ok := s.indexOfEmail(domain.NormalizeEmail(email))
	return ok, nil
}

func (s *Store) Begin(ctx context.Context) (domain.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Begins++
	return &tx{store: s}, nil
}

func (r Record) hasProfile() bool {
	return r.ProfileID != ""
}

func (s *Store) indexOfEmail(email string) (int, bool) {
	for i, rec := range s.records {
		if rec.Email == email {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) codeTaken(code string) bool {
	for _, rec := range s.records {
		if rec.hasProfile() && rec.StudentCode == code {
			return true
		}
	}
	return false
}

// checkUnique must be called with s.mu held.
func (s *Store) checkUnique(email, code string) error {
	if _, ok := s.indexOfEmail(email); ok {
		return fmt.Errorf("%w: email %s", domain.ErrDuplicateRecord, email)
	}
	if s.codeTaken(code) {
		return fmt.Errorf("%w: student_code %s", domain.ErrDuplicateRecord, code)
	}
	return nil
}

type profileChange struct {
	accountID string
	upd       domain.ProfileUpdate
}

type tx struct {
	store   *Store
	creates []Record
	updates []profileChange
	done    bool
}

func (t *tx) CreateAccountAndProfile(ctx context.Context, rec domain.NewRecord) (domain.RecordRef, error) {
	if t.done {
		return domain.RecordRef{}, domain.ErrTxDone
	}

	t.store.mu.Lock()
	failCreate := t.store.FailCreate
	t.store.mu.Unlock()
	if failCreate != nil {
		if err := failCreate(rec); err != nil {
			return domain.RecordRef{}, err
		}
	}

	email := domain.NormalizeEmail(rec.Email)

	t.store.mu.Lock()
	err := t.store.checkUnique(email, rec.StudentCode)
	t.store.mu.Unlock()
	if err != nil {
		return domain.RecordRef{}, err
	}
	for _, staged := range t.creates {
		if staged.Email == email || staged.StudentCode == rec.StudentCode {
			return domain.RecordRef{}, fmt.Errorf("%w: staged in transaction", domain.ErrDuplicateRecord)
		}
	}

	stored := Record{
		AccountID:    uuid.NewString(),
		ProfileID:    uuid.NewString(),
		Email:        email,
		PasswordHash: rec.PasswordHash,
		Name:         rec.Name,
		StudentCode:  rec.StudentCode,
		Phone:        rec.Phone,
	}
	t.creates = append(t.creates, stored)
	return stored.ref(), nil
}

func (t *tx) UpdateProfile(ctx context.Context, ref domain.RecordRef, upd domain.ProfileUpdate) error {
	if t.done {
		return domain.ErrTxDone
	}
	if !ref.HasProfile() {
		return fmt.Errorf("%w: account %s has no profile", domain.ErrRecordNotFound, ref.AccountID)
	}
	t.updates = append(t.updates, profileChange{accountID: ref.AccountID, upd: upd})
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return domain.ErrTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range t.creates {
		if err := s.checkUnique(rec.Email, rec.StudentCode); err != nil {
			return err
		}
	}
	targets := make([]int, len(t.updates))
	for n, change := range t.updates {
		targets[n] = -1
		for i := range s.records {
			if s.records[i].AccountID == change.accountID && s.records[i].hasProfile() {
				targets[n] = i
				break
			}
		}
		if targets[n] < 0 {
			return fmt.Errorf("%w: account %s", domain.ErrRecordNotFound, change.accountID)
		}
	}

	for n, change := range t.updates {
		rec := &s.records[targets[n]]
		rec.Name = change.upd.Name
		if change.upd.Phone != nil {
			rec.Phone = *change.upd.Phone
		}
	}
	s.records = append(s.records, t.creates...)
	s.stats.Commits++
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	t.store.stats.Rollbacks++
	t.store.mu.Unlock()

	t.creates = nil
	t.updates = nil
	return nil
}
