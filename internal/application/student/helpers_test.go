package student_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const defaultPassword = "changeme123"

type fakeHasher struct {
	err error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

type fakeRunRepository struct {
	mu      sync.Mutex
	runs    []domain.ImportRun
	saveErr error
}

func (r *fakeRunRepository) Save(ctx context.Context, run domain.ImportRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepository) saved() []domain.ImportRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ImportRun(nil), r.runs...)
}

func newResolver(store *memstore.Store) *app.StrategyResolver {
	return app.NewStrategyResolver(app.NewSuffixAllocator(store), fakeHasher{}, defaultPassword)
}

func newOrchestrator(store *memstore.Store, batchSize int, logger *zap.Logger) *app.BatchOrchestrator {
	return app.NewBatchOrchestrator(store, newResolver(store), batchSize, logger)
}

func newImporter(store *memstore.Store, batchSize int, logger *zap.Logger) (app.ImportStudentsFromCSV, *fakeRunRepository) {
	runs := &fakeRunRepository{}
	return app.NewImportStudentsFromCSV(newOrchestrator(store, batchSize, logger), runs, logger), runs
}

func validated(line int, name, email, code string) domain.ValidatedRow {
	return domain.ValidatedRow{Row: domain.Row{
		Name:        name,
		Email:       email,
		StudentCode: code,
		LineNumber:  line,
	}}
}

func csvOf(header string, lines ...string) []byte {
	return []byte(header + "\n" + strings.Join(lines, "\n") + "\n")
}

func uniqueRowsCSV(n int) []byte {
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		lines[i] = fmt.Sprintf("Student %d,student%d@x.com,S%03d", i+1, i+1, i+1)
	}
	return csvOf("name,email,student_code", lines...)
}

func assertBalanced(t *testing.T, s domain.Summary) {
	t.Helper()
	assert.Equal(t, s.Total, s.Created+s.CreatedWithSuffix+s.Updated+s.Skipped+s.Failed, "summary counts do not add up: %+v", s)
}

func assertUniqueRecords(t *testing.T, records []memstore.Record) {
	t.Helper()
	emails := make(map[string]bool, len(records))
	codes := make(map[string]bool, len(records))
	for _, rec := range records {
		assert.False(t, emails[rec.Email], "email %s stored twice", rec.Email)
		emails[rec.Email] = true
		if rec.ProfileID == "" {
			continue
		}
		assert.False(t, codes[rec.StudentCode], "student code %s stored twice", rec.StudentCode)
		codes[rec.StudentCode] = true
	}
}

var errDBDown = errors.New("db down")
