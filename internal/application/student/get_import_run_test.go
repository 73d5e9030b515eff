package student_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	app "github.com/mohammadpnp/student-import/internal/application/student"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

type fakeImportRunGetter struct {
	run       *domain.ImportRun
	returnErr error
	gotID     string
}

func (f *fakeImportRunGetter) GetByID(ctx context.Context, id string) (*domain.ImportRun, error) {
	f.gotID = id
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	return f.run, nil
}

func TestGetImportRunSuccess(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &fakeImportRunGetter{run: &domain.ImportRun{
		ID:         id,
		Source:     "students.csv",
		Strategy:   domain.StrategySuffix,
		Summary:    domain.Summary{Total: 2, Created: 1, CreatedWithSuffix: 1},
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}}

	out, err := app.NewGetImportRun(repo).Execute(context.Background(), app.GetImportRunInput{ID: id})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.gotID != id {
		t.Fatalf("unexpected id passed to repository: %s", repo.gotID)
	}
	if out.ID != id || out.Strategy != domain.StrategySuffix || out.CreatedWithSuffix != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if !out.FinishedAt.Equal(started.Add(time.Second)) {
		t.Fatalf("unexpected finished_at: %v", out.FinishedAt)
	}
}

func TestGetImportRunInvalidID(t *testing.T) {
	t.Parallel()

	repo := &fakeImportRunGetter{}
	_, err := app.NewGetImportRun(repo).Execute(context.Background(), app.GetImportRunInput{ID: "not-a-uuid"})
	if !errors.Is(err, app.ErrInvalidRunID) {
		t.Fatalf("expected ErrInvalidRunID, got %v", err)
	}
	if repo.gotID != "" {
		t.Fatal("expected repository not to be called")
	}
}

func TestGetImportRunNotFound(t *testing.T) {
	t.Parallel()

	repo := &fakeImportRunGetter{returnErr: domain.ErrImportRunNotFound}
	_, err := app.NewGetImportRun(repo).Execute(context.Background(), app.GetImportRunInput{ID: uuid.NewString()})
	if !errors.Is(err, app.ErrImportRunNotFound) {
		t.Fatalf("expected ErrImportRunNotFound, got %v", err)
	}
}

func TestGetImportRunRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &fakeImportRunGetter{returnErr: errors.New("db down")}
	_, err := app.NewGetImportRun(repo).Execute(context.Background(), app.GetImportRunInput{ID: uuid.NewString()})
	if !errors.Is(err, app.ErrGetImportRun) {
		t.Fatalf("expected ErrGetImportRun, got %v", err)
	}
}
