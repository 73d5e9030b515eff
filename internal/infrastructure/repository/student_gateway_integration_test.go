package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/db"
	"github.com/mohammadpnp/student-import/internal/infrastructure/repository"
	"gorm.io/gorm"
)

func openIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	gdb, closeDB, err := db.Open(ctx, dsn, db.PoolConfig{MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	t.Cleanup(closeDB)

	if err := db.Migrate(ctx, gdb); err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	if err := gdb.Exec("TRUNCATE profiles, accounts, import_runs").Error; err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	return gdb
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func TestStudentGatewayIntegration(t *testing.T) {
	gdb := openIntegrationDB(t)
	ctx := context.Background()
	gateway := repository.NewStudentGateway(gdb)

	tx, err := gateway.Begin(ctx)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	ref, err := tx.CreateAccountAndProfile(ctx, domain.NewRecord{
		Email:        "John@X.com",
		PasswordHash: "hash",
		Name:         "John",
		StudentCode:  "S1",
		Phone:        "111",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ref.Email != "john@x.com" {
		t.Fatalf("expected normalized email, got %s", ref.Email)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	found, err := gateway.FindAccountsByEmail(ctx, []string{"john@x.com"})
	if err != nil || len(found) != 1 || found[0].StudentCode != "S1" {
		t.Fatalf("unexpected lookup result: %+v, %v", found, err)
	}

	tx, _ = gateway.Begin(ctx)
	_, err = tx.CreateAccountAndProfile(ctx, domain.NewRecord{Email: "other@x.com", PasswordHash: "hash", Name: "Other", StudentCode: "S1"})
	if !errors.Is(err, domain.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
	exists, err := gateway.EmailExists(ctx, "other@x.com")
	if err != nil || exists {
		t.Fatalf("rolled back account must not exist: %v, %v", exists, err)
	}

	tx, _ = gateway.Begin(ctx)
	if err := tx.UpdateProfile(ctx, found[0], domain.ProfileUpdate{Name: "John Updated"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	byCode, err := gateway.FindProfilesByCode(ctx, []string{"S1"})
	if err != nil || len(byCode) != 1 {
		t.Fatalf("unexpected lookup result: %+v, %v", byCode, err)
	}
	if byCode[0].Name != "John Updated" || byCode[0].Phone != "111" {
		t.Fatalf("unexpected profile after update: %+v", byCode[0])
	}
}

func TestImportStudentsFromCSVIntegration(t *testing.T) {
	gdb := openIntegrationDB(t)
	ctx := context.Background()

	gateway := repository.NewStudentGateway(gdb)
	runs := repository.NewImportRunRepository(gdb)
	resolver := app.NewStrategyResolver(app.NewSuffixAllocator(gateway), plainHasher{}, "changeme123")
	importer := app.NewImportStudentsFromCSV(app.NewBatchOrchestrator(gateway, resolver, 2, nil), runs, nil)

	csv := []byte("name,email,student_code\nJohn,j@x.com,S1\nJane,jane@x.com,S2\nJim,jim@x.com,S3\n")
	if _, err := importer.Execute(ctx, app.ImportStudentsFromCSVInput{CSV: csv, Strategy: "skip"}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	out, err := importer.Execute(ctx, app.ImportStudentsFromCSVInput{
		CSV:      []byte("name,email,student_code\nJoe,j@x.com,S4\n"),
		Strategy: "suffix",
		Source:   "second.csv",
	})
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if out.CreatedWithSuffix != 1 || out.Details[0].Record.Email != "j_1@x.com" {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}

	run, err := runs.GetByID(ctx, out.RunID)
	if err != nil {
		t.Fatalf("get import run failed: %v", err)
	}
	if run.Source != "second.csv" || run.Summary.CreatedWithSuffix != 1 || len(run.Summary.Details) != 1 {
		t.Fatalf("unexpected stored run: %+v", run)
	}
	if run.FinishedAt.Before(run.StartedAt.Add(-time.Second)) {
		t.Fatalf("unexpected timestamps: %v %v", run.StartedAt, run.FinishedAt)
	}
}
