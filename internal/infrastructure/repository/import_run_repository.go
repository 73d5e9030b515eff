package repository

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type ImportRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository(db *gorm.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Save(ctx context.Context, run domain.ImportRun) error {
	row := models.ImportRun{
		ID:            run.ID,
		Source:        run.Source,
		Strategy:      string(run.Strategy),
		TotalCount:    int64(run.Summary.Total),
		CreatedCount:  int64(run.Summary.Created),
		SuffixedCount: int64(run.Summary.CreatedWithSuffix),
		UpdatedCount:  int64(run.Summary.Updated),
		SkippedCount:  int64(run.Summary.Skipped),
		FailedCount:   int64(run.Summary.Failed),
		Details:       run.Summary.Details,
		InvalidRows:   run.Summary.Invalid,
		Warnings:      run.Summary.Warnings,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create import run: %w", err)
	}
	return nil
}

func (r *ImportRunRepository) GetByID(ctx context.Context, id string) (*domain.ImportRun, error) {
	var row models.ImportRun

	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImportRunNotFound
		}
		return nil, fmt.Errorf("get import run by id: %w", err)
	}

	return &domain.ImportRun{
		ID:       row.ID,
		Source:   row.Source,
		Strategy: domain.Strategy(row.Strategy),
		Summary: domain.Summary{
			Total:             int(row.TotalCount),
			Created:           int(row.CreatedCount),
			CreatedWithSuffix: int(row.SuffixedCount),
			Updated:           int(row.UpdatedCount),
			Skipped:           int(row.SkippedCount),
			Failed:            int(row.FailedCount),
			Details:           row.Details,
			Invalid:           row.InvalidRows,
			Warnings:          row.Warnings,
		},
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}, nil
}
