package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

type GetImportRunInput struct {
	ID string
}

type GetImportRunOutput struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Strategy   domain.Strategy `json:"strategy"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	domain.Summary
}

type GetImportRun interface {
	Execute(ctx context.Context, in GetImportRunInput) (GetImportRunOutput, error)
}

type importRunGetter interface {
	GetByID(ctx context.Context, id string) (*domain.ImportRun, error)
}

type getImportRun struct {
	repo importRunGetter
}

func NewGetImportRun(repo importRunGetter) GetImportRun {
	return &getImportRun{repo: repo}
}

func (uc *getImportRun) Execute(ctx context.Context, in GetImportRunInput) (GetImportRunOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return GetImportRunOutput{}, ErrInvalidRunID
	}

	run, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrImportRunNotFound) {
			return GetImportRunOutput{}, ErrImportRunNotFound
		}
		return GetImportRunOutput{}, fmt.Errorf("%w: %v", ErrGetImportRun, err)
	}

	return GetImportRunOutput{
		ID:         run.ID,
		Source:     run.Source,
		Strategy:   run.Strategy,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Summary:    run.Summary,
	}, nil
}
