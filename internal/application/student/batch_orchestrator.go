package student

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"go.uber.org/zap"
)

const DefaultBatchSize = 100

type rowResolver interface {
	Resolve(ctx context.Context, tx domain.Tx, row domain.ValidatedRow, index DuplicateIndex, strategy domain.Strategy) (domain.Outcome, error)
}

// BatchOrchestrator processes validated rows in fixed-size windows, one row
// and one transaction at a time. Each row sees every creation committed
// before it in the same run.
type BatchOrchestrator struct {
	gateway   domain.Gateway
	resolver  rowResolver
	batchSize int
	logger    *zap.Logger
}

func NewBatchOrchestrator(gateway domain.Gateway, resolver rowResolver, batchSize int, logger *zap.Logger) *BatchOrchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOrchestrator{
		gateway:   gateway,
		resolver:  resolver,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run returns a summary with one outcome per row, in input order.
// Cancellation is checked between windows only: a started window runs to the
// end with ctx's values but without its cancellation, and rows of windows
// that never started are reported as failed.
func (o *BatchOrchestrator) Run(ctx context.Context, rows []domain.ValidatedRow, strategy domain.Strategy) domain.Summary {
	var summary domain.Summary

	window := 0
	for start := 0; start < len(rows); start += o.batchSize {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("import cancelled between windows",
				zap.Int("window", window+1),
				zap.Int("remaining_rows", len(rows)-start),
				zap.Error(err),
			)
			failAll(&summary, rows[start:], fmt.Errorf("import cancelled: %w", err))
			break
		}

		end := min(start+o.batchSize, len(rows))
		window++
		o.runWindow(context.WithoutCancel(ctx), rows[start:end], strategy, &summary)
		o.logger.Debug("import window processed",
			zap.Int("window", window),
			zap.Int("size", end-start),
			zap.Int("first_line", rows[start].LineNumber),
		)
	}

	return summary
}

func (o *BatchOrchestrator) runWindow(ctx context.Context, rows []domain.ValidatedRow, strategy domain.Strategy, summary *domain.Summary) {
	index, err := BuildDuplicateIndex(ctx, o.gateway, rows)
	if err != nil {
		o.logger.Error("build duplicate index failed", zap.Int("rows", len(rows)), zap.Error(err))
		failAll(summary, rows, err)
		return
	}

	for i, row := range rows {
		outcome := o.processRow(ctx, row, index, strategy)
		summary.AddOutcome(outcome)

		if !createdRecord(outcome.Status) || i == len(rows)-1 {
			continue
		}

		// Only the unprocessed remainder needs a fresh view.
		remainder := rows[i+1:]
		index, err = BuildDuplicateIndex(ctx, o.gateway, remainder)
		if err != nil {
			o.logger.Error("refresh duplicate index failed", zap.Int("rows", len(remainder)), zap.Error(err))
			failAll(summary, remainder, err)
			return
		}
	}
}

func (o *BatchOrchestrator) processRow(ctx context.Context, row domain.ValidatedRow, index DuplicateIndex, strategy domain.Strategy) domain.Outcome {
	tx, err := o.gateway.Begin(ctx)
	if err != nil {
		return failed(row, fmt.Errorf("begin transaction: %w", err))
	}

	outcome, err := o.resolver.Resolve(ctx, tx, row, index, strategy)
	if err != nil {
		o.rollback(ctx, tx, row)
		o.logger.Warn("import row failed", zap.Int("line", row.LineNumber), zap.Error(err))
		return failed(row, err)
	}

	if outcome.Status == domain.StatusSkipped {
		o.rollback(ctx, tx, row)
		return outcome
	}

	if err := tx.Commit(ctx); err != nil {
		o.rollback(ctx, tx, row)
		o.logger.Warn("import row commit failed", zap.Int("line", row.LineNumber), zap.Error(err))
		return failed(row, fmt.Errorf("commit: %w", err))
	}

	return outcome
}

func (o *BatchOrchestrator) rollback(ctx context.Context, tx domain.Tx, row domain.ValidatedRow) {
	if err := tx.Rollback(ctx); err != nil {
		o.logger.Warn("rollback failed", zap.Int("line", row.LineNumber), zap.Error(err))
	}
}

func createdRecord(status domain.Status) bool {
	return status == domain.StatusCreated || status == domain.StatusCreatedWithSuffix
}

func failAll(summary *domain.Summary, rows []domain.ValidatedRow, err error) {
	for _, row := range rows {
		summary.AddOutcome(failed(row, err))
	}
}
