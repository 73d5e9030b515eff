package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"go.uber.org/zap"
)

type ImportStudentsFromCSVInput struct {
	CSV      []byte
	Strategy string
	Source   string
}

type ImportStudentsFromCSVOutput struct {
	RunID    string          `json:"run_id"`
	Strategy domain.Strategy `json:"strategy"`
	domain.Summary
}

type ImportStudentsFromCSV interface {
	Execute(ctx context.Context, in ImportStudentsFromCSVInput) (ImportStudentsFromCSVOutput, error)
}

type importRunSaver interface {
	Save(ctx context.Context, run domain.ImportRun) error
}

type batchRunner interface {
	Run(ctx context.Context, rows []domain.ValidatedRow, strategy domain.Strategy) domain.Summary
}

type importStudentsFromCSV struct {
	batches batchRunner
	runs    importRunSaver
	logger  *zap.Logger
	now     func() time.Time
}

// NewImportStudentsFromCSV wires the import entry point. runs may be nil, in
// which case nothing is recorded.
func NewImportStudentsFromCSV(batches batchRunner, runs importRunSaver, logger *zap.Logger) ImportStudentsFromCSV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &importStudentsFromCSV{
		batches: batches,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute either rejects the whole file (structural problems, invalid
// strategy, duplicates within the file) without writing anything, or returns
// a summary accounting for every data row.
func (uc *importStudentsFromCSV) Execute(ctx context.Context, in ImportStudentsFromCSVInput) (ImportStudentsFromCSVOutput, error) {
	strategy, err := domain.ParseStrategy(in.Strategy)
	if err != nil {
		return ImportStudentsFromCSVOutput{}, err
	}

	startedAt := uc.now()

	parsed, err := decodeCSV(in.CSV)
	if err != nil {
		uc.logger.Warn("student import rejected", zap.String("source", in.Source), zap.Error(err))
		return ImportStudentsFromCSVOutput{}, err
	}

	valid, summary := validateRows(parsed)

	if report := DetectInternalDuplicates(valid); report.HasDuplicates() {
		uc.logger.Warn("student import rejected",
			zap.String("source", in.Source),
			zap.Int("internal_duplicates", len(report.Duplicates)),
		)
		return ImportStudentsFromCSVOutput{}, &InternalDuplicatesError{Duplicates: report.Duplicates}
	}

	summary.Merge(uc.batches.Run(ctx, valid, strategy))

	run := domain.ImportRun{
		ID:         uuid.NewString(),
		Source:     in.Source,
		Strategy:   strategy,
		Summary:    summary,
		StartedAt:  startedAt,
		FinishedAt: uc.now(),
	}
	if uc.runs != nil {
		if err := uc.runs.Save(ctx, run); err != nil {
			uc.logger.Error("record import run failed", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	uc.logger.Info("student import finished",
		zap.String("run_id", run.ID),
		zap.String("source", in.Source),
		zap.String("strategy", string(strategy)),
		zap.Int("total", summary.Total),
		zap.Int("created", summary.Created),
		zap.Int("created_with_suffix", summary.CreatedWithSuffix),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", run.FinishedAt.Sub(startedAt)),
	)

	return ImportStudentsFromCSVOutput{
		RunID:    run.ID,
		Strategy: strategy,
		Summary:  summary,
	}, nil
}

// validateRows splits decoded rows into valid rows and a summary already
// holding the invalid ones and the header warnings.
func validateRows(parsed decodedCSV) ([]domain.ValidatedRow, domain.Summary) {
	summary := domain.Summary{
		Details:  []domain.Outcome{},
		Invalid:  []domain.RowError{},
		Warnings: []string{},
	}
	summary.Warnings = append(summary.Warnings, parsed.Warnings...)
	valid := make([]domain.ValidatedRow, 0, len(parsed.Rows))

	for _, row := range parsed.Rows {
		validated := domain.Validate(row)
		if !validated.Valid() {
			summary.AddInvalid(validated)
			continue
		}
		valid = append(valid, validated)
	}

	return valid, summary
}
