package student

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

type PreviewStudentsImportInput struct {
	CSV []byte
}

type PreviewSummary struct {
	Total              int `json:"total"`
	Valid              int `json:"valid"`
	Invalid            int `json:"invalid"`
	InternalDuplicates int `json:"internal_duplicates"`
	ExistingEmails     int `json:"existing_emails"`
	ExistingCodes      int `json:"existing_codes"`
	New                int `json:"new"`
}

// PreviewRowFlag tells, for one row, what an import would run into.
type PreviewRowFlag struct {
	LineNumber        int                 `json:"line_number"`
	Email             string              `json:"email"`
	StudentCode       string              `json:"student_code"`
	Valid             bool                `json:"valid"`
	Errors            []domain.FieldError `json:"errors,omitempty"`
	InternalDuplicate bool                `json:"internal_duplicate"`
	EmailExists       bool                `json:"email_exists"`
	CodeExists        bool                `json:"code_exists"`
}

type PreviewStudentsImportOutput struct {
	Summary            PreviewSummary      `json:"summary"`
	Rows               []PreviewRowFlag    `json:"rows"`
	InternalDuplicates []InternalDuplicate `json:"internal_duplicates"`
	Warnings           []string            `json:"warnings"`
}

type PreviewStudentsImport interface {
	Execute(ctx context.Context, in PreviewStudentsImportInput) (PreviewStudentsImportOutput, error)
}

type previewStudentsImport struct {
	finder    domain.RecordFinder
	batchSize int
}

func NewPreviewStudentsImport(finder domain.RecordFinder, batchSize int) PreviewStudentsImport {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &previewStudentsImport{finder: finder, batchSize: batchSize}
}

// Execute is read-only. Duplicates within the file are reported instead of
// rejected.
func (uc *previewStudentsImport) Execute(ctx context.Context, in PreviewStudentsImportInput) (PreviewStudentsImportOutput, error) {
	parsed, err := decodeCSV(in.CSV)
	if err != nil {
		return PreviewStudentsImportOutput{}, err
	}

	validated := make([]domain.ValidatedRow, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		validated = append(validated, domain.Validate(row))
	}

	report := DetectInternalDuplicates(validated)
	dupLines := make(map[int]bool, len(report.Duplicates))
	for _, d := range report.Duplicates {
		dupLines[d.LineNumber] = true
	}

	out := PreviewStudentsImportOutput{
		Rows:               make([]PreviewRowFlag, 0, len(validated)),
		InternalDuplicates: report.Duplicates,
		Warnings:           parsed.Warnings,
	}
	out.Summary.Total = len(validated)
	out.Summary.InternalDuplicates = len(report.Duplicates)

	valid := make([]domain.ValidatedRow, 0, len(validated))
	for _, row := range validated {
		if row.Valid() {
			valid = append(valid, row)
		}
	}

	indexes := make(map[int]DuplicateIndex, len(valid))
	for start := 0; start < len(valid); start += uc.batchSize {
		window := valid[start:min(start+uc.batchSize, len(valid))]
		index, err := BuildDuplicateIndex(ctx, uc.finder, window)
		if err != nil {
			return PreviewStudentsImportOutput{}, fmt.Errorf("%w: %v", ErrPreviewLookup, err)
		}
		for _, row := range window {
			indexes[row.LineNumber] = index
		}
	}

	for _, row := range validated {
		flag := PreviewRowFlag{
			LineNumber:        row.LineNumber,
			Email:             row.Email,
			StudentCode:       row.StudentCode,
			Valid:             row.Valid(),
			Errors:            row.Errors,
			InternalDuplicate: dupLines[row.LineNumber],
		}

		if !flag.Valid {
			out.Summary.Invalid++
			out.Rows = append(out.Rows, flag)
			continue
		}
		out.Summary.Valid++

		index := indexes[row.LineNumber]
		_, flag.EmailExists = index.ByEmail(row.Email)
		_, flag.CodeExists = index.ByCode(row.StudentCode)
		if flag.EmailExists {
			out.Summary.ExistingEmails++
		}
		if flag.CodeExists {
			out.Summary.ExistingCodes++
		}
		if !flag.EmailExists && !flag.CodeExists && !flag.InternalDuplicate {
			out.Summary.New++
		}

		out.Rows = append(out.Rows, flag)
	}

	return out, nil
}
