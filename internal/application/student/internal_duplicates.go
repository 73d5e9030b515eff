package student

import (
	"fmt"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

// InternalDuplicate is a row repeating an email or student code already seen
// earlier in the same file.
type InternalDuplicate struct {
	LineNumber      int    `json:"line_number"`
	Field           string `json:"field"`
	Value           string `json:"value"`
	FirstSeenAtLine int    `json:"first_seen_at_line"`
}

type InternalDuplicateReport struct {
	Duplicates []InternalDuplicate
}

func (r InternalDuplicateReport) HasDuplicates() bool {
	return len(r.Duplicates) > 0
}

// InternalDuplicatesError rejects a whole import. It matches
// ErrInternalDuplicates.
type InternalDuplicatesError struct {
	Duplicates []InternalDuplicate
}

func (e *InternalDuplicatesError) Error() string {
	return fmt.Sprintf("%s: %d conflicting row(s)", ErrInternalDuplicates, len(e.Duplicates))
}

func (e *InternalDuplicatesError) Unwrap() error {
	return ErrInternalDuplicates
}

// DetectInternalDuplicates scans valid rows in order; emails are compared
// normalized and student codes exactly.
func DetectInternalDuplicates(rows []domain.ValidatedRow) InternalDuplicateReport {
	seenEmail := make(map[string]int, len(rows))
	seenCode := make(map[string]int, len(rows))

	var report InternalDuplicateReport
	for _, row := range rows {
		if !row.Valid() {
			continue
		}

		email := row.NormalizedEmail()
		if first, ok := seenEmail[email]; ok {
			report.Duplicates = append(report.Duplicates, InternalDuplicate{
				LineNumber:      row.LineNumber,
				Field:           columnEmail,
				Value:           email,
				FirstSeenAtLine: first,
			})
		} else {
			seenEmail[email] = row.LineNumber
		}

		if first, ok := seenCode[row.StudentCode]; ok {
			report.Duplicates = append(report.Duplicates, InternalDuplicate{
				LineNumber:      row.LineNumber,
				Field:           columnStudentCode,
				Value:           row.StudentCode,
				FirstSeenAtLine: first,
			})
		} else {
			seenCode[row.StudentCode] = row.LineNumber
		}
	}

	return report
}
