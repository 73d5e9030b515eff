package student

type Status string

const (
	StatusCreated           Status = "created"
	StatusCreatedWithSuffix Status = "created_with_suffix"
	StatusUpdated           Status = "updated"
	StatusSkipped           Status = "skipped"
	StatusFailed            Status = "failed"
)

type RecordSnapshot struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	StudentCode string `json:"student_code"`
	Phone       string `json:"phone"`
}

func SnapshotOf(row Row) RecordSnapshot {
	return RecordSnapshot{
		Email:       row.Email,
		Name:        row.Name,
		StudentCode: row.StudentCode,
		Phone:       row.Phone,
	}
}

// Outcome is the result of processing one validated row.
type Outcome struct {
	LineNumber int            `json:"line_number"`
	Status     Status         `json:"status"`
	Record     RecordSnapshot `json:"record"`
	Message    string         `json:"message"`
}

// RowError reports a row rejected by field validation.
type RowError struct {
	LineNumber int          `json:"line_number"`
	Errors     []FieldError `json:"errors"`
}

// Summary accounts for every data row of one import exactly once:
// Total == Created + CreatedWithSuffix + Updated + Skipped + Failed.
type Summary struct {
	Total             int        `json:"total"`
	Created           int        `json:"created"`
	CreatedWithSuffix int        `json:"created_with_suffix"`
	Updated           int        `json:"updated"`
	Skipped           int        `json:"skipped"`
	Failed            int        `json:"failed"`
	Details           []Outcome  `json:"details"`
	Invalid           []RowError `json:"invalid_rows"`
	Warnings          []string   `json:"warnings"`
}

func (s *Summary) AddOutcome(o Outcome) {
	s.Total++
	switch o.Status {
	case StatusCreated:
		s.Created++
	case StatusCreatedWithSuffix:
		s.CreatedWithSuffix++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Details = append(s.Details, o)
}

func (s *Summary) AddInvalid(row ValidatedRow) {
	s.Total++
	s.Failed++
	s.Invalid = append(s.Invalid, RowError{LineNumber: row.LineNumber, Errors: row.Errors})
}

// Merge folds the counts and outcomes of other into s.
func (s *Summary) Merge(other Summary) {
	s.Total += other.Total
	s.Created += other.Created
	s.CreatedWithSuffix += other.CreatedWithSuffix
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Details = append(s.Details, other.Details...)
	s.Invalid = append(s.Invalid, other.Invalid...)
	s.Warnings = append(s.Warnings, other.Warnings...)
}
