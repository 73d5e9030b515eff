package student

import "strings"

// Row is one CSV data record. LineNumber is the 1-based line the record
// starts on; the header occupies line 1.
type Row struct {
	Name        string
	Email       string
	StudentCode string
	Phone       string
	Password    string
	LineNumber  int
}

// FieldError describes why a single column of a row was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidatedRow is a Row after field validation. Only rows with no errors
// reach the duplicate engine.
type ValidatedRow struct {
	Row
	Errors []FieldError
}

func (r ValidatedRow) Valid() bool {
	return len(r.Errors) == 0
}

// NormalizedEmail is the identity key used for email comparisons.
func (r Row) NormalizedEmail() string {
	return NormalizeEmail(r.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
