package student

import "time"

// ImportRun is the stored ledger entry of one completed import.
type ImportRun struct {
	ID         string
	Source     string
	Strategy   Strategy
	Summary    Summary
	StartedAt  time.Time
	FinishedAt time.Time
}
