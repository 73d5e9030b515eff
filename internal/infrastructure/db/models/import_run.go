package models

import (
	"time"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
)

type ImportRun struct {
	ID            string            `gorm:"type:uuid;primaryKey"`
	Source        string            `gorm:"type:text;not null"`
	Strategy      string            `gorm:"type:text;not null"`
	TotalCount    int64             `gorm:"not null"`
	CreatedCount  int64             `gorm:"not null"`
	SuffixedCount int64             `gorm:"not null"`
	UpdatedCount  int64             `gorm:"not null"`
	SkippedCount  int64             `gorm:"not null"`
	FailedCount   int64             `gorm:"not null"`
	Details       []domain.Outcome  `gorm:"type:jsonb;serializer:json"`
	InvalidRows   []domain.RowError `gorm:"type:jsonb;serializer:json"`
	Warnings      []string          `gorm:"type:jsonb;serializer:json"`
	StartedAt     time.Time         `gorm:"not null"`
	FinishedAt    time.Time         `gorm:"not null"`
	CreatedAt     time.Time
}

func (ImportRun) TableName() string {
	return "import_runs"
}
