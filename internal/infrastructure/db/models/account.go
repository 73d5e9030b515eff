package models

import "time"

type Account struct {
	ID           string   `gorm:"type:uuid;primaryKey"`
	Email        string   `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string   `gorm:"size:255;not null"`
	Profile      *Profile `gorm:"foreignKey:AccountID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string {
	return "accounts"
}

type Profile struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	AccountID   string `gorm:"type:uuid;not null;uniqueIndex"`
	Name        string `gorm:"size:255;not null"`
	StudentCode string `gorm:"size:50;not null;uniqueIndex"`
	Phone       string `gorm:"size:20;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
