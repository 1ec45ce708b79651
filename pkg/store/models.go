package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type MedicationModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Dosage      string `gorm:"not null"`
	Frequency   string `gorm:"not null"`
	Purpose     string
	Effects     string
	SideEffects string
	Category    string
	Description string
	Active      bool `gorm:"not null"`
}

type MoodModel struct {
	ID                 int64 `gorm:"primaryKey;autoIncrement"`
	UserID             int64 `gorm:"not null;index"`
	Rating             int   `gorm:"not null"`
	Note               string
	Timestamp          time.Time `gorm:"not null;index"`
	RelatedMedications datatypes.JSON
	Analysis           string
}
