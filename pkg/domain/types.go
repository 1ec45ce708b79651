package domain

import "time"

// User is created once at registration and immutable afterwards.
// The password hash is never serialized to clients.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Medication belongs to exactly one user. Deleting a medication flips
// Active to false in place; records are never physically removed so that
// mood entries referencing the medication by name keep resolving.
type Medication struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Purpose     string `json:"purpose,omitempty"`
	Effects     string `json:"effects,omitempty"`
	SideEffects string `json:"sideEffects,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// Mood is an append-only log entry. Timestamp is assigned by the server at
// creation time. RelatedMedications holds medication names, not ids, so a
// later rename or soft delete never invalidates history. Analysis is
// generated once at creation and stored verbatim.
type Mood struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	Rating             int       `json:"rating"`
	Note               string    `json:"note,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	RelatedMedications []string  `json:"relatedMedications"`
	Analysis           string    `json:"analysis"`
}

// MoodTrend is one chart point derived from a mood entry.
type MoodTrend struct {
	Date        string   `json:"date"`
	Rating      int      `json:"rating"`
	Medications []string `json:"medications"`
}

// MedicationEffectiveness compares average mood rating across entries that
// do and do not reference a medication by its current name. Matching uses
// the current name, so renaming a medication reclassifies its history.
type MedicationEffectiveness struct {
	MedicationName        string  `json:"medicationName"`
	AverageMoodWithMed    float64 `json:"averageMoodWithMed"`
	AverageMoodWithoutMed float64 `json:"averageMoodWithoutMed"`
	TimesUsed             int     `json:"timesUsed"`
}

// DrugInfo is the best-effort label data returned by the external drug
// lookup service.
type DrugInfo struct {
	GenericName      string   `json:"genericName"`
	BrandName        string   `json:"brandName"`
	Purpose          string   `json:"purpose"`
	Indications      []string `json:"indications"`
	Warnings         []string `json:"warnings"`
	AdverseReactions []string `json:"adverseReactions"`
	DrugClass        string   `json:"drugClass"`
	Description      string   `json:"description"`
}
