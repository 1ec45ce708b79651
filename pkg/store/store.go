package store

import "medtrack/pkg/domain"

// Store defines persistence operations for users, medications, and moods.
// Entity ids are assigned by the store: sequential per entity type starting
// at 1, never reused. List methods return records already sorted as
// documented; ownership scoping is the caller's responsibility.
type Store interface {
	// users
	CreateUser(username, passwordHash string) (domain.User, error)
	GetUser(id int64) (domain.User, bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)

	// medications
	CreateMedication(med domain.Medication) (domain.Medication, error)
	SaveMedication(med domain.Medication) error
	GetMedication(id int64) (domain.Medication, bool, error)
	// ListMedicationsByUser returns the user's medications, including
	// inactive ones, newest first (id descending).
	ListMedicationsByUser(userID int64) ([]domain.Medication, error)

	// moods (append-only: no update or delete)
	CreateMood(mood domain.Mood) (domain.Mood, error)
	// ListMoodsByUser returns moods sorted by timestamp descending; ties
	// keep insertion order.
	ListMoodsByUser(userID int64) ([]domain.Mood, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID int64) (string, error)
	GetUserIDByToken(token string) (int64, bool, error)
	DeleteSession(token string) error
}
