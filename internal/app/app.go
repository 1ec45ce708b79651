package app

import (
	"fmt"
	"strings"
	"time"

	"medtrack/pkg/auth"
	"medtrack/pkg/domain"
	"medtrack/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	SessionSecret string
	Store         store.Store
	Sessions      store.SessionStore
}

// App wires the entity store, session store and the access-scoping rules.
// It is the only component the HTTP layer talks to: every operation takes
// the authenticated user's id and never exposes another user's records.
type App struct {
	store    store.Store
	sessions store.SessionStore
}

// New constructs the application. With no database URL the in-memory store
// is used; the session strategy is picked from config (JWT secret, Redis,
// or the memory store itself).
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	var memory *store.MemoryStore
	if dataStore == nil {
		if cfg.DatabaseURL != "" {
			gormStore, err := store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("init postgres store: %w", err)
			}
			dataStore = gormStore
		} else {
			memory = store.NewMemoryStore()
			dataStore = memory
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch {
		case strings.TrimSpace(cfg.SessionSecret) != "":
			sessionStore = store.NewJWTSessionStore(cfg.SessionSecret, cfg.SessionTTL)
		case strings.TrimSpace(cfg.RedisAddr) != "":
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		case memory != nil:
			sessionStore = memory
		default:
			return nil, fmt.Errorf("session store requires sessionSecret or redisAddr")
		}
	}

	return &App{
		store:    dataStore,
		sessions: sessionStore,
	}, nil
}

// Register creates a new user and issues a session token.
func (a *App) Register(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return domain.User{}, "", &ValidationError{Fields: fields}
	}
	_, exists, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrUsernameTaken
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user, err := a.store.CreateUser(username, passwordHash)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a session token.
func (a *App) Login(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Logout invalidates a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a user from a session token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUser(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// MedicationInput carries caller-supplied medication fields.
type MedicationInput struct {
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Purpose     string `json:"purpose"`
	Effects     string `json:"effects"`
	SideEffects string `json:"sideEffects"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// MedicationUpdate is a partial update; nil fields are left untouched.
type MedicationUpdate struct {
	Name        *string `json:"name"`
	Dosage      *string `json:"dosage"`
	Frequency   *string `json:"frequency"`
	Purpose     *string `json:"purpose"`
	Effects     *string `json:"effects"`
	SideEffects *string `json:"sideEffects"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// MoodInput carries caller-supplied mood fields. Timestamp and analysis are
// server-assigned and deliberately absent: values a client sends for them
// are ignored.
type MoodInput struct {
	Rating             int      `json:"rating"`
	Note               string   `json:"note"`
	RelatedMedications []string `json:"relatedMedications"`
}

// ListMedications returns the user's medications, including inactive ones,
// newest first.
func (a *App) ListMedications(userID int64) ([]domain.Medication, error) {
	return a.store.ListMedicationsByUser(userID)
}

// GetMedication returns one medication. A medication that does not exist
// and one owned by another user both yield ErrNotFound.
func (a *App) GetMedication(userID, id int64) (domain.Medication, error) {
	med, ok, err := a.store.GetMedication(id)
	if err != nil {
		return domain.Medication{}, fmt.Errorf("fetch medication: %w", err)
	}
	if !ok || med.UserID != userID {
		return domain.Medication{}, ErrNotFound
	}
	return med, nil
}

// CreateMedication validates required fields and stores a new active
// medication owned by the user.
func (a *App) CreateMedication(userID int64, input MedicationInput) (domain.Medication, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(input.Dosage) == "" {
		fields["dosage"] = "is required"
	}
	if strings.TrimSpace(input.Frequency) == "" {
		fields["frequency"] = "is required"
	}
	if len(fields) > 0 {
		return domain.Medication{}, &ValidationError{Fields: fields}
	}
	med := domain.Medication{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Dosage:      strings.TrimSpace(input.Dosage),
		Frequency:   strings.TrimSpace(input.Frequency),
		Purpose:     input.Purpose,
		Effects:     input.Effects,
		SideEffects: input.SideEffects,
		Category:    input.Category,
		Description: input.Description,
		Active:      true,
	}
	created, err := a.store.CreateMedication(med)
	if err != nil {
		return domain.Medication{}, fmt.Errorf("create medication: %w", err)
	}
	return created, nil
}

// UpdateMedication merges the supplied fields over the existing record,
// leaving unspecified fields untouched.
func (a *App) UpdateMedication(userID, id int64, update MedicationUpdate) (domain.Medication, error) {
	med, err := a.GetMedication(userID, id)
	if err != nil {
		return domain.Medication{}, err
	}
	if update.Name != nil {
		med.Name = *update.Name
	}
	if update.Dosage != nil {
		med.Dosage = *update.Dosage
	}
	if update.Frequency != nil {
		med.Frequency = *update.Frequency
	}
	if update.Purpose != nil {
		med.Purpose = *update.Purpose
	}
	if update.Effects != nil {
		med.Effects = *update.Effects
	}
	if update.SideEffects != nil {
		med.SideEffects = *update.SideEffects
	}
	if update.Category != nil {
		med.Category = *update.Category
	}
	if update.Description != nil {
		med.Description = *update.Description
	}
	if err := a.store.SaveMedication(med); err != nil {
		return domain.Medication{}, fmt.Errorf("update medication: %w", err)
	}
	return med, nil
}

// DeleteMedication soft-deletes: the record stays enumerable with
// Active=false so mood history referencing it by name keeps resolving.
// Deleting an already-inactive medication succeeds and changes nothing.
func (a *App) DeleteMedication(userID, id int64) error {
	med, err := a.GetMedication(userID, id)
	if err != nil {
		return err
	}
	if !med.Active {
		return nil
	}
	med.Active = false
	if err := a.store.SaveMedication(med); err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	return nil
}

// ListMoods returns the user's mood entries, newest first.
func (a *App) ListMoods(userID int64) ([]domain.Mood, error) {
	return a.store.ListMoodsByUser(userID)
}

// CreateMood validates the rating, stamps the server time, generates the
// analysis narrative from the user's current medication list, and stores
// the entry. Moods are append-only; there is no update or delete.
func (a *App) CreateMood(userID int64, input MoodInput) (domain.Mood, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return domain.Mood{}, &ValidationError{Fields: map[string]string{
			"rating": "must be an integer between 1 and 5",
		}}
	}
	related := input.RelatedMedications
	if related == nil {
		related = []string{}
	}
	medications, err := a.store.ListMedicationsByUser(userID)
	if err != nil {
		return domain.Mood{}, fmt.Errorf("list medications: %w", err)
	}
	mood := domain.Mood{
		UserID:             userID,
		Rating:             input.Rating,
		Note:               input.Note,
		Timestamp:          time.Now().UTC(),
		RelatedMedications: related,
		Analysis:           GenerateMoodAnalysis(input.Rating, related, medications),
	}
	created, err := a.store.CreateMood(mood)
	if err != nil {
		return domain.Mood{}, fmt.Errorf("create mood: %w", err)
	}
	return created, nil
}
