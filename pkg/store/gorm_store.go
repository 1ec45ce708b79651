package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"medtrack/pkg/domain"
)

// GormStore implements Store using GORM + Postgres. Serial primary keys give
// the same per-type monotonic id semantics as the memory store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &MedicationModel{}, &MoodModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser inserts a user and returns it with its assigned id.
func (s *GormStore) CreateUser(username, passwordHash string) (domain.User, error) {
	model := UserModel{Username: username, PasswordHash: passwordHash}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(model), nil
}

// GetUser returns a user by id.
func (s *GormStore) GetUser(id int64) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByUsername looks up a user by username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateMedication inserts a medication and returns it with its assigned id.
func (s *GormStore) CreateMedication(med domain.Medication) (domain.Medication, error) {
	model := medicationToModel(med)
	model.ID = 0
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Medication{}, err
	}
	return medicationFromModel(model), nil
}

// SaveMedication replaces an existing medication record.
func (s *GormStore) SaveMedication(med domain.Medication) error {
	model := medicationToModel(med)
	return s.db.Save(&model).Error
}

// GetMedication retrieves a medication by id, active or not.
func (s *GormStore) GetMedication(id int64) (domain.Medication, bool, error) {
	var model MedicationModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Medication{}, false, nil
		}
		return domain.Medication{}, false, err
	}
	return medicationFromModel(model), true, nil
}

// ListMedicationsByUser returns the user's medications newest first.
func (s *GormStore) ListMedicationsByUser(userID int64) ([]domain.Medication, error) {
	var models []MedicationModel
	if err := s.db.Where("user_id = ?", userID).Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Medication, 0, len(models))
	for _, m := range models {
		res = append(res, medicationFromModel(m))
	}
	return res, nil
}

// CreateMood inserts a mood entry and returns it with its assigned id.
func (s *GormStore) CreateMood(mood domain.Mood) (domain.Mood, error) {
	model := moodToModel(mood)
	model.ID = 0
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Mood{}, err
	}
	return moodFromModel(model), nil
}

// ListMoodsByUser returns moods sorted by timestamp descending; ties fall
// back to id descending, which matches insertion order.
func (s *GormStore) ListMoodsByUser(userID int64) ([]domain.Mood, error) {
	var models []MoodModel
	if err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Mood, 0, len(models))
	for _, m := range models {
		res = append(res, moodFromModel(m))
	}
	return res, nil
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
	}
}

func medicationToModel(med domain.Medication) MedicationModel {
	return MedicationModel{
		ID:          med.ID,
		UserID:      med.UserID,
		Name:        med.Name,
		Dosage:      med.Dosage,
		Frequency:   med.Frequency,
		Purpose:     med.Purpose,
		Effects:     med.Effects,
		SideEffects: med.SideEffects,
		Category:    med.Category,
		Description: med.Description,
		Active:      med.Active,
	}
}

func medicationFromModel(m MedicationModel) domain.Medication {
	return domain.Medication{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Dosage:      m.Dosage,
		Frequency:   m.Frequency,
		Purpose:     m.Purpose,
		Effects:     m.Effects,
		SideEffects: m.SideEffects,
		Category:    m.Category,
		Description: m.Description,
		Active:      m.Active,
	}
}

func moodToModel(mood domain.Mood) MoodModel {
	rawMeds, _ := json.Marshal(mood.RelatedMedications)
	return MoodModel{
		ID:                 mood.ID,
		UserID:             mood.UserID,
		Rating:             mood.Rating,
		Note:               mood.Note,
		Timestamp:          mood.Timestamp,
		RelatedMedications: rawMeds,
		Analysis:           mood.Analysis,
	}
}

func moodFromModel(m MoodModel) domain.Mood {
	meds := []string{}
	if len(m.RelatedMedications) > 0 {
		_ = json.Unmarshal(m.RelatedMedications, &meds)
	}
	return domain.Mood{
		ID:                 m.ID,
		UserID:             m.UserID,
		Rating:             m.Rating,
		Note:               m.Note,
		Timestamp:          m.Timestamp,
		RelatedMedications: meds,
		Analysis:           m.Analysis,
	}
}
