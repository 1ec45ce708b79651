package store

import (
	"sort"
	"sync"

	"medtrack/internal/util"
	"medtrack/pkg/domain"
)

// MemoryStore keeps all records in process memory. It is the reference
// store: ids are sequential int64 counters per entity type, and a single
// RWMutex guards every counter-increment-and-insert so concurrent creates
// cannot collide on ids.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]domain.User
	byName   map[string]int64 // username -> user ID
	meds     map[int64]domain.Medication
	moods    map[int64]domain.Mood
	sessions map[string]int64 // token -> user ID

	userSeq int64
	medSeq  int64
	moodSeq int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]domain.User),
		byName:   make(map[string]int64),
		meds:     make(map[int64]domain.Medication),
		moods:    make(map[int64]domain.Mood),
		sessions: make(map[string]int64),
	}
}

// CreateUser assigns the next user id and stores the record.
func (m *MemoryStore) CreateUser(username, passwordHash string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userSeq++
	user := domain.User{
		ID:           m.userSeq,
		Username:     username,
		PasswordHash: passwordHash,
	}
	m.users[user.ID] = user
	m.byName[username] = user.ID
	return user, nil
}

// GetUser returns a user by id.
func (m *MemoryStore) GetUser(id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByUsername looks up a user by username.
func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byName[username]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// CreateMedication assigns the next medication id and stores the record.
func (m *MemoryStore) CreateMedication(med domain.Medication) (domain.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medSeq++
	med.ID = m.medSeq
	m.meds[med.ID] = med
	return med, nil
}

// SaveMedication replaces an existing medication record in place.
func (m *MemoryStore) SaveMedication(med domain.Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meds[med.ID] = med
	return nil
}

// GetMedication retrieves a medication by id, active or not.
func (m *MemoryStore) GetMedication(id int64) (domain.Medication, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	med, ok := m.meds[id]
	return med, ok, nil
}

// ListMedicationsByUser returns the user's medications newest first.
func (m *MemoryStore) ListMedicationsByUser(userID int64) ([]domain.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Medication, 0, len(m.meds))
	for _, med := range m.meds {
		if med.UserID == userID {
			res = append(res, med)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

// CreateMood assigns the next mood id and stores the record.
func (m *MemoryStore) CreateMood(mood domain.Mood) (domain.Mood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moodSeq++
	mood.ID = m.moodSeq
	m.moods[mood.ID] = mood
	return mood, nil
}

// ListMoodsByUser returns moods sorted by timestamp descending. Ids are
// monotonic, so sorting by id first and then stably by timestamp keeps
// insertion order on ties.
func (m *MemoryStore) ListMoodsByUser(userID int64) ([]domain.Mood, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Mood, 0, len(m.moods))
	for _, mood := range m.moods {
		if mood.UserID == userID {
			res = append(res, mood)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.After(res[j].Timestamp) })
	return res, nil
}

// NewSession creates a session token for a user.
func (m *MemoryStore) NewSession(userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := util.NewID()
	m.sessions[token] = userID
	return token, nil
}

// GetUserIDByToken resolves a token to a user id.
func (m *MemoryStore) GetUserIDByToken(token string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uid, ok := m.sessions[token]
	return uid, ok, nil
}

// DeleteSession removes a token mapping.
func (m *MemoryStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
