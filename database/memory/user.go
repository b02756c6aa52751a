// Package memory holds mutex-guarded in-memory implementations of the
// database store interfaces. They back the test suites so nothing needs a
// running Postgres.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unmute-world/backend/models"
)

type UserMemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	// saved[userID][postID] = time saved
	saved map[uuid.UUID]map[uuid.UUID]time.Time
}

func NewUserMemoryStore() *UserMemoryStore {
	return &UserMemoryStore{
		users: make(map[uuid.UUID]*models.User),
		saved: make(map[uuid.UUID]map[uuid.UUID]time.Time),
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (s *UserMemoryStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.JoinDate.IsZero() {
		user.JoinDate = time.Now()
	}

	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *UserMemoryStore) FindByID(id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(user), nil
}

func (s *UserMemoryStore) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserMemoryStore) FindByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ResetPasswordToken != nil && *user.ResetPasswordToken == tokenHash &&
			user.ResetPasswordExpire != nil && user.ResetPasswordExpire.After(now) {
			return cloneUser(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserMemoryStore) FindAll() ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].JoinDate.Equal(users[j].JoinDate) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].JoinDate.After(users[j].JoinDate)
	})
	return users, nil
}

func (s *UserMemoryStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.Email = strings.ToLower(user.Email)
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *UserMemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	delete(s.saved, id)
	return nil
}

func (s *UserMemoryStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.users)), nil
}

func (s *UserMemoryStore) SavePost(userID, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved[userID] == nil {
		s.saved[userID] = make(map[uuid.UUID]time.Time)
	}
	if _, ok := s.saved[userID][postID]; !ok {
		s.saved[userID][postID] = time.Now()
	}
	return nil
}

func (s *UserMemoryStore) UnsavePost(userID, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saved[userID], postID)
	return nil
}

func (s *UserMemoryStore) IsPostSaved(userID, postID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.saved[userID][postID]
	return ok, nil
}

func (s *UserMemoryStore) SavedPostIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type savedRef struct {
		id uuid.UUID
		at time.Time
	}
	refs := make([]savedRef, 0, len(s.saved[userID]))
	for id, at := range s.saved[userID] {
		refs = append(refs, savedRef{id, at})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].at.Equal(refs[j].at) {
			return refs[i].id.String() < refs[j].id.String()
		}
		return refs[i].at.After(refs[j].at)
	})

	ids := make([]uuid.UUID, len(refs))
	for i, ref := range refs {
		ids[i] = ref.id
	}
	return ids, nil
}

func (s *UserMemoryStore) RemoveSavedReferences(postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range s.saved {
		delete(set, postID)
	}
	return nil
}
