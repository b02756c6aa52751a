package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unmute-world/backend/models"
)

type CategoryMemoryStore struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
}

func NewCategoryMemoryStore() *CategoryMemoryStore {
	return &CategoryMemoryStore{categories: make(map[uuid.UUID]*models.Category)}
}

func (s *CategoryMemoryStore) Create(category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	c := *category
	s.categories[category.ID] = &c
	return nil
}

func (s *CategoryMemoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *category
	return &c, nil
}

func (s *CategoryMemoryStore) FindByName(name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range s.categories {
		if category.Name == name {
			c := *category
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *CategoryMemoryStore) FindAll() ([]*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]*models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		c := *category
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *CategoryMemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	return nil
}
