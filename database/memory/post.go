package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/models"
)

type PostMemoryStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
}

func NewPostMemoryStore() *PostMemoryStore {
	return &PostMemoryStore{posts: make(map[uuid.UUID]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.Ratings = append([]models.PostRating(nil), p.Ratings...)
	return &c
}

func sortNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.String() < posts[j].ID.String()
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (s *PostMemoryStore) Create(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *PostMemoryStore) FindByID(id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return clonePost(post), nil
}

func (s *PostMemoryStore) FindAll(filter database.PostFilter) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []*models.Post
	for _, post := range s.posts {
		if filter.Category != "" && post.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !containsTag(post.Tags, filter.Tag) {
			continue
		}
		posts = append(posts, clonePost(post))
	}

	sortNewestFirst(posts)
	if filter.Sort == "oldest" {
		for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
			posts[i], posts[j] = posts[j], posts[i]
		}
	}
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *PostMemoryStore) FindByAuthor(authorID uuid.UUID) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []*models.Post
	for _, post := range s.posts {
		if post.AuthorID == authorID {
			posts = append(posts, clonePost(post))
		}
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStore) FindByIDs(ids []uuid.UUID) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []*models.Post
	for _, id := range ids {
		if post, ok := s.posts[id]; ok {
			posts = append(posts, clonePost(post))
		}
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStore) FindRated() ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []*models.Post
	for _, post := range s.posts {
		if len(post.Ratings) > 0 {
			posts = append(posts, clonePost(post))
		}
	}
	sortNewestFirst(posts)
	return posts, nil
}

// Search approximates the SQL full-text index with case-insensitive substring
// matching over the same fields.
func (s *PostMemoryStore) Search(query string, limit int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	var posts []*models.Post
	for _, post := range s.posts {
		haystack := strings.ToLower(
			post.Title + " " + post.Content + " " + post.AuthorName + " " + strings.Join(post.Tags, " "))
		if strings.Contains(haystack, needle) {
			posts = append(posts, clonePost(post))
		}
	}
	sortNewestFirst(posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *PostMemoryStore) Update(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := clonePost(post)
	updated.Ratings = append([]models.PostRating(nil), existing.Ratings...)
	s.posts[post.ID] = updated
	return nil
}

func (s *PostMemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.posts, id)
	return nil
}

func (s *PostMemoryStore) DeleteByAuthor(authorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, post := range s.posts {
		if post.AuthorID == authorID {
			delete(s.posts, id)
		}
	}
	return nil
}

func (s *PostMemoryStore) UpsertRating(postID, raterID uuid.UUID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range post.Ratings {
		if post.Ratings[i].RaterID == raterID {
			post.Ratings[i].Value = value
			return nil
		}
	}
	post.Ratings = append(post.Ratings, models.PostRating{PostID: postID, RaterID: raterID, Value: value})
	return nil
}

func (s *PostMemoryStore) DeleteRatingsByRater(raterID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		kept := post.Ratings[:0]
		for _, rating := range post.Ratings {
			if rating.RaterID != raterID {
				kept = append(kept, rating)
			}
		}
		post.Ratings = kept
	}
	return nil
}

func (s *PostMemoryStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.posts)), nil
}

func (s *PostMemoryStore) CountAnonymous() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, post := range s.posts {
		if post.Anonymous {
			count++
		}
	}
	return count, nil
}

func (s *PostMemoryStore) CountInCategory(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, post := range s.posts {
		if post.Category == name {
			count++
		}
	}
	return count, nil
}

func (s *PostMemoryStore) CategoryCounts() ([]models.CategoryCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := make(map[string]int64)
	for _, post := range s.posts {
		if post.Category != "" {
			byName[post.Category]++
		}
	}

	counts := make([]models.CategoryCount, 0, len(byName))
	for name, count := range byName {
		counts = append(counts, models.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count == counts[j].Count {
			return counts[i].Name < counts[j].Name
		}
		return counts[i].Count > counts[j].Count
	})
	return counts, nil
}
