package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/unmute-world/backend/models"
)

// PostFilter narrows FindAll queries. Zero values mean "no constraint".
type PostFilter struct {
	Category string
	Tag      string
	Sort     string // "oldest" for ascending creation time; anything else is newest-first
	Limit    int
}

// UserStore is the persistence contract for user records and saved-post sets.
// Implementations signal missing records with gorm.ErrRecordNotFound.
type UserStore interface {
	Create(user *models.User) error
	FindByID(id uuid.UUID) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByResetToken(tokenHash string, now time.Time) (*models.User, error)
	FindAll() ([]*models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	Count() (int64, error)

	SavePost(userID, postID uuid.UUID) error
	UnsavePost(userID, postID uuid.UUID) error
	IsPostSaved(userID, postID uuid.UUID) (bool, error)
	SavedPostIDs(userID uuid.UUID) ([]uuid.UUID, error)
	// RemoveSavedReferences strips postID from every user's saved set. Part of
	// the post-deletion cascade; safe to call repeatedly.
	RemoveSavedReferences(postID uuid.UUID) error
}

// PostStore is the persistence contract for posts and their embedded ratings.
type PostStore interface {
	Create(post *models.Post) error
	FindByID(id uuid.UUID) (*models.Post, error)
	FindAll(filter PostFilter) ([]*models.Post, error)
	FindByAuthor(authorID uuid.UUID) ([]*models.Post, error)
	FindByIDs(ids []uuid.UUID) ([]*models.Post, error)
	// FindRated returns only posts carrying at least one rating.
	FindRated() ([]*models.Post, error)
	// Search runs full-text search over title, content, tags and author name,
	// most relevant first.
	Search(query string, limit int) ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id uuid.UUID) error
	DeleteByAuthor(authorID uuid.UUID) error

	// UpsertRating records or replaces a single rater's entry as one atomic
	// statement, so concurrent submissions from different raters never clobber
	// each other.
	UpsertRating(postID, raterID uuid.UUID, value int) error
	// DeleteRatingsByRater removes every rating the given user placed, on any
	// post. Part of the user-deletion cascade; safe to call repeatedly.
	DeleteRatingsByRater(raterID uuid.UUID) error

	Count() (int64, error)
	CountAnonymous() (int64, error)
	CountInCategory(name string) (int64, error)
	CategoryCounts() ([]models.CategoryCount, error)
}

// CategoryStore is the persistence contract for categories.
type CategoryStore interface {
	Create(category *models.Category) error
	FindByID(id uuid.UUID) (*models.Category, error)
	FindByName(name string) (*models.Category, error)
	FindAll() ([]*models.Category, error)
	Delete(id uuid.UUID) error
}
