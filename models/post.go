package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Basis is the author's stated justification for a post.
type Basis string

const (
	BasisPersonal     Basis = "My personal experience"
	BasisProfessional Basis = "My professional knowledge"
	BasisResearched   Basis = "A researched source"
	BasisOpinion      Basis = "My opinion/perspective"
	BasisOther        Basis = "Something else"
)

// Valid reports whether b is one of the allowed basis values.
func (b Basis) Valid() bool {
	switch b {
	case BasisPersonal, BasisProfessional, BasisResearched, BasisOpinion, BasisOther:
		return true
	}
	return false
}

// Post is an authored entry. AuthorName, AuthorAvgRating and AuthorPostCount
// are a snapshot of the author's stats taken when the post was created and are
// never rewritten afterwards, even as the author's live stats change.
type Post struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title           string         `json:"title" db:"title" gorm:"type:text;not null"`
	Content         string         `json:"content" db:"content" gorm:"type:text;not null"`
	Category        string         `json:"category" db:"category" gorm:"type:text;not null;index"`
	Basis           Basis          `json:"basis" db:"basis" gorm:"type:text;not null"`
	Tags            pq.StringArray `json:"tags" db:"tags" gorm:"type:text[]"`
	Anonymous       bool           `json:"anonymous" db:"anonymous" gorm:"not null;default:false"`
	AuthorID        uuid.UUID      `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	AuthorName      string         `json:"authorName" db:"author_name" gorm:"type:text;not null"`
	AuthorAvgRating float64        `json:"authorAvgRating" db:"author_avg_rating" gorm:"not null;default:0"`
	AuthorPostCount int            `json:"authorPostCount" db:"author_post_count" gorm:"not null;default:0"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`

	// Ratings are never serialized to clients; derived postRating/ratingCount
	// values are computed from them on read.
	Ratings []PostRating `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// PostRating is a single rater's 1-5 verdict on a post. The composite primary
// key guarantees at most one row per (post, rater); re-rating updates in place.
type PostRating struct {
	PostID  uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;primaryKey"`
	RaterID uuid.UUID `json:"raterId" db:"rater_id" gorm:"type:uuid;primaryKey"`
	Value   int       `json:"value" db:"value" gorm:"not null;check:value >= 1 AND value <= 5"`
}
