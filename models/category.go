package models

import "github.com/google/uuid"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#808080"

// Category groups posts by name. Posts reference categories by name, not id.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	Color       string    `json:"color" db:"color" gorm:"type:text;not null"`
}
