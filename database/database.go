package database

import (
	"gorm.io/gorm"
)

// Database bundles the stores handed to handlers and the stats engine.
type Database struct {
	userStore     UserStore
	postStore     PostStore
	categoryStore CategoryStore
}

// New initializes a Database with each repository using a shared GORM instance.
func New(db *gorm.DB) Database {
	return Database{
		userStore:     NewUserRepo(db),
		postStore:     NewPostRepo(db),
		categoryStore: NewCategoryRepo(db),
	}
}

// NewWithStores builds a Database over explicit store implementations. Tests
// use it with the memory package.
func NewWithStores(users UserStore, posts PostStore, categories CategoryStore) Database {
	return Database{
		userStore:     users,
		postStore:     posts,
		categoryStore: categories,
	}
}

func (d Database) UserStore() UserStore {
	return d.userStore
}

func (d Database) PostStore() PostStore {
	return d.postStore
}

func (d Database) CategoryStore() CategoryStore {
	return d.categoryStore
}
