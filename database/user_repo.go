package database

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unmute-world/backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// Create inserts a new user. Emails are stored lowercase so uniqueness is
// case-insensitive.
func (r *UserRepo) Create(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.Create(user).Error
}

func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetToken looks up the user holding an unexpired reset token digest.
func (r *UserRepo) FindByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns every user, newest join first.
func (r *UserRepo) FindAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("join_date DESC").Find(&users).Error
	return users, err
}

func (r *UserRepo) Update(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.Save(user).Error
}

func (r *UserRepo) Delete(id uuid.UUID) error {
	if err := r.db.Where("user_id = ?", id).Delete(&models.SavedPost{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}

func (r *UserRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// SavePost adds a post to the user's saved set. The ON CONFLICT clause keeps
// the operation idempotent; duplicate detection happens at the handler level.
func (r *UserRepo) SavePost(userID, postID uuid.UUID) error {
	saved := models.SavedPost{UserID: userID, PostID: postID, SavedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
}

func (r *UserRepo) UnsavePost(userID, postID uuid.UUID) error {
	return r.db.
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}

func (r *UserRepo) IsPostSaved(userID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// SavedPostIDs returns the user's saved post ids, most recently saved first.
func (r *UserRepo) SavedPostIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.SavedPost{}).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *UserRepo) RemoveSavedReferences(postID uuid.UUID) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.SavedPost{}).Error
}
