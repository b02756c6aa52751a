package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultProfilePic is assigned when a user signs up without a picture.
	DefaultProfilePic = "https://picsum.photos/seed/default-avatar/200"

	// MaxBioLength bounds the profile bio.
	MaxBioLength = 300

	// ResetTokenTTL is how long a password-reset token stays valid.
	ResetTokenTTL = 15 * time.Minute
)

// User represents a registered account. The password hash and reset-token
// fields never leave the server; API responses are built from api DTOs.
type User struct {
	ID                  uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name                string     `json:"name" db:"name" gorm:"type:text;not null"`
	Email               string     `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	ProfilePic          string     `json:"profilePic" db:"profile_pic" gorm:"type:text;not null"`
	Bio                 string     `json:"bio" db:"bio" gorm:"type:varchar(300);not null;default:''"`
	IsAdmin             bool       `json:"isAdmin" db:"is_admin" gorm:"not null;default:false"`
	IsBlocked           bool       `json:"isBlocked" db:"is_blocked" gorm:"not null;default:false"`
	JoinDate            time.Time  `json:"joinDate" db:"join_date" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	ResetPasswordToken  *string    `json:"-" db:"reset_password_token" gorm:"type:text"`
	ResetPasswordExpire *time.Time `json:"-" db:"reset_password_expire" gorm:"type:timestamptz"`
}

// SavedPost links a user to a post they bookmarked. The composite primary key
// keeps the saved set free of duplicates.
type SavedPost struct {
	UserID  uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;primaryKey"`
	PostID  uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;primaryKey"`
	SavedAt time.Time `json:"savedAt" db:"saved_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// GenerateResetToken creates a fresh password-reset token, stores its SHA-256
// digest on the user, and returns the plaintext token to be emailed. Only one
// token is active at a time; calling this again replaces the previous one.
func (u *User) GenerateResetToken(now time.Time) (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	hashed := HashResetToken(token)
	expire := now.Add(ResetTokenTTL)
	u.ResetPasswordToken = &hashed
	u.ResetPasswordExpire = &expire
	return token, nil
}

// ClearResetToken invalidates any outstanding reset token.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
}

// HashResetToken returns the hex SHA-256 digest stored at rest for a token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
