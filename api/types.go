package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/unmute-world/backend/models"
	"github.com/unmute-world/backend/stats"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	userHandler     userHandler
	postHandler     postHandler
	categoryHandler categoryHandler
	adminHandler    adminHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// UserResponse is the outward user shape. The password hash, reset token and
// raw saved-post list never appear here; postCount and avgRating are the
// author's live stats, computed per request.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	Bio        string    `json:"bio"`
	IsAdmin    bool      `json:"isAdmin"`
	IsBlocked  bool      `json:"isBlocked"`
	JoinDate   time.Time `json:"joinDate"`
	PostCount  int       `json:"postCount"`
	AvgRating  float64   `json:"avgRating"`
}

// PostResponse is the outward post shape. The raw ratings collection stays
// server-side; postRating and ratingCount are derived from it on the way out,
// and anonymous posts have their author name masked.
type PostResponse struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	Category        string       `json:"category"`
	Basis           models.Basis `json:"basis"`
	Tags            []string     `json:"tags"`
	Anonymous       bool         `json:"anonymous"`
	AuthorID        uuid.UUID    `json:"authorId"`
	AuthorName      string       `json:"authorName"`
	AuthorAvgRating float64      `json:"authorAvgRating"`
	AuthorPostCount int          `json:"authorPostCount"`
	CreatedAt       time.Time    `json:"createdAt"`
	PostRating      float64      `json:"postRating"`
	RatingCount     int          `json:"ratingCount"`
}

// AuthResponse pairs a user payload with a fresh bearer token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *models.User, postCount int, avgRating float64) UserResponse {
	var resp UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		log.Error().Err(err).Msg("failed to map user to response")
	}
	resp.PostCount = postCount
	resp.AvgRating = avgRating
	return resp
}

func toPostResponse(post *models.Post) PostResponse {
	var resp PostResponse
	if err := copier.Copy(&resp, post); err != nil {
		log.Error().Err(err).Msg("failed to map post to response")
	}
	resp.PostRating, resp.RatingCount = stats.ComputePostRating(post)
	if post.Anonymous {
		resp.AuthorName = "Anonymous"
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

func toPostResponses(posts []*models.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = toPostResponse(post)
	}
	return responses
}
