package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/database/memory"
	"github.com/unmute-world/backend/models"
	"github.com/unmute-world/backend/stats"
)

const testJWTSecret = "test-secret"

// fakeEmailSender records sent mail and can be told to fail.
type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	subject    string
	html       string
	recipients []string
}

func (f *fakeEmailSender) Send(subject, html string, recipients []string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{subject, html, recipients})
	return nil
}

type testEnv struct {
	users      *memory.UserMemoryStore
	posts      *memory.PostMemoryStore
	categories *memory.CategoryMemoryStore
	engine     stats.Engine
	email      *fakeEmailSender
	router     *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserMemoryStore()
	posts := memory.NewPostMemoryStore()
	categories := memory.NewCategoryMemoryStore()
	db := database.NewWithStores(users, posts, categories)
	engine := stats.NewEngine(db)
	email := &fakeEmailSender{}

	router := newRouter(db, engine, email, withConfig(map[string]string{
		"JWT_SECRET":       testJWTSecret,
		"ACCEPTED_ORIGINS": "*",
	}))

	return &testEnv{
		users:      users,
		posts:      posts,
		categories: categories,
		engine:     engine,
		email:      email,
		router:     router,
	}
}

// do issues a request against the in-memory router. A non-empty token is sent
// as a bearer credential; a non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	return result
}

// createUser inserts a user directly into the store and returns it with a
// valid bearer token.
func (e *testEnv) createUser(t *testing.T, name string, admin bool) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Name:       name,
		Email:      fmt.Sprintf("%s@example.com", name),
		ProfilePic: models.DefaultProfilePic,
		IsAdmin:    admin,
		JoinDate:   time.Now(),
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, e.users.Create(user))

	token, err := generateToken(user.ID, testJWTSecret)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) createPost(t *testing.T, author *models.User, title string, anonymous bool) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:      title,
		Content:    "some content",
		Category:   "General",
		Basis:      models.BasisOpinion,
		Anonymous:  anonymous,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	require.NoError(t, e.posts.Create(post))
	return post
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, recorder.Code, "unexpected status, body: %s", recorder.Body.String())
}
