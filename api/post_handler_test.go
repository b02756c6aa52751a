package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmute-world/backend/models"
)

func TestCreatePost(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPost, "/api/posts", "", map[string]any{
			"title": "unauthenticated",
		})
		requireStatus(t, recorder, http.StatusUnauthorized)
	})

	t.Run("publishes with a frozen author snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		author, token := env.createUser(t, "alice", false)
		rater, _ := env.createUser(t, "bob", false)

		first := env.createPost(t, author, "first", false)
		require.NoError(t, env.engine.SubmitRating(first.ID, rater.ID, 5))

		recorder := env.do(t, http.MethodPost, "/api/posts", token, map[string]any{
			"title":    "second",
			"content":  "more content",
			"category": "General",
			"basis":    string(models.BasisPersonal),
			"tags":     []string{"go", "testing"},
		})
		requireStatus(t, recorder, http.StatusCreated)

		response := decodeBody[PostResponse](t, recorder)
		assert.Equal(t, "second", response.Title)
		assert.Equal(t, author.Name, response.AuthorName)
		// Snapshot covers only the post that existed before this one.
		assert.Equal(t, 1, response.AuthorPostCount)
		assert.InDelta(t, 5.0, response.AuthorAvgRating, 1e-9)
		assert.Equal(t, []string{"go", "testing"}, response.Tags)
	})

	t.Run("rejects an unknown basis", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/posts", token, map[string]any{
			"title":    "bad basis",
			"content":  "content",
			"category": "General",
			"basis":    "Hearsay",
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/posts", token, map[string]any{
			"content":  "content",
			"category": "General",
			"basis":    string(models.BasisOpinion),
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})
}

func TestListPosts(t *testing.T) {
	t.Run("filters by category", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		env.createPost(t, author, "in general", false)

		health := env.createPost(t, author, "on health", false)
		health.Category = "Health"
		require.NoError(t, env.posts.Update(health))

		recorder := env.do(t, http.MethodGet, "/api/posts?category=Health", "", nil)
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[[]PostResponse](t, recorder)
		require.Len(t, response, 1)
		assert.Equal(t, "on health", response[0].Title)
	})

	t.Run("search by query", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		env.createPost(t, author, "gardening tips", false)
		env.createPost(t, author, "car repair", false)

		recorder := env.do(t, http.MethodGet, "/api/posts?q=gardening", "", nil)
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[[]PostResponse](t, recorder)
		require.Len(t, response, 1)
		assert.Equal(t, "gardening tips", response[0].Title)
	})

	t.Run("anonymous posts are masked in the feed", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		env.createPost(t, author, "no name attached", true)

		recorder := env.do(t, http.MethodGet, "/api/posts", "", nil)
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[[]PostResponse](t, recorder)
		require.Len(t, response, 1)
		assert.Equal(t, "Anonymous", response[0].AuthorName)
	})
}

func TestGetPost(t *testing.T) {
	t.Run("returns derived rating fields", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		rater, _ := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "rated", false)
		require.NoError(t, env.engine.SubmitRating(post.ID, rater.ID, 4))

		recorder := env.do(t, http.MethodGet, "/api/posts/"+post.ID.String(), "", nil)
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[PostResponse](t, recorder)
		assert.InDelta(t, 4.0, response.PostRating, 1e-9)
		assert.Equal(t, 1, response.RatingCount)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodGet, "/api/posts/not-a-uuid", "", nil)
		requireStatus(t, recorder, http.StatusNotFound)
	})
}

func TestRatePost(t *testing.T) {
	t.Run("submits a rating", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		_, raterToken := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "rate me", false)

		recorder := env.do(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/rate", raterToken, map[string]int{
			"rating": 5,
		})
		requireStatus(t, recorder, http.StatusCreated)
	})

	t.Run("author cannot rate their own post", func(t *testing.T) {
		env := newTestEnv(t)
		author, token := env.createUser(t, "alice", false)
		post := env.createPost(t, author, "mine", false)

		recorder := env.do(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/rate", token, map[string]int{
			"rating": 5,
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		_, raterToken := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "rate me", false)

		recorder := env.do(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/rate", raterToken, map[string]int{
			"rating": 6,
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})
}

func TestSavedPosts(t *testing.T) {
	t.Run("save, check and unsave", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		_, token := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "bookmark me", false)
		path := "/api/posts/" + post.ID.String()

		recorder := env.do(t, http.MethodPost, path+"/save", token, nil)
		requireStatus(t, recorder, http.StatusOK)

		check := env.do(t, http.MethodGet, path+"/issaved", token, nil)
		requireStatus(t, check, http.StatusOK)
		assert.True(t, decodeBody[map[string]bool](t, check)["isSaved"])

		saved := env.do(t, http.MethodGet, "/api/users/me/saved", token, nil)
		requireStatus(t, saved, http.StatusOK)
		require.Len(t, decodeBody[[]PostResponse](t, saved), 1)

		unsave := env.do(t, http.MethodDelete, path+"/save", token, nil)
		requireStatus(t, unsave, http.StatusOK)

		check = env.do(t, http.MethodGet, path+"/issaved", token, nil)
		requireStatus(t, check, http.StatusOK)
		assert.False(t, decodeBody[map[string]bool](t, check)["isSaved"])
	})

	t.Run("saving twice is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		_, token := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "bookmark me", false)
		path := "/api/posts/" + post.ID.String() + "/save"

		requireStatus(t, env.do(t, http.MethodPost, path, token, nil), http.StatusOK)
		requireStatus(t, env.do(t, http.MethodPost, path, token, nil), http.StatusConflict)
	})

	t.Run("unsaving an unsaved post succeeds", func(t *testing.T) {
		env := newTestEnv(t)
		author, _ := env.createUser(t, "alice", false)
		_, token := env.createUser(t, "bob", false)
		post := env.createPost(t, author, "never saved", false)

		recorder := env.do(t, http.MethodDelete, "/api/posts/"+post.ID.String()+"/save", token, nil)
		requireStatus(t, recorder, http.StatusOK)
	})

	t.Run("saving a missing post is not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.createUser(t, "bob", false)

		recorder := env.do(t, http.MethodPost, "/api/posts/6e7f8a9b-0c1d-4e2f-8a3b-4c5d6e7f8a9b/save", token, nil)
		requireStatus(t, recorder, http.StatusNotFound)
	})
}
