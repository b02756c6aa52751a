package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmute-world/backend/models"
)

func TestAdminAccess(t *testing.T) {
	t.Run("non-admin is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodGet, "/api/admin/stats", token, nil)
		requireStatus(t, recorder, http.StatusForbidden)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodGet, "/api/admin/stats", "", nil)
		requireStatus(t, recorder, http.StatusUnauthorized)
	})
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", true)
	author, _ := env.createUser(t, "alice", false)
	rater, _ := env.createUser(t, "bob", false)

	post := env.createPost(t, author, "rated", false)
	env.createPost(t, author, "hidden", true)
	require.NoError(t, env.engine.SubmitRating(post.ID, rater.ID, 4))

	recorder := env.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	requireStatus(t, recorder, http.StatusOK)

	response := decodeBody[models.PlatformStats](t, recorder)
	assert.Equal(t, int64(3), response.TotalUsers)
	assert.Equal(t, int64(2), response.TotalPosts)
	assert.Equal(t, int64(1), response.AnonymousPosts)
	assert.InDelta(t, 4.0, response.AvgPlatformRating, 1e-9)
	require.Len(t, response.CategoryPopularity, 1)
	assert.Equal(t, "General", response.CategoryPopularity[0].Name)
}

func TestAdminToggleBlock(t *testing.T) {
	t.Run("blocks and unblocks", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)
		user, userToken := env.createUser(t, "alice", false)
		path := "/api/admin/users/" + user.ID.String() + "/toggle-block"

		recorder := env.do(t, http.MethodPost, path, adminToken, nil)
		requireStatus(t, recorder, http.StatusOK)
		assert.True(t, decodeBody[map[string]any](t, recorder)["isBlocked"].(bool))

		// A blocked user's token stops working.
		me := env.do(t, http.MethodGet, "/api/auth/me", userToken, nil)
		requireStatus(t, me, http.StatusForbidden)

		recorder = env.do(t, http.MethodPost, path, adminToken, nil)
		requireStatus(t, recorder, http.StatusOK)
		assert.False(t, decodeBody[map[string]any](t, recorder)["isBlocked"].(bool))
	})

	t.Run("admin accounts can be blocked too", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)
		other, _ := env.createUser(t, "root", true)

		recorder := env.do(t, http.MethodPost, "/api/admin/users/"+other.ID.String()+"/toggle-block", adminToken, nil)
		requireStatus(t, recorder, http.StatusOK)
		assert.True(t, decodeBody[map[string]any](t, recorder)["isBlocked"].(bool))

		stored, err := env.users.FindByID(other.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsBlocked)
		assert.True(t, stored.IsAdmin, "blocking does not strip the admin flag")
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Run("removes the user and their footprint", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)
		target, _ := env.createUser(t, "alice", false)
		other, _ := env.createUser(t, "bob", false)

		targetPost := env.createPost(t, target, "target post", false)
		otherPost := env.createPost(t, other, "other post", false)
		require.NoError(t, env.engine.SubmitRating(otherPost.ID, target.ID, 2))

		recorder := env.do(t, http.MethodDelete, "/api/admin/users/"+target.ID.String(), adminToken, nil)
		requireStatus(t, recorder, http.StatusOK)

		_, err := env.users.FindByID(target.ID)
		assert.Error(t, err)
		_, err = env.posts.FindByID(targetPost.ID)
		assert.Error(t, err)

		survivor, err := env.posts.FindByID(otherPost.ID)
		require.NoError(t, err)
		assert.Empty(t, survivor.Ratings)
	})

	t.Run("admin accounts are protected", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)
		other, _ := env.createUser(t, "root", true)

		recorder := env.do(t, http.MethodDelete, "/api/admin/users/"+other.ID.String(), adminToken, nil)
		requireStatus(t, recorder, http.StatusForbidden)
	})
}

func TestAdminUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", true)
	author, _ := env.createUser(t, "alice", false)
	post := env.createPost(t, author, "original title", false)

	recorder := env.do(t, http.MethodPut, "/api/admin/posts/"+post.ID.String(), adminToken, map[string]any{
		"title": "moderated title",
	})
	requireStatus(t, recorder, http.StatusOK)

	response := decodeBody[PostResponse](t, recorder)
	assert.Equal(t, "moderated title", response.Title)
	assert.Equal(t, "some content", response.Content)

	t.Run("rejects an unknown basis", func(t *testing.T) {
		recorder := env.do(t, http.MethodPut, "/api/admin/posts/"+post.ID.String(), adminToken, map[string]any{
			"basis": "Hearsay",
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})
}

func TestAdminDeletePost(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", true)
	author, _ := env.createUser(t, "alice", false)
	saver, saverToken := env.createUser(t, "bob", false)
	post := env.createPost(t, author, "short-lived", false)

	require.NoError(t, env.users.SavePost(saver.ID, post.ID))

	recorder := env.do(t, http.MethodDelete, "/api/admin/posts/"+post.ID.String(), adminToken, nil)
	requireStatus(t, recorder, http.StatusOK)

	_, err := env.posts.FindByID(post.ID)
	assert.Error(t, err)

	saved := env.do(t, http.MethodGet, "/api/users/me/saved", saverToken, nil)
	requireStatus(t, saved, http.StatusOK)
	assert.Empty(t, decodeBody[[]PostResponse](t, saved))
}

func TestCategories(t *testing.T) {
	t.Run("admin creates, public lists", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)

		recorder := env.do(t, http.MethodPost, "/api/categories", adminToken, map[string]string{
			"name":        "Health",
			"description": "Body and mind",
		})
		requireStatus(t, recorder, http.StatusCreated)

		created := decodeBody[models.Category](t, recorder)
		assert.Equal(t, models.DefaultCategoryColor, created.Color)

		list := env.do(t, http.MethodGet, "/api/categories", "", nil)
		requireStatus(t, list, http.StatusOK)
		require.Len(t, decodeBody[[]models.Category](t, list), 1)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)

		first := env.do(t, http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "Health"})
		requireStatus(t, first, http.StatusCreated)

		second := env.do(t, http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "Health"})
		requireStatus(t, second, http.StatusConflict)
	})

	t.Run("non-admin cannot create", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/categories", token, map[string]string{"name": "Health"})
		requireStatus(t, recorder, http.StatusForbidden)
	})

	t.Run("delete refuses while posts reference it", func(t *testing.T) {
		env := newTestEnv(t)
		_, adminToken := env.createUser(t, "admin", true)
		author, _ := env.createUser(t, "alice", false)

		category := &models.Category{Name: "General"}
		require.NoError(t, env.categories.Create(category))
		env.createPost(t, author, "in general", false)

		recorder := env.do(t, http.MethodDelete, "/api/admin/categories/"+category.ID.String(), adminToken, nil)
		requireStatus(t, recorder, http.StatusConflict)

		empty := &models.Category{Name: "Empty"}
		require.NoError(t, env.categories.Create(empty))

		recorder = env.do(t, http.MethodDelete, "/api/admin/categories/"+empty.ID.String(), adminToken, nil)
		requireStatus(t, recorder, http.StatusOK)
	})
}
