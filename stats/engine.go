package stats

import (
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
)

// Engine evaluates derived stats and runs entity-removal cascades over the
// stores. It keeps no state of its own; every computation re-reads from the
// stores, which keeps concurrent requests correct without extra locking.
type Engine struct {
	users      database.UserStore
	posts      database.PostStore
	categories database.CategoryStore
}

func NewEngine(db database.Database) Engine {
	return Engine{
		users:      db.UserStore(),
		posts:      db.PostStore(),
		categories: db.CategoryStore(),
	}
}

// SubmitRating records raterID's 1-5 verdict on a post. Re-rating replaces
// the rater's previous entry without growing the rating count; authors cannot
// rate their own posts. The write is a single atomic upsert, so concurrent
// submissions from different raters are both kept.
func (e Engine) SubmitRating(postID, raterID uuid.UUID, value int) error {
	post, err := e.posts.FindByID(postID)
	if err != nil {
		return errs.NewDatabaseError("find", "post", err)
	}
	if post.AuthorID == raterID {
		return errs.NewSelfRatingError()
	}
	if value < 1 || value > 5 {
		return errs.NewValidationError("rating", "rating must be between 1 and 5")
	}

	if err := e.posts.UpsertRating(postID, raterID, value); err != nil {
		return errs.NewDatabaseError("submit", "rating", err)
	}
	return nil
}

// AuthorStats returns the author's live post count and mean-of-means average.
func (e Engine) AuthorStats(authorID uuid.UUID) (postCount int, avgRating float64, err error) {
	posts, err := e.posts.FindByAuthor(authorID)
	if err != nil {
		return 0, 0, errs.NewDatabaseError("find", "posts", err)
	}
	return len(posts), ComputeAuthorAvgRating(posts), nil
}

// SnapshotAuthorStats computes the author stats to freeze onto a post being
// created: the count and average over posts that exist before the new one.
// The frozen fields are never updated afterwards.
func (e Engine) SnapshotAuthorStats(authorID uuid.UUID) (postCount int, avgRating float64, err error) {
	return e.AuthorStats(authorID)
}

// PlatformStats assembles the admin dashboard payload. The independent counts
// run concurrently; the platform average applies the same mean-of-means rule
// as author averages, over every post with at least one rating.
func (e Engine) PlatformStats() (*models.PlatformStats, error) {
	var (
		result models.PlatformStats
		rated  []*models.Post
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		result.TotalUsers, err = e.users.Count()
		return err
	})
	g.Go(func() (err error) {
		result.TotalPosts, err = e.posts.Count()
		return err
	})
	g.Go(func() (err error) {
		result.AnonymousPosts, err = e.posts.CountAnonymous()
		return err
	})
	g.Go(func() (err error) {
		result.CategoryPopularity, err = e.posts.CategoryCounts()
		return err
	})
	g.Go(func() (err error) {
		rated, err = e.posts.FindRated()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("aggregate", "platform stats", err)
	}

	result.AvgPlatformRating = ComputeAuthorAvgRating(rated)
	if result.CategoryPopularity == nil {
		result.CategoryPopularity = []models.CategoryCount{}
	}
	return &result, nil
}

// DeleteUser removes a non-admin user and everything attributable to them:
// their authored posts, then every rating they placed on other posts, then
// the user record. The steps are individually idempotent, so a cascade that
// fails partway can be re-run and converges to the same end state.
func (e Engine) DeleteUser(userID uuid.UUID) error {
	user, err := e.users.FindByID(userID)
	if err != nil {
		return errs.NewDatabaseError("find", "user", err)
	}
	if user.IsAdmin {
		return errs.NewForbiddenError("cannot delete an admin account")
	}

	if err := e.posts.DeleteByAuthor(userID); err != nil {
		return errs.NewDatabaseError("delete", "authored posts", err)
	}
	if err := e.posts.DeleteRatingsByRater(userID); err != nil {
		return errs.NewDatabaseError("delete", "user ratings", err)
	}
	if err := e.users.Delete(userID); err != nil {
		return errs.NewDatabaseError("delete", "user", err)
	}
	return nil
}

// DeletePost removes a post, first stripping it from every user's saved set.
// Readers treat a dangling saved reference as "post no longer exists", so a
// cascade interrupted between the two steps is harmless and re-runnable.
func (e Engine) DeletePost(postID uuid.UUID) error {
	if _, err := e.posts.FindByID(postID); err != nil {
		return errs.NewDatabaseError("find", "post", err)
	}

	if err := e.users.RemoveSavedReferences(postID); err != nil {
		return errs.NewDatabaseError("delete", "saved references", err)
	}
	if err := e.posts.Delete(postID); err != nil {
		return errs.NewDatabaseError("delete", "post", err)
	}
	return nil
}

// DeleteCategory removes a category, refusing while any post references it
// by name.
func (e Engine) DeleteCategory(categoryID uuid.UUID) error {
	category, err := e.categories.FindByID(categoryID)
	if err != nil {
		return errs.NewDatabaseError("find", "category", err)
	}

	inUse, err := e.posts.CountInCategory(category.Name)
	if err != nil {
		return errs.NewDatabaseError("count", "posts in category", err)
	}
	if inUse > 0 {
		return errs.NewConflictError("cannot delete a category with existing posts")
	}

	if err := e.categories.Delete(categoryID); err != nil {
		return errs.NewDatabaseError("delete", "category", err)
	}
	return nil
}
