// Package stats computes every derived numeric fact on the platform: per-post
// ratings, author reputation, and the admin dashboard rollups. It also owns
// the cascade rules that keep the record base coherent when users, posts and
// categories are removed.
//
// Author and platform averages are a mean of per-post means: each rated post
// contributes its own average once, regardless of how many ratings it carries.
// A flat average over all individual rating values would weight heavily-rated
// posts more and produce different numbers.
//
// The author stats denormalized onto a post (authorName, authorAvgRating,
// authorPostCount) are captured once at creation time and never rewritten, so
// they drift from the author's live stats as later activity happens. That
// staleness is a documented quirk of the platform, not something to correct
// here.
package stats

import (
	"github.com/unmute-world/backend/models"
)

// ComputePostRating returns the arithmetic mean of a post's rating values and
// the number of ratings. A post with no ratings rates 0. The result does not
// depend on the order of the ratings collection.
func ComputePostRating(post *models.Post) (float64, int) {
	if len(post.Ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, rating := range post.Ratings {
		sum += rating.Value
	}
	return float64(sum) / float64(len(post.Ratings)), len(post.Ratings)
}

// ComputeAuthorAvgRating averages the per-post mean ratings of the given
// posts. Posts with zero ratings are excluded from both the sum and the
// divisor, so an author with one 5-star post and one unrated post averages
// 5.0. Returns 0 when no post has a rating.
func ComputeAuthorAvgRating(posts []*models.Post) float64 {
	var total float64
	rated := 0
	for _, post := range posts {
		mean, count := ComputePostRating(post)
		if count > 0 {
			total += mean
			rated++
		}
	}
	if rated == 0 {
		return 0
	}
	return total / float64(rated)
}
