package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unmute-world/backend/models"
)

// searchVector is the expression behind full-text search. It mirrors the
// fields a reader would expect to match: title, body, tags and author name.
const searchVector = "to_tsvector('english', title || ' ' || content || ' ' || author_name || ' ' || array_to_string(tags, ' '))"

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

func (r *PostRepo) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Ratings").First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepo) FindAll(filter PostFilter) ([]*models.Post, error) {
	query := r.db.Preload("Ratings")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}
	if filter.Sort == "oldest" {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var posts []*models.Post
	err := query.Find(&posts).Error
	return posts, err
}

func (r *PostRepo) FindByAuthor(authorID uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Ratings").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepo) FindByIDs(ids []uuid.UUID) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.db.Preload("Ratings").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepo) FindRated() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Ratings").
		Where("EXISTS (SELECT 1 FROM post_ratings WHERE post_ratings.post_id = posts.id)").
		Find(&posts).Error
	return posts, err
}

// Search runs Postgres full-text search, most relevant first.
func (r *PostRepo) Search(query string, limit int) ([]*models.Post, error) {
	q := r.db.Preload("Ratings").
		Where(searchVector+" @@ plainto_tsquery('english', ?)", query).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "ts_rank(" + searchVector + ", plainto_tsquery('english', ?)) DESC",
				Vars:               []interface{}{query},
				WithoutParentheses: true,
			},
		})
	if limit > 0 {
		q = q.Limit(limit)
	}

	var posts []*models.Post
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Omit("Ratings").Save(post).Error
}

func (r *PostRepo) Delete(id uuid.UUID) error {
	if err := r.db.Where("post_id = ?", id).Delete(&models.PostRating{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

func (r *PostRepo) DeleteByAuthor(authorID uuid.UUID) error {
	if err := r.db.
		Where("post_id IN (SELECT id FROM posts WHERE author_id = ?)", authorID).
		Delete(&models.PostRating{}).Error; err != nil {
		return err
	}
	return r.db.Where("author_id = ?", authorID).Delete(&models.Post{}).Error
}

// UpsertRating records or replaces one rater's entry in a single statement.
// The composite (post_id, rater_id) key makes the conflict target exact, so
// two raters writing concurrently both land while a rater re-rating replaces
// their own row.
func (r *PostRepo) UpsertRating(postID, raterID uuid.UUID, value int) error {
	rating := models.PostRating{PostID: postID, RaterID: raterID, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "rater_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&rating).Error
}

func (r *PostRepo) DeleteRatingsByRater(raterID uuid.UUID) error {
	return r.db.Where("rater_id = ?", raterID).Delete(&models.PostRating{}).Error
}

func (r *PostRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepo) CountAnonymous() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("anonymous = true").Count(&count).Error
	return count, err
}

func (r *PostRepo) CountInCategory(name string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("category = ?", name).Count(&count).Error
	return count, err
}

func (r *PostRepo) CategoryCounts() ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	err := r.db.Model(&models.Post{}).
		Select("category AS name, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
