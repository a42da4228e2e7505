package repository

import (
	"context"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// Every listing is ordered created_at DESC, id DESC.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)

	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]models.Post, error)
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	PostsByGroup(ctx context.Context, groupID uint, offset, limit int) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	PostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Post, error)
	CountFollowedBy(ctx context.Context, userID uint) (int64, error)
	PostsFollowedBy(ctx context.Context, userID uint, offset, limit int) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Model(post).
		Select("Text", "GroupID", "Image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes a post and its comments. It does not touch any page cache.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, mapError(err, "Post", id)
	}
	if err := r.fillCommentCounts(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}))
}

func (r *postRepository) ListAll(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx), offset, limit)
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID))
}

func (r *postRepository) PostsByGroup(ctx context.Context, groupID uint, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("posts.group_id = ?", groupID), offset, limit)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID))
}

func (r *postRepository) PostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("posts.author_id = ?", authorID), offset, limit)
}

// followedAuthors selects the ids of every author userID follows.
func (r *postRepository) followedAuthors(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)
}

func (r *postRepository) CountFollowedBy(ctx context.Context, userID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id IN (?)", r.followedAuthors(ctx, userID)))
}

func (r *postRepository) PostsFollowedBy(ctx context.Context, userID uint, offset, limit int) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Where("posts.author_id IN (?)", r.followedAuthors(ctx, userID))
	return r.list(ctx, q, offset, limit)
}

func (r *postRepository) count(q *gorm.DB) (int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

func (r *postRepository) list(ctx context.Context, q *gorm.DB, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := q.Preload("Author").
		Preload("Group").
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ptrs := make([]*models.Post, len(posts))
	for i := range posts {
		ptrs[i] = &posts[i]
	}
	if err := r.fillCommentCounts(ctx, ptrs); err != nil {
		return nil, err
	}
	return posts, nil
}

// fillCommentCounts loads comment totals for a page of posts in one query.
func (r *postRepository) fillCommentCounts(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	countMap := make(map[uint]int, len(results))
	for _, res := range results {
		countMap[res.PostID] = res.Count
	}
	for _, p := range posts {
		p.CommentCount = countMap[p.ID]
	}
	return nil
}
