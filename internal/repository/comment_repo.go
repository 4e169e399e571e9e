package repository

import (
	"context"
	"time"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/utils/pagination"

	"gorm.io/gorm"
)

// CommentRepository provides the append-only comment ledger.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new repository bound to the given DB connection.
func NewCommentRepository(database *gorm.DB) *CommentRepository {
	return &CommentRepository{db: database}
}

// Create appends a comment and reloads it with the author preloaded.
func (r *CommentRepository) Create(ctx context.Context, comment *db.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error
}

// ListForVideo returns comments for a video ordered newest-first.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
//   - Fetches limit+1 rows; the extra row signals another page exists.
//
// Example:
//
//	repo.ListForVideo(ctx, 42, nil, 20) // first 20 comments on video 42
func (r *CommentRepository) ListForVideo(
	ctx context.Context,
	videoID uint64,
	paginationToken *string,
	limit int,
) ([]db.Comment, *string, error) {
	var comments []db.Comment

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("User").
		Where("video_id = ?", videoID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.CommentID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.CommentID,
		)
	}

	if err := query.Find(&comments).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(comments) > limit {
		last := comments[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			CommentID:   last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		comments = comments[:limit]
	}

	return comments, nextToken, nil
}

// CountForVideo returns how many comments a video has.
func (r *CommentRepository) CountForVideo(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Comment{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}

// CountAll returns the total comment count across all videos.
func (r *CommentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Comment{}).Count(&count).Error
	return count, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
