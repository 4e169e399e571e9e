package repository

import (
	"context"
	"errors"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/utils/slug"

	"gorm.io/gorm"
)

// VideoRepository provides data access methods for the Video aggregate.
type VideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new repository bound to the given DB connection.
func NewVideoRepository(database *gorm.DB) *VideoRepository {
	return &VideoRepository{db: database}
}

// Create inserts a video.
//
// Behavior:
//   - A slug collision (duplicate key on the unique slug index) is retried
//     once with a random suffix; a second collision surfaces as
//     gorm.ErrDuplicatedKey for the caller to translate into a Conflict.
func (r *VideoRepository) Create(ctx context.Context, video *db.Video) error {
	err := r.db.WithContext(ctx).Create(video).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		video.Slug = slug.Disambiguate(video.Slug)
		err = r.db.WithContext(ctx).Create(video).Error
	}
	return err
}

// FindBySlug loads a video by its slug with the uploader preloaded.
func (r *VideoRepository) FindBySlug(ctx context.Context, s string) (*db.Video, error) {
	var video db.Video
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("slug = ?", s).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// FindByID loads a video by primary key.
func (r *VideoRepository) FindByID(ctx context.Context, id uint64) (*db.Video, error) {
	var video db.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// List returns videos newest-first with uploader preloaded.
// Non-public videos are included only when includeHidden is set.
func (r *VideoRepository) List(ctx context.Context, includeHidden bool) ([]db.Video, error) {
	var videos []db.Video
	query := r.db.WithContext(ctx).
		Preload("Uploader").
		Order("created_at DESC")
	if !includeHidden {
		query = query.Where("is_public = ?", true)
	}
	err := query.Find(&videos).Error
	return videos, err
}

// Delete removes a video and all dependent engagement rows in one
// transaction (the cascade from the data model).
func (r *VideoRepository) Delete(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&db.Video{}, videoID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, model := range []interface{}{&db.Reaction{}, &db.VideoView{}, &db.ContestEntry{}, &db.Comment{}} {
			if err := tx.Where("video_id = ?", videoID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the total number of videos.
func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Video{}).Count(&count).Error
	return count, err
}

// SumViews returns the sum of all public view counters.
func (r *VideoRepository) SumViews(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&db.Video{}).
		Select("SUM(views)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// DashboardRow is one video plus its engagement counts for the admin
// dashboard listing.
type DashboardRow struct {
	Video         db.Video
	LikesCount    int64
	CommentsCount int64
	ViewRecords   int64
}

// DashboardRows returns every video newest-first with per-video reaction,
// comment and deduplicated-view counts.
func (r *VideoRepository) DashboardRows(ctx context.Context) ([]DashboardRow, error) {
	var videos []db.Video
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(videos))
	for _, v := range videos {
		row := DashboardRow{Video: v}
		if err := r.db.WithContext(ctx).Model(&db.Reaction{}).
			Where("video_id = ?", v.ID).Count(&row.LikesCount).Error; err != nil {
			return nil, err
		}
		if err := r.db.WithContext(ctx).Model(&db.Comment{}).
			Where("video_id = ?", v.ID).Count(&row.CommentsCount).Error; err != nil {
			return nil, err
		}
		if err := r.db.WithContext(ctx).Model(&db.VideoView{}).
			Where("video_id = ?", v.ID).Count(&row.ViewRecords).Error; err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
