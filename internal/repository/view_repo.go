package repository

import (
	"context"
	"errors"

	"github.com/korcze/korczetube/internal/db"

	"gorm.io/gorm"
)

// ViewRepository decides whether a watch event increments the public view
// counter. Authenticated viewers are deduplicated through VideoView rows;
// anonymous viewers have no identity key strong enough to deduplicate, so
// their views increment unconditionally.
type ViewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates a new repository bound to the given DB connection.
func NewViewRepository(database *gorm.DB) *ViewRepository {
	return &ViewRepository{db: database}
}

// RegisterAuthenticated counts a watch event for a logged-in user.
//
// Behavior:
//   - Inserts the (video, user) VideoView row and bumps the video counter by
//     exactly 1, in one transaction.
//   - The insert doubles as the existence check: a duplicate insert means
//     the user was already counted, so the counter is left alone and the
//     call reports countedNow=false. Two concurrent first views race on the
//     composite PK and only the winner increments.
//
// Example:
//
//	repo.RegisterAuthenticated(ctx, 7, 42, "203.0.113.9") // -> true on first view
func (r *ViewRepository) RegisterAuthenticated(
	ctx context.Context,
	videoID, userID uint64,
	ip string,
) (bool, error) {
	counted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view := db.VideoView{VideoID: videoID, UserID: userID, IP: ip}
		if err := tx.Create(&view).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil // already counted for this video
			}
			return err
		}
		if err := tx.Model(&db.Video{}).
			Where("id = ?", videoID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		counted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return counted, nil
}

// RegisterAnonymous bumps the counter without any dedup record. Accepted
// inaccuracy for unauthenticated traffic, not a race bug.
func (r *ViewRepository) RegisterAnonymous(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Model(&db.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// CountForVideo returns the number of deduplicated (authenticated) view
// records for a video. Always ≤ the video's public counter.
func (r *ViewRepository) CountForVideo(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.VideoView{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}
