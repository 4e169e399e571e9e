package repository

import (
	"context"
	"errors"

	"github.com/korcze/korczetube/internal/db"

	"gorm.io/gorm"
)

// Toggle outcomes reported to the caller.
const (
	StatusCreated = "created"
	StatusUpdated = "updated"
	StatusRemoved = "removed"
)

// ReactionRepository provides data access methods for the Reaction model.
// It owns the 3-state toggle machine per (user, video):
//
//	NONE    --set(kind)-->  kind     (created)
//	LIKE    --set(LIKE)-->  NONE     (removed)
//	DISLIKE --set(DISLIKE)--> NONE   (removed)
//	LIKE    --set(DISLIKE)--> DISLIKE (updated)
//	DISLIKE --set(LIKE)-->  LIKE     (updated)
type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new repository bound to the given DB connection.
func NewReactionRepository(database *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: database}
}

// Toggle applies one step of the reaction state machine for (user, video).
//
// Behavior:
//   - No existing row → insert, StatusCreated.
//   - Existing row with the same kind → delete, StatusRemoved.
//   - Existing row with the other kind → update, StatusUpdated.
//   - The read-then-write runs in one transaction; a concurrent duplicate
//     insert loses on the composite PK and bubbles gorm.ErrDuplicatedKey.
//
// Example:
//
//	repo.Toggle(ctx, 1, 2, db.ReactionLike) // user 1 likes video 2
func (r *ReactionRepository) Toggle(
	ctx context.Context,
	userID, videoID uint64,
	kind string,
) (string, error) {
	var status string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Reaction
		err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := db.Reaction{UserID: userID, VideoID: videoID, Kind: kind}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
			status = StatusCreated

		case err != nil:
			return err

		case existing.Kind == kind:
			// toggle off on repeat
			if err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).
				Delete(&db.Reaction{}).Error; err != nil {
				return err
			}
			status = StatusRemoved

		default:
			if err := tx.Model(&db.Reaction{}).
				Where("user_id = ? AND video_id = ?", userID, videoID).
				Update("kind", kind).Error; err != nil {
				return err
			}
			status = StatusUpdated
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// Counts returns the like and dislike totals for a video, computed over the
// authoritative Reaction rows.
func (r *ReactionRepository) Counts(ctx context.Context, videoID uint64) (likes, dislikes int64, err error) {
	err = r.db.WithContext(ctx).Model(&db.Reaction{}).
		Where("video_id = ? AND kind = ?", videoID, db.ReactionLike).
		Count(&likes).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&db.Reaction{}).
		Where("video_id = ? AND kind = ?", videoID, db.ReactionDislike).
		Count(&dislikes).Error
	if err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

// StatusFor returns the user's current reaction kind on a video, or "" when
// no row exists.
func (r *ReactionRepository) StatusFor(ctx context.Context, userID, videoID uint64) (string, error) {
	var reaction db.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return reaction.Kind, nil
}

// CountByKind returns the global number of reactions with the given kind.
// Used by the admin stats aggregate.
func (r *ReactionRepository) CountByKind(ctx context.Context, kind string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Reaction{}).
		Where("kind = ?", kind).
		Count(&count).Error
	return count, err
}
