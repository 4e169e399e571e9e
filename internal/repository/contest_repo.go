package repository

import (
	"context"
	"errors"

	"github.com/korcze/korczetube/internal/db"

	"gorm.io/gorm"
)

// ContestRepository stores password-gated contest entries. Rows are written
// at most once per (user, video) and never mutated by users.
type ContestRepository struct {
	db *gorm.DB
}

// NewContestRepository creates a new repository bound to the given DB connection.
func NewContestRepository(database *gorm.DB) *ContestRepository {
	return &ContestRepository{db: database}
}

// Create inserts a contest entry. A duplicate (user, video) pair surfaces as
// gorm.ErrDuplicatedKey; the gate translates that into the same Conflict a
// sequential duplicate check produces.
func (r *ContestRepository) Create(ctx context.Context, entry *db.ContestEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Exists reports whether the user already entered the contest for a video.
func (r *ContestRepository) Exists(ctx context.Context, userID, videoID uint64) (bool, error) {
	var entry db.ContestEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForVideo returns all entries for a video with entrant identity loaded,
// oldest first. Callers gate this behind a privilege check; entrant
// identities must never reach non-privileged viewers.
func (r *ContestRepository) ListForVideo(ctx context.Context, videoID uint64) ([]db.ContestEntry, error) {
	var entries []db.ContestEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("video_id = ?", videoID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
