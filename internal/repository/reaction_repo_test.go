package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestToggle_CreateThenRemove(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	// first like creates
	status, err := repo.Toggle(ctx, 1, 2, db.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusCreated, status)

	// same kind again removes
	status, err = repo.Toggle(ctx, 1, 2, db.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusRemoved, status)

	var count int64
	dbase.Model(&db.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggle_SwitchKindKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	status, err := repo.Toggle(ctx, 1, 2, db.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusCreated, status)

	status, err = repo.Toggle(ctx, 1, 2, db.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusUpdated, status)

	var reactions []db.Reaction
	require.NoError(t, dbase.Find(&reactions).Error)
	require.Len(t, reactions, 1)
	assert.Equal(t, db.ReactionDislike, reactions[0].Kind)
}

func TestCounts_DerivedFromRows(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	_, _ = repo.Toggle(ctx, 1, 9, db.ReactionLike)
	_, _ = repo.Toggle(ctx, 2, 9, db.ReactionLike)
	_, _ = repo.Toggle(ctx, 3, 9, db.ReactionDislike)
	// user 2 switches to dislike
	_, _ = repo.Toggle(ctx, 2, 9, db.ReactionDislike)

	likes, dislikes, err := repo.Counts(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	assert.Equal(t, int64(2), dislikes)

	var rows int64
	dbase.Model(&db.Reaction{}).Where("video_id = ?", 9).Count(&rows)
	assert.Equal(t, rows, likes+dislikes)
}

func TestStatusFor(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	status, err := repo.StatusFor(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "", status)

	_, err = repo.Toggle(ctx, 1, 2, db.ReactionDislike)
	require.NoError(t, err)

	status, err = repo.StatusFor(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, db.ReactionDislike, status)
}

func TestToggle_DuplicateInsertSurfacesAsDuplicatedKey(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	// simulate a concurrent winner having inserted between check and create
	require.NoError(t, dbase.Create(&db.Reaction{UserID: 1, VideoID: 2, Kind: db.ReactionLike}).Error)

	err := dbase.Create(&db.Reaction{UserID: 1, VideoID: 2, Kind: db.ReactionDislike}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// the toggle itself still resolves the state sequentially
	status, err := repo.Toggle(ctx, 1, 2, db.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusRemoved, status)
}
