package repository_test

import (
	"context"
	"testing"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoCreate_PersistsHiddenFlag(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVideoRepository(dbase)

	hidden := &db.Video{Slug: "hidden-cut", Title: "Hidden Cut", VideoURL: "/u/h.mp4", IsPublic: false, UploaderID: 1}
	require.NoError(t, repo.Create(ctx, hidden))

	got, err := repo.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
}

func TestVideoList_FiltersHidden(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewVideoRepository(dbase)

	uploader := db.User{Email: "u@test.com", Name: "u", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&uploader).Error)

	require.NoError(t, repo.Create(ctx, &db.Video{Slug: "open", Title: "Open", VideoURL: "/u/o.mp4", IsPublic: true, UploaderID: uploader.ID}))
	require.NoError(t, repo.Create(ctx, &db.Video{Slug: "hidden", Title: "Hidden", VideoURL: "/u/h.mp4", IsPublic: false, UploaderID: uploader.ID}))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "open", visible[0].Slug)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
