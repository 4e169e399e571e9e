package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForVideo_NewestFirst(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewCommentRepository(dbase)

	author := db.User{Email: "a@test.com", Name: "a", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&author).Error)

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := 0; i < 3; i++ {
		comment := db.Comment{
			VideoID:   7,
			UserID:    author.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, dbase.Create(&comment).Error)
	}

	comments, next, err := repo.ListForVideo(ctx, 7, nil, 10)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Nil(t, next)
	assert.Equal(t, "comment 2", comments[0].Content)
	assert.Equal(t, "comment 0", comments[2].Content)
	assert.Equal(t, "a", comments[0].User.Name)
}

func TestListForVideo_Pagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewCommentRepository(dbase)

	author := db.User{Email: "a@test.com", Name: "a", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&author).Error)

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := 0; i < 5; i++ {
		comment := db.Comment{
			VideoID:   7,
			UserID:    author.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, dbase.Create(&comment).Error)
	}

	page1, next, err := repo.ListForVideo(ctx, 7, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "comment 4", page1[0].Content)

	page2, next2, err := repo.ListForVideo(ctx, 7, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, next2)
	assert.Equal(t, "comment 2", page2[0].Content)

	page3, next3, err := repo.ListForVideo(ctx, 7, next2, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, next3)
	assert.Equal(t, "comment 0", page3[0].Content)
}

func TestCreate_LoadsAuthor(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewCommentRepository(dbase)

	author := db.User{Email: "b@test.com", Name: "bee", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&author).Error)

	comment := &db.Comment{VideoID: 3, UserID: author.ID, Content: "hello"}
	require.NoError(t, repo.Create(ctx, comment))
	assert.Equal(t, "bee", comment.User.Name)
	assert.NotZero(t, comment.ID)
}
