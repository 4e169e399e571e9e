package repository_test

import (
	"context"
	"testing"

	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubscriptionToggle_Alternates(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSubscriptionRepository(dbase)

	status, err := repo.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusSubscribed, status)

	status, err = repo.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusUnsubscribed, status)

	subscribed, err := repo.IsSubscribed(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscriptionToggle_OrderedPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSubscriptionRepository(dbase)

	// a→b and b→a are distinct edges
	_, err := repo.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, 2, 1)
	require.NoError(t, err)

	oneWay, err := repo.IsSubscribed(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, oneWay)

	count, err := repo.CountForChannel(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubscription_DuplicateEdgeRejectedByStore(t *testing.T) {
	dbase := setupTestDB(t)

	require.NoError(t, dbase.Create(&db.Subscription{SubscriberID: 1, ChannelID: 2}).Error)
	err := dbase.Create(&db.Subscription{SubscriberID: 1, ChannelID: 2}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
