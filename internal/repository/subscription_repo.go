package repository

import (
	"context"
	"errors"

	"github.com/korcze/korczetube/internal/db"

	"gorm.io/gorm"
)

// Toggle outcomes for the subscription edge.
const (
	StatusSubscribed   = "subscribed"
	StatusUnsubscribed = "unsubscribed"
)

// SubscriptionRepository maintains the subscriber → channel relation.
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository bound to the given DB connection.
func NewSubscriptionRepository(database *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: database}
}

// Toggle flips the subscription edge for the ordered (subscriber, channel)
// pair.
//
// Behavior:
//   - Edge absent → create it, StatusSubscribed.
//   - Edge present → delete it, StatusUnsubscribed.
//   - Runs in one transaction; a concurrent duplicate create loses on the
//     composite PK and bubbles gorm.ErrDuplicatedKey.
//   - Self-subscription is rejected upstream before this is called.
func (r *SubscriptionRepository) Toggle(
	ctx context.Context,
	subscriberID, channelID uint64,
) (string, error) {
	var status string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Subscription
		err := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub := db.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
			status = StatusSubscribed

		case err != nil:
			return err

		default:
			if err := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
				Delete(&db.Subscription{}).Error; err != nil {
				return err
			}
			status = StatusUnsubscribed
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// IsSubscribed is a pure existence check for the ordered pair; never cached.
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// CountForChannel returns a channel's subscriber total.
func (r *SubscriptionRepository) CountForChannel(ctx context.Context, channelID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}
