package engagement

import (
	"context"
	"strings"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/db"
	svcErr "github.com/korcze/korczetube/internal/errors"
	"github.com/korcze/korczetube/internal/repository"
)

// Service implements reaction toggling, subscription toggling and the
// comment ledger on top of the repository and cache layers.
type Service struct {
	appCtx    *app.AppContext
	videos    *repository.VideoRepository
	users     *repository.UserRepository
	reactions *repository.ReactionRepository
	subs      *repository.SubscriptionRepository
	comments  *repository.CommentRepository
}

// NewService creates an engagement service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		videos:    repository.NewVideoRepository(appCtx.DB),
		users:     repository.NewUserRepository(appCtx.DB),
		reactions: repository.NewReactionRepository(appCtx.DB),
		subs:      repository.NewSubscriptionRepository(appCtx.DB),
		comments:  repository.NewCommentRepository(appCtx.DB),
	}
}

// SetReaction applies one toggle step for (user, video).
//
// Behavior:
//   - Requires an authenticated caller; anonymous calls are rejected without
//     any state change.
//   - Kind must be exactly LIKE or DISLIKE.
//   - Repeating the current kind removes the reaction; the other kind
//     replaces it; no prior row creates one.
//   - cached per-video counts are dropped so the next read recomputes from
//     the rows.
//
// Example:
//
//	svc.SetReaction(ctx, ident, 42, db.ReactionLike) // -> "created"
func (s *Service) SetReaction(ctx context.Context, ident *auth.Identity, videoID uint64, kind string) (string, error) {
	if ident == nil {
		return "", svcErr.Unauthorized("authentication required")
	}
	if kind != db.ReactionLike && kind != db.ReactionDislike {
		return "", svcErr.InvalidInput("type must be LIKE or DISLIKE")
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return "", svcErr.Map(err)
	}

	status, err := s.reactions.Toggle(ctx, ident.UserID, videoID, kind)
	if err != nil {
		s.appCtx.Logger.Error("reaction toggle failed", "video", videoID, "user", ident.UserID, "err", err)
		return "", svcErr.Map(err)
	}

	// invalidate so the next count read re-derives from the rows
	if err := s.appCtx.RedisCache.InvalidateReactionCounts(ctx, videoID); err != nil {
		s.appCtx.Logger.Warn("cache invalidation failed", "video", videoID, "err", err)
	}

	s.appCtx.Logger.Debug("reaction toggled", "video", videoID, "user", ident.UserID, "kind", kind, "status", status)
	return status, nil
}

// CountsFor returns the like/dislike totals for a video.
// Cache-first strategy:
//  1. Attempts to read both counts from Redis.
//  2. On any miss, falls back to counting the Reaction rows.
//  3. Refreshes the cache with a 1h TTL after a DB fetch.
func (s *Service) CountsFor(ctx context.Context, videoID uint64) (likes, dislikes int64, err error) {
	cachedLikes, okL, _ := s.appCtx.RedisCache.GetReactionCount(ctx, videoID, db.ReactionLike)
	cachedDislikes, okD, _ := s.appCtx.RedisCache.GetReactionCount(ctx, videoID, db.ReactionDislike)
	if okL && okD {
		return cachedLikes, cachedDislikes, nil
	}

	likes, dislikes, err = s.reactions.Counts(ctx, videoID)
	if err != nil {
		return 0, 0, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.SetReactionCount(ctx, videoID, db.ReactionLike, likes)
	_ = s.appCtx.RedisCache.SetReactionCount(ctx, videoID, db.ReactionDislike, dislikes)
	return likes, dislikes, nil
}

// ReactionStatusFor returns the caller's current reaction kind on a video,
// or "" for none/anonymous.
func (s *Service) ReactionStatusFor(ctx context.Context, ident *auth.Identity, videoID uint64) (string, error) {
	if ident == nil {
		return "", nil
	}
	status, err := s.reactions.StatusFor(ctx, ident.UserID, videoID)
	if err != nil {
		return "", svcErr.Map(err)
	}
	return status, nil
}

// ToggleSubscription flips the caller's subscription to a channel.
//
// Behavior:
//   - Requires an authenticated caller.
//   - Self-subscription is a Conflict, with no state change.
//   - Unknown channel is NotFound.
//
// Example:
//
//	svc.ToggleSubscription(ctx, ident, 7) // -> "subscribed"
func (s *Service) ToggleSubscription(ctx context.Context, ident *auth.Identity, channelID uint64) (string, error) {
	if ident == nil {
		return "", svcErr.Unauthorized("authentication required")
	}
	if ident.UserID == channelID {
		return "", svcErr.Conflict("cannot subscribe to yourself")
	}

	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return "", svcErr.Map(err)
	}

	status, err := s.subs.Toggle(ctx, ident.UserID, channelID)
	if err != nil {
		return "", svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("subscription toggled", "subscriber", ident.UserID, "channel", channelID, "status", status)
	return status, nil
}

// IsSubscribed reports the caller's subscription state for a channel;
// anonymous callers are never subscribed.
func (s *Service) IsSubscribed(ctx context.Context, ident *auth.Identity, channelID uint64) (bool, error) {
	if ident == nil {
		return false, nil
	}
	subscribed, err := s.subs.IsSubscribed(ctx, ident.UserID, channelID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	return subscribed, nil
}

// AddComment appends a comment to a video's ledger.
// Empty and whitespace-only text is rejected.
func (s *Service) AddComment(ctx context.Context, ident *auth.Identity, videoID uint64, content string) (*db.Comment, error) {
	if ident == nil {
		return nil, svcErr.Unauthorized("authentication required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, svcErr.InvalidInput("comment text is required")
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, svcErr.Map(err)
	}

	comment := &db.Comment{VideoID: videoID, UserID: ident.UserID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, svcErr.Map(err)
	}
	return comment, nil
}

// ListComments returns one newest-first page of a video's comments.
func (s *Service) ListComments(ctx context.Context, videoID uint64, paginationToken *string, limit int) ([]db.Comment, *string, error) {
	comments, nextToken, err := s.comments.ListForVideo(ctx, videoID, paginationToken, limit)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	return comments, nextToken, nil
}
