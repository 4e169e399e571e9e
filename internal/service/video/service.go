package video

import (
	"context"
	"strings"
	"time"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/db"
	svcErr "github.com/korcze/korczetube/internal/errors"
	"github.com/korcze/korczetube/internal/repository"
	"github.com/korcze/korczetube/internal/service/engagement"
	"github.com/korcze/korczetube/internal/utils/slug"
)

// How many comments ship with the aggregate read; more pages go through the
// comment listing endpoint.
const detailCommentLimit = 20

// Service implements video upload metadata, listing, the aggregate detail
// read and the administrative aggregates.
type Service struct {
	appCtx     *app.AppContext
	videos     *repository.VideoRepository
	users      *repository.UserRepository
	views      *repository.ViewRepository
	subs       *repository.SubscriptionRepository
	reactions  *repository.ReactionRepository
	comments   *repository.CommentRepository
	contests   *repository.ContestRepository
	engagement *engagement.Service
}

// NewService creates a video service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		videos:     repository.NewVideoRepository(appCtx.DB),
		users:      repository.NewUserRepository(appCtx.DB),
		views:      repository.NewViewRepository(appCtx.DB),
		subs:       repository.NewSubscriptionRepository(appCtx.DB),
		reactions:  repository.NewReactionRepository(appCtx.DB),
		comments:   repository.NewCommentRepository(appCtx.DB),
		contests:   repository.NewContestRepository(appCtx.DB),
		engagement: engagement.NewService(appCtx),
	}
}

// UploadRequest carries video metadata. Media and thumbnail locators are
// opaque strings handed back by the external blob store.
//
// IsPublic is a pointer so an omitted field (defaults to public) is
// distinguishable from an explicit false.
type UploadRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Tags            string `json:"tags"`
	IsPublic        *bool  `json:"isPublic"`
	IsContestMode   bool   `json:"isContestMode"`
	ContestPassword string `json:"contestPassword"`
}

// Create stores uploaded video metadata. Privileged callers only.
//
// The slug is derived from the title plus the upload timestamp; a collision
// is disambiguated by the repository. The contest password is hashed here
// and the plaintext discarded.
func (s *Service) Create(ctx context.Context, ident *auth.Identity, req UploadRequest) (*db.Video, error) {
	if err := s.requirePrivileged(ctx, ident); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, svcErr.InvalidInput("title is required")
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		return nil, svcErr.InvalidInput("video locator is required")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	var contestHash string
	if req.IsContestMode {
		if req.ContestPassword == "" {
			return nil, svcErr.InvalidInput("contest password is required when contest mode is on")
		}
		hash, err := auth.HashPassword(req.ContestPassword)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		contestHash = hash
	}

	video := &db.Video{
		Slug:                slug.Make(req.Title, time.Now()),
		Title:               req.Title,
		Description:         req.Description,
		VideoURL:            req.VideoURL,
		ThumbnailURL:        req.ThumbnailURL,
		Tags:                req.Tags,
		IsPublic:            isPublic,
		IsContestMode:       req.IsContestMode,
		ContestPasswordHash: contestHash,
		UploaderID:          ident.UserID,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("video created", "slug", video.Slug, "uploader", ident.UserID, "contest", video.IsContestMode)
	return video, nil
}

// ListItem is one row of the public listing.
type ListItem struct {
	ID           uint64    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Tags         string    `json:"tags"`
	Views        uint64    `json:"views"`
	UploaderName string    `json:"uploaderName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// List returns videos newest-first. Privileged callers also see non-public
// videos; everyone else gets only the public set.
func (s *Service) List(ctx context.Context, ident *auth.Identity) ([]ListItem, error) {
	includeHidden := false
	if ident != nil {
		privileged, err := s.users.IsPrivileged(ctx, ident.UserID)
		if err == nil && privileged {
			includeHidden = true
		}
	}

	videos, err := s.videos.List(ctx, includeHidden)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	items := make([]ListItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, ListItem{
			ID:           v.ID,
			Slug:         v.Slug,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
			Tags:         v.Tags,
			Views:        v.Views,
			UploaderName: v.Uploader.Name,
			CreatedAt:    v.CreatedAt,
		})
	}
	return items, nil
}

// CommentView is a comment with its author's public fields.
type CommentView struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	UserID    uint64    `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntrantView is one contest entry with entrant identity. Only ever
// serialized for privileged callers.
type EntrantView struct {
	UserID      uint64    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DiscordNick string    `json:"discordNick,omitempty"`
	EnteredAt   time.Time `json:"enteredAt"`
}

// Detail is the aggregate read: base video fields plus every per-viewer
// derived field in one response.
type Detail struct {
	ID              uint64        `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	VideoURL        string        `json:"videoUrl"`
	ThumbnailURL    string        `json:"thumbnailUrl"`
	Tags            string        `json:"tags"`
	Views           uint64        `json:"views"`
	IsContestMode   bool          `json:"isContestMode"`
	UploaderID      uint64        `json:"uploaderId"`
	UploaderName    string        `json:"uploaderName"`
	Subscribers     int64         `json:"subscribers"`
	CreatedAt       time.Time     `json:"createdAt"`
	LikesCount      int64         `json:"likesCount"`
	DislikesCount   int64         `json:"dislikesCount"`
	UserLikeStatus  *string       `json:"userLikeStatus"`
	IsSubscribed    bool          `json:"isSubscribed"`
	CommentsCount   int64         `json:"commentsCount"`
	Comments        []CommentView `json:"comments"`
	CommentsCursor  *string       `json:"commentsCursor,omitempty"`
	ContestEntrants []EntrantView `json:"contestEntrants,omitempty"`
}

// Detail assembles the video aggregate for one viewer and registers the
// view as a side effect of the same call.
//
// Behavior:
//   - Authenticated viewers are counted at most once per video; anonymous
//     viewers bump the counter on every call.
//   - Likes/dislikes are derived from Reaction rows (cache-first).
//   - Contest entrants are attached only after the requester's stored role
//     is confirmed privileged; the token's role claim is not trusted.
func (s *Service) Detail(ctx context.Context, slugStr string, ident *auth.Identity, ip string) (*Detail, error) {
	video, err := s.videos.FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	// view registration side effect
	if ident != nil {
		counted, err := s.views.RegisterAuthenticated(ctx, video.ID, ident.UserID, ip)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if counted {
			video.Views++
		}
	} else {
		if err := s.views.RegisterAnonymous(ctx, video.ID); err != nil {
			return nil, svcErr.Map(err)
		}
		video.Views++
	}

	likes, dislikes, err := s.engagement.CountsFor(ctx, video.ID)
	if err != nil {
		return nil, err
	}

	var userLikeStatus *string
	if ident != nil {
		status, err := s.reactions.StatusFor(ctx, ident.UserID, video.ID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if status != "" {
			userLikeStatus = &status
		}
	}

	isSubscribed, err := s.engagement.IsSubscribed(ctx, ident, video.UploaderID)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subs.CountForChannel(ctx, video.UploaderID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	commentsCount, err := s.comments.CountForVideo(ctx, video.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	comments, commentsCursor, err := s.comments.ListForVideo(ctx, video.ID, nil, detailCommentLimit)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	commentViews := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, CommentView{
			ID:        c.ID,
			Content:   c.Content,
			UserID:    c.UserID,
			UserName:  c.User.Name,
			CreatedAt: c.CreatedAt,
		})
	}

	detail := &Detail{
		ID:             video.ID,
		Slug:           video.Slug,
		Title:          video.Title,
		Description:    video.Description,
		VideoURL:       video.VideoURL,
		ThumbnailURL:   video.ThumbnailURL,
		Tags:           video.Tags,
		Views:          video.Views,
		IsContestMode:  video.IsContestMode,
		UploaderID:     video.UploaderID,
		UploaderName:   video.Uploader.Name,
		Subscribers:    subscribers,
		CreatedAt:      video.CreatedAt,
		LikesCount:     likes,
		DislikesCount:  dislikes,
		UserLikeStatus: userLikeStatus,
		IsSubscribed:   isSubscribed,
		CommentsCount:  commentsCount,
		Comments:       commentViews,
		CommentsCursor: commentsCursor,
	}

	// entrant identities are gated server-side on the stored role
	if ident != nil {
		privileged, err := s.users.IsPrivileged(ctx, ident.UserID)
		if err == nil && privileged {
			entries, err := s.contests.ListForVideo(ctx, video.ID)
			if err != nil {
				return nil, svcErr.Map(err)
			}
			for _, e := range entries {
				detail.ContestEntrants = append(detail.ContestEntrants, EntrantView{
					UserID:      e.UserID,
					Name:        e.User.Name,
					Email:       e.User.Email,
					DiscordNick: e.User.DiscordNick,
					EnteredAt:   e.CreatedAt,
				})
			}
		}
	}

	return detail, nil
}

// Delete removes a video and its engagement rows. Privileged callers only.
func (s *Service) Delete(ctx context.Context, ident *auth.Identity, videoID uint64) error {
	if err := s.requirePrivileged(ctx, ident); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Info("video deleted", "video", videoID, "by", ident.UserID)
	return nil
}

// DashboardItem is one row of the admin dashboard listing.
type DashboardItem struct {
	ID            uint64    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Views         uint64    `json:"views"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	ViewRecords   int64     `json:"viewRecords"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Dashboard returns every video with engagement counts. Privileged only.
func (s *Service) Dashboard(ctx context.Context, ident *auth.Identity) ([]DashboardItem, error) {
	if err := s.requirePrivileged(ctx, ident); err != nil {
		return nil, err
	}

	rows, err := s.videos.DashboardRows(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	items := make([]DashboardItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, DashboardItem{
			ID:            row.Video.ID,
			Slug:          row.Video.Slug,
			Title:         row.Video.Title,
			Views:         row.Video.Views,
			LikesCount:    row.LikesCount,
			CommentsCount: row.CommentsCount,
			ViewRecords:   row.ViewRecords,
			CreatedAt:     row.Video.CreatedAt,
		})
	}
	return items, nil
}

// Stats is the admin aggregate across the whole platform.
type Stats struct {
	UsersCount    int64 `json:"usersCount"`
	VideosCount   int64 `json:"videosCount"`
	TotalViews    int64 `json:"totalViews"`
	CommentsCount int64 `json:"commentsCount"`
	LikesCount    int64 `json:"likesCount"`
}

// AdminStats returns platform-wide counts. Privileged only.
func (s *Service) AdminStats(ctx context.Context, ident *auth.Identity) (*Stats, error) {
	if err := s.requirePrivileged(ctx, ident); err != nil {
		return nil, err
	}

	stats := &Stats{}
	var err error
	if stats.UsersCount, err = s.users.Count(ctx); err != nil {
		return nil, svcErr.Map(err)
	}
	if stats.VideosCount, err = s.videos.Count(ctx); err != nil {
		return nil, svcErr.Map(err)
	}
	if stats.TotalViews, err = s.videos.SumViews(ctx); err != nil {
		return nil, svcErr.Map(err)
	}
	if stats.CommentsCount, err = s.comments.CountAll(ctx); err != nil {
		return nil, svcErr.Map(err)
	}
	if stats.LikesCount, err = s.reactions.CountByKind(ctx, db.ReactionLike); err != nil {
		return nil, svcErr.Map(err)
	}
	return stats, nil
}

func (s *Service) requirePrivileged(ctx context.Context, ident *auth.Identity) error {
	if ident == nil {
		return svcErr.Unauthorized("authentication required")
	}
	privileged, err := s.users.IsPrivileged(ctx, ident.UserID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !privileged {
		return svcErr.Forbidden("admin access required")
	}
	return nil
}
