package contest

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/db"
	svcErr "github.com/korcze/korczetube/internal/errors"
	"github.com/korcze/korczetube/internal/repository"
)

// Service implements the password-gated contest entry flow.
type Service struct {
	appCtx  *app.AppContext
	videos  *repository.VideoRepository
	users   *repository.UserRepository
	entries *repository.ContestRepository
}

// NewService creates a contest service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		videos:  repository.NewVideoRepository(appCtx.DB),
		users:   repository.NewUserRepository(appCtx.DB),
		entries: repository.NewContestRepository(appCtx.DB),
	}
}

// Enter records an at-most-once contest entry for (user, video).
//
// Preconditions, checked in order:
//  1. The video exists and has contest mode active, else "contest not
//     available".
//  2. The user has no prior entry, else Conflict; a second submission is an
//     error even with the correct password.
//  3. The supplied password matches the stored bcrypt hash, else Forbidden.
//
// A concurrent duplicate insert loses on the (user, video) composite PK and
// is reported as the same Conflict the sequential check produces.
func (s *Service) Enter(ctx context.Context, ident *auth.Identity, videoID uint64, password string) (*db.ContestEntry, error) {
	if ident == nil {
		return nil, svcErr.Unauthorized("authentication required")
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ContestUnavailable("contest not available")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !video.IsContestMode {
		return nil, svcErr.ContestUnavailable("contest not available")
	}

	entered, err := s.entries.Exists(ctx, ident.UserID, videoID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if entered {
		return nil, svcErr.Conflict("you have already entered this contest")
	}

	if !auth.CheckPassword(video.ContestPasswordHash, password) {
		return nil, svcErr.Forbidden("incorrect password")
	}

	entry := &db.ContestEntry{UserID: ident.UserID, VideoID: videoID}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("contest entry recorded", "video", videoID, "user", ident.UserID)
	return entry, nil
}

// Entries lists a video's contest entries with entrant identity.
// Privilege is checked against the stored user role, not the token claim.
func (s *Service) Entries(ctx context.Context, ident *auth.Identity, videoID uint64) ([]db.ContestEntry, error) {
	if ident == nil {
		return nil, svcErr.Unauthorized("authentication required")
	}
	privileged, err := s.users.IsPrivileged(ctx, ident.UserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !privileged {
		return nil, svcErr.Forbidden("admin access required")
	}

	entries, err := s.entries.ListForVideo(ctx, videoID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return entries, nil
}
