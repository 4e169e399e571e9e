package contest_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/cache"
	"github.com/korcze/korczetube/internal/config"
	"github.com/korcze/korczetube/internal/db"
	"github.com/korcze/korczetube/internal/service/contest"
)

// setupService wires an isolated sqlite + miniredis stack with:
//   - korcze (admin, id 1), alice (id 2)
//   - "sintel" in contest mode, password "scales42"
//   - "clip" with contest mode off
func setupService(t *testing.T) (*contest.Service, *gorm.DB, db.Video, db.Video) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(db.Models()...))

	users := []db.User{
		{ID: 1, Email: "korcze@test.com", Name: "korcze", PasswordHash: "x", Role: db.RoleAdmin},
		{ID: 2, Email: "alice@test.com", Name: "alice", DiscordNick: "alice#1", PasswordHash: "x", Role: db.RoleUser},
	}
	require.NoError(t, dbase.Create(&users).Error)

	passwordHash, err := auth.HashPassword("scales42")
	require.NoError(t, err)

	contestVideo := db.Video{
		Slug: "sintel", Title: "Sintel", VideoURL: "/uploads/sintel.mp4",
		IsPublic: true, IsContestMode: true, ContestPasswordHash: passwordHash, UploaderID: 1,
	}
	require.NoError(t, dbase.Create(&contestVideo).Error)

	plainVideo := db.Video{Slug: "clip", Title: "Clip", VideoURL: "/uploads/clip.mp4", IsPublic: true, UploaderID: 1}
	require.NoError(t, dbase.Create(&plainVideo).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(dbase, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return contest.NewService(appCtx), dbase, contestVideo, plainVideo
}

func alice() *auth.Identity  { return &auth.Identity{UserID: 2, Role: db.RoleUser} }
func korcze() *auth.Identity { return &auth.Identity{UserID: 1, Role: db.RoleAdmin} }

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T: %v", err, err)
	return he.Code
}

// TestEnter_FullScenario covers the wrong → correct → repeat sequence:
// Forbidden with no entry row, then success with a timestamped entry,
// then Conflict even though the password is correct.
func TestEnter_FullScenario(t *testing.T) {
	ctx := context.Background()
	svc, dbase, video, _ := setupService(t)

	// wrong password → Forbidden, no entry row
	_, err := svc.Enter(ctx, alice(), video.ID, "wrong")
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	var count int64
	dbase.Model(&db.ContestEntry{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// correct password → entry created with her id and a timestamp
	entry, err := svc.Enter(ctx, alice(), video.ID, "scales42")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), entry.UserID)
	assert.Equal(t, video.ID, entry.VideoID)
	assert.False(t, entry.CreatedAt.IsZero())

	// repeat with the correct password → Conflict, not success
	_, err = svc.Enter(ctx, alice(), video.ID, "scales42")
	assert.Equal(t, http.StatusConflict, httpCode(t, err))

	dbase.Model(&db.ContestEntry{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnter_ContestUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, _, _, plainVideo := setupService(t)

	// contest mode off
	_, err := svc.Enter(ctx, alice(), plainVideo.ID, "scales42")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	// unknown video gets the same rejection
	_, err = svc.Enter(ctx, alice(), 9999, "scales42")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

// TestEnter_StoreFaultSurfaces: a failing store is an internal error, not
// "contest not available".
func TestEnter_StoreFaultSurfaces(t *testing.T) {
	ctx := context.Background()
	svc, dbase, video, _ := setupService(t)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.Enter(ctx, alice(), video.ID, "scales42")
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))
}

func TestEnter_RequiresAuth(t *testing.T) {
	ctx := context.Background()
	svc, _, video, _ := setupService(t)

	_, err := svc.Enter(ctx, nil, video.ID, "scales42")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

// TestEntries_PrivilegeGate confirms entrant identities are gated on the
// stored role, not the role carried in the token claims.
func TestEntries_PrivilegeGate(t *testing.T) {
	ctx := context.Background()
	svc, _, video, _ := setupService(t)

	_, err := svc.Enter(ctx, alice(), video.ID, "scales42")
	require.NoError(t, err)

	// a forged admin claim on a standard user still gets Forbidden
	forged := &auth.Identity{UserID: 2, Role: db.RoleAdmin}
	_, err = svc.Entries(ctx, forged, video.ID)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	// the real admin sees entrant identities
	entries, err := svc.Entries(ctx, korcze(), video.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].User.Name)
	assert.Equal(t, "alice#1", entries[0].User.DiscordNick)
}
