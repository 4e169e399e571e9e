package contest

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/config"
	svcErr "github.com/korcze/korczetube/internal/errors"
)

// Registrar ties the contest endpoints into the HTTP server.
type Registrar struct {
	svc    *Service
	secret string
}

// NewRegistrar creates a new Registrar for the contest service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config) *Registrar {
	return &Registrar{svc: NewService(appCtx), secret: cfg.Auth.JWTSecret}
}

// Register attaches the contest routes to the echo server.
func (r *Registrar) Register(e *echo.Echo) {
	api := e.Group("/api/videos", auth.Required(r.secret))
	api.POST("/:id/contest", r.enter)
	api.GET("/:id/contest/entries", r.entries)
}

type enterRequest struct {
	Password string `json:"password"`
}

type entryResponse struct {
	UserID    uint64    `json:"userId"`
	VideoID   uint64    `json:"videoId"`
	EnteredAt time.Time `json:"enteredAt"`
}

func (r *Registrar) enter(c echo.Context) error {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return svcErr.InvalidInput("id must be a valid uint64")
	}
	var req enterRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}

	entry, err := r.svc.Enter(c.Request().Context(), auth.FromContext(c), videoID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(201, entryResponse{
		UserID:    entry.UserID,
		VideoID:   entry.VideoID,
		EnteredAt: entry.CreatedAt,
	})
}

type entrantResponse struct {
	UserID      uint64    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DiscordNick string    `json:"discordNick,omitempty"`
	EnteredAt   time.Time `json:"enteredAt"`
}

func (r *Registrar) entries(c echo.Context) error {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return svcErr.InvalidInput("id must be a valid uint64")
	}

	entries, err := r.svc.Entries(c.Request().Context(), auth.FromContext(c), videoID)
	if err != nil {
		return err
	}

	out := make([]entrantResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entrantResponse{
			UserID:      e.UserID,
			Name:        e.User.Name,
			Email:       e.User.Email,
			DiscordNick: e.User.DiscordNick,
			EnteredAt:   e.CreatedAt,
		})
	}
	return c.JSON(200, out)
}
