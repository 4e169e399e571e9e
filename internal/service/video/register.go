package video

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/config"
	svcErr "github.com/korcze/korczetube/internal/errors"
)

// Registrar ties the video endpoints into the HTTP server.
type Registrar struct {
	svc    *Service
	secret string
}

// NewRegistrar creates a new Registrar for the video service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config) *Registrar {
	return &Registrar{svc: NewService(appCtx), secret: cfg.Auth.JWTSecret}
}

// Register attaches the video routes to the echo server.
//
// The static dashboard/stats routes take precedence over the :slug capture.
func (r *Registrar) Register(e *echo.Echo) {
	api := e.Group("/api/videos")
	api.POST("", r.create, auth.Required(r.secret))
	api.GET("", r.list, auth.Optional(r.secret))
	api.GET("/dashboard", r.dashboard, auth.Required(r.secret))
	api.GET("/stats", r.stats, auth.Required(r.secret))
	api.GET("/:slug", r.detail, auth.Optional(r.secret))
	api.DELETE("/:id", r.remove, auth.Required(r.secret))
}

func (r *Registrar) create(c echo.Context) error {
	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}

	video, err := r.svc.Create(c.Request().Context(), auth.FromContext(c), req)
	if err != nil {
		return err
	}
	return c.JSON(201, map[string]interface{}{
		"id":   video.ID,
		"slug": video.Slug,
	})
}

func (r *Registrar) list(c echo.Context) error {
	items, err := r.svc.List(c.Request().Context(), auth.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(200, items)
}

func (r *Registrar) detail(c echo.Context) error {
	detail, err := r.svc.Detail(c.Request().Context(), c.Param("slug"), auth.FromContext(c), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(200, detail)
}

func (r *Registrar) remove(c echo.Context) error {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return svcErr.InvalidInput("id must be a valid uint64")
	}
	if err := r.svc.Delete(c.Request().Context(), auth.FromContext(c), videoID); err != nil {
		return err
	}
	return c.NoContent(204)
}

func (r *Registrar) dashboard(c echo.Context) error {
	items, err := r.svc.Dashboard(c.Request().Context(), auth.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(200, items)
}

func (r *Registrar) stats(c echo.Context) error {
	stats, err := r.svc.AdminStats(c.Request().Context(), auth.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(200, stats)
}
