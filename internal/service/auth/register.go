package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/config"
	svcErr "github.com/korcze/korczetube/internal/errors"
)

// Registrar ties the auth endpoints into the HTTP server.
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a new Registrar for the auth service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config) *Registrar {
	return &Registrar{svc: NewService(appCtx, cfg)}
}

// Register attaches the auth routes to the echo server.
func (r *Registrar) Register(e *echo.Echo) {
	api := e.Group("/api/auth")
	api.POST("/register", r.register)
	api.POST("/login", r.login)
}

func (r *Registrar) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}
	resp, err := r.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(201, resp)
}

func (r *Registrar) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}
	resp, err := r.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(200, resp)
}
