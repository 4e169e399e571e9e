package server

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/korcze/korczetube/internal/config"
)

// StartHTTPServer boots the echo server and registers all provided services
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// register all services
	for _, r := range registrars {
		r.Register(e)
	}

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return e.Start(addr)
}
