package engagement

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/config"
	svcErr "github.com/korcze/korczetube/internal/errors"
)

// Registrar ties the engagement endpoints into the HTTP server.
type Registrar struct {
	svc    *Service
	secret string
}

// NewRegistrar creates a new Registrar for the engagement service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config) *Registrar {
	return &Registrar{svc: NewService(appCtx), secret: cfg.Auth.JWTSecret}
}

// Register attaches the engagement routes to the echo server.
func (r *Registrar) Register(e *echo.Echo) {
	api := e.Group("/api/videos")
	api.POST("/:id/like", r.setReaction, auth.Required(r.secret))
	api.POST("/subscribe/:channelId", r.toggleSubscription, auth.Required(r.secret))
	api.POST("/:id/comments", r.addComment, auth.Required(r.secret))
	api.GET("/:id/comments", r.listComments)
}

type reactionRequest struct {
	Type string `json:"type"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (r *Registrar) setReaction(c echo.Context) error {
	videoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}

	status, err := r.svc.SetReaction(c.Request().Context(), auth.FromContext(c), videoID, req.Type)
	if err != nil {
		return err
	}
	return c.JSON(200, statusResponse{Status: status})
}

func (r *Registrar) toggleSubscription(c echo.Context) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}

	status, err := r.svc.ToggleSubscription(c.Request().Context(), auth.FromContext(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(200, statusResponse{Status: status})
}

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"videoId"`
	UserID    uint64    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Registrar) addComment(c echo.Context) error {
	videoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("invalid request body")
	}

	comment, err := r.svc.AddComment(c.Request().Context(), auth.FromContext(c), videoID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(201, commentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		UserID:    comment.UserID,
		UserName:  comment.User.Name,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

type commentPage struct {
	Comments  []commentResponse `json:"comments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

func (r *Registrar) listComments(c echo.Context) error {
	videoID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	var token *string
	if raw := c.QueryParam("token"); raw != "" {
		token = &raw
	}

	comments, nextToken, err := r.svc.ListComments(c.Request().Context(), videoID, token, limit)
	if err != nil {
		return err
	}

	page := commentPage{Comments: make([]commentResponse, 0, len(comments)), NextToken: nextToken}
	for _, comment := range comments {
		page.Comments = append(page.Comments, commentResponse{
			ID:        comment.ID,
			VideoID:   comment.VideoID,
			UserID:    comment.UserID,
			UserName:  comment.User.Name,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}
	return c.JSON(200, page)
}

// pathID parses a uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, svcErr.InvalidInput(name + " must be a valid uint64")
	}
	return id, nil
}
