package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/korcze/korczetube/internal/app"
	"github.com/korcze/korczetube/internal/auth"
	"github.com/korcze/korczetube/internal/config"
	"github.com/korcze/korczetube/internal/db"
	svcErr "github.com/korcze/korczetube/internal/errors"
	"github.com/korcze/korczetube/internal/repository"
)

// Service is the identity edge: it turns credentials into signed tokens.
// The engagement core only ever sees the user id extracted from those
// tokens.
type Service struct {
	appCtx *app.AppContext
	cfg    *config.Config
	users  *repository.UserRepository
}

// NewService creates an auth service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, cfg *config.Config) *Service {
	return &Service{
		appCtx: appCtx,
		cfg:    cfg,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DiscordNick string `json:"discordNick"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the public shape of an account.
type UserView struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	DiscordNick string `json:"discordNick,omitempty"`
	Role        string `json:"role"`
}

type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserView `json:"user"`
}

// Register creates an account and signs its first token.
// Duplicate emails are a Conflict.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, svcErr.InvalidInput("email, password and name are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	user := &db.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		DiscordNick:  req.DiscordNick,
		PasswordHash: hash,
		Role:         db.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, svcErr.Conflict("user already exists")
		}
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("user registered", "user", user.ID)
	return s.issueToken(user)
}

// Login verifies credentials and signs a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, svcErr.InvalidInput("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.Unauthorized("invalid email or password")
		}
		return nil, svcErr.Map(err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, svcErr.Unauthorized("invalid email or password")
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *db.User) (*TokenResponse, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTL) * time.Hour
	token, err := auth.GenerateToken(s.cfg.Auth.JWTSecret, user.ID, user.Role, ttl)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &TokenResponse{
		AccessToken: token,
		User: UserView{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			DiscordNick: user.DiscordNick,
			Role:        user.Role,
		},
	}, nil
}
