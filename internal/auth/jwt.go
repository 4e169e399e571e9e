package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// identityKey is where middleware stores the parsed *Identity on the echo
// context. Absent key = anonymous request.
const identityKey = "identity"

type Claims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what the core consumes: a stable authenticated user id plus
// the role claim carried for convenience. A nil *Identity is the explicit
// anonymous marker. Role claims are advisory only; privileged paths
// re-check the role against the stored user.
type Identity struct {
	UserID uint64
	Role   string
}

// GenerateToken signs an HS256 token for the given user.
func GenerateToken(secret string, userID uint64, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Issuer:    "korczetube",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Required rejects requests without a valid bearer token.
func Required(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := bearerIdentity(secret, c)
			if ident == nil {
				return echo.NewHTTPError(401, "authentication required")
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// Optional parses a bearer token when present, leaving the request
// anonymous otherwise. Used on read paths where engagement state is
// personalized for logged-in viewers.
func Optional(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ident := bearerIdentity(secret, c); ident != nil {
				c.Set(identityKey, ident)
			}
			return next(c)
		}
	}
}

// FromContext returns the request identity, or nil for anonymous requests.
func FromContext(c echo.Context) *Identity {
	ident, _ := c.Get(identityKey).(*Identity)
	return ident
}

func bearerIdentity(secret string, c echo.Context) *Identity {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return nil
	}
	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		return nil
	}
	return &Identity{UserID: claims.UserID, Role: claims.Role}
}
