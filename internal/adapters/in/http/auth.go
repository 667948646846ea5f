package http

import (
	"errors"
	"fmt"
	"net/http"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Claims is what the identity provider signs: the subject is the actor id
// (the store id for stores, the rider id for riders).
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("subject: %w", err)
	}
	role, err := kernel.ParseRole(c.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

// JWTAuth verifies the bearer token (HS256) and stores the actor it names in
// the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(Claims) },
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return
			}
			if actor, err := claims.Actor(); err == nil {
				c.Set(actorKey, actor)
			}
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		},
	})
}

// ParseToken verifies a raw token outside the middleware, for the websocket
// handshake where browsers cannot set headers.
func ParseToken(secret []byte, raw string) (kernel.Actor, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	actor, err := claims.Actor()
	if err != nil {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token does not name an actor")
	}
	return actor, nil
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token does not name an actor")
	}
	return actor, nil
}

// RequireRole rejects actors of any other role with 403.
func RequireRole(role kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFrom(c)
			if err != nil {
				return err
			}
			if err = actor.Require(role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

