package serverutils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionLocal = "session_id"

type SessionCookieConfig struct {
	Name   string
	Secret string
	TTL    time.Duration
	Secure bool
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionMiddleware resolves the session id from the signed cookie, or starts
// a new one, and refreshes the cookie on every response.
func SessionMiddleware(cfg SessionCookieConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sid, err := ParseSessionToken(ctx.Cookies(cfg.Name), cfg.Secret)
		if err != nil {
			sid = uuid.NewString()
		}

		token, err := IssueSessionToken(sid, cfg.Secret, cfg.TTL, time.Now())
		if err != nil {
			return err
		}

		ctx.Cookie(&fiber.Cookie{
			Name:     cfg.Name,
			Value:    token,
			Path:     "/",
			MaxAge:   int(cfg.TTL.Seconds()),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Locals(sessionLocal, sid)
		return ctx.Next()
	}
}

// SessionID returns the id set by SessionMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(sessionLocal).(string)
	return sid
}

func IssueSessionToken(sessionID, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseSessionToken(token, secret string) (string, error) {
	if token == "" {
		return "", errors.New("missing session token")
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", errors.New("invalid session id")
	}
	return claims.SessionID, nil
}
