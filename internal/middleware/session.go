package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"scent-store/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "sid"

var errInvalidSessionToken = errors.New("invalid session token")

// SessionConfig configures session token issuance
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware resolves the visitor's session from the sid cookie. A
// missing, expired or tampered token starts a new session and issues a fresh
// cookie.
func SessionMiddleware(manager *session.Manager, cfg SessionConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := sessionIDFromRequest(r, cfg.Secret)
			if err != nil {
				sessionID = uuid.NewString()

				token, err := IssueSessionToken(sessionID, cfg.Secret, cfg.TTL)
				if err != nil {
					logger.Error("Failed to sign session token", zap.Error(err))
					RespondWithError(w, http.StatusInternalServerError, "internal server error")
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})

				logger.Debug("Started session", zap.String("session_id", sessionID))
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, manager.Session(sessionID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IssueSessionToken signs an HS256 token whose subject is the session id
func IssueSessionToken(sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GetSession extracts the visitor's session from request context
func GetSession(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	return s, ok
}

func sessionIDFromRequest(r *http.Request, secret string) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidSessionToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errInvalidSessionToken
	}
	return claims.Subject, nil
}
