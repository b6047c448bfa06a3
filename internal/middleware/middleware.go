package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/votojudicial/backend/internal/httputil"
	"github.com/votojudicial/backend/internal/utils"
)

// SessionCookie is the cookie the identity provider's frontend SDK sets.
const SessionCookie = "__session"

type TokenVerifier interface {
	VerifyToken(token string) (utils.SessionData, error)
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	httputil.WriteJSONStatus(w, http.StatusUnauthorized, map[string]string{"error": msg})
}

// SessionMiddleware rejects requests without a valid session token and puts
// the caller's user id in the request context.
func SessionMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				unauthorized(w, "Usuario no autenticado")
				return
			}

			session, err := verifier.VerifyToken(token)
			if err != nil {
				unauthorized(w, "Sesión inválida")
				return
			}

			if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now()) {
				unauthorized(w, "Sesión expirada")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), session.UserID)))
		})
	}
}

// OptionalSession attaches the caller's user id when a valid token is
// present and lets every request through.
func OptionalSession(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := sessionToken(r); token != "" {
				session, err := verifier.VerifyToken(token)
				if err == nil && (session.ExpiresAt.IsZero() || session.ExpiresAt.After(time.Now())) {
					r = r.WithContext(utils.WithUserID(r.Context(), session.UserID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SyncTokenMiddleware checks the token query parameter against the shared
// sync secret. hash, when non-empty, is a bcrypt hash and plain is ignored.
// An unset secret rejects every request.
func SyncTokenMiddleware(plain, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validSyncToken(r.URL.Query().Get("token"), plain, hash) {
				httputil.WriteJSONStatus(w, http.StatusUnauthorized, map[string]any{
					"success": false,
					"error":   "Token inválido",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validSyncToken(got, plain, hash string) bool {
	if got == "" {
		return false
	}
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(got)) == nil
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(plain)) == 1
}

func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Echo the origin back only if it's on the allow-list
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			w.Header().Set("Access-Control-Expose-Headers", "Server-Timing")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
