package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/service"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	SessionKey contextKey = "session"

	SessionCookieName = "bandmates_session"
)

// Cookies writes and clears the session cookie.
type Cookies struct {
	Secure bool
	TTL    time.Duration
}

func (c Cookies) Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		Expires:  time.Now().Add(c.TTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the cookie to a session for every request. Requests
// without a valid session continue anonymously; the gates below decide.
func Session(auth *service.AuthService, tokens *service.SessionTokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := tokens.Decode(cookie.Value)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected session cookie")
				next.ServeHTTP(w, r)
				return
			}

			session, err := auth.Lookup(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrAccessDenied) {
					next.ServeHTTP(w, r)
					return
				}
				respond.Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards API routes: denials are JSON 401 or 403.
func RequireRole(auth *service.AuthService, role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := GetSession(r.Context())
			if err := auth.Authorize(r.Context(), session, role); err != nil {
				respond.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePage guards page routes: denials redirect to the login page.
func RequirePage(auth *service.AuthService, role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := GetSession(r.Context())
			if err := auth.Authorize(r.Context(), session, role); err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}
