package server

import (
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/themer/app/server/internal"
)

// profileMaxAge keeps the profile cookie, and with it the stored preferences, for a year.
const profileMaxAge = 365 * 24 * 60 * 60

// ProfileMiddleware attaches the browser profile id to the request context.
// A missing or malformed profile cookie is replaced by a fresh id.
func ProfileMiddleware(cookiePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := ""
			if cookie, err := r.Cookie(internal.ProfileCookieName); err == nil {
				if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					profile = id.String()
				}
			}
			if profile == "" {
				profile = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     internal.ProfileCookieName,
					Value:    profile,
					Path:     cookiePath,
					MaxAge:   profileMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				log.Printf("[DEBUG] issued profile %s", profile)
			}
			next.ServeHTTP(w, r.WithContext(internal.WithProfile(r.Context(), profile)))
		})
	}
}
