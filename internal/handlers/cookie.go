package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/moviedesk/moviedesk/internal/env"
)

const (
	authCookieName   = "auth"
	authCookieDays   = 90
	browseCookieName = "bsid"
)

func (h *Handler) isAuthenticated(r *http.Request) bool {
	c, err := r.Cookie(authCookieName)
	if err != nil {
		return false
	}
	if c.Value == "" || h.passHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(h.passHash)) == 1
}

func setAuthCookie(w http.ResponseWriter, value string) {
	expiration := time.Now().Add(time.Hour * 24 * authCookieDays)
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiration,
		MaxAge:   int((time.Hour * 24 * authCookieDays).Seconds()),
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   env.IsProduction(),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   env.IsProduction(),
	})
}

// The browse cookie only keys the in-memory browse session; it carries no
// authority and lives for the browser session.
func setBrowseCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     browseCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   env.IsProduction(),
	})
}

func sameSite() http.SameSite {
	if env.IsProduction() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
