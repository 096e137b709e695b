package server

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	accessTokenCookie  = "spotify_access_token"
	refreshTokenCookie = "spotify_refresh_token"

	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// setSessionCookies stores the Spotify token pair as HTTP-only cookies.
//
// The access token expires with Spotify's one hour window; the refresh token
// persists for thirty days so the browser session survives token expiry.
func setSessionCookies(w http.ResponseWriter, token *oauth2.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   int(accessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if token.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshTokenCookie,
			Value:    token.RefreshToken,
			Path:     "/",
			MaxAge:   int(refreshTokenTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// clearSessionCookies expires both session cookies.
func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// sessionToken extracts the access token from the request cookies.
//
// Returns the empty string when the caller is not authenticated.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
