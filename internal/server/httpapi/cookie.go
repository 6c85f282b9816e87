package httpapi

import (
	"net/http"
	"time"
)

const (
	sessionCookieName = "session"
	signupCookieName  = "signup_token"

	// signupCookieMaxAge matches the pending-signup row lifespan.
	signupCookieMaxAge = 300
)

func (s *Server) baseCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.CookieDomain, // may be empty for host-only
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.IsProd(),
	}
}

// setSessionCookie writes the session cookie. Expires is only set for
// remembered sessions; a plain login stays a browser-session cookie even
// though the server-side row outlives a closed tab.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time, remember bool) {
	c := s.baseCookie(sessionCookieName, token)
	if remember {
		c.Expires = expires
	}
	http.SetCookie(w, c)
}

func (s *Server) setSignupCookie(w http.ResponseWriter, token string) {
	c := s.baseCookie(signupCookieName, token)
	c.MaxAge = signupCookieMaxAge
	http.SetCookie(w, c)
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	c := s.baseCookie(name, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}
