package httpapi

import "net/http"

// mountRoutes binds all endpoints onto the mux.
func (s *Server) mountRoutes() {
	// Credential endpoints get a coarse per-IP limit; everything behind a
	// session is already gated.
	s.handle("POST", "/auth/signup", s.handleSignup, s.limitIP(5, minute))
	s.handle("POST", "/auth/verify-code", s.handleVerifyCode, s.limitIP(10, minute))
	s.handle("POST", "/auth/login", s.handleLogin, s.limitIP(10, minute))

	s.handle("POST", "/auth/logout", s.handleLogout, s.requireSession())
	s.handle("POST", "/auth/change-password", s.handleChangePassword, s.requireSession())
	s.handle("POST", "/auth/delete-account", s.handleDeleteAccount, s.requireSession())

	if s.ext != nil {
		s.handle("GET", "/auth/external/login", s.handleExternalLogin)
		s.handle("GET", "/auth/external/callback", s.handleExternalCallback)
	}

	s.handle("GET", "/me", s.handleMe, s.requireSession())

	if s.caches != nil {
		s.handle("GET", "/schedule/next-class", s.handleNextClass, s.requireAPIKey())
		s.handle("GET", "/meals/today", s.handleTodayMeal, s.requireAPIKey())
	}
}

// handle attaches a method-guarded route with optional middlewares.
func (s *Server) handle(method, path string, h http.HandlerFunc, mws ...middleware) {
	var handler http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

const minute = 60 // seconds, for the limiter helpers
