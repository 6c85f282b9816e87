// Package httpapi is the HTTP boundary: routing, cookie handling, request
// decoding, and the mapping from service errors to status codes. It holds
// no business rules.
package httpapi

import (
	"net/http"
	"time"

	"github.com/marianfedorco24/api/internal/logging"
	"github.com/marianfedorco24/api/internal/server/config"
	"github.com/marianfedorco24/api/internal/server/extauth"
	"github.com/marianfedorco24/api/internal/server/services"
)

// Server mounts all routes and exposes the resulting http.Handler. It does
// not listen; the app layer owns the http.Server.
type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	users    *services.UserService
	sessions *services.SessionService
	caches   *services.CacheService
	ext      *extauth.Provider

	mux     *http.ServeMux
	limiter *rateLimiter
	now     func() time.Time
}

// New assembles the boundary. ext and caches may be nil when the external
// login or the cache endpoints are not deployed; their routes then answer
// 404.
func New(cfg *config.Config, logger logging.Logger, users *services.UserService, sessions *services.SessionService, caches *services.CacheService, ext *extauth.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		sessions: sessions,
		caches:   caches,
		ext:      ext,
		mux:      http.NewServeMux(),
		limiter:  newRateLimiter(),
		now:      time.Now,
	}
	s.mountRoutes()
	return s
}

// Handler returns the mounted routes with the blanket response headers
// applied.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Session tokens travel in responses; keep them out of shared
		// caches and referrers.
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Referrer-Policy", "no-referrer")
		s.mux.ServeHTTP(w, r)
	})
}
