package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marianfedorco24/api/internal/common"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// serviceError maps sentinel errors from the service layer onto the status
// contract. Anything unrecognized is a storage or provider failure: logged
// with its cause, answered with a generic 500.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorMissingField):
		writeError(w, http.StatusBadRequest, "missing field")
	case errors.Is(err, common.ErrorInvalidInput):
		writeError(w, http.StatusNotAcceptable, "invalid input")
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, "account already exists")
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorSignupExpired):
		writeError(w, http.StatusGone, "signup expired")
	case errors.Is(err, common.ErrorTooManyAttempts):
		writeError(w, http.StatusRequestTimeout, "too many attempts")
	case errors.Is(err, common.ErrorCodeMismatch):
		writeError(w, http.StatusForbidden, "wrong code")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// failSession answers a failed session validation: invalid or expired
// tokens get a 401 with the cookie cleared, storage failures a 500.
func (s *Server) failSession(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorInvalidSession) {
		s.clearCookie(w, sessionCookieName)
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}
	s.logger.Error(r.Context(), "session validation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// --- auth handlers ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing field")
		return
	}

	if s.cfg.SignupVerification {
		token, err := s.users.RegisterWithVerification(r.Context(), req.Email, req.Password)
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		s.setSignupCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]string{"status": "verification_sent"})
		return
	}

	user, session, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.setSessionCookie(w, session.Token, session.Expires, false)
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(signupCookieName)
	if err != nil || c.Value == "" {
		writeError(w, http.StatusBadRequest, "missing signup cookie")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing field")
		return
	}

	user, session, err := s.users.ConfirmCode(r.Context(), c.Value, req.Code)
	if err != nil {
		// An unknown token reads as "this signup no longer exists":
		// same as an invalid session for the caller.
		if errors.Is(err, common.ErrorNotFound) {
			s.clearCookie(w, signupCookieName)
			writeError(w, http.StatusUnauthorized, "unknown signup")
			return
		}
		if errors.Is(err, common.ErrorSignupExpired) || errors.Is(err, common.ErrorTooManyAttempts) {
			s.clearCookie(w, signupCookieName)
		}
		s.serviceError(w, r, err)
		return
	}

	s.clearCookie(w, signupCookieName)
	s.setSessionCookie(w, session.Token, session.Expires, false)
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing field")
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	session, err := s.sessions.Create(r.Context(), user.ID, req.Remember)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.setSessionCookie(w, session.Token, session.Expires, req.Remember)
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		// requireSession already passed; cannot happen.
		writeError(w, http.StatusBadRequest, "missing session cookie")
		return
	}
	if err := s.sessions.Revoke(r.Context(), c.Value); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.clearCookie(w, sessionCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "missing field")
		return
	}

	if err := s.users.ChangePassword(r.Context(), currentUserID(r.Context()), req.NewPassword); err != nil {
		s.serviceError(w, r, err)
		return
	}

	// Every session is gone, including this one.
	s.clearCookie(w, sessionCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteAccount(r.Context(), currentUserID(r.Context())); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.clearCookie(w, sessionCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "account_deleted"})
}

// --- external login ---

func (s *Server) handleExternalLogin(w http.ResponseWriter, r *http.Request) {
	target, err := s.ext.AuthURL()
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleExternalCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	identity, err := s.ext.Exchange(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		s.logger.Warn(r.Context(), "external login failed", "error", err)
		http.Redirect(w, r, "/login?error=external", http.StatusFound)
		return
	}

	user, err := s.users.LinkExternalIdentity(r.Context(), identity.Email, identity.Subject)
	if err != nil {
		s.logger.Error(r.Context(), "external identity linking failed", "error", err)
		http.Redirect(w, r, "/login?error=external", http.StatusFound)
		return
	}

	session, err := s.sessions.Create(r.Context(), user.ID, false)
	if err != nil {
		s.logger.Error(r.Context(), "session creation failed", "error", err)
		http.Redirect(w, r, "/login?error=external", http.StatusFound)
		return
	}

	s.setSessionCookie(w, session.Token, session.Expires, false)
	http.Redirect(w, r, "/", http.StatusFound)
}

// --- protected resources ---

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), currentUserID(r.Context()))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleNextClass(w http.ResponseWriter, r *http.Request) {
	class, err := s.caches.NextClass(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subject":   class.Subject,
		"classroom": class.Classroom,
		"starts_at": class.StartsAt,
	})
}

func (s *Server) handleTodayMeal(w http.ResponseWriter, r *http.Request) {
	meal, err := s.caches.MealForToday(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name": meal.Name,
		"soup": meal.Soup,
	})
}
