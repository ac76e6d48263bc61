package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"playrates/internal/domain"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"login": "required", "password": "required"}))
		return
	}

	now := time.Now()
	if !a.loginLimiter.Allow("ip:"+clientIP(r, a.trustProxy), now) || !a.loginLimiter.Allow("login:"+strings.ToLower(req.Login), now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	u, err := a.authSvc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

type logoutRequest struct {
	ID int `json:"id"`
}

func (a *api) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.authSvc.Logout(r.Context(), req.ID); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clientIP returns the peer address, or the first X-Forwarded-For hop when
// the server sits behind a trusted proxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if xff := r.Header.Get("X-Forwarded-For"); trustProxy && xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
