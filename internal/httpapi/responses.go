package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"playrates/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageResponse{Message: message})
}

func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
			Code:    "validation_error",
			Message: "invalid request",
			Fields:  verr.Fields,
		}})
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrUsernameTaken):
		WriteError(w, http.StatusConflict, "username_taken", "username already taken")
	case errors.Is(err, domain.ErrEmailTaken):
		WriteError(w, http.StatusConflict, "email_taken", "email already taken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid login or password")
	case errors.Is(err, domain.ErrFriendshipExists):
		WriteError(w, http.StatusConflict, "friendship_exists", "friend request already exists")
	case errors.Is(err, domain.ErrGameLogExists):
		WriteError(w, http.StatusConflict, "gamelog_exists", "game already logged")
	case errors.Is(err, domain.ErrReviewExists):
		WriteError(w, http.StatusConflict, "review_exists", "game already reviewed")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeServiceError logs failures that are not part of the domain taxonomy
// before answering.
func (a *api) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if !isDomainError(err) {
		fields := []any{"err", err, "method", r.Method, "path", r.URL.Path}
		if rid, ok := GetRequestID(r.Context()); ok {
			fields = append(fields, "request_id", rid)
		}
		a.logger.Error("request failed", fields...)
	}
	WriteDomainError(w, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrUsernameTaken,
		domain.ErrEmailTaken,
		domain.ErrInvalidCredentials,
		domain.ErrFriendshipExists,
		domain.ErrGameLogExists,
		domain.ErrReviewExists,
		domain.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.PathValue(name)))
	if err != nil {
		return 0, false
	}
	return n, true
}
