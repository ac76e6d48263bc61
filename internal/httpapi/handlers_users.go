package httpapi

import (
	"net/http"

	"playrates/internal/domain"
	"playrates/internal/service"
)

func (a *api) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.usersSvc.List(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

func (a *api) handleUsersFind(w http.ResponseWriter, r *http.Request) {
	field, ok := domain.ParseLookupField(r.PathValue("type"))
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	u, err := a.usersSvc.Find(r.Context(), field, r.PathValue("value"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Picture  string `json:"picture"`
	Bio      string `json:"bio"`
}

func (a *api) handleUsersCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.authSvc.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Picture:  req.Picture,
		Bio:      req.Bio,
	})
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, u)
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Picture  *string `json:"picture"`
	Bio      *string `json:"bio"`
	Online   *bool   `json:"online"`
	Password *string `json:"password"`
}

func (a *api) handleUsersUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.usersSvc.UpdateProfile(r.Context(), id, service.ProfileParams{
		Username: req.Username,
		Email:    req.Email,
		Picture:  req.Picture,
		Bio:      req.Bio,
		Online:   req.Online,
		Password: req.Password,
	})
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}
