package httpapi

import (
	"net/http"

	"playrates/internal/domain"
	"playrates/internal/service"
)

func (a *api) handleReviewsList(w http.ResponseWriter, r *http.Request) {
	reviews, err := a.reviewsSvc.ListAll(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, reviews)
}

func (a *api) handleReviewsForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "userID")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	reviews, err := a.reviewsSvc.ListForUser(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, reviews)
}

func (a *api) handleReviewsForGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathInt(r, "gameID")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	reviews, err := a.reviewsSvc.ListForGame(r.Context(), gameID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, reviews)
}

type createReviewRequest struct {
	GameID int    `json:"gameID"`
	Text   string `json:"text"`
	Public bool   `json:"public"`
}

func (a *api) handleReviewsCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "userID")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	review, err := a.reviewsSvc.Create(r.Context(), userID, service.CreateReviewParams{
		GameID: req.GameID,
		Text:   req.Text,
		Public: req.Public,
	})
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, review)
}
