package httpapi

import (
	"context"
	"net/http"

	"playrates/internal/domain"
)

// friendActionRequest names the acting user; the path names the peer.
type friendActionRequest struct {
	ID *int `json:"id"`
}

func (a *api) handleFriendsOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "userID")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	out, err := a.friendsSvc.Overview(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *api) handleFriendsAdd(w http.ResponseWriter, r *http.Request) {
	a.friendTransition(w, r, "Friend request sent", a.friendsSvc.SendRequest)
}

func (a *api) handleFriendsAccept(w http.ResponseWriter, r *http.Request) {
	a.friendTransition(w, r, "Friend Request accepted", a.friendsSvc.Accept)
}

func (a *api) handleFriendsDecline(w http.ResponseWriter, r *http.Request) {
	a.friendTransition(w, r, "Friend request declined", a.friendsSvc.Decline)
}

func (a *api) handleFriendsCancel(w http.ResponseWriter, r *http.Request) {
	a.friendTransition(w, r, "Friend request cancelled", a.friendsSvc.Cancel)
}

func (a *api) handleFriendsRemove(w http.ResponseWriter, r *http.Request) {
	a.friendTransition(w, r, "Friend removed", a.friendsSvc.Remove)
}

func (a *api) friendTransition(w http.ResponseWriter, r *http.Request, okMessage string, apply func(ctx context.Context, actorID, peerID int) error) {
	peerID, ok := pathInt(r, "id")
	if !ok {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "must be a user id"}))
		return
	}

	var req friendActionRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if req.ID == nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := apply(r.Context(), *req.ID, peerID); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.logger.Info("friend transition", "message", okMessage, "actor_id", *req.ID, "peer_id", peerID)
	WriteMessage(w, http.StatusOK, okMessage)
}
