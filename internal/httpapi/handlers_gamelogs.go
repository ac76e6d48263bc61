package httpapi

import (
	"net/http"

	"playrates/internal/domain"
	"playrates/internal/service"
)

func (a *api) handleGameLogsList(w http.ResponseWriter, r *http.Request) {
	logs, err := a.gameLogsSvc.ListAll(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, logs)
}

func (a *api) handleGameLogsForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "userID")
	if !ok {
		WriteJSON(w, http.StatusOK, []domain.GameLog{})
		return
	}

	logs, err := a.gameLogsSvc.ListForUser(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, logs)
}

func (a *api) handleGameLogsCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "userID")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	var req domain.GameLog
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	created, err := a.gameLogsSvc.Create(r.Context(), userID, req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (a *api) handleGameLogsUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok1 := pathInt(r, "userID")
	gameID, ok2 := pathInt(r, "gameID")
	if !ok1 || !ok2 {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	var patch service.GameLogPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	updated, err := a.gameLogsSvc.Update(r.Context(), userID, gameID, patch)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (a *api) handleGameLogsDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok1 := pathInt(r, "userID")
	gameID, ok2 := pathInt(r, "gameID")
	if !ok1 || !ok2 {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	if err := a.gameLogsSvc.Delete(r.Context(), userID, gameID); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
