package httpapi

import (
	"net/http"

	"playrates/internal/domain"
)

// The catalog never changes while the process runs.
const catalogCacheControl = "public, max-age=300"

func (a *api) handleGamesList(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	WriteJSON(w, http.StatusOK, a.gamesSvc.List())
}

func (a *api) handleGamesGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		WriteDomainError(w, domain.ErrNotFound)
		return
	}

	g, err := a.gamesSvc.Get(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.Header().Set("Cache-Control", catalogCacheControl)
	WriteJSON(w, http.StatusOK, g)
}
