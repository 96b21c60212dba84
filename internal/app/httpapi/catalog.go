package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *handler) listStates(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		states, err := h.deps.Catalog.ListActive(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, states)
		return
	}

	states, err := h.deps.Catalog.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) createState(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		HexColor string `json:"hex_color"`
		SeqNo    int    `json:"seq_no"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st, err := h.deps.Catalog.Create(r.Context(), payload.Name, payload.HexColor, payload.SeqNo)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *handler) updateState(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     *string `json:"name"`
		HexColor *string `json:"hex_color"`
		SeqNo    *int    `json:"seq_no"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st, err := h.deps.Catalog.Update(r.Context(), chi.URLParam(r, "id"), payload.Name, payload.HexColor, payload.SeqNo)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) deactivateState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Catalog.Deactivate(r.Context(), chi.URLParam(r, "id"), time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) reactivateState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Catalog.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
