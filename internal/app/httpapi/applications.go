package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	applicationssvc "github.com/huntboard/huntboard/internal/app/services/applications"
	"github.com/huntboard/huntboard/internal/middleware"
)

func (h *handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompanyName     string `json:"company_name"`
		Role            string `json:"role"`
		Location        string `json:"location"`
		CompensationMin int    `json:"compensation_min"`
		CompensationMax int    `json:"compensation_max"`
		Notes           string `json:"notes"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	app, err := h.deps.Applications.Create(r.Context(), middleware.UserID(r.Context()), applicationssvc.CreateInput{
		CompanyName:     payload.CompanyName,
		Role:            payload.Role,
		Location:        payload.Location,
		CompensationMin: payload.CompensationMin,
		CompensationMax: payload.CompensationMax,
		Notes:           payload.Notes,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *handler) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.deps.Applications.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// loadOwned fetches the application and enforces that the caller owns it.
func (h *handler) loadOwned(w http.ResponseWriter, r *http.Request) (*application.Application, bool) {
	app, err := h.deps.Applications.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return nil, false
	}
	if app.UserID != middleware.UserID(r.Context()) {
		writeError(w, http.StatusForbidden, fmt.Errorf("application belongs to another user"))
		return nil, false
	}
	return app, true
}

func (h *handler) getApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) updateApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		CompanyName     *string `json:"company_name"`
		Role            *string `json:"role"`
		Location        *string `json:"location"`
		CompensationMin *int    `json:"compensation_min"`
		CompensationMax *int    `json:"compensation_max"`
		Notes           *string `json:"notes"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.Update(r.Context(), app.ID, applicationssvc.UpdateInput{
		CompanyName:     payload.CompanyName,
		Role:            payload.Role,
		Location:        payload.Location,
		CompensationMin: payload.CompensationMin,
		CompensationMax: payload.CompensationMax,
		Notes:           payload.Notes,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) changeApplicationState(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		StateID string `json:"state_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.ChangeState(r.Context(), app.ID, payload.StateID, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) rejectApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		Method       string `json:"method"`
		Reason       string `json:"reason"`
		ResponseText string `json:"response_text"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.Reject(r.Context(), app.ID, application.Rejection{
		Method:       payload.Method,
		Reason:       payload.Reason,
		ResponseText: payload.ResponseText,
	}, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) acceptApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		Method                  string `json:"method"`
		ResponseText            string `json:"response_text"`
		ArchiveOpenApplications bool   `json:"archive_open_applications"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.Accept(r.Context(), app.ID, application.Acceptance{
		Method:                  payload.Method,
		ResponseText:            payload.ResponseText,
		ArchiveOpenApplications: payload.ArchiveOpenApplications,
	}, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) archiveApplication(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.deps.Applications.Archive)
}

func (h *handler) unarchiveApplication(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.deps.Applications.Unarchive)
}

func (h *handler) deactivateApplication(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.deps.Applications.Deactivate)
}

func (h *handler) reactivateApplication(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.deps.Applications.Reactivate)
}

func (h *handler) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, actor string) (*application.Application, error)) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	updated, err := op(r.Context(), app.ID, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) addContact(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Notes string `json:"notes"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.AddContact(r.Context(), app.ID, application.Contact{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
		Notes: payload.Notes,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

func (h *handler) removeContact(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	updated, err := h.deps.Applications.RemoveContact(r.Context(), app.ID, chi.URLParam(r, "contactID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) addAppointment(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var payload struct {
		StartUTC    time.Time `json:"start_utc"`
		EndUTC      time.Time `json:"end_utc"`
		Description string    `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.deps.Applications.AddAppointment(r.Context(), app.ID, application.Appointment{
		StartDateTimeUTC: payload.StartUTC.UTC(),
		EndDateTimeUTC:   payload.EndUTC.UTC(),
		Description:      payload.Description,
	}, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}
