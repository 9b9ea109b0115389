package entry

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/travel-diary-api/internal/api"
	"github.com/FACorreiaa/travel-diary-api/internal/api/auth"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

type EntryHandler struct {
	entryService EntryService
	logger       *slog.Logger
}

func NewEntryHandler(entryService EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// callerID reads the authenticated user; it writes 401 and returns false
// when the gate did not run.
func (h *EntryHandler) callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID, true
}

// writeServiceError maps service errors to responses. Internal failures get a
// generic message.
func (h *EntryHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "Access to another user's entries is not allowed")
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Entry not found")
	default:
		h.logger.ErrorContext(r.Context(), internalMsg, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, internalMsg)
	}
}

// ListEntries godoc
// @Summary      List Entries
// @Description  Returns the authenticated user's diary entries.
// @Tags         Entries
// @Produce      json
// @Success      200 {array} types.Entry "Entries"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /entries [get]
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	entries, err := h.entryService.ListByUser(r.Context(), userID, userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Error fetching entries")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}

// GetEntry godoc
// @Summary      Get Entry
// @Description  Returns one of the authenticated user's entries.
// @Tags         Entries
// @Produce      json
// @Param        entryId path int true "Entry ID"
// @Success      200 {object} types.Entry "Entry"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /entries/{entryId} [get]
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	entryID, err := api.ParseIDParam(r, "entryId")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.entryService.Get(r.Context(), userID, entryID)
	if err != nil {
		h.writeServiceError(w, r, err, "Error fetching entry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, e)
}

// ListEntriesByUser godoc
// @Summary      List Entries By User
// @Description  Returns the entries of userId, which must be the authenticated user.
// @Tags         Entries
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {array} types.Entry "Entries"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /entries_by_user/{userId} [get]
func (h *EntryHandler) ListEntriesByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	ownerID, err := api.ParseIDParam(r, "userId")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.entryService.ListByUser(r.Context(), userID, ownerID)
	if err != nil {
		h.writeServiceError(w, r, err, "Error fetching entries by user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}

// CreateEntry godoc
// @Summary      Create Entry
// @Description  Creates a diary entry owned by the authenticated user.
// @Tags         Entries
// @Accept       json
// @Produce      json
// @Param        entry body types.EntryRequest true "Entry"
// @Success      201 {object} types.IDResponse "Entry created"
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /diary_entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req types.EntryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	id, err := h.entryService.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Error creating diary entry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.IDResponse{
		Success: true,
		ID:      id,
		Message: fmt.Sprintf("Diary entry created successfully with id %d", id),
	})
}

// UpdateEntry godoc
// @Summary      Update Entry
// @Description  Rewrites title, content, date and location of an entry.
// @Tags         Entries
// @Accept       json
// @Produce      json
// @Param        entryId path int true "Entry ID"
// @Param        entry body types.EntryRequest true "Entry"
// @Success      200 {object} types.Response "Entry updated"
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /update_entry/{entryId} [put]
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	entryID, err := api.ParseIDParam(r, "entryId")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req types.EntryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.entryService.Update(r.Context(), userID, entryID, req); err != nil {
		h.writeServiceError(w, r, err, "Error updating entry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Entry updated successfully"})
}

// DeleteEntry godoc
// @Summary      Delete Entry
// @Description  Deletes one of the authenticated user's entries.
// @Tags         Entries
// @Produce      json
// @Param        entryId path int true "Entry ID"
// @Success      200 {object} types.Response "Entry deleted"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Entry not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /delete_entry/{entryId} [delete]
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	entryID, err := api.ParseIDParam(r, "entryId")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.entryService.Delete(r.Context(), userID, entryID); err != nil {
		h.writeServiceError(w, r, err, "Error deleting entry")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Entry deleted successfully"})
}
