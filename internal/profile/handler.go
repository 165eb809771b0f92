package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/qrprofile/internal/httputil"
	"github.com/redmonkez12/qrprofile/internal/logging"
)

// Handler contains HTTP handlers for profile endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the profile CRUD endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns all profiles, filtered by the q query parameter
// @Summary      List or search profiles
// @Tags         profiles
// @Produce      json
// @Param        q query string false "Case-insensitive search term"
// @Success      200 {array} Profile
// @Router       /profiles [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		RespondError(w, r, err, "failed to list profiles")
		return
	}
	httputil.RespondJSON(w, profiles, http.StatusOK)
}

// Create handles profile creation
// @Summary      Create a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body Input true "Profile fields"
// @Success      201 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /profiles [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		RespondError(w, r, err, "failed to create profile")
		return
	}
	httputil.RespondJSON(w, p, http.StatusCreated)
}

// Get returns a single profile
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Param        id path int true "Profile ID"
// @Success      200 {object} Profile
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		RespondError(w, r, err, "failed to get profile")
		return
	}
	httputil.RespondJSON(w, p, http.StatusOK)
}

// Update replaces a profile's fields
// @Summary      Update a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id path int true "Profile ID"
// @Param        request body Input true "Profile fields"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /profiles/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		RespondError(w, r, err, "failed to update profile")
		return
	}
	httputil.RespondJSON(w, p, http.StatusOK)
}

// Delete removes a profile
// @Summary      Delete a profile
// @Tags         profiles
// @Param        id path int true "Profile ID"
// @Success      204
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		RespondError(w, r, err, "failed to delete profile")
		return
	}
	if !deleted {
		RespondError(w, r, ErrNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid profile request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return Input{}, false
	}
	return in, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidParameter, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// RespondError maps profile errors to HTTP responses. Unknown errors are
// logged and answered with internalMsg and a 500; their detail never reaches
// the client.
func RespondError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		httputil.RespondValidationError(w, validationErr.Message, validationErr.Fields)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "profile not found", httputil.CodeProfileNotFound, http.StatusNotFound)
	case errors.Is(err, ErrDuplicateEmail):
		httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeEmailAlreadyExists, http.StatusConflict)
	default:
		logging.GetLoggerFromContext(r.Context()).Error(internalMsg, "error", err.Error())
		httputil.RespondErrorWithCode(w, internalMsg, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
