package share

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/qrprofile/internal/httputil"
	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/qrcode"
	"github.com/redmonkez12/qrprofile/internal/qrimage"
	"github.com/redmonkez12/qrprofile/internal/vcard"
)

// Handler serves contact cards and QR codes.
type Handler struct {
	pipeline *Pipeline
	profiles ProfileSource
}

func NewHandler(pipeline *Pipeline, profiles ProfileSource) *Handler {
	return &Handler{
		pipeline: pipeline,
		profiles: profiles,
	}
}

// ProfileRoutes registers the per-profile endpoints on a router mounted at
// /profiles.
func (h *Handler) ProfileRoutes(r chi.Router) {
	r.Get("/{id}/vcard", h.VCard)
	r.Get("/{id}/qrcode", h.QRCode)
	r.Get("/{id}/share", h.Share)
}

// ShareResponse is the JSON form of a rendered contact code.
type ShareResponse struct {
	ProfileID   int64  `json:"profile_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Base64      string `json:"base64"`
	DataURI     string `json:"data_uri"`
	Version     int    `json:"version"`
	Level       string `json:"level"`
	Width       int    `json:"width"`
}

// GenerateRequest is the body of an ad-hoc QR code request.
type GenerateRequest struct {
	profile.Input
	Size int `json:"size,omitempty"`
}

// VCard returns the contact card text of a profile
// @Summary      Download a profile's vCard
// @Tags         sharing
// @Produce      text/vcard
// @Param        id path int true "Profile ID"
// @Success      200 {string} string
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/{id}/vcard [get]
func (h *Handler) VCard(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidParameter, http.StatusBadRequest)
		return
	}

	p, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		profile.RespondError(w, r, err, "failed to get profile")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="contact-`+strconv.FormatInt(id, 10)+`.vcf"`)
	httputil.RespondBytes(w, []byte(vcard.Format(p.Contact())), "text/vcard; charset=utf-8", http.StatusOK)
}

// QRCode returns a profile's QR code as a PNG
// @Summary      Profile QR code image
// @Tags         sharing
// @Produce      png
// @Param        id path int true "Profile ID"
// @Param        size query int false "Pixels per module"
// @Success      200 {file} binary
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/{id}/qrcode [get]
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	payload, _, ok := h.profilePayload(w, r)
	if !ok {
		return
	}
	httputil.RespondBytes(w, payload.Image.PNG, "image/png", http.StatusOK)
}

// Share returns a profile's QR code as base64 and a data URI
// @Summary      Profile QR code for inline embedding
// @Tags         sharing
// @Produce      json
// @Param        id path int true "Profile ID"
// @Param        size query int false "Pixels per module"
// @Success      200 {object} ShareResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /profiles/{id}/share [get]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	payload, p, ok := h.profilePayload(w, r)
	if !ok {
		return
	}

	resp := newShareResponse(payload)
	resp.ProfileID = p.ID
	resp.DisplayName = p.DisplayName()
	httputil.RespondJSON(w, resp, http.StatusOK)
}

// Generate renders a QR code for contact details that are not stored
// @Summary      Ad-hoc contact QR code
// @Tags         sharing
// @Accept       json
// @Produce      json
// @Param        request body GenerateRequest true "Contact fields"
// @Success      200 {object} ShareResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      422 {object} httputil.ErrorResponse "Contact too large"
// @Router       /qrcode [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid qrcode request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if !validSize(req.Size) {
		respondInvalidSize(w)
		return
	}

	in, err := req.Input.Validate()
	if err != nil {
		respondPipelineError(w, r, err)
		return
	}

	payload, err := h.pipeline.Generate(r.Context(), in.Contact(), req.Size)
	if err != nil {
		respondPipelineError(w, r, err)
		return
	}
	httputil.RespondJSON(w, newShareResponse(payload), http.StatusOK)
}

func (h *Handler) profilePayload(w http.ResponseWriter, r *http.Request) (*Payload, *profile.Profile, bool) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidParameter, http.StatusBadRequest)
		return nil, nil, false
	}

	size, ok := parseSize(r)
	if !ok {
		respondInvalidSize(w)
		return nil, nil, false
	}

	p, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		profile.RespondError(w, r, err, "failed to get profile")
		return nil, nil, false
	}

	payload, err := h.pipeline.ForProfile(r.Context(), p, size)
	if err != nil {
		respondPipelineError(w, r, err)
		return nil, nil, false
	}
	return payload, p, true
}

func newShareResponse(p *Payload) ShareResponse {
	return ShareResponse{
		Base64:  p.Image.Base64,
		DataURI: p.Image.DataURI(),
		Version: p.Version,
		Level:   p.Level.String(),
		Width:   p.Image.Width,
	}
}

// parseSize reads the optional size query parameter. Absent means default.
func parseSize(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("size")
	if raw == "" {
		return 0, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || !validSize(size) || size == 0 {
		return 0, false
	}
	return size, true
}

func validSize(size int) bool {
	return size >= 0 && size <= qrimage.MaxModuleSize
}

func respondInvalidSize(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w,
		"size must be between 1 and "+strconv.Itoa(qrimage.MaxModuleSize),
		httputil.CodeInvalidParameter, http.StatusBadRequest)
}

func respondPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	var encErr *qrcode.EncodingError
	switch {
	case errors.As(err, &encErr):
		logger.Warn("contact card exceeds QR capacity",
			"length", encErr.Length,
			"capacity", encErr.Capacity,
			"level", encErr.Level.String(),
		)
		httputil.RespondErrorWithCode(w,
			"contact card is too large for a QR code, shorten the optional fields",
			httputil.CodeContentTooLarge, http.StatusUnprocessableEntity)
	case errors.Is(err, qrimage.ErrRender):
		logger.Error("failed to render qr code", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to render qr code", httputil.CodeRenderFailed, http.StatusInternalServerError)
	default:
		profile.RespondError(w, r, err, "failed to generate qr code")
	}
}
