package share

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/qrprofile/internal/httputil"
	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := profile.NewDirectory()
	_, err := dir.Create(t.Context(), profile.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"})
	require.NoError(t, err)

	h := NewHandler(newPipeline(nil), profile.NewService(dir, logging.Discard()))
	r := chi.NewRouter()
	r.Route("/profiles", h.ProfileRoutes)
	r.Post("/qrcode", h.Generate)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_VCard(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/profiles/1/vcard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vcard; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contact-1.vcf")
	assert.Contains(t, rec.Body.String(), "N:Lovelace;Ada;;;\r\n")
}

func TestHandler_QRCode(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/profiles/1/qrcode?size=3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestHandler_Share(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/profiles/1/share", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ProfileID)
	assert.Equal(t, "Ada Lovelace (ada@x.com)", resp.DisplayName)
	assert.Equal(t, "M", resp.Level)
	assert.Equal(t, "data:image/png;base64,"+resp.Base64, resp.DataURI)
	assert.Contains(t, scanPNG(t, resp.Base64), "FN:Ada Lovelace\r\n")
}

func TestHandler_Generate(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodPost, "/qrcode",
		`{"first_name":"Grace","last_name":"Hopper","email":"grace@navy.mil","phone":"555","size":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.ProfileID)
	assert.Contains(t, scanPNG(t, resp.Base64), "TEL;TYPE=CELL:555\r\n")
}

func TestHandler_Errors(t *testing.T) {
	h := newTestRouter(t)
	long := strings.Repeat("9", 20)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing profile", http.MethodGet, "/profiles/9/share", "", http.StatusNotFound, httputil.CodeProfileNotFound},
		{"bad id", http.MethodGet, "/profiles/x/qrcode", "", http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"size zero", http.MethodGet, "/profiles/1/qrcode?size=0", "", http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"size too big", http.MethodGet, "/profiles/1/qrcode?size=65", "", http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"size not a number", http.MethodGet, "/profiles/1/share?size=big", "", http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"malformed body", http.MethodPost, "/qrcode", "{", http.StatusBadRequest, httputil.CodeInvalidRequestBody},
		{"invalid contact", http.MethodPost, "/qrcode", `{"first_name":"A"}`, http.StatusBadRequest, httputil.CodeValidationFailed},
		{"negative size", http.MethodPost, "/qrcode", `{"first_name":"A","last_name":"B","email":"a@b.co","size":-1}`, http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"phone too long", http.MethodPost, "/qrcode", `{"first_name":"A","last_name":"B","email":"a@b.co","phone":"` + long + `9"}`, http.StatusBadRequest, httputil.CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}
