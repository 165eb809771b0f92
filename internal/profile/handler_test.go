package profile_test

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

func newRouter() http.Handler {
	h := profile.NewHandler(profile.NewService(profile.NewDirectory(), logging.Discard()))
	r := chi.NewRouter()
	r.Route("/profiles", h.Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

const adaJSON = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@x.com"}`

func TestHandler_CRUD(t *testing.T) {
	h := newRouter()

	rec := do(t, h, http.MethodPost, "/profiles", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[profile.Profile](t, rec)
	assert.Equal(t, int64(1), created.ID)

	rec = do(t, h, http.MethodGet, "/profiles/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@x.com", decode[profile.Profile](t, rec).Email)

	rec = do(t, h, http.MethodPut, "/profiles/1",
		`{"first_name":"Ada","last_name":"King","email":"ada@x.com","github":"https://github.com/ada"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[profile.Profile](t, rec)
	assert.Equal(t, "King", updated.LastName)
	require.NotNil(t, updated.GitHub)

	rec = do(t, h, http.MethodGet, "/profiles?q=king", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]profile.Profile](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/profiles/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/profiles/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httputil.CodeProfileNotFound, decode[httputil.ErrorResponse](t, rec).Code)
}

func TestHandler_Errors(t *testing.T) {
	h := newRouter()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/profiles", adaJSON).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"duplicate email", http.MethodPost, "/profiles", `{"first_name":"A","last_name":"B","email":"ADA@x.com"}`, http.StatusConflict, httputil.CodeEmailAlreadyExists},
		{"validation", http.MethodPost, "/profiles", `{"first_name":"A","email":"bad"}`, http.StatusBadRequest, httputil.CodeValidationFailed},
		{"malformed body", http.MethodPost, "/profiles", `{`, http.StatusBadRequest, httputil.CodeInvalidRequestBody},
		{"bad id", http.MethodGet, "/profiles/abc", "", http.StatusBadRequest, httputil.CodeInvalidParameter},
		{"missing", http.MethodGet, "/profiles/7", "", http.StatusNotFound, httputil.CodeProfileNotFound},
		{"update missing", http.MethodPut, "/profiles/7", adaJSON, http.StatusNotFound, httputil.CodeProfileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[httputil.ErrorResponse](t, rec).Code)
		})
	}

	rec := do(t, h, http.MethodPost, "/profiles", `{"first_name":"A","email":"bad"}`)
	fields := decode[httputil.ErrorResponse](t, rec).Fields
	assert.Contains(t, fields, "last_name")
	assert.Contains(t, fields, "email")
}
