package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func identityProbe(capture *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityFromHeader(t *testing.T) {
	var got string
	h := Identity(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.Header.Set(IdentityHeader, "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0x874069fa1eb16d44d622f2e0ca25eea172369bc1", got, "identity is lower-cased")
}

func TestIdentityFallback(t *testing.T) {
	var got string
	h := Identity(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FallbackIdentity, got)
}

func TestIdentityRejectsMalformedAddress(t *testing.T) {
	var got string
	h := Identity(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.Header.Set(IdentityHeader, "0xnot-an-address")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, got, "handler must not run")
	assert.Contains(t, rec.Body.String(), "well-formed")
}

func TestGetIdentityWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, FallbackIdentity, GetIdentity(req.Context()))
}
