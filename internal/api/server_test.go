package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/api"
	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/prebuild"
	"github.com/taibuivan/crystalbox/internal/core/reference"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/config"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/internal/users/auth"
)

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("invalid token")
}

func newRouter(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	return api.NewRouter(t.Context(), &config.Config{Environment: "development"}, logger, rejectingVerifier{}, api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(nil),
		Crystal:      crystal.NewHandler(nil),
		PreBuild:     prebuild.NewHandler(nil),
		Shipment:     shipment.NewHandler(nil),
		Subscription: subscription.NewHandler(nil),
		Reference:    reference.NewHandler(nil),
	})
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

func TestHealth(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{})

	recorder := serve(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}

func TestReady(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	recorder := serve(newRouter(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}), http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)

	recorder = serve(newRouter(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: down}), http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"name":"redis","ok":false`)
}

func TestDomainRoutesRequireAuthentication(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{})

	for _, path := range []string{
		"/crystals/suggested?subscriptionId=1&month=0&year=2024&cycleString=1",
		"/preBuilds",
		"/shipments",
		"/subscriptions",
		"/colors",
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, path).Code, path)
	}

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/preBuilds/1/smartCheck").Code)
}

func TestUnknownRoutesAreNotFound(t *testing.T) {
	router := newRouter(t, api.HealthDependencies{})

	for _, path := range []string{"/nope", "/colours", "/health/extra"} {
		assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, path).Code, path)
	}

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/categories").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/locations").Code)
}
