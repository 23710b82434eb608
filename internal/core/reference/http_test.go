package reference_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/core/reference"
	"github.com/taibuivan/crystalbox/internal/platform/ctxutil"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

type memoryRepository struct {
	colors  []*reference.Color
	lookups map[reference.Kind][]*reference.Lookup
}

func (repo *memoryRepository) ListColors(ctx context.Context) ([]*reference.Color, error) {
	return repo.colors, nil
}

func (repo *memoryRepository) CreateColor(ctx context.Context, color *reference.Color) error {
	color.ID = len(repo.colors) + 1
	repo.colors = append(repo.colors, color)
	return nil
}

func (repo *memoryRepository) ListLookups(ctx context.Context, kind reference.Kind) ([]*reference.Lookup, error) {
	return repo.lookups[kind], nil
}

func (repo *memoryRepository) CreateLookup(ctx context.Context, kind reference.Kind, lookup *reference.Lookup) error {
	lookup.ID = len(repo.lookups[kind]) + 1
	repo.lookups[kind] = append(repo.lookups[kind], lookup)
	return nil
}

func newRouter() (http.Handler, *memoryRepository) {
	repo := &memoryRepository{lookups: map[reference.Kind][]*reference.Lookup{
		reference.KindCategory: {{ID: 4, Name: "Quartz"}},
		reference.KindLocation: {{ID: 9, Name: "Bin A"}},
	}}
	service := reference.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := reference.NewHandler(service)

	router := chi.NewRouter()
	router.Mount("/colors", handler.ColorRoutes())
	router.Mount("/categories", handler.LookupRoutes(reference.KindCategory))
	router.Mount("/locations", handler.LookupRoutes(reference.KindLocation))
	return router, repo
}

func withRole(request *http.Request, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func TestListLookups(t *testing.T) {
	router, _ := newRouter()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/locations", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []reference.Lookup `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []reference.Lookup{{ID: 9, Name: "Bin A"}}, body.Data)
}

func TestCreateColor(t *testing.T) {
	router, repo := newRouter()

	request := withRole(httptest.NewRequest(http.MethodPost, "/colors", strings.NewReader(`{"name":"Rose","hex":"#FFC0CB"}`)), sec.RoleAdmin)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	require.Len(t, repo.colors, 1)
	assert.Equal(t, "Rose", repo.colors[0].Name)
}

func TestCreateColor_RejectsBadHex(t *testing.T) {
	router, _ := newRouter()

	request := withRole(httptest.NewRequest(http.MethodPost, "/colors", strings.NewReader(`{"name":"Rose","hex":"pink"}`)), sec.RoleAdmin)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateLookup_RequiresAdmin(t *testing.T) {
	router, _ := newRouter()

	request := withRole(httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Calcite"}`)), sec.RoleViewer)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
