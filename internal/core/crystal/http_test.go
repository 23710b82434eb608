package crystal_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/internal/platform/ctxutil"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

func TestSuggestedEndpoint(t *testing.T) {
	history := &stubHistory{ids: []int{42}}
	service, _ := newService(history, &stubReservations{ids: []int{43}})
	router := crystal.NewHandler(service).Routes()

	request := httptest.NewRequest(http.MethodGet,
		"/suggested?subscriptionId=100&month=2&year=2024&cycleString=1-2&selectedCrystalIds=46&pageSize=2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Data   []crystal.Crystal `json:"data"`
		Paging struct {
			Page     int `json:"page"`
			PageSize int `json:"pageSize"`
			Total    int `json:"total"`
		} `json:"paging"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, 4, body.Paging.Total)
	assert.Equal(t, []int{1, 2}, history.query.Cycles)
}

func TestSuggestedEndpoint_BadRequests(t *testing.T) {
	service, _ := newService(&stubHistory{}, &stubReservations{})
	router := crystal.NewHandler(service).Routes()

	tests := []struct {
		name  string
		query string
	}{
		{"missing_cycle", "subscriptionId=1&month=0&year=2024"},
		{"reversed_range", "subscriptionId=1&month=0&year=2024&cycleString=9-3"},
		{"garbage_cycle", "subscriptionId=1&month=0&year=2024&cycleString=abc"},
		{"missing_month", "subscriptionId=1&year=2024&cycleString=1"},
		{"bad_selected", "subscriptionId=1&month=0&year=2024&cycleString=1&selectedCrystalIds=1,x"},
		{"bad_category", "subscriptionId=1&month=0&year=2024&cycleString=1&category=quartz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/suggested?"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

// noShipments is an empty shipment history; only range reads are used by lookbacks.
type noShipments struct {
	shipment.Repository
}

func (noShipments) ListInPeriodRange(ctx context.Context, subscriptionID int, from, to shipment.Period) ([]*shipment.Shipment, error) {
	return nil, nil
}

// oneSubscription knows a single subscription.
type oneSubscription struct {
	row *subscription.Subscription
}

func (repo oneSubscription) List(ctx context.Context) ([]*subscription.Subscription, error) {
	return []*subscription.Subscription{repo.row}, nil
}

func (repo oneSubscription) FindByID(ctx context.Context, id int) (*subscription.Subscription, error) {
	if id != repo.row.ID {
		return nil, apperr.NotFound("Subscription")
	}
	return repo.row, nil
}

func (repo oneSubscription) Create(ctx context.Context, s *subscription.Subscription) error { return nil }

func TestSuggestedEndpoint_UnknownSubscription(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	subscriptions := subscription.NewService(oneSubscription{row: &subscription.Subscription{ID: 7, CycleLength: 12}}, 12, logger)
	history := shipment.NewService(noShipments{}, subscriptions, shipment.LookbackSettings{DefaultDepth: 12, MaxDepth: 120}, logger)
	service, _ := newService(history, &stubReservations{})
	router := crystal.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/suggested?subscriptionId=999&month=2&year=2024&cycleString=1", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/suggested?subscriptionId=7&month=2&year=2024&cycleString=1", nil))
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestDeleteCrystal_RequiresAuthentication(t *testing.T) {
	service, _ := newService(&stubHistory{}, &stubReservations{})
	router := crystal.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/42", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUpdateCrystal_PatchKeepsAbsentFields(t *testing.T) {
	service, repo := newService(&stubHistory{}, &stubReservations{})
	router := crystal.NewHandler(service).Routes()

	request := httptest.NewRequest(http.MethodPatch, "/41", strings.NewReader(`{"inventory": "OUT"}`))
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{Role: string(sec.RoleStaff)}))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	require.NotNil(t, repo.updated)
	assert.Equal(t, 41, repo.updated.ID)
	assert.Equal(t, "Amethyst", repo.updated.Name)
	assert.True(t, repo.updated.IsOutOfStock())
}
