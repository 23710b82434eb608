package shipment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

type memoryRepository struct {
	rows      []*shipment.Shipment
	rangeHits int
	from, to  shipment.Period
}

func (repo *memoryRepository) ListInPeriodRange(ctx context.Context, subscriptionID int, from, to shipment.Period) ([]*shipment.Shipment, error) {
	repo.rangeHits++
	repo.from, repo.to = from, to

	out := make([]*shipment.Shipment, 0)
	for _, row := range repo.rows {
		index := row.Period().Index()
		if row.SubscriptionID == subscriptionID && index >= from.Index() && index <= to.Index() {
			out = append(out, row)
		}
	}
	return out, nil
}

func (repo *memoryRepository) List(ctx context.Context, filter shipment.Filter, params pagination.Params) ([]*shipment.Shipment, int, error) {
	return repo.rows, len(repo.rows), nil
}

func (repo *memoryRepository) FindByID(ctx context.Context, id int) (*shipment.Shipment, error) {
	for _, row := range repo.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Shipment")
}

func (repo *memoryRepository) CreateBatch(ctx context.Context, shipments []*shipment.Shipment) error {
	for _, s := range shipments {
		for _, row := range repo.rows {
			if row.SubscriptionID == s.SubscriptionID && row.Month == s.Month && row.Year == s.Year && row.Cycle == s.Cycle {
				return apperr.Conflict("Shipment already exists")
			}
		}
	}
	for _, s := range shipments {
		s.ID = len(repo.rows) + 1
		repo.rows = append(repo.rows, s)
	}
	return nil
}

type fixedCycleLength int

func (length fixedCycleLength) CycleLength(ctx context.Context, subscriptionID int) (int, error) {
	return int(length), nil
}

func newService(repo shipment.Repository, monthWide bool) *shipment.Service {
	settings := shipment.LookbackSettings{DefaultDepth: 12, MaxDepth: 120, MonthWide: monthWide}
	return shipment.NewService(repo, fixedCycleLength(12), settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPreviousCrystalIDs_BarsEarlierCycle(t *testing.T) {
	repo := &memoryRepository{rows: []*shipment.Shipment{
		{ID: 1, SubscriptionID: 100, Month: 2, Year: 2024, Cycle: 1, CrystalIDs: []int{42}},
		{ID: 2, SubscriptionID: 200, Month: 2, Year: 2024, Cycle: 1, CrystalIDs: []int{99}},
	}}

	ids, err := newService(repo, false).PreviousCrystalIDs(context.Background(), shipment.LookbackQuery{
		SubscriptionID: 100, Month: 2, Year: 2024, Cycles: []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{42}, ids)
	assert.Equal(t, 1, repo.rangeHits, "history loads with a single range query")
}

func TestPreviousCrystalIDs_Unique(t *testing.T) {
	repo := &memoryRepository{rows: []*shipment.Shipment{
		{ID: 1, SubscriptionID: 7, Month: 0, Year: 2024, Cycle: 1, CrystalIDs: []int{5, 3}},
		{ID: 2, SubscriptionID: 7, Month: 11, Year: 2023, Cycle: 12, CrystalIDs: []int{3, 9}},
		{ID: 3, SubscriptionID: 7, Month: 11, Year: 2023, Cycle: 11, CrystalIDs: []int{9, 5}},
	}}

	ids, err := newService(repo, false).PreviousCrystalIDs(context.Background(), shipment.LookbackQuery{
		SubscriptionID: 7, Month: 0, Year: 2024, Cycles: []int{2}, Depth: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 5, 9}, ids)
	assert.Equal(t, shipment.Period{Month: 11, Year: 2023}, repo.from)
	assert.Equal(t, shipment.Period{Month: 0, Year: 2024}, repo.to)
}

func TestPreviousCrystalIDs_MonthWide(t *testing.T) {
	repo := &memoryRepository{rows: []*shipment.Shipment{
		{ID: 1, SubscriptionID: 7, Month: 11, Year: 2023, Cycle: 4, CrystalIDs: []int{8}},
	}}
	query := shipment.LookbackQuery{SubscriptionID: 7, Month: 0, Year: 2024, Cycles: []int{1}, Depth: 1}

	ids, err := newService(repo, true).PreviousCrystalIDs(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, ids)

	ids, err = newService(repo, false).PreviousCrystalIDs(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type unknownSubscriptions struct{}

func (unknownSubscriptions) CycleLength(ctx context.Context, subscriptionID int) (int, error) {
	return 0, apperr.NotFound("Subscription")
}

func TestPreviousCrystalIDs_UnknownSubscription(t *testing.T) {
	repo := &memoryRepository{}
	settings := shipment.LookbackSettings{DefaultDepth: 12, MaxDepth: 120}
	service := shipment.NewService(repo, unknownSubscriptions{}, settings, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.PreviousCrystalIDs(context.Background(), shipment.LookbackQuery{
		SubscriptionID: 999, Month: 2, Year: 2024, Cycles: []int{1},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, repo.rangeHits)
}

func TestPreviousCrystalIDs_Validation(t *testing.T) {
	service := newService(&memoryRepository{}, true)

	tests := []struct {
		name  string
		query shipment.LookbackQuery
	}{
		{"month_out_of_range", shipment.LookbackQuery{SubscriptionID: 1, Month: 12, Year: 2024, Cycles: []int{1}}},
		{"no_cycles", shipment.LookbackQuery{SubscriptionID: 1, Month: 1, Year: 2024}},
		{"zero_cycle", shipment.LookbackQuery{SubscriptionID: 1, Month: 1, Year: 2024, Cycles: []int{0}}},
		{"depth_too_large", shipment.LookbackQuery{SubscriptionID: 1, Month: 1, Year: 2024, Cycles: []int{1}, Depth: 121}},
		{"missing_subscription", shipment.LookbackQuery{Month: 1, Year: 2024, Cycles: []int{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.PreviousCrystalIDs(context.Background(), tt.query)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestExpand(t *testing.T) {
	shipments, err := shipment.Expand(shipment.Draft{
		SubscriptionID: 3, Month: 0, Year: 2024, CycleSpec: "3, 7-9", CrystalIDs: []int{4, 2, 4},
	})
	require.NoError(t, err)
	require.Len(t, shipments, 4)

	cycles := make([]int, 0, len(shipments))
	for _, s := range shipments {
		cycles = append(cycles, s.Cycle)
		assert.Equal(t, "2024-JAN:3, 7-9", s.GroupLabel)
		assert.Equal(t, []int{2, 4}, s.CrystalIDs)
	}
	assert.Equal(t, []int{3, 7, 8, 9}, cycles)

	_, err = shipment.Expand(shipment.Draft{SubscriptionID: 3, Month: 0, Year: 2024, CycleSpec: "9-3"})
	assert.Error(t, err)
}

func TestCreateShipments_DuplicateCycle(t *testing.T) {
	repo := &memoryRepository{}
	service := newService(repo, true)
	draft := shipment.Draft{SubscriptionID: 1, Month: 4, Year: 2024, CycleSpec: "2"}

	_, err := service.CreateShipments(context.Background(), draft)
	require.NoError(t, err)

	_, err = service.CreateShipments(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}
