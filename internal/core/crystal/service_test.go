package crystal_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/pkg/pagination"
	"github.com/taibuivan/crystalbox/pkg/pointer"
)

// memoryRepository applies id exclusions in memory and records the criteria.
type memoryRepository struct {
	rows     []*crystal.Crystal
	criteria crystal.Criteria
	updated  *crystal.Crystal
}

func (repo *memoryRepository) List(ctx context.Context, criteria crystal.Criteria, params pagination.Params) ([]*crystal.Crystal, int, error) {
	repo.criteria = criteria

	out := make([]*crystal.Crystal, 0)
	for _, row := range repo.rows {
		if !slices.Contains(criteria.ExcludeIDs, row.ID) {
			out = append(out, row)
		}
	}
	return out, len(out), nil
}

func (repo *memoryRepository) ListByIDs(ctx context.Context, ids []int) ([]*crystal.Crystal, error) {
	out := make([]*crystal.Crystal, 0)
	for _, row := range repo.rows {
		if slices.Contains(ids, row.ID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (repo *memoryRepository) FindByID(ctx context.Context, id int) (*crystal.Crystal, error) {
	for _, row := range repo.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Crystal")
}

func (repo *memoryRepository) Create(ctx context.Context, c *crystal.Crystal) error {
	c.ID = len(repo.rows) + 1
	repo.rows = append(repo.rows, c)
	return nil
}

func (repo *memoryRepository) Update(ctx context.Context, c *crystal.Crystal) error {
	repo.updated = c
	return nil
}

func (repo *memoryRepository) Delete(ctx context.Context, id int) error { return nil }

type stubHistory struct {
	ids   []int
	err   error
	query shipment.LookbackQuery
	calls atomic.Int32
}

func (stub *stubHistory) PreviousCrystalIDs(ctx context.Context, query shipment.LookbackQuery) ([]int, error) {
	stub.calls.Add(1)
	stub.query = query
	return stub.ids, stub.err
}

type stubReservations struct {
	ids   []int
	cycle int
}

func (stub *stubReservations) UpcomingCrystalIDs(ctx context.Context, subscriptionID, cycle int) ([]int, error) {
	stub.cycle = cycle
	return stub.ids, nil
}

func inventory(level crystal.Inventory) *crystal.Inventory { return pointer.To(level) }

func catalog() []*crystal.Crystal {
	return []*crystal.Crystal{
		{ID: 41, Name: "Amethyst", Inventory: inventory(crystal.InventoryLow)},
		{ID: 42, Name: "Citrine", Inventory: inventory(crystal.InventoryHigh)},
		{ID: 43, Name: "Fluorite", Inventory: inventory(crystal.InventoryHigh)},
		{ID: 44, Name: "Agate", Inventory: inventory(crystal.InventoryOut)},
		{ID: 45, Name: "Jasper"},
		{ID: 46, Name: "Calcite", Inventory: inventory(crystal.InventoryHigh)},
		{ID: 47, Name: "Obsidian", Inventory: inventory(crystal.InventoryMedium)},
	}
}

func newService(history crystal.HistoryReader, reservations crystal.ReservationReader) (*crystal.Service, *memoryRepository) {
	repo := &memoryRepository{rows: catalog()}
	return crystal.NewService(repo, history, reservations, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func ids(crystals []*crystal.Crystal) []int {
	out := make([]int, 0, len(crystals))
	for _, c := range crystals {
		out = append(out, c.ID)
	}
	return out
}

func TestSuggestCrystals_BarsShippedAndReserved(t *testing.T) {
	history := &stubHistory{ids: []int{42}}
	reservations := &stubReservations{ids: []int{43}}
	service, _ := newService(history, reservations)

	crystals, total, err := service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 100, Month: 2, Year: 2024, Cycles: []int{1, 2},
	}, pagination.Params{Page: 1, PageSize: 25})
	require.NoError(t, err)

	assert.NotContains(t, ids(crystals), 42)
	assert.NotContains(t, ids(crystals), 43)
	assert.Equal(t, 5, total)

	assert.Equal(t, 2, reservations.cycle, "lookahead starts after the largest requested cycle")
	assert.Equal(t, shipment.LookbackQuery{SubscriptionID: 100, Month: 2, Year: 2024, Cycles: []int{1, 2}}, history.query)
}

func TestSuggestCrystals_OrdersByInventory(t *testing.T) {
	service, repo := newService(&stubHistory{}, &stubReservations{})

	_, _, err := service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 1, Month: 0, Year: 2024, Cycles: []int{1},
	}, pagination.Params{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, crystal.OrderByInventory, repo.criteria.Order)

	_, _, err = service.ListCrystals(context.Background(), "", nil, pagination.Params{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, crystal.OrderByName, repo.criteria.Order)
}

func TestSuggestCrystals_BarredSetUnion(t *testing.T) {
	service, repo := newService(&stubHistory{ids: []int{47, 42}}, &stubReservations{ids: []int{42, 43}})

	_, _, err := service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 1, Month: 0, Year: 2024, Cycles: []int{3},
		SelectedIDs: []int{41}, ExcludedIDs: []int{44, 41},
		Filters: map[string]string{crystal.FilterCategory: "4,5,6"},
	}, pagination.Params{Page: 1, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, []int{41, 42, 43, 44, 47}, repo.criteria.ExcludeIDs)
	require.Len(t, repo.criteria.Exclusions, 1)
	assert.Equal(t, "cat.id", repo.criteria.Exclusions[0].Column)
}

func TestSuggestCrystals_ValidatesBeforeQuerying(t *testing.T) {
	history := &stubHistory{}
	service, _ := newService(history, &stubReservations{})

	_, _, err := service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 1, Month: 0, Year: 2024,
	}, pagination.Params{Page: 1, PageSize: 25})
	require.Error(t, err)

	_, _, err = service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 1, Month: 0, Year: 2024, Cycles: []int{1},
		Filters: map[string]string{"colour": "1"},
	}, pagination.Params{Page: 1, PageSize: 25})
	require.Error(t, err)

	assert.Zero(t, history.calls.Load())
}

func TestSuggestCrystals_PropagatesHistoryFailure(t *testing.T) {
	service, _ := newService(&stubHistory{err: errors.New("boom")}, &stubReservations{})

	_, _, err := service.SuggestCrystals(context.Background(), crystal.SuggestInput{
		SubscriptionID: 1, Month: 0, Year: 2024, Cycles: []int{1},
	}, pagination.Params{Page: 1, PageSize: 25})
	assert.EqualError(t, err, "boom")
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, crystal.Union([]int{3, 1}, nil, []int{2, 3}))
	assert.Empty(t, crystal.Union())
}

func TestCreateCrystal_Validation(t *testing.T) {
	service, _ := newService(&stubHistory{}, &stubReservations{})

	err := service.CreateCrystal(context.Background(), &crystal.Crystal{
		Name:   "  ",
		Rarity: pointer.To(crystal.Rarity("EPIC")),
	})
	require.Error(t, err)
	assert.Len(t, apperr.As(err).Details, 2)

	c := &crystal.Crystal{Name: " Rose Quartz ", Inventory: inventory(crystal.InventoryMedium)}
	require.NoError(t, service.CreateCrystal(context.Background(), c))
	assert.Equal(t, "Rose Quartz", c.Name)
	assert.NotZero(t, c.ID)
}
