package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/apperr"
)

type memoryRepository struct {
	rows    map[int]*subscription.Subscription
	lookups int
}

func newMemoryRepository(rows ...*subscription.Subscription) *memoryRepository {
	repo := &memoryRepository{rows: make(map[int]*subscription.Subscription)}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}
	return repo
}

func (repo *memoryRepository) List(ctx context.Context) ([]*subscription.Subscription, error) {
	out := make([]*subscription.Subscription, 0, len(repo.rows))
	for _, row := range repo.rows {
		out = append(out, row)
	}
	return out, nil
}

func (repo *memoryRepository) FindByID(ctx context.Context, id int) (*subscription.Subscription, error) {
	repo.lookups++
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Subscription")
	}
	return row, nil
}

func (repo *memoryRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	for _, row := range repo.rows {
		if row.ShortName == s.ShortName {
			return apperr.Conflict("Subscription already exists")
		}
	}
	s.ID = len(repo.rows) + 1
	repo.rows[s.ID] = s
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateSubscription_Defaults(t *testing.T) {
	service := subscription.NewService(newMemoryRepository(), 12, discardLogger())

	s := &subscription.Subscription{Name: "Crystal of the Month", Cost: decimal.RequireFromString("24.99")}
	require.NoError(t, service.CreateSubscription(context.Background(), s))

	assert.Equal(t, "crystal-of-the-month", s.ShortName)
	assert.Equal(t, 12, s.CycleLength)
	assert.Equal(t, 1, s.ID)
}

func TestCreateSubscription_Validation(t *testing.T) {
	service := subscription.NewService(newMemoryRepository(), 12, discardLogger())

	err := service.CreateSubscription(context.Background(), &subscription.Subscription{
		Name: "Weekly", Cost: decimal.NewFromInt(-1), CycleLength: -4,
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Len(t, appErr.Details, 2)
}

func TestCycleLength(t *testing.T) {
	repo := newMemoryRepository(
		&subscription.Subscription{ID: 1, Name: "Monthly", CycleLength: 12},
		&subscription.Subscription{ID: 2, Name: "Weekly", CycleLength: 4},
	)
	service := subscription.NewService(repo, 12, discardLogger())

	length, err := service.CycleLength(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, length)

	_, err = service.CycleLength(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err), "unknown subscriptions are not defaulted")
}

func TestCycleLength_DefaultsUnsetLength(t *testing.T) {
	repo := newMemoryRepository(&subscription.Subscription{ID: 3, Name: "Legacy"})
	service := subscription.NewService(repo, 12, discardLogger())

	length, err := service.CycleLength(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 12, length)
}
