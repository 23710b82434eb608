// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/crystalbox/internal/platform/database/schema"
	"github.com/taibuivan/crystalbox/internal/platform/dberr"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
)

const resourceName = "Subscription"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed subscription store.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns reads cost as text so decimal precision survives the round trip.
func selectColumns() string {
	return fmt.Sprintf(`%s, %s, %s, %s::text, %s`,
		schema.Subscription.ID, schema.Subscription.Name, schema.Subscription.ShortName,
		schema.Subscription.Cost, schema.Subscription.CycleLength)
}

func scan(row pgx.Row) (*Subscription, error) {
	subscription := &Subscription{}
	var cost string

	if err := row.Scan(&subscription.ID, &subscription.Name, &subscription.ShortName, &cost, &subscription.CycleLength); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(cost)
	if err != nil {
		return nil, fmt.Errorf("subscription %d: invalid cost %q: %w", subscription.ID, cost, err)
	}
	subscription.Cost = parsed

	return subscription, nil
}

// List returns every subscription ordered by name.
func (repository *PostgresRepository) List(ctx context.Context) ([]*Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		selectColumns(), schema.Subscription.Table, schema.Subscription.Name)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_subscriptions")
	}
	defer rows.Close()

	subscriptions := make([]*Subscription, 0)
	for rows.Next() {
		subscription, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName, "scan_subscription")
		}
		subscriptions = append(subscriptions, subscription)
	}

	return subscriptions, dberr.Wrap(rows.Err(), resourceName, "iterate_subscriptions")
}

// FindByID returns the subscription with the given id.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int) (*Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.Subscription.Table, schema.Subscription.ID)

	subscription, err := scan(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "get_subscription")
	}
	return subscription, nil
}

// Create inserts a subscription and fills its generated id.
func (repository *PostgresRepository) Create(ctx context.Context, subscription *Subscription) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3::numeric, $4) RETURNING %s`,
		schema.Subscription.Table,
		schema.Subscription.Name, schema.Subscription.ShortName, schema.Subscription.Cost, schema.Subscription.CycleLength,
		schema.Subscription.ID)

	err := repository.db.QueryRow(ctx, query,
		subscription.Name, subscription.ShortName, subscription.Cost.String(), subscription.CycleLength,
	).Scan(&subscription.ID)

	return dberr.Wrap(err, resourceName, "create_subscription")
}
