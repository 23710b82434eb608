// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/platform/database/schema"
	"github.com/taibuivan/crystalbox/internal/platform/dberr"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

const resourceName = "PreBuild"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Queries

func selectFrom(where string, tail string) string {
	return fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s,
		       COALESCE(array_agg(pc.%s ORDER BY pc.%s) FILTER (WHERE pc.%s IS NOT NULL), '{}')
		FROM %s p
		LEFT JOIN %s pc ON pc.%s = p.%s
		%s
		GROUP BY p.%s
		%s`,
		schema.PreBuild.ID, schema.PreBuild.SubscriptionID, schema.PreBuild.Cycle, schema.PreBuild.CreatedAt,
		schema.PreBuildCrystal.CrystalID, schema.PreBuildCrystal.CrystalID, schema.PreBuildCrystal.CrystalID,
		schema.PreBuild.Table,
		schema.PreBuildCrystal.Table, schema.PreBuildCrystal.PreBuildID, schema.PreBuild.ID,
		where,
		schema.PreBuild.ID,
		tail,
	)
}

func collect(rows pgx.Rows) ([]*PreBuild, error) {
	defer rows.Close()

	prebuilds := make([]*PreBuild, 0)
	for rows.Next() {
		prebuild := &PreBuild{}
		if err := rows.Scan(
			&prebuild.ID, &prebuild.SubscriptionID, &prebuild.Cycle, &prebuild.CreatedAt,
			&prebuild.CrystalIDs,
		); err != nil {
			return nil, err
		}
		prebuilds = append(prebuilds, prebuild)
	}
	return prebuilds, rows.Err()
}

func (repository *PostgresRepository) query(ctx context.Context, action, sql string, args ...any) ([]*PreBuild, error) {
	rows, err := repository.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, action)
	}

	prebuilds, err := collect(rows)
	return prebuilds, dberr.Wrap(err, resourceName, action)
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]*PreBuild, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argID := 1

	if filter.SubscriptionID != nil {
		where += fmt.Sprintf(" AND p.%s = $%d", schema.PreBuild.SubscriptionID, argID)
		args = append(args, *filter.SubscriptionID)
		argID++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s p %s`, schema.PreBuild.Table, where)
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_prebuilds")
	}

	tail := fmt.Sprintf(`ORDER BY p.%s DESC LIMIT $%d OFFSET $%d`, schema.PreBuild.ID, argID, argID+1)
	args = append(args, params.PageSize, params.Offset())

	prebuilds, err := repository.query(ctx, "list_prebuilds", selectFrom(where, tail), args...)
	if err != nil {
		return nil, 0, err
	}
	return prebuilds, total, nil
}

func (repository *PostgresRepository) ListAll(ctx context.Context) ([]*PreBuild, error) {
	tail := fmt.Sprintf(`ORDER BY p.%s ASC`, schema.PreBuild.ID)
	return repository.query(ctx, "list_all_prebuilds", selectFrom("", tail))
}

func (repository *PostgresRepository) ListBySubscription(ctx context.Context, subscriptionID int) ([]*PreBuild, error) {
	where := fmt.Sprintf(`WHERE p.%s = $1`, schema.PreBuild.SubscriptionID)
	tail := fmt.Sprintf(`ORDER BY p.%s ASC`, schema.PreBuild.ID)
	return repository.query(ctx, "list_subscription_prebuilds", selectFrom(where, tail), subscriptionID)
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int) (*PreBuild, error) {
	where := fmt.Sprintf(`WHERE p.%s = $1`, schema.PreBuild.ID)

	prebuilds, err := repository.query(ctx, "get_prebuild", selectFrom(where, ""), id)
	if err != nil {
		return nil, err
	}
	if len(prebuilds) == 0 {
		return nil, dberr.Wrap(pgx.ErrNoRows, resourceName, "get_prebuild")
	}
	return prebuilds[0], nil
}

// # Writes

func (repository *PostgresRepository) Create(ctx context.Context, prebuild *PreBuild) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
			schema.PreBuild.Table, schema.PreBuild.SubscriptionID, schema.PreBuild.Cycle,
			schema.PreBuild.ID, schema.PreBuild.CreatedAt)

		err := tx.QueryRow(ctx, query, prebuild.SubscriptionID, prebuild.Cycle).Scan(&prebuild.ID, &prebuild.CreatedAt)
		if err != nil {
			return dberr.Wrap(err, resourceName, "create_prebuild")
		}

		return repository.linkCrystals(ctx, tx, prebuild)
	})
}

func (repository *PostgresRepository) Update(ctx context.Context, prebuild *PreBuild) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 RETURNING %s`,
			schema.PreBuild.Table, schema.PreBuild.SubscriptionID, schema.PreBuild.Cycle,
			schema.PreBuild.ID, schema.PreBuild.CreatedAt)

		err := tx.QueryRow(ctx, query, prebuild.SubscriptionID, prebuild.Cycle, prebuild.ID).Scan(&prebuild.CreatedAt)
		if err != nil {
			return dberr.Wrap(err, resourceName, "update_prebuild")
		}

		return repository.linkCrystals(ctx, tx, prebuild)
	})
}

func (repository *PostgresRepository) linkCrystals(ctx context.Context, tx pgx.Tx, prebuild *PreBuild) error {
	err := postgres.ReplaceJunction(ctx, tx,
		schema.PreBuildCrystal.Table, schema.PreBuildCrystal.PreBuildID, schema.PreBuildCrystal.CrystalID,
		prebuild.ID, prebuild.CrystalIDs)
	return dberr.Wrap(err, resourceName, "link_prebuild_crystals")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int) error {
	return deleteWith(ctx, repository.db, id)
}

func deleteWith(ctx context.Context, db postgres.Querier, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PreBuild.Table, schema.PreBuild.ID)

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_prebuild")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName, "delete_prebuild")
	}
	return nil
}

// Build commits the shipments and drops the pre-build, or does neither.
func (repository *PostgresRepository) Build(ctx context.Context, id int, shipments []*shipment.Shipment) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		if err := shipment.InsertTx(ctx, tx, shipments); err != nil {
			return err
		}
		return deleteWith(ctx, tx, id)
	})
}
