// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shipment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/database/schema"
	"github.com/taibuivan/crystalbox/internal/platform/dberr"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

const resourceName = "Shipment"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a shipment store on a pool or an open transaction.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Queries

// selectFrom renders the shipment projection with its crystal IDs aggregated into an array.
func selectFrom(where string, tail string) string {
	return fmt.Sprintf(`
		SELECT s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s,
		       COALESCE(array_agg(sc.%s ORDER BY sc.%s) FILTER (WHERE sc.%s IS NOT NULL), '{}')
		FROM %s s
		LEFT JOIN %s sc ON sc.%s = s.%s
		%s
		GROUP BY s.%s
		%s`,
		schema.Shipment.ID, schema.Shipment.SubscriptionID, schema.Shipment.Month, schema.Shipment.Year,
		schema.Shipment.Cycle, schema.Shipment.UserCount, schema.Shipment.GroupLabel, schema.Shipment.CreatedAt,
		schema.ShipmentCrystal.CrystalID, schema.ShipmentCrystal.CrystalID, schema.ShipmentCrystal.CrystalID,
		schema.Shipment.Table,
		schema.ShipmentCrystal.Table, schema.ShipmentCrystal.ShipmentID, schema.Shipment.ID,
		where,
		schema.Shipment.ID,
		tail,
	)
}

func scanShipments(rows pgx.Rows) ([]*Shipment, error) {
	defer rows.Close()

	shipments := make([]*Shipment, 0)
	for rows.Next() {
		shipment := &Shipment{}
		if err := rows.Scan(
			&shipment.ID, &shipment.SubscriptionID, &shipment.Month, &shipment.Year,
			&shipment.Cycle, &shipment.UserCount, &shipment.GroupLabel, &shipment.CreatedAt,
			&shipment.CrystalIDs,
		); err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}

	return shipments, rows.Err()
}

// ListInPeriodRange replaces one query per visited cycle with a single range scan.
func (repository *PostgresRepository) ListInPeriodRange(ctx context.Context, subscriptionID int, from, to Period) ([]*Shipment, error) {
	where := fmt.Sprintf(`WHERE s.%s = $1 AND (s.%s * %d + s.%s) BETWEEN $2 AND $3`,
		schema.Shipment.SubscriptionID, schema.Shipment.Year, constants.MonthsPerYear, schema.Shipment.Month)

	rows, err := repository.db.Query(ctx, selectFrom(where, ""), subscriptionID, from.Index(), to.Index())
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_shipment_history")
	}

	shipments, err := scanShipments(rows)
	return shipments, dberr.Wrap(err, resourceName, "scan_shipment_history")
}

// List returns one page of shipments, newest period first.
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Shipment, int, error) {
	var where strings.Builder
	args := []any{}
	argID := 1

	where.WriteString("WHERE 1=1")

	if filter.SubscriptionID != nil {
		fmt.Fprintf(&where, " AND s.%s = $%d", schema.Shipment.SubscriptionID, argID)
		args = append(args, *filter.SubscriptionID)
		argID++
	}
	if filter.Month != nil {
		fmt.Fprintf(&where, " AND s.%s = $%d", schema.Shipment.Month, argID)
		args = append(args, *filter.Month)
		argID++
	}
	if filter.Year != nil {
		fmt.Fprintf(&where, " AND s.%s = $%d", schema.Shipment.Year, argID)
		args = append(args, *filter.Year)
		argID++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s s %s`, schema.Shipment.Table, where.String())
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_shipments")
	}

	tail := fmt.Sprintf(`ORDER BY s.%s DESC, s.%s DESC, s.%s DESC LIMIT $%d OFFSET $%d`,
		schema.Shipment.Year, schema.Shipment.Month, schema.Shipment.Cycle, argID, argID+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := repository.db.Query(ctx, selectFrom(where.String(), tail), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_shipments")
	}

	shipments, err := scanShipments(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "scan_shipments")
	}
	return shipments, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int) (*Shipment, error) {
	where := fmt.Sprintf(`WHERE s.%s = $1`, schema.Shipment.ID)

	rows, err := repository.db.Query(ctx, selectFrom(where, ""), id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "get_shipment")
	}

	shipments, err := scanShipments(rows)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "scan_shipment")
	}
	if len(shipments) == 0 {
		return nil, dberr.Wrap(pgx.ErrNoRows, resourceName, "get_shipment")
	}
	return shipments[0], nil
}

// CreateBatch inserts all shipments and their crystal links in one transaction.
func (repository *PostgresRepository) CreateBatch(ctx context.Context, shipments []*Shipment) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		return InsertTx(ctx, tx, shipments)
	})
}

/*
InsertTx writes shipments inside a caller-owned transaction.

Description: Used by the pre-build "build" flow so shipment creation and the
removal of the staged pre-build commit together. A duplicate
(subscription, month, year, cycle) surfaces as a Conflict.
*/
func InsertTx(ctx context.Context, tx pgx.Tx, shipments []*Shipment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.Shipment.Table,
		schema.Shipment.SubscriptionID, schema.Shipment.Month, schema.Shipment.Year,
		schema.Shipment.Cycle, schema.Shipment.UserCount, schema.Shipment.GroupLabel,
		schema.Shipment.ID, schema.Shipment.CreatedAt,
	)

	for _, shipment := range shipments {
		err := tx.QueryRow(ctx, query,
			shipment.SubscriptionID, shipment.Month, shipment.Year,
			shipment.Cycle, shipment.UserCount, shipment.GroupLabel,
		).Scan(&shipment.ID, &shipment.CreatedAt)
		if err != nil {
			return dberr.Wrap(err, resourceName, "create_shipment")
		}

		err = postgres.ReplaceJunction(ctx, tx,
			schema.ShipmentCrystal.Table, schema.ShipmentCrystal.ShipmentID, schema.ShipmentCrystal.CrystalID,
			shipment.ID, shipment.CrystalIDs)
		if err != nil {
			return dberr.Wrap(err, resourceName, "link_shipment_crystals")
		}
	}

	return nil
}
