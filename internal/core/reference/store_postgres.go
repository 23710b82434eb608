// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/taibuivan/crystalbox/internal/platform/database/schema"
	"github.com/taibuivan/crystalbox/internal/platform/dberr"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func lookupTable(kind Kind) (schema.LookupTable, string) {
	if kind == KindLocation {
		return schema.Location, "Location"
	}
	return schema.Category, "Category"
}

func (repository *PostgresRepository) ListColors(context context.Context) ([]*Color, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.Color.ID, schema.Color.Name, schema.Color.Hex, schema.Color.Table, schema.Color.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Color", "list_colors")
	}
	defer rows.Close()

	colors := make([]*Color, 0)
	for rows.Next() {
		color := &Color{}
		if err := rows.Scan(&color.ID, &color.Name, &color.Hex); err != nil {
			return nil, dberr.Wrap(err, "Color", "scan_color")
		}
		colors = append(colors, color)
	}

	return colors, dberr.Wrap(rows.Err(), "Color", "iterate_colors")
}

func (repository *PostgresRepository) CreateColor(context context.Context, color *Color) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Color.Table, schema.Color.Name, schema.Color.Hex, schema.Color.ID)

	err := repository.db.QueryRow(context, query, color.Name, color.Hex).Scan(&color.ID)
	return dberr.Wrap(err, "Color", "create_color")
}

func (repository *PostgresRepository) ListLookups(context context.Context, kind Kind) ([]*Lookup, error) {
	table, resource := lookupTable(kind)
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`, table.ID, table.Name, table.Table, table.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list_"+string(kind))
	}
	defer rows.Close()

	lookups := make([]*Lookup, 0)
	for rows.Next() {
		lookup := &Lookup{}
		if err := rows.Scan(&lookup.ID, &lookup.Name); err != nil {
			return nil, dberr.Wrap(err, resource, "scan_"+string(kind))
		}
		lookups = append(lookups, lookup)
	}

	return lookups, dberr.Wrap(rows.Err(), resource, "iterate_"+string(kind))
}

func (repository *PostgresRepository) CreateLookup(context context.Context, kind Kind, lookup *Lookup) error {
	table, resource := lookupTable(kind)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s`, table.Table, table.Name, table.ID)

	err := repository.db.QueryRow(context, query, lookup.Name).Scan(&lookup.ID)
	return dberr.Wrap(err, resource, "create_"+string(kind))
}
