// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crystal

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/crystalbox/internal/core/reference"
	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/database/schema"
	"github.com/taibuivan/crystalbox/internal/platform/dberr"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

const resourceName = "Crystal"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Query Building

// fromClause joins the three lookup tables under the aliases used by [Exclusion] columns.
func fromClause() string {
	return fmt.Sprintf(`
		FROM %s c
		LEFT JOIN %s col ON col.%s = c.%s
		LEFT JOIN %s cat ON cat.%s = c.%s
		LEFT JOIN %s loc ON loc.%s = c.%s`,
		schema.Crystal.Table,
		schema.Color.Table, schema.Color.ID, schema.Crystal.ColorID,
		schema.Category.Table, schema.Category.ID, schema.Crystal.CategoryID,
		schema.Location.Table, schema.Location.ID, schema.Crystal.LocationID,
	)
}

func selectColumns() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s,
		       c.%s::text, c.%s::text, c.%s::text,
		       c.%s, c.%s, c.%s,
		       col.%s, col.%s, col.%s,
		       cat.%s, cat.%s,
		       loc.%s, loc.%s`,
		schema.Crystal.ID, schema.Crystal.Name, schema.Crystal.ColorID, schema.Crystal.CategoryID, schema.Crystal.LocationID,
		schema.Crystal.Rarity, schema.Crystal.FindAge, schema.Crystal.Inventory,
		schema.Crystal.Description, schema.Crystal.Image, schema.Crystal.CreatedAt,
		schema.Color.ID, schema.Color.Name, schema.Color.Hex,
		schema.Category.ID, schema.Category.Name,
		schema.Location.ID, schema.Location.Name,
	)
}

// whereClause renders criteria as a WHERE clause and its positional arguments.
func whereClause(criteria Criteria) (string, []any) {
	var builder strings.Builder
	args := []any{}
	argID := 1

	builder.WriteString(" WHERE 1=1")

	if len(criteria.ExcludeIDs) > 0 {
		fmt.Fprintf(&builder, " AND c.%s <> ALL($%d)", schema.Crystal.ID, argID)
		args = append(args, criteria.ExcludeIDs)
		argID++
	}

	if criteria.Search != "" {
		fmt.Fprintf(&builder, " AND c.%s ILIKE $%d", schema.Crystal.Name, argID)
		args = append(args, "%"+criteria.Search+"%")
		argID++
	}

	for _, exclusion := range criteria.Exclusions {
		builder.WriteString(" AND ")
		builder.WriteString(exclusion.Clause(argID))
		args = append(args, exclusion.Arg())
		argID++
	}

	return builder.String(), args
}

func orderClause(order Order) string {
	if order == OrderByInventory {
		return fmt.Sprintf(" ORDER BY %s ASC, c.%s ASC, c.%s ASC",
			inventoryOrder("c."+schema.Crystal.Inventory+"::text"), schema.Crystal.Name, schema.Crystal.ID)
	}
	return fmt.Sprintf(" ORDER BY c.%s ASC, c.%s ASC", schema.Crystal.Name, schema.Crystal.ID)
}

func scanCrystal(row pgx.Row) (*Crystal, error) {
	crystal := &Crystal{}

	var rarity, findAge, inventory *string
	var colorID, categoryID, locationID *int
	var colorName, colorHex, categoryName, locationName *string

	err := row.Scan(
		&crystal.ID, &crystal.Name, &crystal.ColorID, &crystal.CategoryID, &crystal.LocationID,
		&rarity, &findAge, &inventory,
		&crystal.Description, &crystal.Image, &crystal.CreatedAt,
		&colorID, &colorName, &colorHex,
		&categoryID, &categoryName,
		&locationID, &locationName,
	)
	if err != nil {
		return nil, err
	}

	if rarity != nil {
		value := Rarity(*rarity)
		crystal.Rarity = &value
	}
	if findAge != nil {
		value := FindAge(*findAge)
		crystal.FindAge = &value
	}
	if inventory != nil {
		value := Inventory(*inventory)
		crystal.Inventory = &value
	}

	if colorID != nil {
		crystal.Color = &reference.Color{ID: *colorID, Name: deref(colorName), Hex: colorHex}
	}
	if categoryID != nil {
		crystal.Category = &reference.Lookup{ID: *categoryID, Name: deref(categoryName)}
	}
	if locationID != nil {
		crystal.Location = &reference.Lookup{ID: *locationID, Name: deref(locationName)}
	}

	return crystal, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func collect(rows pgx.Rows) ([]*Crystal, error) {
	defer rows.Close()

	crystals := make([]*Crystal, 0)
	for rows.Next() {
		crystal, err := scanCrystal(rows)
		if err != nil {
			return nil, err
		}
		crystals = append(crystals, crystal)
	}
	return crystals, rows.Err()
}

// # Reads

/*
List returns one page of the catalog matching criteria.

Returns:
  - []*Crystal: The requested page with joined lookups
  - int: Total matching rows across all pages
  - error: Database failures
*/
func (repository *PostgresRepository) List(ctx context.Context, criteria Criteria, params pagination.Params) ([]*Crystal, int, error) {
	where, args := whereClause(criteria)

	var total int
	countQuery := "SELECT COUNT(*)" + fromClause() + where
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_crystals")
	}

	argID := len(args) + 1
	query := selectColumns() + fromClause() + where + orderClause(criteria.Order) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_crystals")
	}

	crystals, err := collect(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "scan_crystals")
	}
	return crystals, total, nil
}

// ListByIDs returns the crystals with the given ids. Unknown ids are skipped.
func (repository *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]*Crystal, error) {
	if len(ids) == 0 {
		return []*Crystal{}, nil
	}

	query := selectColumns() + fromClause() +
		fmt.Sprintf(" WHERE c.%s = ANY($1) ORDER BY c.%s", schema.Crystal.ID, schema.Crystal.ID)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_crystals_by_id")
	}

	crystals, err := collect(rows)
	return crystals, dberr.Wrap(err, resourceName, "scan_crystals_by_id")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int) (*Crystal, error) {
	query := selectColumns() + fromClause() + fmt.Sprintf(" WHERE c.%s = $1", schema.Crystal.ID)

	crystal, err := scanCrystal(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "get_crystal")
	}
	return crystal, nil
}

// # Writes

func writeArgs(crystal *Crystal) []any {
	return []any{
		crystal.Name, crystal.ColorID, crystal.CategoryID, crystal.LocationID,
		label(crystal.Rarity), label(crystal.FindAge), label(crystal.Inventory),
		crystal.Description, crystal.Image,
	}
}

// label binds an optional enum as text.
func label[T ~string](value *T) *string {
	if value == nil {
		return nil
	}
	text := string(*value)
	return &text
}

func (repository *PostgresRepository) Create(ctx context.Context, crystal *Crystal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5::text::%s.rarity, $6::text::%s.find_age, $7::text::%s.inventory_level, $8, $9)
		RETURNING %s, %s`,
		schema.Crystal.Table,
		schema.Crystal.Name, schema.Crystal.ColorID, schema.Crystal.CategoryID, schema.Crystal.LocationID,
		schema.Crystal.Rarity, schema.Crystal.FindAge, schema.Crystal.Inventory,
		schema.Crystal.Description, schema.Crystal.Image,
		constants.SchemaInventory, constants.SchemaInventory, constants.SchemaInventory,
		schema.Crystal.ID, schema.Crystal.CreatedAt,
	)

	err := repository.db.QueryRow(ctx, query, writeArgs(crystal)...).Scan(&crystal.ID, &crystal.CreatedAt)
	return dberr.Wrap(err, resourceName, "create_crystal")
}

func (repository *PostgresRepository) Update(ctx context.Context, crystal *Crystal) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4,
		       %s = $5::text::%s.rarity, %s = $6::text::%s.find_age, %s = $7::text::%s.inventory_level,
		       %s = $8, %s = $9
		WHERE %s = $10
		RETURNING %s`,
		schema.Crystal.Table,
		schema.Crystal.Name, schema.Crystal.ColorID, schema.Crystal.CategoryID, schema.Crystal.LocationID,
		schema.Crystal.Rarity, constants.SchemaInventory, schema.Crystal.FindAge, constants.SchemaInventory, schema.Crystal.Inventory, constants.SchemaInventory,
		schema.Crystal.Description, schema.Crystal.Image,
		schema.Crystal.ID,
		schema.Crystal.CreatedAt,
	)

	args := append(writeArgs(crystal), crystal.ID)
	err := repository.db.QueryRow(ctx, query, args...).Scan(&crystal.CreatedAt)
	return dberr.Wrap(err, resourceName, "update_crystal")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Crystal.Table, schema.Crystal.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_crystal")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName, "delete_crystal")
	}
	return nil
}
