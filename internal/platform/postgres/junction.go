// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

/*
ReplaceJunction rewrites the many-to-many links of one parent row.

Description: Clears every link for id, then queues one INSERT per value on a
single [pgx.Batch]. Call it inside a transaction so a failed batch leaves the
previous links untouched.

Parameters:
  - tx: pgx.Tx (The active transaction)
  - table: string (Fully-qualified junction table, e.g. "inventory.shipment_crystal")
  - idCol: string (Parent column)
  - valCol: string (Child column)
  - id: int (Parent identifier)
  - vals: []int (Child identifiers)
*/
func ReplaceJunction(ctx context.Context, tx pgx.Tx, table, idCol, valCol string, id int, vals []int) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, idCol)
	if _, err := tx.Exec(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("postgres: failed to clear %s: %w", table, err)
	}

	if len(vals) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING", table, idCol, valCol)
	batch := &pgx.Batch{}
	for _, value := range vals {
		batch.Queue(insertQuery, id, value)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to batch insert into %s: %w", table, err)
	}
	return nil
}
