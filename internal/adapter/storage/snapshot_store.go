package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

const nextIDKey = "next_id"

// SnapshotStore mirrors the in-memory store into SQL tables.
type SnapshotStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSnapshotStore(db *sql.DB, dialect Dialect) *SnapshotStore {
	return &SnapshotStore{db: db, dialect: dialect}
}

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema (%s): %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *SnapshotStore) Apply(ctx context.Context, change domain.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	switch change.Kind {
	case domain.ChangeItemUpserted:
		if err := s.upsertItems(ctx, tx, change.Items); err != nil {
			return err
		}
	case domain.ChangeItemRemoved:
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, change.ItemID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
	case domain.ChangeSaleRecorded:
		if change.Sale == nil {
			return errors.New("sale change without sale record")
		}
		if err := s.insertSale(ctx, tx, *change.Sale, change.Seq); err != nil {
			return err
		}
		if err := s.upsertItems(ctx, tx, change.Items); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown change kind %q", change.Kind)
	}

	if _, err := tx.ExecContext(ctx, s.dialect.upsertMeta, nextIDKey, change.NextID); err != nil {
		return fmt.Errorf("update next id: %w", err)
	}

	return tx.Commit()
}

func (s *SnapshotStore) upsertItems(ctx context.Context, tx *sql.Tx, items []domain.InventoryItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, s.dialect.upsertItem,
			item.ID, item.Name, item.Quantity, item.Price,
		); err != nil {
			return fmt.Errorf("upsert item %d: %w", item.ID, err)
		}
	}
	return nil
}

func (s *SnapshotStore) insertSale(ctx context.Context, tx *sql.Tx, rec domain.SaleRecord, seq int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sales (id, seq, recorded_at_ns, total_amount)
		VALUES (?, ?, ?, ?)`,
		rec.ID, seq, rec.Timestamp.UnixNano(), rec.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, line := range rec.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, line_no, item_id, name, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, i, line.ID, line.Name, line.UnitPrice, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	items, err := s.loadItems(ctx)
	if err != nil {
		return snap, err
	}
	snap.Items = items

	err = s.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, nextIDKey).Scan(&snap.NextID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("query next id: %w", err)
	}
	for _, item := range items {
		if item.ID >= snap.NextID {
			snap.NextID = item.ID + 1
		}
	}

	sales, err := s.loadSales(ctx)
	if err != nil {
		return snap, err
	}
	snap.Sales = sales
	return snap, nil
}

func (s *SnapshotStore) loadItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, quantity, price FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SnapshotStore) loadSales(ctx context.Context) ([]domain.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at_ns, total_amount FROM sales ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	var sales []domain.SaleRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec domain.SaleRecord
		var ns int64
		if err := rows.Scan(&rec.ID, &ns, &rec.TotalAmount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		rec.Timestamp = time.Unix(0, ns).UTC()
		rec.Items = []domain.SaleItem{}
		index[rec.ID] = len(sales)
		sales = append(sales, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	lines, err := s.db.QueryContext(ctx, `
		SELECT sale_id, item_id, name, unit_price, quantity
		FROM sale_items ORDER BY sale_id, line_no`)
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var saleID string
		var line domain.SaleItem
		if err := lines.Scan(&saleID, &line.ID, &line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		i, ok := index[saleID]
		if !ok {
			return nil, fmt.Errorf("sale item references unknown sale %s", saleID)
		}
		sales[i].Items = append(sales[i].Items, line)
	}
	return sales, lines.Err()
}
