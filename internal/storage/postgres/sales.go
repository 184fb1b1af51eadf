package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

// RecordSale debits the product and inserts the sale in one transaction.
//
// The decrement uses a floor guard (quantity >= requested) so a concurrent
// caller can never push stock below zero; when the guard rejects the update
// we distinguish a missing product from insufficient stock with a follow-up
// lookup inside the same transaction. The product name is snapshotted by the
// RETURNING clause of the decrement itself.
func (s *Store) RecordSale(ctx context.Context, sale *domain.Sale) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productName string
	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND quantity >= $2
		RETURNING name
	`, sale.ProductID, sale.Quantity, sale.CreatedAt).Scan(&productName)

	if err == sql.ErrNoRows {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`,
			sale.ProductID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check product existence: %w", err)
		}
		if !exists {
			return storage.ErrProductNotFound
		}
		return storage.ErrInsufficientStock
	}
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	sale.ProductName = productName

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, product_id, product_name, quantity, unit_price, total_amount, customer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		sale.ID,
		sale.ProductID,
		sale.ProductName,
		sale.Quantity,
		sale.UnitPrice,
		sale.TotalAmount,
		nullString(sale.CustomerName),
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}

	return nil
}

// ReverseSale deletes the sale and restores the consumed stock in the same
// transaction, so there is no window where the sale is gone but the stock
// not yet credited back. A sale whose product has been deleted is still
// removed; the restore simply matches zero rows.
func (s *Store) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID uuid.UUID
	var quantity int
	err = tx.QueryRowContext(ctx, `
		DELETE FROM sales
		WHERE id = $1
		RETURNING product_id, quantity
	`, saleID).Scan(&productID, &quantity)

	if err == sql.ErrNoRows {
		return storage.ErrSaleNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
	`, productID, quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale reversal: %w", err)
	}

	return nil
}

// ListSales retrieves all sales, newest first.
func (s *Store) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT id, product_id, product_name, quantity, unit_price, total_amount, customer_name, created_at
		FROM sales
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		var customerName sql.NullString
		err := rows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.ProductName,
			&sale.Quantity,
			&sale.UnitPrice,
			&sale.TotalAmount,
			&customerName,
			&sale.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sale.CustomerName = customerName.String
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
