// Package postgres implements storage.Store on a PostgreSQL database
// reached through database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle. The caller owns migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

const productColumns = `id, name, category, quantity, cost_price, selling_price, supplier, serial_number, min_stock_level, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var supplier, serialNumber sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Quantity,
		&product.CostPrice,
		&product.SellingPrice,
		&supplier,
		&serialNumber,
		&product.MinStockLevel,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Supplier = supplier.String
	product.SerialNumber = serialNumber.String
	return product, nil
}

// ListProducts retrieves all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindProduct retrieves a product by ID using parameterized queries.
func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// CreateProduct inserts a new product into the database.
func (s *Store) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, quantity, cost_price, selling_price, supplier, serial_number, min_stock_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Quantity,
		product.CostPrice,
		product.SellingPrice,
		nullString(product.Supplier),
		nullString(product.SerialNumber),
		product.MinStockLevel,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// UpdateProduct merges the given patch into the existing record and
// refreshes updated_at. Nil patch fields are left untouched.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, patch storage.ProductPatch) (*domain.Product, error) {
	sets := []string{}
	args := []interface{}{id}
	argIndex := 2

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Category != nil {
		addSet("category", *patch.Category)
	}
	if patch.Quantity != nil {
		addSet("quantity", *patch.Quantity)
	}
	if patch.CostPrice != nil {
		addSet("cost_price", *patch.CostPrice)
	}
	if patch.SellingPrice != nil {
		addSet("selling_price", *patch.SellingPrice)
	}
	if patch.Supplier != nil {
		addSet("supplier", nullString(*patch.Supplier))
	}
	if patch.SerialNumber != nil {
		addSet("serial_number", nullString(*patch.SerialNumber))
	}
	if patch.MinStockLevel != nil {
		addSet("min_stock_level", *patch.MinStockLevel)
	}
	addSet("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), productColumns)

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product. Sales referencing it are untouched.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}
