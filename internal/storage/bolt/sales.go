package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"
)

// RecordSale debits the product and inserts the sale inside one bolt
// transaction. On ErrProductNotFound or ErrInsufficientStock nothing is
// written.
func (s *Store) RecordSale(ctx context.Context, sale *domain.Sale) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		product, err := getProduct(tx, sale.ProductID)
		if err != nil {
			return err
		}

		if sale.Quantity > product.Quantity {
			return storage.ErrInsufficientStock
		}

		product.Quantity -= sale.Quantity
		product.UpdatedAt = sale.CreatedAt
		if err := putProduct(tx, product); err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		// Frozen snapshot: later catalog renames must not touch history.
		sale.ProductName = product.Name

		data, err := json.Marshal(sale)
		if err != nil {
			return fmt.Errorf("failed to encode sale: %w", err)
		}
		if err := tx.Bucket(salesBucket).Put([]byte(sale.ID.String()), data); err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		return nil
	})
}

// ReverseSale deletes the sale and credits its quantity back to the product
// in the same transaction. When the product is gone the deletion still
// succeeds and no stock is restored.
func (s *Store) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := []byte(saleID.String())
		bucket := tx.Bucket(salesBucket)

		data := bucket.Get(key)
		if data == nil {
			return storage.ErrSaleNotFound
		}

		sale := &domain.Sale{}
		if err := json.Unmarshal(data, sale); err != nil {
			return fmt.Errorf("failed to decode sale: %w", err)
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}

		product, err := getProduct(tx, sale.ProductID)
		if err == storage.ErrProductNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		product.Quantity += sale.Quantity
		product.UpdatedAt = time.Now().UTC()
		if err := putProduct(tx, product); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		return nil
	})
}

// ListSales retrieves all sales, newest first.
func (s *Store) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(salesBucket).ForEach(func(_, data []byte) error {
			sale := &domain.Sale{}
			if err := json.Unmarshal(data, sale); err != nil {
				return fmt.Errorf("failed to decode sale: %w", err)
			}
			sales = append(sales, sale)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	sort.Slice(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})

	return sales, nil
}

// ListCategories retrieves all registered categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(categoriesBucket).ForEach(func(_, data []byte) error {
			category := &domain.Category{}
			if err := json.Unmarshal(data, category); err != nil {
				return fmt.Errorf("failed to decode category: %w", err)
			}
			categories = append(categories, category)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

// RegisterCategory stores a new category keyed by name so duplicates are
// rejected regardless of id.
func (s *Store) RegisterCategory(ctx context.Context, category *domain.Category) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(categoriesBucket)
		key := []byte(category.Name)
		if bucket.Get(key) != nil {
			return storage.ErrCategoryExists
		}

		data, err := json.Marshal(category)
		if err != nil {
			return fmt.Errorf("failed to encode category: %w", err)
		}
		return bucket.Put(key, data)
	})
}
