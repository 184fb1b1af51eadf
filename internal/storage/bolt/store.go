// Package bolt implements storage.Store on an embedded bbolt key-value
// file, mirroring the behaviour of the relational backend for single-host
// deployments that have no database server.
//
// Records are stored as JSON values keyed by their uuid string. Every
// mutation runs inside one bolt.Update, so the multi-step sale protocol
// commits or fails as a whole here as well.
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

var (
	productsBucket   = []byte("products")
	salesBucket      = []byte("sales")
	categoriesBucket = []byte("categories")
)

type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the bolt file at path and ensures all
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{productsBucket, salesBucket, categoriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func getProduct(tx *bbolt.Tx, id uuid.UUID) (*domain.Product, error) {
	data := tx.Bucket(productsBucket).Get([]byte(id.String()))
	if data == nil {
		return nil, storage.ErrProductNotFound
	}
	product := &domain.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return product, nil
}

func putProduct(tx *bbolt.Tx, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	return tx.Bucket(productsBucket).Put([]byte(product.ID.String()), data)
}

// ListProducts retrieves all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(productsBucket).ForEach(func(_, data []byte) error {
			product := &domain.Product{}
			if err := json.Unmarshal(data, product); err != nil {
				return fmt.Errorf("failed to decode product: %w", err)
			}
			products = append(products, product)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products, nil
}

// FindProduct retrieves a product by ID.
func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product *domain.Product

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		product, err = getProduct(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// CreateProduct stores a new product record.
func (s *Store) CreateProduct(ctx context.Context, product *domain.Product) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return putProduct(tx, product)
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct merges the given patch into the existing record and
// refreshes UpdatedAt. Nil patch fields are left untouched.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, patch storage.ProductPatch) (*domain.Product, error) {
	var updated *domain.Product

	err := s.db.Update(func(tx *bbolt.Tx) error {
		product, err := getProduct(tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			product.Name = *patch.Name
		}
		if patch.Category != nil {
			product.Category = *patch.Category
		}
		if patch.Quantity != nil {
			product.Quantity = *patch.Quantity
		}
		if patch.CostPrice != nil {
			product.CostPrice = *patch.CostPrice
		}
		if patch.SellingPrice != nil {
			product.SellingPrice = *patch.SellingPrice
		}
		if patch.Supplier != nil {
			product.Supplier = *patch.Supplier
		}
		if patch.SerialNumber != nil {
			product.SerialNumber = *patch.SerialNumber
		}
		if patch.MinStockLevel != nil {
			product.MinStockLevel = *patch.MinStockLevel
		}
		product.UpdatedAt = time.Now().UTC()

		updated = product
		return putProduct(tx, product)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProduct removes a product. Sales referencing it are untouched.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := []byte(id.String())
		bucket := tx.Bucket(productsBucket)
		if bucket.Get(key) == nil {
			return storage.ErrProductNotFound
		}
		return bucket.Delete(key)
	})
}
