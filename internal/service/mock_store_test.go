package service

import (
	"context"
	"sort"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
)

// Map-backed storage.Store used by the service tests.
type mockStore struct {
	products   map[uuid.UUID]*domain.Product
	sales      map[uuid.UUID]*domain.Sale
	categories map[string]*domain.Category
	failWith   error
}

func newMockStore() *mockStore {
	return &mockStore{
		products:   make(map[uuid.UUID]*domain.Product),
		sales:      make(map[uuid.UUID]*domain.Sale),
		categories: make(map[string]*domain.Category),
	}
}

func (m *mockStore) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *mockStore) FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, storage.ErrProductNotFound
	}
	return product, nil
}

func (m *mockStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockStore) UpdateProduct(ctx context.Context, id uuid.UUID, patch storage.ProductPatch) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, storage.ErrProductNotFound
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
	return product, nil
}

func (m *mockStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return storage.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockStore) RecordSale(ctx context.Context, sale *domain.Sale) error {
	if m.failWith != nil {
		return m.failWith
	}
	product, exists := m.products[sale.ProductID]
	if !exists {
		return storage.ErrProductNotFound
	}
	if sale.Quantity > product.Quantity {
		return storage.ErrInsufficientStock
	}
	product.Quantity -= sale.Quantity
	product.UpdatedAt = sale.CreatedAt
	sale.ProductName = product.Name
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockStore) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	sale, exists := m.sales[saleID]
	if !exists {
		return storage.ErrSaleNotFound
	}
	delete(m.sales, saleID)
	if product, ok := m.products[sale.ProductID]; ok {
		product.Quantity += sale.Quantity
		product.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *mockStore) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	sales := []*domain.Sale{}
	for _, s := range m.sales {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return sales, nil
}

func (m *mockStore) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (m *mockStore) RegisterCategory(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.Name]; exists {
		return storage.ErrCategoryExists
	}
	m.categories[category.Name] = category
	return nil
}

func (m *mockStore) Close() error { return nil }
