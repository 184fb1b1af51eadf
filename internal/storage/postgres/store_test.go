package postgres

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Apply the real schema rather than a hand-rolled copy.
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	terminate, err := setupTestDB()
	if err != nil {
		log.Fatalf("Failed to set up test database: %v", err)
	}

	code := m.Run()

	if terminate != nil {
		if err := terminate(context.Background()); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}

	os.Exit(code)
}

func createTestProduct(t *testing.T, store *Store, quantity int) *domain.Product {
	t.Helper()

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.New(),
		Name:          "Ubiquiti UniFi Access Point",
		Category:      "Networking",
		Quantity:      quantity,
		CostPrice:     150,
		SellingPrice:  220,
		Supplier:      "Ubiquiti Networks",
		SerialNumber:  "UB-UAP-005",
		MinStockLevel: 3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := store.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	return product
}

func TestProductCRUDRoundTrip(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	product := createTestProduct(t, store, 12)

	found, err := store.FindProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if found.Name != product.Name || found.Quantity != 12 {
		t.Errorf("Round trip mismatch: %+v", found)
	}
	if found.Supplier != product.Supplier || found.SerialNumber != product.SerialNumber {
		t.Errorf("Optional fields not preserved: %+v", found)
	}

	newPrice := 175.0
	updated, err := store.UpdateProduct(ctx, product.ID, storage.ProductPatch{CostPrice: &newPrice})
	if err != nil {
		t.Fatalf("Failed to update product: %v", err)
	}
	if updated.CostPrice != newPrice {
		t.Errorf("Expected cost price %f, got %f", newPrice, updated.CostPrice)
	}
	if updated.Name != product.Name {
		t.Errorf("Unpatched field changed: %q", updated.Name)
	}

	if err := store.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("Failed to delete product: %v", err)
	}
	if err := store.DeleteProduct(ctx, product.ID); err != storage.ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateMissingProductReturnsNotFound(t *testing.T) {
	store := NewStore(testDB)

	quantity := 1
	_, err := store.UpdateProduct(context.Background(), uuid.New(), storage.ProductPatch{Quantity: &quantity})
	if err != storage.ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestRecordSaleDebitsAtomically(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	product := createTestProduct(t, store, 10)

	sale := &domain.Sale{
		ID:           uuid.New(),
		ProductID:    product.ID,
		Quantity:     3,
		UnitPrice:    220,
		TotalAmount:  660,
		CustomerName: "John Smith",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.RecordSale(ctx, sale); err != nil {
		t.Fatalf("Failed to record sale: %v", err)
	}

	if sale.ProductName != product.Name {
		t.Errorf("Expected snapshotted name %q, got %q", product.Name, sale.ProductName)
	}

	after, err := store.FindProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if after.Quantity != 7 {
		t.Errorf("Expected quantity 7 after sale, got %d", after.Quantity)
	}
	if !after.UpdatedAt.After(product.UpdatedAt) && !after.UpdatedAt.Equal(sale.CreatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v", after.UpdatedAt)
	}
}

func TestRecordSaleRejectsOverdrawAndInsertsNothing(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	product := createTestProduct(t, store, 2)

	sale := &domain.Sale{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Quantity:    5,
		UnitPrice:   220,
		TotalAmount: 1100,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.RecordSale(ctx, sale); err != storage.ErrInsufficientStock {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	after, err := store.FindProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if after.Quantity != 2 {
		t.Errorf("Quantity should be unchanged after rejection, got %d", after.Quantity)
	}

	var count int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM sales WHERE id = $1`, sale.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count sales: %v", err)
	}
	if count != 0 {
		t.Error("Rejected sale must not be inserted")
	}
}

func TestRecordSaleMissingProduct(t *testing.T) {
	store := NewStore(testDB)

	sale := &domain.Sale{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  1,
		UnitPrice: 10,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.RecordSale(context.Background(), sale); err != storage.ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestReverseSaleRestoresStockInOneTransaction(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	product := createTestProduct(t, store, 10)

	sale := &domain.Sale{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Quantity:    4,
		UnitPrice:   220,
		TotalAmount: 880,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.RecordSale(ctx, sale); err != nil {
		t.Fatalf("Failed to record sale: %v", err)
	}

	if err := store.ReverseSale(ctx, sale.ID); err != nil {
		t.Fatalf("Failed to reverse sale: %v", err)
	}

	after, err := store.FindProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if after.Quantity != 10 {
		t.Errorf("Expected quantity restored to 10, got %d", after.Quantity)
	}

	if err := store.ReverseSale(ctx, sale.ID); err != storage.ErrSaleNotFound {
		t.Errorf("Expected ErrSaleNotFound on double reversal, got %v", err)
	}
}

func TestReverseSaleWithDeletedProduct(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	product := createTestProduct(t, store, 10)

	sale := &domain.Sale{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Quantity:    2,
		UnitPrice:   220,
		TotalAmount: 440,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.RecordSale(ctx, sale); err != nil {
		t.Fatalf("Failed to record sale: %v", err)
	}
	if err := store.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("Failed to delete product: %v", err)
	}

	if err := store.ReverseSale(ctx, sale.ID); err != nil {
		t.Fatalf("Reversal should succeed with dangling product id, got %v", err)
	}
}

func TestRegisterCategoryDuplicate(t *testing.T) {
	store := NewStore(testDB)
	ctx := context.Background()

	name := "Security Cameras " + uuid.New().String()
	if err := store.RegisterCategory(ctx, &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Failed to register category: %v", err)
	}
	err := store.RegisterCategory(ctx, &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()})
	if err != storage.ErrCategoryExists {
		t.Errorf("Expected ErrCategoryExists, got %v", err)
	}
}
