package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pos.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrationsRunOnceAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	material, err := s.InsertMaterial(ctx, domain.RawMaterial{Name: "Gula", Unit: "gram", StockQuantity: 50})
	if err != nil {
		t.Fatalf("insert material: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening replays no migrations and loses no data.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetMaterial(ctx, material.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Name != "Gula" || got.StockQuantity != 50 {
		t.Fatalf("record changed across reopen: %+v", got)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx store.Repository) error {
		if _, err := tx.InsertProduct(ctx, domain.Product{Name: "Teh Manis", Price: 4000}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected scope error, got %v", err)
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("rollback left %d products behind", len(products))
	}
}

func TestNestedUpdateJoinsScope(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(tx store.Repository) error {
		return tx.Update(ctx, func(inner store.Repository) error {
			_, err := inner.InsertMaterial(ctx, domain.RawMaterial{Name: "Gula", Unit: "gram"})
			return err
		})
	})
	if err != nil {
		t.Fatalf("nested update: %v", err)
	}
	materials, _ := s.ListMaterials(ctx)
	if len(materials) != 1 {
		t.Fatalf("expected committed nested write, got %d materials", len(materials))
	}
}

func TestInsertMaterialRejectsDuplicateName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.InsertMaterial(ctx, domain.RawMaterial{Name: "Gula", Unit: "gram"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.InsertMaterial(ctx, domain.RawMaterial{Name: "  gula ", Unit: "gram"}); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected duplicate name rejection, got %v", err)
	}

	// The original record and its index entry survive the rejected insert.
	found, err := s.FindMaterialByName(ctx, "gula")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("index points at wrong record: %+v", found)
	}
}

func TestMaterialNameIndexFollowsRenames(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	material, err := s.InsertMaterial(ctx, domain.RawMaterial{Name: "Gula", Unit: "gram"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	newName := "Gula Aren"
	if _, err := s.UpdateMaterial(ctx, material.ID, domain.MaterialUpdateRequest{Name: &newName}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := s.FindMaterialByName(ctx, "gula aren"); err != nil {
		t.Fatalf("find by new name: %v", err)
	}
	if _, err := s.FindMaterialByName(ctx, "gula"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("stale index entry for old name: %v", err)
	}
}

func TestMappingPairUniqueAndQueryable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	material, _ := s.InsertMaterial(ctx, domain.RawMaterial{Name: "Gula", Unit: "gram"})
	product, _ := s.InsertProduct(ctx, domain.Product{Name: "Teh Manis", Price: 4000})

	if err := s.InsertMappings(ctx, []domain.ProductMaterial{
		{ProductID: product.ID, MaterialID: material.ID, QuantityNeeded: 5},
	}); err != nil {
		t.Fatalf("insert mapping: %v", err)
	}
	err := s.InsertMappings(ctx, []domain.ProductMaterial{
		{ProductID: product.ID, MaterialID: material.ID, QuantityNeeded: 9},
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected duplicate pair rejection, got %v", err)
	}

	byProduct, err := s.MappingsByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("by product: %v", err)
	}
	byMaterial, err := s.MappingsByMaterial(ctx, material.ID)
	if err != nil {
		t.Fatalf("by material: %v", err)
	}
	if len(byProduct) != 1 || len(byMaterial) != 1 || byProduct[0].ID != byMaterial[0].ID {
		t.Fatalf("index views disagree: %+v vs %+v", byProduct, byMaterial)
	}

	if err := s.DeleteMappings(ctx, []uint64{byProduct[0].ID}); err != nil {
		t.Fatalf("delete mapping: %v", err)
	}
	if _, err := s.GetMapping(ctx, product.ID, material.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("pair index survived delete: %v", err)
	}
}

func TestTransactionStatusIndexMoves(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	record, err := s.InsertTransaction(ctx, domain.Transaction{
		Status:        domain.TxStatusPending,
		ReceiptNumber: "TRX-TEST-1",
	})
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	if err := s.SetTransactionStatus(ctx, record.ID, domain.TxStatusPaid); err != nil {
		t.Fatalf("set status: %v", err)
	}

	pending, _ := s.TransactionsByStatus(ctx, domain.TxStatusPending)
	paid, _ := s.TransactionsByStatus(ctx, domain.TxStatusPaid)
	if len(pending) != 0 || len(paid) != 1 {
		t.Fatalf("status index stale: %d pending, %d paid", len(pending), len(paid))
	}
}

func TestReceiptNumbersAreUnique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertTransaction(ctx, domain.Transaction{Status: domain.TxStatusPending, ReceiptNumber: "TRX-DUP"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := s.InsertTransaction(ctx, domain.Transaction{Status: domain.TxStatusPending, ReceiptNumber: "TRX-DUP"})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected duplicate receipt rejection, got %v", err)
	}
}

func TestItemsGroupedByTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _ := s.InsertTransaction(ctx, domain.Transaction{Status: domain.TxStatusPending, ReceiptNumber: "TRX-A"})
	second, _ := s.InsertTransaction(ctx, domain.Transaction{Status: domain.TxStatusPending, ReceiptNumber: "TRX-B"})

	if err := s.InsertItems(ctx, []domain.TransactionItem{
		{TransactionID: first.ID, ProductID: 1, Quantity: 2, UnitPrice: 1000, TotalPrice: 2000},
		{TransactionID: second.ID, ProductID: 1, Quantity: 1, UnitPrice: 1000, TotalPrice: 1000},
		{TransactionID: first.ID, ProductID: 2, Quantity: 1, UnitPrice: 500, TotalPrice: 500},
	}); err != nil {
		t.Fatalf("insert items: %v", err)
	}

	items, err := s.ItemsByTransaction(ctx, first.ID)
	if err != nil {
		t.Fatalf("items by transaction: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items for first transaction, got %d", len(items))
	}
	all, _ := s.ItemsByTransactions(ctx, []uint64{first.ID, second.ID})
	if len(all) != 3 {
		t.Fatalf("expected 3 items total, got %d", len(all))
	}
}
