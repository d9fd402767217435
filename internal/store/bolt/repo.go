package bolt

import (
	"context"

	bbolt "go.etcd.io/bbolt"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

var (
	_ store.Repository = (*Store)(nil)
	_ store.Repository = (*txRepo)(nil)
)

// txRepo binds repository operations to one open bbolt transaction. Its
// Update joins the scope instead of opening a second transaction, which
// bbolt would deadlock on.
type txRepo struct {
	tx *bbolt.Tx
}

func (t *txRepo) Update(_ context.Context, fn func(tx store.Repository) error) error {
	return fn(t)
}

func (t *txRepo) InsertProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	return insertProduct(t.tx, product)
}

func (t *txRepo) GetProduct(_ context.Context, id uint64) (*domain.Product, error) {
	return getProduct(t.tx, id)
}

func (t *txRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	return listProducts(t.tx)
}

func (t *txRepo) ProductsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	return productsByIDs(t.tx, ids)
}

func (t *txRepo) UpdateProduct(_ context.Context, id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error) {
	return updateProduct(t.tx, id, patch)
}

func (t *txRepo) SetProductActive(_ context.Context, id uint64, active bool) error {
	return setProductActive(t.tx, id, active)
}

func (t *txRepo) DeleteProduct(_ context.Context, id uint64) error {
	return deleteProduct(t.tx, id)
}

func (t *txRepo) InsertMaterial(_ context.Context, material domain.RawMaterial) (*domain.RawMaterial, error) {
	return insertMaterial(t.tx, material)
}

func (t *txRepo) GetMaterial(_ context.Context, id uint64) (*domain.RawMaterial, error) {
	return getMaterial(t.tx, id)
}

func (t *txRepo) ListMaterials(_ context.Context) ([]domain.RawMaterial, error) {
	return listMaterials(t.tx)
}

func (t *txRepo) MaterialsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.RawMaterial, error) {
	return materialsByIDs(t.tx, ids)
}

func (t *txRepo) FindMaterialByName(_ context.Context, name string) (*domain.RawMaterial, error) {
	return findMaterialByName(t.tx, name)
}

func (t *txRepo) UpdateMaterial(_ context.Context, id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error) {
	return updateMaterial(t.tx, id, patch)
}

func (t *txRepo) SetMaterialStock(_ context.Context, id uint64, quantity float64) error {
	return setMaterialStock(t.tx, id, quantity)
}

func (t *txRepo) DeleteMaterial(_ context.Context, id uint64) error {
	return deleteMaterial(t.tx, id)
}

func (t *txRepo) InsertMappings(_ context.Context, mappings []domain.ProductMaterial) error {
	return insertMappings(t.tx, mappings)
}

func (t *txRepo) MappingsByProduct(_ context.Context, productID uint64) ([]domain.ProductMaterial, error) {
	return mappingsByProduct(t.tx, productID)
}

func (t *txRepo) MappingsByMaterial(_ context.Context, materialID uint64) ([]domain.ProductMaterial, error) {
	return mappingsByMaterial(t.tx, materialID)
}

func (t *txRepo) GetMapping(_ context.Context, productID uint64, materialID uint64) (*domain.ProductMaterial, error) {
	return getMapping(t.tx, productID, materialID)
}

func (t *txRepo) SetMappingQuantity(_ context.Context, mappingID uint64, quantity float64) error {
	return setMappingQuantity(t.tx, mappingID, quantity)
}

func (t *txRepo) DeleteMappings(_ context.Context, ids []uint64) error {
	return deleteMappings(t.tx, ids)
}

func (t *txRepo) InsertTransaction(_ context.Context, record domain.Transaction) (*domain.Transaction, error) {
	return insertTransaction(t.tx, record)
}

func (t *txRepo) GetTransaction(_ context.Context, id uint64) (*domain.Transaction, error) {
	return getTransaction(t.tx, id)
}

func (t *txRepo) TransactionsByStatus(_ context.Context, status string) ([]domain.Transaction, error) {
	return transactionsByStatus(t.tx, status)
}

func (t *txRepo) SetTransactionStatus(_ context.Context, id uint64, status string) error {
	return setTransactionStatus(t.tx, id, status)
}

func (t *txRepo) InsertItems(_ context.Context, items []domain.TransactionItem) error {
	return insertItems(t.tx, items)
}

func (t *txRepo) ItemsByTransaction(_ context.Context, transactionID uint64) ([]domain.TransactionItem, error) {
	return itemsByTransactions(t.tx, []uint64{transactionID})
}

func (t *txRepo) ItemsByTransactions(_ context.Context, transactionIDs []uint64) ([]domain.TransactionItem, error) {
	return itemsByTransactions(t.tx, transactionIDs)
}

// Store methods outside a scope each run in their own transaction. Reads use
// bbolt's lock-free read transactions.

func (s *Store) InsertProduct(_ context.Context, product domain.Product) (created *domain.Product, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		created, err = insertProduct(tx, product)
		return err
	})
	return created, err
}

func (s *Store) GetProduct(_ context.Context, id uint64) (product *domain.Product, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		product, err = getProduct(tx, id)
		return err
	})
	return product, err
}

func (s *Store) ListProducts(_ context.Context) (products []domain.Product, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		products, err = listProducts(tx)
		return err
	})
	return products, err
}

func (s *Store) ProductsByIDs(_ context.Context, ids []uint64) (result map[uint64]domain.Product, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		result, err = productsByIDs(tx, ids)
		return err
	})
	return result, err
}

func (s *Store) UpdateProduct(_ context.Context, id uint64, patch domain.ProductUpdateRequest) (updated *domain.Product, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		updated, err = updateProduct(tx, id, patch)
		return err
	})
	return updated, err
}

func (s *Store) SetProductActive(_ context.Context, id uint64, active bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return setProductActive(tx, id, active)
	})
}

func (s *Store) DeleteProduct(_ context.Context, id uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteProduct(tx, id)
	})
}

func (s *Store) InsertMaterial(_ context.Context, material domain.RawMaterial) (created *domain.RawMaterial, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		created, err = insertMaterial(tx, material)
		return err
	})
	return created, err
}

func (s *Store) GetMaterial(_ context.Context, id uint64) (material *domain.RawMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		material, err = getMaterial(tx, id)
		return err
	})
	return material, err
}

func (s *Store) ListMaterials(_ context.Context) (materials []domain.RawMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		materials, err = listMaterials(tx)
		return err
	})
	return materials, err
}

func (s *Store) MaterialsByIDs(_ context.Context, ids []uint64) (result map[uint64]domain.RawMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		result, err = materialsByIDs(tx, ids)
		return err
	})
	return result, err
}

func (s *Store) FindMaterialByName(_ context.Context, name string) (material *domain.RawMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		material, err = findMaterialByName(tx, name)
		return err
	})
	return material, err
}

func (s *Store) UpdateMaterial(_ context.Context, id uint64, patch domain.MaterialUpdateRequest) (updated *domain.RawMaterial, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		updated, err = updateMaterial(tx, id, patch)
		return err
	})
	return updated, err
}

func (s *Store) SetMaterialStock(_ context.Context, id uint64, quantity float64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return setMaterialStock(tx, id, quantity)
	})
}

func (s *Store) DeleteMaterial(_ context.Context, id uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteMaterial(tx, id)
	})
}

func (s *Store) InsertMappings(_ context.Context, mappings []domain.ProductMaterial) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return insertMappings(tx, mappings)
	})
}

func (s *Store) MappingsByProduct(_ context.Context, productID uint64) (mappings []domain.ProductMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		mappings, err = mappingsByProduct(tx, productID)
		return err
	})
	return mappings, err
}

func (s *Store) MappingsByMaterial(_ context.Context, materialID uint64) (mappings []domain.ProductMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		mappings, err = mappingsByMaterial(tx, materialID)
		return err
	})
	return mappings, err
}

func (s *Store) GetMapping(_ context.Context, productID uint64, materialID uint64) (mapping *domain.ProductMaterial, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		mapping, err = getMapping(tx, productID, materialID)
		return err
	})
	return mapping, err
}

func (s *Store) SetMappingQuantity(_ context.Context, mappingID uint64, quantity float64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return setMappingQuantity(tx, mappingID, quantity)
	})
}

func (s *Store) DeleteMappings(_ context.Context, ids []uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteMappings(tx, ids)
	})
}

func (s *Store) InsertTransaction(_ context.Context, record domain.Transaction) (created *domain.Transaction, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		created, err = insertTransaction(tx, record)
		return err
	})
	return created, err
}

func (s *Store) GetTransaction(_ context.Context, id uint64) (record *domain.Transaction, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		record, err = getTransaction(tx, id)
		return err
	})
	return record, err
}

func (s *Store) TransactionsByStatus(_ context.Context, status string) (records []domain.Transaction, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		records, err = transactionsByStatus(tx, status)
		return err
	})
	return records, err
}

func (s *Store) SetTransactionStatus(_ context.Context, id uint64, status string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return setTransactionStatus(tx, id, status)
	})
}

func (s *Store) InsertItems(_ context.Context, items []domain.TransactionItem) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return insertItems(tx, items)
	})
}

func (s *Store) ItemsByTransaction(_ context.Context, transactionID uint64) (items []domain.TransactionItem, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		items, err = itemsByTransactions(tx, []uint64{transactionID})
		return err
	})
	return items, err
}

func (s *Store) ItemsByTransactions(_ context.Context, transactionIDs []uint64) (items []domain.TransactionItem, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		items, err = itemsByTransactions(tx, transactionIDs)
		return err
	})
	return items, err
}
