package memory

import (
	"context"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

var (
	_ store.Repository = (*Store)(nil)
	_ store.Repository = (*txStore)(nil)
)

func (s *Store) InsertProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.insertProduct(product)
}

func (s *Store) GetProduct(_ context.Context, id uint64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getProduct(id)
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listProducts()
}

func (s *Store) ProductsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.productsByIDs(ids)
}

func (s *Store) UpdateProduct(_ context.Context, id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.updateProduct(id, patch)
}

func (s *Store) SetProductActive(_ context.Context, id uint64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setProductActive(id, active)
}

func (s *Store) DeleteProduct(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.deleteProduct(id)
}

func (s *Store) InsertMaterial(_ context.Context, material domain.RawMaterial) (*domain.RawMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.insertMaterial(material)
}

func (s *Store) GetMaterial(_ context.Context, id uint64) (*domain.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getMaterial(id)
}

func (s *Store) ListMaterials(_ context.Context) ([]domain.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listMaterials()
}

func (s *Store) MaterialsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.materialsByIDs(ids)
}

func (s *Store) FindMaterialByName(_ context.Context, name string) (*domain.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.findMaterialByName(name)
}

func (s *Store) UpdateMaterial(_ context.Context, id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.updateMaterial(id, patch)
}

func (s *Store) SetMaterialStock(_ context.Context, id uint64, quantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setMaterialStock(id, quantity)
}

func (s *Store) DeleteMaterial(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.deleteMaterial(id)
}

func (s *Store) InsertMappings(_ context.Context, mappings []domain.ProductMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.insertMappings(mappings)
}

func (s *Store) MappingsByProduct(_ context.Context, productID uint64) ([]domain.ProductMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.mappingsByProduct(productID)
}

func (s *Store) MappingsByMaterial(_ context.Context, materialID uint64) ([]domain.ProductMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.mappingsByMaterial(materialID)
}

func (s *Store) GetMapping(_ context.Context, productID uint64, materialID uint64) (*domain.ProductMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getMapping(productID, materialID)
}

func (s *Store) SetMappingQuantity(_ context.Context, mappingID uint64, quantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setMappingQuantity(mappingID, quantity)
}

func (s *Store) DeleteMappings(_ context.Context, ids []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.deleteMappings(ids)
}

func (s *Store) InsertTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.insertTransaction(tx)
}

func (s *Store) GetTransaction(_ context.Context, id uint64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.getTransaction(id)
}

func (s *Store) TransactionsByStatus(_ context.Context, status string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.transactionsByStatus(status)
}

func (s *Store) SetTransactionStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.setTransactionStatus(id, status)
}

func (s *Store) InsertItems(_ context.Context, items []domain.TransactionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.insertItems(items)
}

func (s *Store) ItemsByTransaction(_ context.Context, transactionID uint64) ([]domain.TransactionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.itemsByTransaction(transactionID)
}

func (s *Store) ItemsByTransactions(_ context.Context, transactionIDs []uint64) ([]domain.TransactionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.itemsByTransactions(transactionIDs)
}

func (t *txStore) InsertProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	return t.data.insertProduct(product)
}

func (t *txStore) GetProduct(_ context.Context, id uint64) (*domain.Product, error) {
	return t.data.getProduct(id)
}

func (t *txStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	return t.data.listProducts()
}

func (t *txStore) ProductsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	return t.data.productsByIDs(ids)
}

func (t *txStore) UpdateProduct(_ context.Context, id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error) {
	return t.data.updateProduct(id, patch)
}

func (t *txStore) SetProductActive(_ context.Context, id uint64, active bool) error {
	return t.data.setProductActive(id, active)
}

func (t *txStore) DeleteProduct(_ context.Context, id uint64) error {
	return t.data.deleteProduct(id)
}

func (t *txStore) InsertMaterial(_ context.Context, material domain.RawMaterial) (*domain.RawMaterial, error) {
	return t.data.insertMaterial(material)
}

func (t *txStore) GetMaterial(_ context.Context, id uint64) (*domain.RawMaterial, error) {
	return t.data.getMaterial(id)
}

func (t *txStore) ListMaterials(_ context.Context) ([]domain.RawMaterial, error) {
	return t.data.listMaterials()
}

func (t *txStore) MaterialsByIDs(_ context.Context, ids []uint64) (map[uint64]domain.RawMaterial, error) {
	return t.data.materialsByIDs(ids)
}

func (t *txStore) FindMaterialByName(_ context.Context, name string) (*domain.RawMaterial, error) {
	return t.data.findMaterialByName(name)
}

func (t *txStore) UpdateMaterial(_ context.Context, id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error) {
	return t.data.updateMaterial(id, patch)
}

func (t *txStore) SetMaterialStock(_ context.Context, id uint64, quantity float64) error {
	return t.data.setMaterialStock(id, quantity)
}

func (t *txStore) DeleteMaterial(_ context.Context, id uint64) error {
	return t.data.deleteMaterial(id)
}

func (t *txStore) InsertMappings(_ context.Context, mappings []domain.ProductMaterial) error {
	return t.data.insertMappings(mappings)
}

func (t *txStore) MappingsByProduct(_ context.Context, productID uint64) ([]domain.ProductMaterial, error) {
	return t.data.mappingsByProduct(productID)
}

func (t *txStore) MappingsByMaterial(_ context.Context, materialID uint64) ([]domain.ProductMaterial, error) {
	return t.data.mappingsByMaterial(materialID)
}

func (t *txStore) GetMapping(_ context.Context, productID uint64, materialID uint64) (*domain.ProductMaterial, error) {
	return t.data.getMapping(productID, materialID)
}

func (t *txStore) SetMappingQuantity(_ context.Context, mappingID uint64, quantity float64) error {
	return t.data.setMappingQuantity(mappingID, quantity)
}

func (t *txStore) DeleteMappings(_ context.Context, ids []uint64) error {
	return t.data.deleteMappings(ids)
}

func (t *txStore) InsertTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	return t.data.insertTransaction(tx)
}

func (t *txStore) GetTransaction(_ context.Context, id uint64) (*domain.Transaction, error) {
	return t.data.getTransaction(id)
}

func (t *txStore) TransactionsByStatus(_ context.Context, status string) ([]domain.Transaction, error) {
	return t.data.transactionsByStatus(status)
}

func (t *txStore) SetTransactionStatus(_ context.Context, id uint64, status string) error {
	return t.data.setTransactionStatus(id, status)
}

func (t *txStore) InsertItems(_ context.Context, items []domain.TransactionItem) error {
	return t.data.insertItems(items)
}

func (t *txStore) ItemsByTransaction(_ context.Context, transactionID uint64) ([]domain.TransactionItem, error) {
	return t.data.itemsByTransaction(transactionID)
}

func (t *txStore) ItemsByTransactions(_ context.Context, transactionIDs []uint64) ([]domain.TransactionItem, error) {
	return t.data.itemsByTransactions(transactionIDs)
}
