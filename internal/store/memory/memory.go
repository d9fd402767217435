package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

type mappingKey struct {
	productID  uint64
	materialID uint64
}

// state holds all five collections. Methods on state are not synchronized;
// Store serializes access around them and txStore reuses an already-held
// write lock for the duration of a scope.
type state struct {
	products     map[uint64]domain.Product
	materials    map[uint64]domain.RawMaterial
	mappings     map[uint64]domain.ProductMaterial
	mappingByKey map[mappingKey]uint64
	transactions map[uint64]domain.Transaction
	items        map[uint64]domain.TransactionItem
	seq          map[string]uint64
}

func newState() *state {
	return &state{
		products:     make(map[uint64]domain.Product),
		materials:    make(map[uint64]domain.RawMaterial),
		mappings:     make(map[uint64]domain.ProductMaterial),
		mappingByKey: make(map[mappingKey]uint64),
		transactions: make(map[uint64]domain.Transaction),
		items:        make(map[uint64]domain.TransactionItem),
		seq:          make(map[string]uint64),
	}
}

func (d *state) nextID(collection string) uint64 {
	d.seq[collection]++
	return d.seq[collection]
}

type Store struct {
	mu   sync.RWMutex
	data *state
}

func New() *Store {
	return &Store{data: newState()}
}

// Update runs fn while holding the write lock, so the whole scope is atomic
// with respect to every other caller of this store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&txStore{data: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (d *state) clone() *state {
	c := newState()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.materials {
		c.materials[k] = v
	}
	for k, v := range d.mappings {
		c.mappings[k] = v
	}
	for k, v := range d.mappingByKey {
		c.mappingByKey[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

// txStore is the scope-bound view handed to Update callbacks. It reuses the
// lock already held by Update; nested Update calls join the current scope.
type txStore struct {
	data *state
}

func (t *txStore) Update(_ context.Context, fn func(tx store.Repository) error) error {
	return fn(t)
}

// products

func (d *state) insertProduct(product domain.Product) (*domain.Product, error) {
	product.ID = d.nextID("products")
	d.products[product.ID] = product
	created := product
	return &created, nil
}

func (d *state) getProduct(id uint64) (*domain.Product, error) {
	product, ok := d.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := product
	return &copied, nil
}

func (d *state) listProducts() ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(d.products))
	for _, p := range d.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

func (d *state) productsByIDs(ids []uint64) (map[uint64]domain.Product, error) {
	result := make(map[uint64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := d.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (d *state) updateProduct(id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error) {
	product, ok := d.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	product.UpdatedAt = time.Now().UTC()
	d.products[id] = product
	updated := product
	return &updated, nil
}

func (d *state) setProductActive(id uint64, active bool) error {
	product, ok := d.products[id]
	if !ok {
		return store.ErrNotFound
	}
	product.IsActive = active
	product.UpdatedAt = time.Now().UTC()
	d.products[id] = product
	return nil
}

func (d *state) deleteProduct(id uint64) error {
	if _, ok := d.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.products, id)
	return nil
}

// materials

func (d *state) insertMaterial(material domain.RawMaterial) (*domain.RawMaterial, error) {
	if _, err := d.findMaterialByName(material.Name); err == nil {
		return nil, store.ErrValidation
	}
	material.ID = d.nextID("raw_materials")
	d.materials[material.ID] = material
	created := material
	return &created, nil
}

func (d *state) getMaterial(id uint64) (*domain.RawMaterial, error) {
	material, ok := d.materials[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := material
	return &copied, nil
}

func (d *state) listMaterials() ([]domain.RawMaterial, error) {
	materials := make([]domain.RawMaterial, 0, len(d.materials))
	for _, m := range d.materials {
		materials = append(materials, m)
	}
	sort.Slice(materials, func(i, j int) bool {
		return strings.ToLower(materials[i].Name) < strings.ToLower(materials[j].Name)
	})
	return materials, nil
}

func (d *state) materialsByIDs(ids []uint64) (map[uint64]domain.RawMaterial, error) {
	result := make(map[uint64]domain.RawMaterial, len(ids))
	for _, id := range ids {
		if m, ok := d.materials[id]; ok {
			result[id] = m
		}
	}
	return result, nil
}

func (d *state) findMaterialByName(name string) (*domain.RawMaterial, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, m := range d.materials {
		if strings.ToLower(m.Name) == needle {
			copied := m
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (d *state) updateMaterial(id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error) {
	material, ok := d.materials[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil {
		material.Name = *patch.Name
	}
	if patch.Unit != nil {
		material.Unit = *patch.Unit
	}
	if patch.StockQuantity != nil {
		material.StockQuantity = *patch.StockQuantity
	}
	if patch.MinStock != nil {
		material.MinStock = *patch.MinStock
	}
	material.UpdatedAt = time.Now().UTC()
	d.materials[id] = material
	updated := material
	return &updated, nil
}

func (d *state) setMaterialStock(id uint64, quantity float64) error {
	material, ok := d.materials[id]
	if !ok {
		return store.ErrNotFound
	}
	if quantity < 0 {
		return store.ErrValidation
	}
	material.StockQuantity = quantity
	material.UpdatedAt = time.Now().UTC()
	d.materials[id] = material
	return nil
}

func (d *state) deleteMaterial(id uint64) error {
	if _, ok := d.materials[id]; !ok {
		return store.ErrNotFound
	}
	delete(d.materials, id)
	return nil
}

// mappings

func (d *state) insertMappings(mappings []domain.ProductMaterial) error {
	for _, m := range mappings {
		key := mappingKey{productID: m.ProductID, materialID: m.MaterialID}
		if _, exists := d.mappingByKey[key]; exists {
			return store.ErrValidation
		}
		m.ID = d.nextID("product_materials")
		d.mappings[m.ID] = m
		d.mappingByKey[key] = m.ID
	}
	return nil
}

func (d *state) mappingsByProduct(productID uint64) ([]domain.ProductMaterial, error) {
	result := make([]domain.ProductMaterial, 0, 8)
	for _, m := range d.mappings {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (d *state) mappingsByMaterial(materialID uint64) ([]domain.ProductMaterial, error) {
	result := make([]domain.ProductMaterial, 0, 8)
	for _, m := range d.mappings {
		if m.MaterialID == materialID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (d *state) getMapping(productID uint64, materialID uint64) (*domain.ProductMaterial, error) {
	id, ok := d.mappingByKey[mappingKey{productID: productID, materialID: materialID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	mapping := d.mappings[id]
	copied := mapping
	return &copied, nil
}

func (d *state) setMappingQuantity(mappingID uint64, quantity float64) error {
	mapping, ok := d.mappings[mappingID]
	if !ok {
		return store.ErrNotFound
	}
	mapping.QuantityNeeded = quantity
	d.mappings[mappingID] = mapping
	return nil
}

func (d *state) deleteMappings(ids []uint64) error {
	for _, id := range ids {
		mapping, ok := d.mappings[id]
		if !ok {
			continue
		}
		delete(d.mappingByKey, mappingKey{productID: mapping.ProductID, materialID: mapping.MaterialID})
		delete(d.mappings, id)
	}
	return nil
}

// transactions

func (d *state) insertTransaction(tx domain.Transaction) (*domain.Transaction, error) {
	for _, existing := range d.transactions {
		if existing.ReceiptNumber == tx.ReceiptNumber {
			return nil, store.ErrValidation
		}
	}
	tx.ID = d.nextID("transactions")
	d.transactions[tx.ID] = tx
	created := tx
	return &created, nil
}

func (d *state) getTransaction(id uint64) (*domain.Transaction, error) {
	tx, ok := d.transactions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := tx
	return &copied, nil
}

func (d *state) transactionsByStatus(status string) ([]domain.Transaction, error) {
	result := make([]domain.Transaction, 0, len(d.transactions))
	for _, tx := range d.transactions {
		if tx.Status == status {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (d *state) setTransactionStatus(id uint64, status string) error {
	tx, ok := d.transactions[id]
	if !ok {
		return store.ErrNotFound
	}
	tx.Status = status
	d.transactions[id] = tx
	return nil
}

// items

func (d *state) insertItems(items []domain.TransactionItem) error {
	for _, item := range items {
		item.ID = d.nextID("transaction_items")
		d.items[item.ID] = item
	}
	return nil
}

func (d *state) itemsByTransaction(transactionID uint64) ([]domain.TransactionItem, error) {
	return d.itemsByTransactions([]uint64{transactionID})
}

func (d *state) itemsByTransactions(transactionIDs []uint64) ([]domain.TransactionItem, error) {
	wanted := make(map[uint64]struct{}, len(transactionIDs))
	for _, id := range transactionIDs {
		wanted[id] = struct{}{}
	}
	result := make([]domain.TransactionItem, 0, 16)
	for _, item := range d.items {
		if _, ok := wanted[item.TransactionID]; ok {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
