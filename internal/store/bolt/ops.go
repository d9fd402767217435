package bolt

import (
	"sort"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

func nameKey(name string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(name)))
}

// products

func insertProduct(tx *bbolt.Tx, product domain.Product) (*domain.Product, error) {
	b := tx.Bucket(bktProducts)
	id, err := b.NextSequence()
	if err != nil {
		return nil, storageErr("products sequence", err)
	}
	product.ID = id
	if err := putRecord(b, itob(id), product); err != nil {
		return nil, err
	}
	return &product, nil
}

func getProduct(tx *bbolt.Tx, id uint64) (*domain.Product, error) {
	var product domain.Product
	if err := getRecord(tx.Bucket(bktProducts), itob(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func listProducts(tx *bbolt.Tx) ([]domain.Product, error) {
	products := make([]domain.Product, 0, 32)
	err := tx.Bucket(bktProducts).ForEach(func(_, v []byte) error {
		var product domain.Product
		if err := json.Unmarshal(v, &product); err != nil {
			return storageErr("decode product", err)
		}
		products = append(products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

func productsByIDs(tx *bbolt.Tx, ids []uint64) (map[uint64]domain.Product, error) {
	b := tx.Bucket(bktProducts)
	result := make(map[uint64]domain.Product, len(ids))
	for _, id := range ids {
		var product domain.Product
		err := getRecord(b, itob(id), &product)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		result[id] = product
	}
	return result, nil
}

func updateProduct(tx *bbolt.Tx, id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error) {
	product, err := getProduct(tx, id)
	if err != nil {
		return nil, err
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
	if err := putRecord(tx.Bucket(bktProducts), itob(id), product); err != nil {
		return nil, err
	}
	return product, nil
}

func setProductActive(tx *bbolt.Tx, id uint64, active bool) error {
	product, err := getProduct(tx, id)
	if err != nil {
		return err
	}
	product.IsActive = active
	product.UpdatedAt = time.Now().UTC()
	return putRecord(tx.Bucket(bktProducts), itob(id), product)
}

func deleteProduct(tx *bbolt.Tx, id uint64) error {
	b := tx.Bucket(bktProducts)
	if b.Get(itob(id)) == nil {
		return store.ErrNotFound
	}
	if err := b.Delete(itob(id)); err != nil {
		return storageErr("delete product", err)
	}
	return nil
}

// materials

func insertMaterial(tx *bbolt.Tx, material domain.RawMaterial) (*domain.RawMaterial, error) {
	b := tx.Bucket(bktMaterials)
	idx := tx.Bucket(bktMaterialNameIdx)
	if idx.Get(nameKey(material.Name)) != nil {
		return nil, store.ErrValidation
	}
	id, err := b.NextSequence()
	if err != nil {
		return nil, storageErr("raw_materials sequence", err)
	}
	material.ID = id
	if err := putRecord(b, itob(id), material); err != nil {
		return nil, err
	}
	if err := idx.Put(nameKey(material.Name), itob(id)); err != nil {
		return nil, storageErr("index material name", err)
	}
	return &material, nil
}

func getMaterial(tx *bbolt.Tx, id uint64) (*domain.RawMaterial, error) {
	var material domain.RawMaterial
	if err := getRecord(tx.Bucket(bktMaterials), itob(id), &material); err != nil {
		return nil, err
	}
	return &material, nil
}

func listMaterials(tx *bbolt.Tx) ([]domain.RawMaterial, error) {
	materials := make([]domain.RawMaterial, 0, 32)
	err := tx.Bucket(bktMaterials).ForEach(func(_, v []byte) error {
		var material domain.RawMaterial
		if err := json.Unmarshal(v, &material); err != nil {
			return storageErr("decode material", err)
		}
		materials = append(materials, material)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(materials, func(i, j int) bool {
		return strings.ToLower(materials[i].Name) < strings.ToLower(materials[j].Name)
	})
	return materials, nil
}

func materialsByIDs(tx *bbolt.Tx, ids []uint64) (map[uint64]domain.RawMaterial, error) {
	b := tx.Bucket(bktMaterials)
	result := make(map[uint64]domain.RawMaterial, len(ids))
	for _, id := range ids {
		var material domain.RawMaterial
		err := getRecord(b, itob(id), &material)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		result[id] = material
	}
	return result, nil
}

func findMaterialByName(tx *bbolt.Tx, name string) (*domain.RawMaterial, error) {
	raw := tx.Bucket(bktMaterialNameIdx).Get(nameKey(name))
	if raw == nil {
		return nil, store.ErrNotFound
	}
	return getMaterial(tx, btoi(raw))
}

func updateMaterial(tx *bbolt.Tx, id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error) {
	material, err := getMaterial(tx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name != material.Name {
		idx := tx.Bucket(bktMaterialNameIdx)
		if err := idx.Delete(nameKey(material.Name)); err != nil {
			return nil, storageErr("drop material name index", err)
		}
		if err := idx.Put(nameKey(*patch.Name), itob(id)); err != nil {
			return nil, storageErr("index material name", err)
		}
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
	if err := putRecord(tx.Bucket(bktMaterials), itob(id), material); err != nil {
		return nil, err
	}
	return material, nil
}

func setMaterialStock(tx *bbolt.Tx, id uint64, quantity float64) error {
	if quantity < 0 {
		return store.ErrValidation
	}
	material, err := getMaterial(tx, id)
	if err != nil {
		return err
	}
	material.StockQuantity = quantity
	material.UpdatedAt = time.Now().UTC()
	return putRecord(tx.Bucket(bktMaterials), itob(id), material)
}

func deleteMaterial(tx *bbolt.Tx, id uint64) error {
	material, err := getMaterial(tx, id)
	if err != nil {
		return err
	}
	if err := tx.Bucket(bktMaterialNameIdx).Delete(nameKey(material.Name)); err != nil {
		return storageErr("drop material name index", err)
	}
	if err := tx.Bucket(bktMaterials).Delete(itob(id)); err != nil {
		return storageErr("delete material", err)
	}
	return nil
}

// mappings

func insertMappings(tx *bbolt.Tx, mappings []domain.ProductMaterial) error {
	b := tx.Bucket(bktMappings)
	pairIdx := tx.Bucket(bktMappingPairIdx)
	matIdx := tx.Bucket(bktMappingMatIdx)
	for _, m := range mappings {
		pair := pairKey(m.ProductID, m.MaterialID)
		if pairIdx.Get(pair) != nil {
			return store.ErrValidation
		}
		id, err := b.NextSequence()
		if err != nil {
			return storageErr("product_materials sequence", err)
		}
		m.ID = id
		if err := putRecord(b, itob(id), m); err != nil {
			return err
		}
		if err := pairIdx.Put(pair, itob(id)); err != nil {
			return storageErr("index mapping pair", err)
		}
		if err := matIdx.Put(pairKey(m.MaterialID, id), itob(id)); err != nil {
			return storageErr("index mapping material", err)
		}
	}
	return nil
}

func loadMapping(tx *bbolt.Tx, id uint64) (*domain.ProductMaterial, error) {
	var mapping domain.ProductMaterial
	if err := getRecord(tx.Bucket(bktMappings), itob(id), &mapping); err != nil {
		return nil, err
	}
	return &mapping, nil
}

func mappingsByProduct(tx *bbolt.Tx, productID uint64) ([]domain.ProductMaterial, error) {
	result := make([]domain.ProductMaterial, 0, 8)
	err := prefixScan(tx.Bucket(bktMappingPairIdx), itob(productID), func(_, v []byte) error {
		mapping, err := loadMapping(tx, btoi(v))
		if err != nil {
			return err
		}
		result = append(result, *mapping)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func mappingsByMaterial(tx *bbolt.Tx, materialID uint64) ([]domain.ProductMaterial, error) {
	result := make([]domain.ProductMaterial, 0, 8)
	err := prefixScan(tx.Bucket(bktMappingMatIdx), itob(materialID), func(_, v []byte) error {
		mapping, err := loadMapping(tx, btoi(v))
		if err != nil {
			return err
		}
		result = append(result, *mapping)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func getMapping(tx *bbolt.Tx, productID uint64, materialID uint64) (*domain.ProductMaterial, error) {
	raw := tx.Bucket(bktMappingPairIdx).Get(pairKey(productID, materialID))
	if raw == nil {
		return nil, store.ErrNotFound
	}
	return loadMapping(tx, btoi(raw))
}

func setMappingQuantity(tx *bbolt.Tx, mappingID uint64, quantity float64) error {
	mapping, err := loadMapping(tx, mappingID)
	if err != nil {
		return err
	}
	mapping.QuantityNeeded = quantity
	return putRecord(tx.Bucket(bktMappings), itob(mappingID), mapping)
}

func deleteMappings(tx *bbolt.Tx, ids []uint64) error {
	b := tx.Bucket(bktMappings)
	pairIdx := tx.Bucket(bktMappingPairIdx)
	matIdx := tx.Bucket(bktMappingMatIdx)
	for _, id := range ids {
		mapping, err := loadMapping(tx, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		if err := pairIdx.Delete(pairKey(mapping.ProductID, mapping.MaterialID)); err != nil {
			return storageErr("drop mapping pair index", err)
		}
		if err := matIdx.Delete(pairKey(mapping.MaterialID, id)); err != nil {
			return storageErr("drop mapping material index", err)
		}
		if err := b.Delete(itob(id)); err != nil {
			return storageErr("delete mapping", err)
		}
	}
	return nil
}

// transactions

func insertTransaction(tx *bbolt.Tx, record domain.Transaction) (*domain.Transaction, error) {
	b := tx.Bucket(bktTransactions)
	receiptIdx := tx.Bucket(bktTxReceiptIdx)
	if receiptIdx.Get([]byte(record.ReceiptNumber)) != nil {
		return nil, store.ErrValidation
	}
	id, err := b.NextSequence()
	if err != nil {
		return nil, storageErr("transactions sequence", err)
	}
	record.ID = id
	if err := putRecord(b, itob(id), record); err != nil {
		return nil, err
	}
	if err := receiptIdx.Put([]byte(record.ReceiptNumber), itob(id)); err != nil {
		return nil, storageErr("index receipt", err)
	}
	if err := tx.Bucket(bktTxStatusIdx).Put(statusKey(record.Status, id), itob(id)); err != nil {
		return nil, storageErr("index transaction status", err)
	}
	return &record, nil
}

func getTransaction(tx *bbolt.Tx, id uint64) (*domain.Transaction, error) {
	var record domain.Transaction
	if err := getRecord(tx.Bucket(bktTransactions), itob(id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func transactionsByStatus(tx *bbolt.Tx, status string) ([]domain.Transaction, error) {
	result := make([]domain.Transaction, 0, 32)
	err := prefixScan(tx.Bucket(bktTxStatusIdx), []byte(status+"/"), func(_, v []byte) error {
		record, err := getTransaction(tx, btoi(v))
		if err != nil {
			return err
		}
		result = append(result, *record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func setTransactionStatus(tx *bbolt.Tx, id uint64, status string) error {
	record, err := getTransaction(tx, id)
	if err != nil {
		return err
	}
	statusIdx := tx.Bucket(bktTxStatusIdx)
	if err := statusIdx.Delete(statusKey(record.Status, id)); err != nil {
		return storageErr("drop transaction status index", err)
	}
	record.Status = status
	if err := putRecord(tx.Bucket(bktTransactions), itob(id), record); err != nil {
		return err
	}
	if err := statusIdx.Put(statusKey(status, id), itob(id)); err != nil {
		return storageErr("index transaction status", err)
	}
	return nil
}

// items

func insertItems(tx *bbolt.Tx, items []domain.TransactionItem) error {
	b := tx.Bucket(bktItems)
	idx := tx.Bucket(bktItemTxIdx)
	for _, item := range items {
		id, err := b.NextSequence()
		if err != nil {
			return storageErr("transaction_items sequence", err)
		}
		item.ID = id
		if err := putRecord(b, itob(id), item); err != nil {
			return err
		}
		if err := idx.Put(pairKey(item.TransactionID, id), itob(id)); err != nil {
			return storageErr("index item transaction", err)
		}
	}
	return nil
}

func itemsByTransactions(tx *bbolt.Tx, transactionIDs []uint64) ([]domain.TransactionItem, error) {
	b := tx.Bucket(bktItems)
	idx := tx.Bucket(bktItemTxIdx)
	result := make([]domain.TransactionItem, 0, 16)
	for _, txID := range transactionIDs {
		err := prefixScan(idx, itob(txID), func(_, v []byte) error {
			var item domain.TransactionItem
			if err := getRecord(b, v, &item); err != nil {
				return err
			}
			result = append(result, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
