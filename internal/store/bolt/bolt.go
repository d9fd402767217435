// Package bolt implements the persistent store on top of bbolt. One bucket per
// collection plus index buckets; records are JSON-encoded. bbolt's single
// writer gives Update scopes the serialization the transaction engine relies
// on: overlapping scopes never interleave, and a failed scope leaves nothing
// behind.
package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	bbolt "go.etcd.io/bbolt"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bktProducts     = []byte("products")
	bktMaterials    = []byte("raw_materials")
	bktMappings     = []byte("product_materials")
	bktTransactions = []byte("transactions")
	bktItems        = []byte("transaction_items")

	bktMaterialNameIdx = []byte("idx_material_name")
	bktMappingPairIdx  = []byte("idx_mapping_pair")
	bktMappingMatIdx   = []byte("idx_mapping_material")
	bktTxStatusIdx     = []byte("idx_tx_status")
	bktTxReceiptIdx    = []byte("idx_tx_receipt")
	bktItemTxIdx       = []byte("idx_item_tx")

	bktMeta        = []byte("meta")
	keySchemaVer   = []byte("schema_version")
	schemaVersion  = uint64(4)
	collectionBkts = [][]byte{bktProducts, bktMaterials, bktMappings, bktTransactions, bktItems}
	indexBkts      = [][]byte{bktMaterialNameIdx, bktMappingPairIdx, bktMappingMatIdx, bktTxStatusIdx, bktTxReceiptIdx, bktItemTxIdx}
)

type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database file and runs any pending
// schema migrations in version order.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, storageErr("open", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies schema upgrades sequentially. Each version step is
// idempotent; versions are never skipped.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bktMeta)
		if err != nil {
			return storageErr("create meta bucket", err)
		}
		current := uint64(0)
		if raw := meta.Get(keySchemaVer); raw != nil {
			current = btoi(raw)
		}
		for v := current + 1; v <= schemaVersion; v++ {
			if err := applyMigration(tx, v); err != nil {
				return err
			}
			if err := meta.Put(keySchemaVer, itob(v)); err != nil {
				return storageErr("write schema version", err)
			}
		}
		return nil
	})
}

func applyMigration(tx *bbolt.Tx, version uint64) error {
	switch version {
	case 1:
		for _, name := range collectionBkts {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return storageErr("create bucket", err)
			}
		}
		for _, name := range indexBkts {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return storageErr("create index bucket", err)
			}
		}
		return nil
	case 2:
		// Re-encode raw materials so records persisted before min_stock
		// existed carry an explicit zero.
		return reencodeAll(tx, bktMaterials, func() interface{} { return &domain.RawMaterial{} })
	case 3:
		// Products gain image_url; missing values become "".
		return reencodeAll(tx, bktProducts, func() interface{} { return &domain.Product{} })
	case 4:
		// Products gain category; missing values become "".
		return reencodeAll(tx, bktProducts, func() interface{} { return &domain.Product{} })
	default:
		return fmt.Errorf("%w: unknown schema version %d", store.ErrStorage, version)
	}
}

func reencodeAll(tx *bbolt.Tx, bucket []byte, newRecord func() interface{}) error {
	b := tx.Bucket(bucket)
	if b == nil {
		return nil
	}
	return b.ForEach(func(k, v []byte) error {
		record := newRecord()
		if err := json.Unmarshal(v, record); err != nil {
			return storageErr("decode during migration", err)
		}
		payload, err := json.Marshal(record)
		if err != nil {
			return storageErr("encode during migration", err)
		}
		return b.Put(k, payload)
	})
}

// Update runs fn inside one bbolt read-write transaction. An error from fn
// rolls the whole transaction back.
func (s *Store) Update(_ context.Context, fn func(tx store.Repository) error) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&txRepo{tx: btx})
	})
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", store.ErrStorage, op, err)
}

func itob(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func pairKey(a uint64, b uint64) []byte {
	return append(itob(a), itob(b)...)
}

func statusKey(status string, id uint64) []byte {
	return append([]byte(status+"/"), itob(id)...)
}

func putRecord(b *bbolt.Bucket, key []byte, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return storageErr("encode record", err)
	}
	if err := b.Put(key, payload); err != nil {
		return storageErr("put record", err)
	}
	return nil
}

func getRecord(b *bbolt.Bucket, key []byte, record interface{}) error {
	raw := b.Get(key)
	if raw == nil {
		return store.ErrNotFound
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return storageErr("decode record", err)
	}
	return nil
}

func prefixScan(b *bbolt.Bucket, prefix []byte, visit func(k, v []byte) error) error {
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := visit(k, v); err != nil {
			return err
		}
	}
	return nil
}
