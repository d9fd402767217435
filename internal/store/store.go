package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"warungpos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorage           = errors.New("storage failure")
)

// InsufficientStockError carries the itemized shortfall of a failed payment:
// every material whose aggregated requirement exceeds its available stock.
type InsufficientStockError struct {
	Missing []domain.MissingMaterial
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s: need %g, have %g %s", m.Name, m.Required, m.Available, m.Unit))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Repository is the persistent store contract over the five collections.
//
// Update runs fn against a scope-bound Repository whose mutations commit
// together or not at all. A concurrent reader sees either the pre-scope state
// of every collection the scope touched or the fully committed state, never a
// mix; overlapping Update scopes are serialized by the implementation. Calling
// Update on a Repository that is already scope-bound joins the current scope.
type Repository interface {
	Update(ctx context.Context, fn func(tx Repository) error) error

	InsertProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ProductsByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error)
	UpdateProduct(ctx context.Context, id uint64, patch domain.ProductUpdateRequest) (*domain.Product, error)
	SetProductActive(ctx context.Context, id uint64, active bool) error
	DeleteProduct(ctx context.Context, id uint64) error

	InsertMaterial(ctx context.Context, material domain.RawMaterial) (*domain.RawMaterial, error)
	GetMaterial(ctx context.Context, id uint64) (*domain.RawMaterial, error)
	ListMaterials(ctx context.Context) ([]domain.RawMaterial, error)
	MaterialsByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.RawMaterial, error)
	FindMaterialByName(ctx context.Context, name string) (*domain.RawMaterial, error)
	UpdateMaterial(ctx context.Context, id uint64, patch domain.MaterialUpdateRequest) (*domain.RawMaterial, error)
	SetMaterialStock(ctx context.Context, id uint64, quantity float64) error
	DeleteMaterial(ctx context.Context, id uint64) error

	InsertMappings(ctx context.Context, mappings []domain.ProductMaterial) error
	MappingsByProduct(ctx context.Context, productID uint64) ([]domain.ProductMaterial, error)
	MappingsByMaterial(ctx context.Context, materialID uint64) ([]domain.ProductMaterial, error)
	GetMapping(ctx context.Context, productID uint64, materialID uint64) (*domain.ProductMaterial, error)
	SetMappingQuantity(ctx context.Context, mappingID uint64, quantity float64) error
	DeleteMappings(ctx context.Context, ids []uint64) error

	InsertTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uint64) (*domain.Transaction, error)
	TransactionsByStatus(ctx context.Context, status string) ([]domain.Transaction, error)
	SetTransactionStatus(ctx context.Context, id uint64, status string) error

	InsertItems(ctx context.Context, items []domain.TransactionItem) error
	ItemsByTransaction(ctx context.Context, transactionID uint64) ([]domain.TransactionItem, error)
	ItemsByTransactions(ctx context.Context, transactionIDs []uint64) ([]domain.TransactionItem, error)
}
