// Package service implements the POS engine on top of the repository: the
// availability evaluator, the pending/paid/canceled transaction lifecycle,
// catalog administration with cascades, and the owner dashboard aggregator.
package service

import (
	"strings"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

type Service struct {
	repo store.Repository
	log  *zap.Logger
}

func New(repo store.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, log: logger}
}

// normalizeCart merges duplicate product lines. A line with a zero product id
// or non-positive quantity is invalid rather than ignorable.
func normalizeCart(lines []domain.CartLine) ([]domain.CartLine, error) {
	qtyByProduct := make(map[uint64]int, len(lines))
	order := make([]uint64, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return nil, store.ErrValidation
		}
		if _, seen := qtyByProduct[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		qtyByProduct[line.ProductID] += line.Quantity
	}
	merged := make([]domain.CartLine, 0, len(order))
	for _, id := range order {
		merged = append(merged, domain.CartLine{ProductID: id, Quantity: qtyByProduct[id]})
	}
	return merged, nil
}

func cleanName(name string) string {
	return strings.TrimSpace(name)
}
