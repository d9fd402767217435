package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

// CheckAvailability reports whether one unit of the product can be made from
// current stock, itemizing every short material. Products with no material
// requirements are always available.
func (s *Service) CheckAvailability(ctx context.Context, productID uint64) (domain.AvailabilityResult, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return domain.AvailabilityResult{}, err
	}
	return checkAvailability(ctx, s.repo, productID, 1)
}

// checkAvailability evaluates requirements for qty units against stock. A
// mapping whose material record is gone counts as missing with zero available.
func checkAvailability(ctx context.Context, r store.Repository, productID uint64, qty int) (domain.AvailabilityResult, error) {
	mappings, err := r.MappingsByProduct(ctx, productID)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	if len(mappings) == 0 {
		return domain.AvailabilityResult{OK: true}, nil
	}

	ids := make([]uint64, 0, len(mappings))
	for _, m := range mappings {
		ids = append(ids, m.MaterialID)
	}
	materials, err := r.MaterialsByIDs(ctx, ids)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	missing := make([]domain.MissingMaterial, 0, 2)
	for _, m := range mappings {
		required := m.QuantityNeeded * float64(qty)
		material, ok := materials[m.MaterialID]
		if !ok {
			missing = append(missing, domain.MissingMaterial{
				MaterialID: m.MaterialID,
				Name:       "(deleted)",
				Required:   required,
				Available:  0,
			})
			continue
		}
		if material.StockQuantity < required {
			missing = append(missing, domain.MissingMaterial{
				MaterialID: material.ID,
				Name:       material.Name,
				Required:   required,
				Available:  material.StockQuantity,
				Unit:       material.Unit,
			})
		}
	}
	return domain.AvailabilityResult{OK: len(missing) == 0, Missing: missing}, nil
}

// ReevaluateAll recomputes the availability flag of every product in one
// atomic scope and returns the products whose flag flipped.
func (s *Service) ReevaluateAll(ctx context.Context) ([]domain.Product, error) {
	var changed []domain.Product
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		var err error
		changed, err = reevaluateAll(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, p := range changed {
		s.log.Info("availability flag changed",
			zap.Uint64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Bool("is_active", p.IsActive))
	}
	return changed, nil
}

func reevaluateAll(ctx context.Context, r store.Repository) ([]domain.Product, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return reevaluateProducts(ctx, r, ids)
}

// reevaluateProducts recomputes flags for the given products only, skipping
// writes when the flag is already correct. Products that no longer exist are
// skipped.
func reevaluateProducts(ctx context.Context, r store.Repository, productIDs []uint64) ([]domain.Product, error) {
	changed := make([]domain.Product, 0, 4)
	for _, id := range productIDs {
		product, err := r.GetProduct(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result, err := checkAvailability(ctx, r, id, 1)
		if err != nil {
			return nil, err
		}
		if product.IsActive == result.OK {
			continue
		}
		if err := r.SetProductActive(ctx, id, result.OK); err != nil {
			return nil, err
		}
		product.IsActive = result.OK
		changed = append(changed, *product)
	}
	return changed, nil
}
