package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

// materials

func (s *Service) CreateMaterial(ctx context.Context, req domain.MaterialCreateRequest) (domain.RawMaterial, error) {
	req.Name = cleanName(req.Name)
	req.Unit = cleanName(req.Unit)
	if req.Name == "" || req.Unit == "" {
		return domain.RawMaterial{}, store.ErrValidation
	}
	if req.StockQuantity < 0 || req.MinStock < 0 {
		return domain.RawMaterial{}, store.ErrValidation
	}

	var created *domain.RawMaterial
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		if _, err := tx.FindMaterialByName(ctx, req.Name); err == nil {
			return store.ErrValidation
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		var err error
		created, err = tx.InsertMaterial(ctx, domain.RawMaterial{
			Name:          req.Name,
			Unit:          req.Unit,
			StockQuantity: req.StockQuantity,
			MinStock:      req.MinStock,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		return err
	})
	if err != nil {
		return domain.RawMaterial{}, err
	}
	s.log.Info("material created", zap.Uint64("material_id", created.ID), zap.String("name", created.Name))
	return *created, nil
}

func (s *Service) GetMaterial(ctx context.Context, id uint64) (domain.RawMaterial, error) {
	material, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return domain.RawMaterial{}, err
	}
	return *material, nil
}

func (s *Service) ListMaterials(ctx context.Context) ([]domain.RawMaterial, error) {
	return s.repo.ListMaterials(ctx)
}

// Result counts are bounded: a plain listing returns at most 20 materials, a
// keyword search at most 50.
const (
	materialListLimit   = 20
	materialSearchLimit = 50
)

// SearchMaterials returns materials whose name contains the keyword,
// case-insensitively, ordered by name and capped at the search limit. An
// empty keyword returns the first page of the plain listing.
func (s *Service) SearchMaterials(ctx context.Context, keyword string) ([]domain.RawMaterial, error) {
	materials, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		if len(materials) > materialListLimit {
			materials = materials[:materialListLimit]
		}
		return materials, nil
	}
	matched := make([]domain.RawMaterial, 0, len(materials))
	for _, m := range materials {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			matched = append(matched, m)
			if len(matched) == materialSearchLimit {
				break
			}
		}
	}
	return matched, nil
}

// LowStockMaterials returns materials at or below their minimum threshold.
// Materials with a zero threshold opt out of the warning.
func (s *Service) LowStockMaterials(ctx context.Context) ([]domain.RawMaterial, error) {
	materials, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.RawMaterial, 0, 8)
	for _, m := range materials {
		if m.MinStock > 0 && m.StockQuantity <= m.MinStock {
			low = append(low, m)
		}
	}
	return low, nil
}

// UpdateMaterial patches a material and refreshes the availability flag of
// every product that consumes it, atomically.
func (s *Service) UpdateMaterial(ctx context.Context, id uint64, patch domain.MaterialUpdateRequest) (domain.RawMaterial, error) {
	if patch.Name != nil {
		name := cleanName(*patch.Name)
		if name == "" {
			return domain.RawMaterial{}, store.ErrValidation
		}
		patch.Name = &name
	}
	if patch.Unit != nil && cleanName(*patch.Unit) == "" {
		return domain.RawMaterial{}, store.ErrValidation
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return domain.RawMaterial{}, store.ErrValidation
	}
	if patch.MinStock != nil && *patch.MinStock < 0 {
		return domain.RawMaterial{}, store.ErrValidation
	}

	var updated *domain.RawMaterial
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		if patch.Name != nil {
			existing, err := tx.FindMaterialByName(ctx, *patch.Name)
			if err == nil && existing.ID != id {
				return store.ErrValidation
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		var err error
		updated, err = tx.UpdateMaterial(ctx, id, patch)
		if err != nil {
			return err
		}
		return reevaluateConsumers(ctx, tx, id)
	})
	if err != nil {
		return domain.RawMaterial{}, err
	}
	return *updated, nil
}

// SetMaterialStock sets the absolute stock level, then refreshes consumers.
func (s *Service) SetMaterialStock(ctx context.Context, id uint64, quantity float64) (domain.RawMaterial, error) {
	var updated *domain.RawMaterial
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		if err := tx.SetMaterialStock(ctx, id, quantity); err != nil {
			return err
		}
		if err := reevaluateConsumers(ctx, tx, id); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetMaterial(ctx, id)
		return err
	})
	if err != nil {
		return domain.RawMaterial{}, err
	}
	s.log.Info("stock set", zap.Uint64("material_id", id), zap.Float64("quantity", quantity))
	return *updated, nil
}

// DeleteMaterial removes a material along with every mapping that references
// it, then refreshes the products that depended on it. The whole cascade is
// one atomic scope.
func (s *Service) DeleteMaterial(ctx context.Context, id uint64) error {
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		mappings, err := tx.MappingsByMaterial(ctx, id)
		if err != nil {
			return err
		}
		mappingIDs := make([]uint64, 0, len(mappings))
		productIDs := make([]uint64, 0, len(mappings))
		for _, m := range mappings {
			mappingIDs = append(mappingIDs, m.ID)
			productIDs = append(productIDs, m.ProductID)
		}
		if err := tx.DeleteMappings(ctx, mappingIDs); err != nil {
			return err
		}
		if err := tx.DeleteMaterial(ctx, id); err != nil {
			return err
		}
		_, err = reevaluateProducts(ctx, tx, productIDs)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("material deleted", zap.Uint64("material_id", id))
	return nil
}

// reevaluateConsumers refreshes the flag of every product mapped to the
// material.
func reevaluateConsumers(ctx context.Context, r store.Repository, materialID uint64) error {
	mappings, err := r.MappingsByMaterial(ctx, materialID)
	if err != nil {
		return err
	}
	productIDs := make([]uint64, 0, len(mappings))
	for _, m := range mappings {
		productIDs = append(productIDs, m.ProductID)
	}
	_, err = reevaluateProducts(ctx, r, productIDs)
	return err
}

// products

func validateRequirements(reqs []domain.MaterialRequirement) error {
	seen := make(map[uint64]struct{}, len(reqs))
	for _, r := range reqs {
		if r.MaterialID == 0 || r.QuantityNeeded <= 0 {
			return store.ErrValidation
		}
		if _, dup := seen[r.MaterialID]; dup {
			return store.ErrValidation
		}
		seen[r.MaterialID] = struct{}{}
	}
	return nil
}

func requireMaterials(ctx context.Context, r store.Repository, reqs []domain.MaterialRequirement) error {
	ids := make([]uint64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.MaterialID)
	}
	materials, err := r.MaterialsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		if _, ok := materials[req.MaterialID]; !ok {
			return store.ErrValidation
		}
	}
	return nil
}

// CreateProduct inserts a product with its material requirements and an
// availability flag computed from current stock, atomically.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = cleanName(req.Name)
	if req.Name == "" || req.Price < 0 {
		return domain.Product{}, store.ErrValidation
	}
	if err := validateRequirements(req.Materials); err != nil {
		return domain.Product{}, err
	}

	var created *domain.Product
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		if err := requireMaterials(ctx, tx, req.Materials); err != nil {
			return err
		}
		now := time.Now().UTC()
		var err error
		created, err = tx.InsertProduct(ctx, domain.Product{
			Name:      req.Name,
			Price:     req.Price,
			IsActive:  true,
			ImageURL:  req.ImageURL,
			Category:  cleanName(req.Category),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		mappings := make([]domain.ProductMaterial, 0, len(req.Materials))
		for _, m := range req.Materials {
			mappings = append(mappings, domain.ProductMaterial{
				ProductID:      created.ID,
				MaterialID:     m.MaterialID,
				QuantityNeeded: m.QuantityNeeded,
			})
		}
		if err := tx.InsertMappings(ctx, mappings); err != nil {
			return err
		}
		changed, err := reevaluateProducts(ctx, tx, []uint64{created.ID})
		if err != nil {
			return err
		}
		for _, p := range changed {
			created.IsActive = p.IsActive
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", zap.Uint64("product_id", created.ID), zap.String("name", created.Name))
	return *created, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint64) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// GetProductMaterials returns a product's requirements joined with material
// names and units.
func (s *Service) GetProductMaterials(ctx context.Context, productID uint64) ([]domain.ProductMaterialDetail, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	mappings, err := s.repo.MappingsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(mappings))
	for _, m := range mappings {
		ids = append(ids, m.MaterialID)
	}
	materials, err := s.repo.MaterialsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details := make([]domain.ProductMaterialDetail, 0, len(mappings))
	for _, m := range mappings {
		detail := domain.ProductMaterialDetail{
			MaterialID:     m.MaterialID,
			QuantityNeeded: m.QuantityNeeded,
		}
		if material, ok := materials[m.MaterialID]; ok {
			detail.Name = material.Name
			detail.Unit = material.Unit
		}
		details = append(details, detail)
	}
	return details, nil
}

// UpdateProduct patches product fields. A non-nil Materials slice replaces
// the product's requirements wholesale: mappings absent from the new set are
// removed, not merged. The flag is refreshed in the same scope.
func (s *Service) UpdateProduct(ctx context.Context, id uint64, patch domain.ProductUpdateRequest) (domain.Product, error) {
	if patch.Name != nil {
		name := cleanName(*patch.Name)
		if name == "" {
			return domain.Product{}, store.ErrValidation
		}
		patch.Name = &name
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.Product{}, store.ErrValidation
	}
	if patch.Materials != nil {
		if err := validateRequirements(patch.Materials); err != nil {
			return domain.Product{}, err
		}
	}

	var updated *domain.Product
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		var err error
		updated, err = tx.UpdateProduct(ctx, id, patch)
		if err != nil {
			return err
		}
		if patch.Materials != nil {
			if err := requireMaterials(ctx, tx, patch.Materials); err != nil {
				return err
			}
			existing, err := tx.MappingsByProduct(ctx, id)
			if err != nil {
				return err
			}
			old := make([]uint64, 0, len(existing))
			for _, m := range existing {
				old = append(old, m.ID)
			}
			if err := tx.DeleteMappings(ctx, old); err != nil {
				return err
			}
			replacement := make([]domain.ProductMaterial, 0, len(patch.Materials))
			for _, m := range patch.Materials {
				replacement = append(replacement, domain.ProductMaterial{
					ProductID:      id,
					MaterialID:     m.MaterialID,
					QuantityNeeded: m.QuantityNeeded,
				})
			}
			if err := tx.InsertMappings(ctx, replacement); err != nil {
				return err
			}
		}
		changed, err := reevaluateProducts(ctx, tx, []uint64{id})
		if err != nil {
			return err
		}
		for _, p := range changed {
			updated.IsActive = p.IsActive
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return *updated, nil
}

// DeleteProduct removes a product and its mappings. Transaction items keep
// their snapshots; receipts outlive the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id uint64) error {
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		mappings, err := tx.MappingsByProduct(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0, len(mappings))
		for _, m := range mappings {
			ids = append(ids, m.ID)
		}
		if err := tx.DeleteMappings(ctx, ids); err != nil {
			return err
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Uint64("product_id", id))
	return nil
}

// UpsertProductMaterial sets one requirement without touching the rest:
// an existing mapping gets the new quantity, a new pair gets inserted.
func (s *Service) UpsertProductMaterial(ctx context.Context, productID uint64, req domain.MaterialRequirement) error {
	if req.MaterialID == 0 || req.QuantityNeeded <= 0 {
		return store.ErrValidation
	}
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		if _, err := tx.GetMaterial(ctx, req.MaterialID); err != nil {
			return err
		}
		mapping, err := tx.GetMapping(ctx, productID, req.MaterialID)
		switch {
		case err == nil:
			if err := tx.SetMappingQuantity(ctx, mapping.ID, req.QuantityNeeded); err != nil {
				return err
			}
		case errors.Is(err, store.ErrNotFound):
			if err := tx.InsertMappings(ctx, []domain.ProductMaterial{{
				ProductID:      productID,
				MaterialID:     req.MaterialID,
				QuantityNeeded: req.QuantityNeeded,
			}}); err != nil {
				return err
			}
		default:
			return err
		}
		_, err = reevaluateProducts(ctx, tx, []uint64{productID})
		return err
	})
	return err
}

// RemoveProductMaterial drops one requirement from a product.
func (s *Service) RemoveProductMaterial(ctx context.Context, productID uint64, materialID uint64) error {
	return s.repo.Update(ctx, func(tx store.Repository) error {
		mapping, err := tx.GetMapping(ctx, productID, materialID)
		if err != nil {
			return err
		}
		if err := tx.DeleteMappings(ctx, []uint64{mapping.ID}); err != nil {
			return err
		}
		_, err = reevaluateProducts(ctx, tx, []uint64{productID})
		return err
	})
}
