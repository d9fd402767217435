package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
)

// SeedDemoIfEmpty loads a small demo catalog on first run so a fresh install
// has something to sell. A store with any material already in it is left
// alone.
func (s *Service) SeedDemoIfEmpty(ctx context.Context) error {
	return s.repo.Update(ctx, func(tx store.Repository) error {
		existing, err := tx.ListMaterials(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		now := time.Now().UTC()
		material := func(name, unit string, stock, minStock float64) (*domain.RawMaterial, error) {
			return tx.InsertMaterial(ctx, domain.RawMaterial{
				Name: name, Unit: unit, StockQuantity: stock, MinStock: minStock,
				CreatedAt: now, UpdatedAt: now,
			})
		}
		product := func(name string, price int64, category string) (*domain.Product, error) {
			return tx.InsertProduct(ctx, domain.Product{
				Name: name, Price: price, IsActive: true, Category: category,
				CreatedAt: now, UpdatedAt: now,
			})
		}

		beras, err := material("Beras", "gram", 5000, 0)
		if err != nil {
			return err
		}
		ayam, err := material("Ayam", "gram", 3000, 0)
		if err != nil {
			return err
		}
		bumbu, err := material("Bumbu", "gram", 1000, 200)
		if err != nil {
			return err
		}

		nasiAyam, err := product("Nasi Ayam", 20000, "Makanan")
		if err != nil {
			return err
		}
		ayamGoreng, err := product("Ayam Goreng", 15000, "Makanan")
		if err != nil {
			return err
		}
		// Es Teh has no material requirements, so it stays available forever.
		if _, err := product("Es Teh", 5000, "Minuman"); err != nil {
			return err
		}

		if err := tx.InsertMappings(ctx, []domain.ProductMaterial{
			{ProductID: nasiAyam.ID, MaterialID: beras.ID, QuantityNeeded: 150},
			{ProductID: nasiAyam.ID, MaterialID: ayam.ID, QuantityNeeded: 100},
			{ProductID: nasiAyam.ID, MaterialID: bumbu.ID, QuantityNeeded: 10},
			{ProductID: ayamGoreng.ID, MaterialID: ayam.ID, QuantityNeeded: 150},
			{ProductID: ayamGoreng.ID, MaterialID: bumbu.ID, QuantityNeeded: 8},
		}); err != nil {
			return err
		}

		s.log.Info("seeded demo catalog", zap.Int("materials", 3), zap.Int("products", 3))
		_, err = reevaluateAll(ctx, tx)
		return err
	})
}
