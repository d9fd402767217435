package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"warungpos/backend/internal/domain"
	"warungpos/backend/internal/store"
	"warungpos/backend/internal/xid"
)

func isSupportedPaymentMethod(method string) bool {
	switch method {
	case "cash", "qris":
		return true
	default:
		return false
	}
}

// CreatePending records a transaction in pending status with unit prices
// snapshotted from the current catalog. Stock is not touched; deduction
// happens at payment.
func (s *Service) CreatePending(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	lines, err := normalizeCart(req.Items)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}
	if len(lines) == 0 {
		return domain.CheckoutResponse{}, store.ErrValidation
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}
	if !isSupportedPaymentMethod(req.PaymentMethod) {
		return domain.CheckoutResponse{}, store.ErrValidation
	}
	req.CashierName = cleanName(req.CashierName)
	if req.CashierName == "" {
		return domain.CheckoutResponse{}, store.ErrValidation
	}

	var created *domain.Transaction
	err = s.repo.Update(ctx, func(tx store.Repository) error {
		ids := make([]uint64, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		products, err := tx.ProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}

		total := int64(0)
		items := make([]domain.TransactionItem, 0, len(lines))
		for _, line := range lines {
			product, ok := products[line.ProductID]
			if !ok {
				return store.ErrValidation
			}
			lineTotal := product.Price * int64(line.Quantity)
			items = append(items, domain.TransactionItem{
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: lineTotal,
			})
			total += lineTotal
		}

		created, err = tx.InsertTransaction(ctx, newPendingTransaction(total, req))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].TransactionID = created.ID
		}
		return tx.InsertItems(ctx, items)
	})
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	s.log.Info("transaction created",
		zap.Uint64("transaction_id", created.ID),
		zap.String("receipt", created.ReceiptNumber),
		zap.Int64("total", created.TotalAmount))

	return domain.CheckoutResponse{
		TransactionID: created.ID,
		ReceiptNumber: created.ReceiptNumber,
		TotalAmount:   created.TotalAmount,
		Status:        created.Status,
	}, nil
}

func newPendingTransaction(total int64, req domain.CheckoutRequest) domain.Transaction {
	return domain.Transaction{
		TotalAmount:     total,
		PaymentMethod:   req.PaymentMethod,
		CashierName:     req.CashierName,
		TransactionDate: time.Now().UTC(),
		ReceiptNumber:   xid.Receipt(),
		Status:          domain.TxStatusPending,
	}
}

// MarkPaid deducts aggregated material stock and flips the transaction to
// paid, all in one atomic scope. If any material falls short nothing is
// deducted and the returned error itemizes every shortfall; availability
// flags are then refreshed so the catalog reflects what just failed.
func (s *Service) MarkPaid(ctx context.Context, transactionID uint64) error {
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		record, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if record.Status != domain.TxStatusPending {
			return store.ErrValidation
		}

		items, err := tx.ItemsByTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		// A transaction with no line items has nothing to pay for.
		if len(items) == 0 {
			return store.ErrValidation
		}

		required, err := aggregateRequirements(ctx, tx, items)
		if err != nil {
			return err
		}

		ids := make([]uint64, 0, len(required))
		for id := range required {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		materials, err := tx.MaterialsByIDs(ctx, ids)
		if err != nil {
			return err
		}

		missing := make([]domain.MissingMaterial, 0, 2)
		for _, id := range ids {
			need := required[id]
			material, ok := materials[id]
			if !ok {
				missing = append(missing, domain.MissingMaterial{MaterialID: id, Name: "(deleted)", Required: need})
				continue
			}
			if material.StockQuantity < need {
				missing = append(missing, domain.MissingMaterial{
					MaterialID: material.ID,
					Name:       material.Name,
					Required:   need,
					Available:  material.StockQuantity,
					Unit:       material.Unit,
				})
			}
		}
		if len(missing) > 0 {
			return &store.InsufficientStockError{Missing: missing}
		}

		for _, id := range ids {
			material := materials[id]
			if err := tx.SetMaterialStock(ctx, id, material.StockQuantity-required[id]); err != nil {
				return err
			}
		}
		if err := tx.SetTransactionStatus(ctx, transactionID, domain.TxStatusPaid); err != nil {
			return err
		}
		_, err = reevaluateAll(ctx, tx)
		return err
	})

	if errors.Is(err, store.ErrInsufficientStock) {
		// The failed scope rolled back its own flag updates; refresh them in
		// a fresh scope so callers see why the product list changed.
		if _, rerr := s.ReevaluateAll(ctx); rerr != nil {
			s.log.Warn("availability refresh after failed payment", zap.Error(rerr))
		}
		s.log.Info("payment rejected, insufficient stock", zap.Uint64("transaction_id", transactionID))
		return err
	}
	if err != nil {
		return err
	}

	s.log.Info("transaction paid", zap.Uint64("transaction_id", transactionID))
	return nil
}

// aggregateRequirements sums material needs across all line items, so one
// material used by several products in the cart is checked once against its
// combined requirement.
func aggregateRequirements(ctx context.Context, r store.Repository, items []domain.TransactionItem) (map[uint64]float64, error) {
	required := make(map[uint64]float64, 8)
	for _, item := range items {
		mappings, err := r.MappingsByProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		for _, m := range mappings {
			required[m.MaterialID] += m.QuantityNeeded * float64(item.Quantity)
		}
	}
	return required, nil
}

// Cancel flips a pending transaction to canceled. Stock was never deducted
// for a pending transaction, so there is nothing to restore.
func (s *Service) Cancel(ctx context.Context, transactionID uint64) error {
	err := s.repo.Update(ctx, func(tx store.Repository) error {
		record, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if record.Status != domain.TxStatusPending {
			return store.ErrValidation
		}
		return tx.SetTransactionStatus(ctx, transactionID, domain.TxStatusCanceled)
	})
	if err != nil {
		return err
	}
	s.log.Info("transaction canceled", zap.Uint64("transaction_id", transactionID))
	return nil
}

// GetTransaction returns a transaction with its snapshotted line items.
func (s *Service) GetTransaction(ctx context.Context, transactionID uint64) (domain.TransactionDetail, error) {
	record, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return domain.TransactionDetail{}, err
	}
	items, err := s.repo.ItemsByTransaction(ctx, transactionID)
	if err != nil {
		return domain.TransactionDetail{}, err
	}
	return domain.TransactionDetail{Transaction: *record, Items: items}, nil
}

// ListTransactions returns transactions in the given status, or all
// transactions when status is empty, each with its items.
func (s *Service) ListTransactions(ctx context.Context, status string) ([]domain.TransactionDetail, error) {
	statuses := []string{status}
	if status == "" {
		statuses = []string{domain.TxStatusPending, domain.TxStatusPaid, domain.TxStatusCanceled}
	}

	records := make([]domain.Transaction, 0, 32)
	for _, st := range statuses {
		batch, err := s.repo.TransactionsByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	ids := make([]uint64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.ItemsByTransactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	itemsByTx := make(map[uint64][]domain.TransactionItem, len(records))
	for _, item := range items {
		itemsByTx[item.TransactionID] = append(itemsByTx[item.TransactionID], item)
	}

	details := make([]domain.TransactionDetail, 0, len(records))
	for _, r := range records {
		details = append(details, domain.TransactionDetail{Transaction: r, Items: itemsByTx[r.ID]})
	}
	return details, nil
}
