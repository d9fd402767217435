package domain

import "time"

type Product struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	IsActive  bool      `json:"is_active"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RawMaterial struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	StockQuantity float64   `json:"stock_quantity"`
	MinStock      float64   `json:"min_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductMaterial maps the quantity of one material consumed per unit of
// one product. At most one mapping exists per (product, material) pair.
type ProductMaterial struct {
	ID             uint64  `json:"id"`
	ProductID      uint64  `json:"product_id"`
	MaterialID     uint64  `json:"material_id"`
	QuantityNeeded float64 `json:"quantity_needed"`
}

type Transaction struct {
	ID              uint64    `json:"id"`
	TotalAmount     int64     `json:"total_amount"`
	PaymentMethod   string    `json:"payment_method"`
	CashierName     string    `json:"cashier_name"`
	TransactionDate time.Time `json:"transaction_date"`
	ReceiptNumber   string    `json:"receipt_number"`
	Status          string    `json:"status"`
}

type TransactionItem struct {
	ID            uint64 `json:"id"`
	TransactionID uint64 `json:"transaction_id"`
	ProductID     uint64 `json:"product_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	TotalPrice    int64  `json:"total_price"`
}

const (
	TxStatusPending  = "pending"
	TxStatusPaid     = "paid"
	TxStatusCanceled = "canceled"
)

type MaterialRequirement struct {
	MaterialID     uint64  `json:"material_id"`
	QuantityNeeded float64 `json:"quantity_needed"`
}

type ProductCreateRequest struct {
	Name      string                `json:"name"`
	Price     int64                 `json:"price"`
	ImageURL  string                `json:"image_url"`
	Category  string                `json:"category"`
	Materials []MaterialRequirement `json:"materials"`
}

type ProductUpdateRequest struct {
	Name      *string               `json:"name,omitempty"`
	Price     *int64                `json:"price,omitempty"`
	ImageURL  *string               `json:"image_url,omitempty"`
	Category  *string               `json:"category,omitempty"`
	Materials []MaterialRequirement `json:"materials"`
}

type MaterialCreateRequest struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	StockQuantity float64 `json:"stock_quantity"`
	MinStock      float64 `json:"min_stock"`
}

type MaterialUpdateRequest struct {
	Name          *string  `json:"name,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	StockQuantity *float64 `json:"stock_quantity,omitempty"`
	MinStock      *float64 `json:"min_stock,omitempty"`
}

// ProductMaterialDetail is a mapping joined with its material's name and unit
// for catalog screens.
type ProductMaterialDetail struct {
	MaterialID     uint64  `json:"material_id"`
	QuantityNeeded float64 `json:"quantity_needed"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
}

type MissingMaterial struct {
	MaterialID uint64  `json:"material_id"`
	Name       string  `json:"name"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Unit       string  `json:"unit"`
}

type AvailabilityResult struct {
	OK      bool              `json:"ok"`
	Missing []MissingMaterial `json:"missing,omitempty"`
}

type CartLine struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items         []CartLine `json:"items"`
	PaymentMethod string     `json:"payment_method"`
	CashierName   string     `json:"cashier_name"`
}

type CheckoutResponse struct {
	TransactionID uint64 `json:"transaction_id"`
	ReceiptNumber string `json:"receipt_number"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
}

// TransactionDetail is a transaction with its snapshotted line items, as
// consumed by receipt rendering collaborators.
type TransactionDetail struct {
	Transaction Transaction       `json:"transaction"`
	Items       []TransactionItem `json:"items"`
}

type TopProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue,omitempty"`
}

type RecentTransaction struct {
	ReceiptNumber string    `json:"receipt_number"`
	Time          time.Time `json:"time"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
}

type DailyStats struct {
	Sales            int64               `json:"sales"`
	Transactions     int                 `json:"transactions"`
	CashPayments     int64               `json:"cash_payments"`
	CashlessPayments int64               `json:"cashless_payments"`
	TopProduct       TopProduct          `json:"top_product"`
	Recent           []RecentTransaction `json:"recent_transactions"`
}

type PaymentStats struct {
	CashAmount           int64 `json:"cash_amount"`
	CashlessAmount       int64 `json:"cashless_amount"`
	TotalAmount          int64 `json:"total_amount"`
	CashTransactions     int   `json:"cash_transactions"`
	CashlessTransactions int   `json:"cashless_transactions"`
	TotalTransactions    int   `json:"total_transactions"`
}

type DailyBreakdown struct {
	Date         string `json:"date"`
	Sales        int64  `json:"sales"`
	Transactions int    `json:"transactions"`
}

type PeakHour struct {
	Hour         string  `json:"hour"`
	Transactions int     `json:"transactions"`
	Percentage   float64 `json:"percentage"`
}

type MonthlyStats struct {
	Sales             int64            `json:"sales"`
	Transactions      int              `json:"transactions"`
	CashPayments      int64            `json:"cash_payments"`
	CashlessPayments  int64            `json:"cashless_payments"`
	TopProduct        TopProduct       `json:"top_product"`
	SalesGrowth       float64          `json:"sales_growth"`
	TransactionGrowth float64          `json:"transaction_growth"`
	DailyBreakdown    []DailyBreakdown `json:"daily_breakdown"`
	PeakHours         []PeakHour       `json:"peak_hours"`
}

type DashboardReport struct {
	Daily   DailyStats   `json:"daily"`
	Payment PaymentStats `json:"payment"`
	Monthly MonthlyStats `json:"monthly"`
}
