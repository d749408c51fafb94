package domain

// Sale statuses. Only PENDING sales accept line mutations; COMPLETED sales
// hold stock reservations that must be reversed on the way out.
const (
	SalePending   = "PENDING"
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
)

type Sale struct {
	ID         string     `db:"id" json:"id"`
	CustomerID string     `db:"customer_id" json:"customerId"`
	UserID     string     `db:"user_id" json:"userId"`
	SoldAt     string     `db:"sold_at" json:"soldAt"`
	Status     string     `db:"status" json:"status"`
	Total      float64    `db:"total" json:"total"`
	Notes      string     `db:"notes" json:"notes,omitempty"`
	CreatedAt  string     `db:"created_at" json:"createdAt"`
	Items      []SaleItem `db:"-" json:"items,omitempty"`
}

type SaleItem struct {
	ID          string  `db:"id" json:"id"`
	SaleID      string  `db:"sale_id" json:"saleId"`
	ProductID   string  `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName,omitempty"`
	ProductKind string  `db:"product_kind" json:"productKind,omitempty"`
	Qty         int     `db:"qty" json:"qty"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

func ValidSaleStatus(s string) bool {
	return s == SalePending || s == SaleCompleted || s == SaleCancelled
}

// Modifiable reports whether the sale still accepts line mutations.
func (s Sale) Modifiable() bool { return s.Status == SalePending }
