package domain

// Catalog entry kinds. Services never track stock; products always do.
const (
	KindProduct = "PRODUCT"
	KindService = "SERVICE"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description,omitempty"`
	Price       float64 `db:"price" json:"price"`
	Stock       *int    `db:"stock" json:"stock,omitempty"` // nil for SERVICE kind
	Kind        string  `db:"kind" json:"kind"`             // PRODUCT | SERVICE
	Status      string  `db:"status" json:"status"`         // ACTIVE | INACTIVE
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// TracksStock reports whether stock bookkeeping applies to this entry.
func (p Product) TracksStock() bool {
	return p.Kind == KindProduct && p.Stock != nil
}

// Available returns the stock on hand, treating service entries as unlimited.
func (p Product) Available() int {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

func ValidKind(s string) bool {
	return s == KindProduct || s == KindService
}

func ValidProductStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
