package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"erpvendas/internal/domain"
	"erpvendas/internal/repos"
	"erpvendas/internal/validate"
)

// soldAtLayout matches sqlite's CURRENT_TIMESTAMP so datetime() range filters
// compare correctly.
const soldAtLayout = "2006-01-02 15:04:05"

// SaleService owns the sale aggregate: creation, status transitions, deletion
// and the stock reconciliation each of those implies. Every compound mutation
// runs inside one transaction so a conflicting concurrent write aborts the
// whole unit of work.
type SaleService struct {
	DB        *sqlx.DB
	Sales     *repos.SaleRepo
	Catalog   *repos.CatalogRepo
	Customers *repos.CustomerRepo
	Users     *repos.UserRepo
}

func NewSaleService(db *sqlx.DB, sales *repos.SaleRepo, catalog *repos.CatalogRepo, customers *repos.CustomerRepo, users *repos.UserRepo) *SaleService {
	return &SaleService{DB: db, Sales: sales, Catalog: catalog, Customers: customers, Users: users}
}

type SaleLineInput struct {
	ProductID string   `json:"productId"`
	Qty       int      `json:"qty"`
	UnitPrice *float64 `json:"unitPrice"`
}

type CreateSaleInput struct {
	CustomerID string          `json:"customerId"`
	UserID     string          `json:"userId"`
	SoldAt     string          `json:"soldAt"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes"`
	Total      *float64        `json:"total"`
	Lines      []SaleLineInput `json:"lines"`
}

type UpdateSaleInput struct {
	SoldAt *string `json:"soldAt"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Create validates references and stock, then writes the sale header, its
// lines and any completion-time stock decrements as one atomic unit.
func (s *SaleService) Create(in CreateSaleInput) (domain.Sale, error) {
	var zero domain.Sale

	if ok, err := s.Customers.Exists(in.CustomerID); err != nil {
		return zero, err
	} else if !ok {
		return zero, domain.ReferenceNotFound("customer", in.CustomerID)
	}
	if ok, err := s.Users.Exists(in.UserID); err != nil {
		return zero, err
	} else if !ok {
		return zero, domain.ReferenceNotFound("user", in.UserID)
	}

	status, err := normalizeStatus(in.Status, domain.SalePending)
	if err != nil {
		return zero, err
	}
	if len(in.Lines) == 0 {
		return zero, domain.ValidationError("sale requires at least one line")
	}

	items, err := s.resolveLines(in.Lines)
	if err != nil {
		return zero, err
	}

	total := 0.0
	for _, it := range items {
		total += float64(it.Qty) * it.UnitPrice
	}
	if in.Total != nil {
		if *in.Total < 0 {
			return zero, domain.ValidationError("total must be non-negative")
		}
		total = *in.Total
	}

	sale := domain.Sale{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		UserID:     in.UserID,
		SoldAt:     soldAtOrNow(in.SoldAt),
		Status:     status,
		Total:      total,
		Notes:      validate.Notes(in.Notes),
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Sales.Insert(tx, sale); err != nil {
		return zero, err
	}
	for i := range items {
		items[i].SaleID = sale.ID
		if err := s.Sales.InsertItem(tx, items[i]); err != nil {
			return zero, err
		}
	}
	// Completed-at-create decrements stock right away, same as a later
	// Pending -> Completed transition would.
	if err := s.applyStockDeltas(tx, stockDeltas(domain.SalePending, status, items)); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}

	return s.Get(sale.ID)
}

// resolveLines turns raw line inputs into sale items: product lookup, active
// check, catalog-price fallback, and the pre-write stock sufficiency check.
func (s *SaleService) resolveLines(lines []SaleLineInput) ([]domain.SaleItem, error) {
	items := make([]domain.SaleItem, 0, len(lines))
	for i, ln := range lines {
		if !validate.Qty(ln.Qty) {
			return nil, domain.ValidationError(fmt.Sprintf("line %d: qty must be a positive integer", i+1))
		}
		p, err := s.Catalog.Get(ln.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ReferenceNotFound("product", ln.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if p.Status != domain.StatusActive {
			return nil, domain.ValidationError(fmt.Sprintf("product %s is inactive", p.ID))
		}
		price := p.Price
		if ln.UnitPrice != nil {
			if !validate.Price(*ln.UnitPrice) {
				return nil, domain.ValidationError(fmt.Sprintf("line %d: unit price must be non-negative", i+1))
			}
			price = *ln.UnitPrice
		}
		if p.TracksStock() && ln.Qty > p.Available() {
			return nil, domain.InsufficientStock(p.ID, ln.Qty, p.Available())
		}
		items = append(items, domain.SaleItem{
			ID:          uuid.NewString(),
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductKind: p.Kind,
			Qty:         ln.Qty,
			UnitPrice:   price,
		})
	}
	return items, nil
}

func (s *SaleService) Get(id string) (domain.Sale, error) {
	sale, err := s.Sales.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, domain.NotFound("sale", id)
	}
	if err != nil {
		return domain.Sale{}, err
	}
	items, err := s.Sales.Items(id)
	if err != nil {
		return domain.Sale{}, err
	}
	sale.Items = items
	return sale, nil
}

func (s *SaleService) List(f repos.SaleFilter, page, pageSize int) ([]domain.Sale, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize
	if f.Status != "" {
		st, err := normalizeStatus(f.Status, "")
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if f.From != "" {
		t, ok := validate.Date(f.From)
		if !ok {
			return nil, domain.ValidationError("from is not a recognized date format")
		}
		f.From = t.UTC().Format(soldAtLayout)
	}
	if f.To != "" {
		t, ok := validate.Date(f.To)
		if !ok {
			return nil, domain.ValidationError("to is not a recognized date format")
		}
		f.To = t.UTC().Format(soldAtLayout)
	}
	return s.Sales.List(f)
}

// UpdateStatus transitions the sale and reconciles stock in one transaction.
// A no-op transition touches nothing.
func (s *SaleService) UpdateStatus(id, newStatus string) (domain.Sale, error) {
	status, err := normalizeStatus(newStatus, "")
	if err != nil {
		return domain.Sale{}, err
	}
	return s.update(id, UpdateSaleInput{Status: &status})
}

// Update applies partial header changes; a status change runs the same
// transition logic as UpdateStatus against the state read in-transaction.
func (s *SaleService) Update(id string, in UpdateSaleInput) (domain.Sale, error) {
	if in.Status != nil {
		st, err := normalizeStatus(*in.Status, "")
		if err != nil {
			return domain.Sale{}, err
		}
		in.Status = &st
	}
	if in.SoldAt != nil {
		if _, ok := validate.Date(*in.SoldAt); !ok {
			return domain.Sale{}, domain.ValidationError("soldAt is not a recognized date format")
		}
	}
	return s.update(id, in)
}

func (s *SaleService) update(id string, in UpdateSaleInput) (domain.Sale, error) {
	var zero domain.Sale

	tx, err := s.DB.Beginx()
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := s.Sales.GetIn(tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.NotFound("sale", id)
	}
	if err != nil {
		return zero, err
	}

	if in.Status != nil && *in.Status != sale.Status {
		items, err := s.Sales.ItemsIn(tx, id)
		if err != nil {
			return zero, err
		}
		if err := s.applyStockDeltas(tx, stockDeltas(sale.Status, *in.Status, items)); err != nil {
			return zero, err
		}
		sale.Status = *in.Status
	}
	if in.SoldAt != nil {
		sale.SoldAt = soldAtOrNow(*in.SoldAt)
	}
	if in.Notes != nil {
		sale.Notes = validate.Notes(*in.Notes)
	}

	if err := s.Sales.UpdateHeader(tx, sale); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}

	return s.Get(id)
}

// Delete reverses a completed sale's stock decrements, then removes the sale;
// lines go with it via cascade.
func (s *SaleService) Delete(id string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := s.Sales.GetIn(tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("sale", id)
	}
	if err != nil {
		return err
	}

	if sale.Status == domain.SaleCompleted {
		items, err := s.Sales.ItemsIn(tx, id)
		if err != nil {
			return err
		}
		if err := s.applyStockDeltas(tx, stockDeltas(domain.SaleCompleted, domain.SalePending, items)); err != nil {
			return err
		}
	}
	if err := s.Sales.Delete(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SaleService) applyStockDeltas(tx sqlx.Ext, deltas []StockDelta) error {
	for _, d := range deltas {
		switch {
		case d.Change < 0:
			if err := s.Catalog.DecrementStock(tx, d.ProductID, -d.Change); err != nil {
				return err
			}
		case d.Change > 0:
			if err := s.Catalog.IncrementStock(tx, d.ProductID, d.Change); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalizeStatus(raw, fallback string) (string, error) {
	st := strings.ToUpper(strings.TrimSpace(raw))
	if st == "" {
		if fallback != "" {
			return fallback, nil
		}
		return "", domain.InvalidStatus(raw)
	}
	if !domain.ValidSaleStatus(st) {
		return "", domain.InvalidStatus(raw)
	}
	return st, nil
}

// soldAtOrNow parses a caller timestamp, falling back to current time when
// absent or unparsable.
func soldAtOrNow(raw string) string {
	if t, ok := validate.Date(raw); ok {
		return t.UTC().Format(soldAtLayout)
	}
	return time.Now().UTC().Format(soldAtLayout)
}
