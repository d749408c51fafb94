package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"erpvendas/internal/domain"
	"erpvendas/internal/repos"
	"erpvendas/internal/validate"
)

// SaleItemService mutates individual sale lines after creation. Every
// mutation re-derives the parent sale's total inside the same transaction.
// Lines are only mutable while the parent sale is PENDING, so no stock moves
// here; stock sufficiency is still checked so a later completion can succeed.
type SaleItemService struct {
	DB      *sqlx.DB
	Sales   *repos.SaleRepo
	Catalog *repos.CatalogRepo
}

func NewSaleItemService(db *sqlx.DB, sales *repos.SaleRepo, catalog *repos.CatalogRepo) *SaleItemService {
	return &SaleItemService{DB: db, Sales: sales, Catalog: catalog}
}

type AddLineInput struct {
	ProductID string   `json:"productId"`
	Qty       int      `json:"qty"`
	UnitPrice *float64 `json:"unitPrice"`
}

type UpdateLineInput struct {
	ProductID *string  `json:"productId"`
	Qty       *int     `json:"qty"`
	UnitPrice *float64 `json:"unitPrice"`
}

// AddLine appends a line to a pending sale and rewrites the sale's total.
func (s *SaleItemService) AddLine(saleID string, in AddLineInput) (domain.SaleItem, error) {
	var zero domain.SaleItem

	sale, err := s.Sales.Get(saleID)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.NotFound("sale", saleID)
	}
	if err != nil {
		return zero, err
	}
	if !sale.Modifiable() {
		return zero, domain.SaleNotModifiable(sale.ID, sale.Status)
	}
	if !validate.Qty(in.Qty) {
		return zero, domain.ValidationError("qty must be a positive integer")
	}

	p, err := s.Catalog.Get(in.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.ReferenceNotFound("product", in.ProductID)
	}
	if err != nil {
		return zero, err
	}
	if p.Status != domain.StatusActive {
		return zero, domain.ValidationError("product " + p.ID + " is inactive")
	}
	price := p.Price
	if in.UnitPrice != nil {
		if !validate.Price(*in.UnitPrice) {
			return zero, domain.ValidationError("unit price must be non-negative")
		}
		price = *in.UnitPrice
	}
	if p.TracksStock() && in.Qty > p.Available() {
		return zero, domain.InsufficientStock(p.ID, in.Qty, p.Available())
	}

	item := domain.SaleItem{
		ID:        uuid.NewString(),
		SaleID:    saleID,
		ProductID: p.ID,
		Qty:       in.Qty,
		UnitPrice: price,
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Sales.InsertItem(tx, item); err != nil {
		return zero, err
	}
	if err := s.recomputeTotal(tx, saleID); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}

	return s.Sales.Item(item.ID)
}

// UpdateLine patches a line. Quantity and product changes re-check stock on
// the net new quantity only; price-only changes are stock-neutral.
func (s *SaleItemService) UpdateLine(lineID string, in UpdateLineInput) (domain.SaleItem, error) {
	var zero domain.SaleItem

	item, err := s.Sales.Item(lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.NotFound("sale line", lineID)
	}
	if err != nil {
		return zero, err
	}
	sale, err := s.Sales.Get(item.SaleID)
	if err != nil {
		return zero, err
	}
	if !sale.Modifiable() {
		return zero, domain.SaleNotModifiable(sale.ID, sale.Status)
	}

	next := item
	if in.Qty != nil {
		if !validate.Qty(*in.Qty) {
			return zero, domain.ValidationError("qty must be a positive integer")
		}
		next.Qty = *in.Qty
	}
	if in.UnitPrice != nil {
		if !validate.Price(*in.UnitPrice) {
			return zero, domain.ValidationError("unit price must be non-negative")
		}
		next.UnitPrice = *in.UnitPrice
	}

	switch {
	case in.ProductID != nil && *in.ProductID != item.ProductID:
		// Product swap: validate the replacement in full.
		p, err := s.Catalog.Get(*in.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			return zero, domain.ReferenceNotFound("product", *in.ProductID)
		}
		if err != nil {
			return zero, err
		}
		if p.Status != domain.StatusActive {
			return zero, domain.ValidationError("product " + p.ID + " is inactive")
		}
		if p.TracksStock() && next.Qty > p.Available() {
			return zero, domain.InsufficientStock(p.ID, next.Qty, p.Available())
		}
		next.ProductID = p.ID
		if in.UnitPrice == nil {
			next.UnitPrice = p.Price
		}
	case next.Qty > item.Qty:
		// Same product, higher quantity: only the extra units need stock.
		p, err := s.Catalog.Get(item.ProductID)
		if err != nil {
			return zero, err
		}
		extra := next.Qty - item.Qty
		if p.TracksStock() && extra > p.Available() {
			return zero, domain.InsufficientStock(p.ID, extra, p.Available())
		}
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Sales.UpdateItem(tx, next); err != nil {
		return zero, err
	}
	if err := s.recomputeTotal(tx, item.SaleID); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}

	return s.Sales.Item(lineID)
}

// DeleteLine removes a line and rewrites the parent total (possibly to 0).
func (s *SaleItemService) DeleteLine(lineID string) error {
	item, err := s.Sales.Item(lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("sale line", lineID)
	}
	if err != nil {
		return err
	}
	sale, err := s.Sales.Get(item.SaleID)
	if err != nil {
		return err
	}
	if !sale.Modifiable() {
		return domain.SaleNotModifiable(sale.ID, sale.Status)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Sales.DeleteItem(tx, lineID); err != nil {
		return err
	}
	if err := s.recomputeTotal(tx, item.SaleID); err != nil {
		return err
	}
	return tx.Commit()
}

// recomputeTotal rewrites the sale's total from its current lines. Always
// called inside the same transaction as the line mutation.
func (s *SaleItemService) recomputeTotal(tx sqlx.Ext, saleID string) error {
	total, err := s.Sales.SumItems(tx, saleID)
	if err != nil {
		return err
	}
	return s.Sales.SetTotal(tx, saleID, total)
}
