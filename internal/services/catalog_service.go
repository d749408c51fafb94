package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"erpvendas/internal/domain"
	"erpvendas/internal/repos"
	"erpvendas/internal/validate"
)

// CatalogService manages products and services. Stock counters are only ever
// mutated by the sale engine; here they are set at creation or by an explicit
// admin restock.
type CatalogService struct {
	Repo *repos.CatalogRepo
}

func NewCatalogService(repo *repos.CatalogRepo) *CatalogService {
	return &CatalogService{Repo: repo}
}

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Kind        string   `json:"kind"`
	Status      string   `json:"status"`
}

func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	var zero domain.Product

	name, ok := validate.Name(in.Name)
	if !ok {
		return zero, domain.ValidationError("name is required (max 100 chars)")
	}
	kind := strings.ToUpper(strings.TrimSpace(in.Kind))
	if !domain.ValidKind(kind) {
		return zero, domain.ValidationError("kind must be PRODUCT or SERVICE")
	}
	if in.Price == nil || !validate.Price(*in.Price) {
		return zero, domain.ValidationError("price must be a non-negative number")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidProductStatus(status) {
		return zero, domain.ValidationError("status must be ACTIVE or INACTIVE")
	}

	var stock *int
	switch kind {
	case domain.KindProduct:
		if in.Stock == nil || *in.Stock < 0 {
			return zero, domain.ValidationError("a PRODUCT requires a non-negative stock")
		}
		v := *in.Stock
		stock = &v
	case domain.KindService:
		// Services never track stock.
		stock = nil
	}

	if _, err := s.Repo.GetByName(name); err == nil {
		return zero, domain.ValidationError("a catalog entry named " + name + " already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return zero, err
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       *in.Price,
		Stock:       stock,
		Kind:        kind,
		Status:      status,
	}
	if err := s.Repo.Create(p); err != nil {
		return zero, err
	}
	return s.Get(p.ID)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Repo.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return p, err
}

func (s *CatalogService) List(kind, status, name string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind != "" && !domain.ValidKind(kind) {
		return nil, domain.ValidationError("kind must be PRODUCT or SERVICE")
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !domain.ValidProductStatus(status) {
		return nil, domain.ValidationError("status must be ACTIVE or INACTIVE")
	}
	offset := (page - 1) * pageSize
	return s.Repo.List(kind, status, strings.ToLower(strings.TrimSpace(name)), pageSize, offset)
}

// Update patches name/description/price/stock/status. Kind is immutable: a
// service becoming stock-tracked (or the reverse) would corrupt reconciliation
// history.
func (s *CatalogService) Update(id string, in ProductInput) (domain.Product, error) {
	var zero domain.Product

	p, err := s.Get(id)
	if err != nil {
		return zero, err
	}

	if in.Name != "" {
		name, ok := validate.Name(in.Name)
		if !ok {
			return zero, domain.ValidationError("name is required (max 100 chars)")
		}
		if other, err := s.Repo.GetByName(name); err == nil && other.ID != id {
			return zero, domain.ValidationError("a catalog entry named " + name + " already exists")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return zero, err
		}
		p.Name = name
	}
	if in.Description != "" {
		p.Description = strings.TrimSpace(in.Description)
	}
	if in.Price != nil {
		if !validate.Price(*in.Price) {
			return zero, domain.ValidationError("price must be a non-negative number")
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if p.Kind != domain.KindProduct {
			return zero, domain.ValidationError("a SERVICE does not track stock")
		}
		if *in.Stock < 0 {
			return zero, domain.ValidationError("stock must be non-negative")
		}
		v := *in.Stock
		p.Stock = &v
	}
	if in.Status != "" {
		status := strings.ToUpper(strings.TrimSpace(in.Status))
		if !domain.ValidProductStatus(status) {
			return zero, domain.ValidationError("status must be ACTIVE or INACTIVE")
		}
		p.Status = status
	}
	if in.Kind != "" && strings.ToUpper(strings.TrimSpace(in.Kind)) != p.Kind {
		return zero, domain.ValidationError("kind cannot be changed")
	}

	if err := s.Repo.Update(p); err != nil {
		return zero, err
	}
	return s.Get(id)
}

func (s *CatalogService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	referenced, err := s.Repo.ReferencedBySales(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ValidationError("product " + id + " is referenced by sales and cannot be deleted")
	}
	return s.Repo.Delete(id)
}
