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

type CustomerService struct {
	Repo *repos.CustomerRepo
}

func NewCustomerService(repo *repos.CustomerRepo) *CustomerService {
	return &CustomerService{Repo: repo}
}

type CustomerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *CustomerService) Create(in CustomerInput) (domain.Customer, error) {
	var zero domain.Customer

	name, ok := validate.Name(in.Name)
	if !ok {
		return zero, domain.ValidationError("name is required (max 100 chars)")
	}
	email := ""
	if strings.TrimSpace(in.Email) != "" {
		e, ok := validate.Email(in.Email)
		if !ok {
			return zero, domain.ValidationError("invalid email")
		}
		email = e
	}

	c := domain.Customer{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Document: strings.TrimSpace(in.Document),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	}
	if err := s.Repo.Create(c); err != nil {
		return zero, err
	}
	return s.Get(c.ID)
}

func (s *CustomerService) Get(id string) (domain.Customer, error) {
	c, err := s.Repo.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.NotFound("customer", id)
	}
	return c, err
}

func (s *CustomerService) List(name string, page, pageSize int) ([]domain.Customer, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Repo.List(strings.ToLower(strings.TrimSpace(name)), pageSize, offset)
}

func (s *CustomerService) Update(id string, in CustomerInput) (domain.Customer, error) {
	var zero domain.Customer

	c, err := s.Get(id)
	if err != nil {
		return zero, err
	}
	if in.Name != "" {
		name, ok := validate.Name(in.Name)
		if !ok {
			return zero, domain.ValidationError("name is required (max 100 chars)")
		}
		c.Name = name
	}
	if in.Email != "" {
		e, ok := validate.Email(in.Email)
		if !ok {
			return zero, domain.ValidationError("invalid email")
		}
		c.Email = e
	}
	if in.Document != "" {
		c.Document = strings.TrimSpace(in.Document)
	}
	if in.Phone != "" {
		c.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Address != "" {
		c.Address = strings.TrimSpace(in.Address)
	}

	if err := s.Repo.Update(c); err != nil {
		return zero, err
	}
	return s.Get(id)
}

func (s *CustomerService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	has, err := s.Repo.HasSales(id)
	if err != nil {
		return err
	}
	if has {
		return domain.ValidationError("customer " + id + " has sales and cannot be deleted")
	}
	return s.Repo.Delete(id)
}
