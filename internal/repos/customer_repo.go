package repos

import (
	"erpvendas/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `
  id, name, COALESCE(email,'') AS email, COALESCE(document,'') AS document,
  COALESCE(phone,'') AS phone, COALESCE(address,'') AS address,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CustomerRepo) Get(id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

func (r *CustomerRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM customers WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CustomerRepo) List(name string, limit, offset int) ([]domain.Customer, error) {
	where := `1=1`
	args := []any{}
	if name != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+name+"%")
	}
	args = append(args, limit, offset)

	var out []domain.Customer
	err := r.db.Select(&out, `
	  SELECT `+customerCols+`
	  FROM customers
	  WHERE `+where+`
	  ORDER BY LOWER(name)
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *CustomerRepo) Create(c domain.Customer) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id,name,email,document,phone,address,created_at)
	  VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Email, c.Document, c.Phone, c.Address)
	return err
}

func (r *CustomerRepo) Update(c domain.Customer) error {
	_, err := r.db.Exec(`
	  UPDATE customers
	  SET name=?, email=?, document=?, phone=?, address=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, c.Name, c.Email, c.Document, c.Phone, c.Address, c.ID)
	return err
}

// HasSales reports whether the customer is referenced by any sale; such
// customers cannot be deleted.
func (r *CustomerRepo) HasSales(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM sales WHERE customer_id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CustomerRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("customer", id)
	}
	return nil
}
