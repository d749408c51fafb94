package repos

import (
	"erpvendas/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, price, stock, kind, status,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CatalogRepo) Get(id string) (domain.Product, error) {
	return getProduct(r.db, id)
}

// GetIn reads a product through the given executor so transactional callers
// see their own uncommitted writes.
func (r *CatalogRepo) GetIn(e sqlx.Ext, id string) (domain.Product, error) {
	return getProduct(e, id)
}

func getProduct(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *CatalogRepo) GetByName(name string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE LOWER(name) = LOWER(?)`, name)
	return p, err
}

func (r *CatalogRepo) List(kind, status, name string, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if kind != "" {
		where += ` AND kind = ?`
		args = append(args, kind)
	}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if name != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+name+"%")
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY LOWER(name)
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *CatalogRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,description,price,stock,kind,status,created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Kind, p.Status)
	return err
}

func (r *CatalogRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, price=?, stock=?, status=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.Price, p.Stock, p.Status, p.ID)
	return err
}

// ReferencedBySales reports whether any sale line points at the product.
// Deletion is refused while references exist.
func (r *CatalogRepo) ReferencedBySales(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM sale_items WHERE product_id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CatalogRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// DecrementStock atomically subtracts qty units if enough stock exists.
// The guard re-checks stock inside the caller's transaction, so a concurrent
// decrement that drained the counter surfaces as InsufficientStock here.
func (r *CatalogRepo) DecrementStock(e sqlx.Ext, productID string, qty int) error {
	res, err := e.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND kind = 'PRODUCT' AND stock IS NOT NULL AND stock >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		avail := 0
		if p, gerr := getProduct(e, productID); gerr == nil && p.Stock != nil {
			avail = *p.Stock
		}
		return domain.InsufficientStock(productID, qty, avail)
	}
	return nil
}

// IncrementStock returns qty units to the counter (completion reversal).
func (r *CatalogRepo) IncrementStock(e sqlx.Ext, productID string, qty int) error {
	_, err := e.Exec(`
	  UPDATE products
	  SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND kind = 'PRODUCT' AND stock IS NOT NULL
	`, qty, productID)
	return err
}
