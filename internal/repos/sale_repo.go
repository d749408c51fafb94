package repos

import (
	"erpvendas/internal/domain"

	"github.com/jmoiron/sqlx"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// SaleFilter narrows List; zero values mean "no filter".
type SaleFilter struct {
	CustomerID string
	UserID     string
	Status     string
	From, To   string // sold_at bounds
	Limit      int
	Offset     int
}

const saleCols = `id, customer_id, user_id, sold_at, status, total, COALESCE(notes,'') AS notes, created_at`

const itemCols = `
  si.id, si.sale_id, si.product_id, p.name AS product_name, p.kind AS product_kind,
  si.qty, si.unit_price, (si.qty * si.unit_price) AS subtotal`

func (r *SaleRepo) Get(id string) (domain.Sale, error) { return getSale(r.db, id) }

// GetIn reads a sale through the caller's transaction.
func (r *SaleRepo) GetIn(e sqlx.Ext, id string) (domain.Sale, error) { return getSale(e, id) }

func getSale(q sqlx.Queryer, id string) (domain.Sale, error) {
	var s domain.Sale
	err := sqlx.Get(q, &s, `SELECT `+saleCols+` FROM sales WHERE id = ?`, id)
	return s, err
}

func (r *SaleRepo) Items(saleID string) ([]domain.SaleItem, error) { return getItems(r.db, saleID) }

func (r *SaleRepo) ItemsIn(e sqlx.Ext, saleID string) ([]domain.SaleItem, error) {
	return getItems(e, saleID)
}

func getItems(q sqlx.Queryer, saleID string) ([]domain.SaleItem, error) {
	items := []domain.SaleItem{}
	err := sqlx.Select(q, &items, `
	  SELECT `+itemCols+`
	  FROM sale_items si
	  JOIN products p ON p.id = si.product_id
	  WHERE si.sale_id = ?
	  ORDER BY si.rowid
	`, saleID)
	return items, err
}

func (r *SaleRepo) Item(lineID string) (domain.SaleItem, error) { return getItem(r.db, lineID) }

func getItem(q sqlx.Queryer, lineID string) (domain.SaleItem, error) {
	var it domain.SaleItem
	err := sqlx.Get(q, &it, `
	  SELECT `+itemCols+`
	  FROM sale_items si
	  JOIN products p ON p.id = si.product_id
	  WHERE si.id = ?
	`, lineID)
	return it, err
}

func (r *SaleRepo) List(f SaleFilter) ([]domain.Sale, error) {
	where := `1=1`
	args := []any{}
	if f.CustomerID != "" {
		where += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.UserID != "" {
		where += ` AND user_id = ?`
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.From != "" {
		where += ` AND datetime(sold_at) >= datetime(?)`
		args = append(args, f.From)
	}
	if f.To != "" {
		where += ` AND datetime(sold_at) <= datetime(?)`
		args = append(args, f.To)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	args = append(args, f.Limit, f.Offset)

	var out []domain.Sale
	err := r.db.Select(&out, `
	  SELECT `+saleCols+`
	  FROM sales
	  WHERE `+where+`
	  ORDER BY datetime(sold_at) DESC, id
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *SaleRepo) Insert(e sqlx.Ext, s domain.Sale) error {
	_, err := e.Exec(`
	  INSERT INTO sales(id, customer_id, user_id, sold_at, status, total, notes, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, s.ID, s.CustomerID, s.UserID, s.SoldAt, s.Status, s.Total, s.Notes)
	return err
}

func (r *SaleRepo) InsertItem(e sqlx.Ext, it domain.SaleItem) error {
	_, err := e.Exec(`
	  INSERT INTO sale_items(id, sale_id, product_id, qty, unit_price, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, it.ID, it.SaleID, it.ProductID, it.Qty, it.UnitPrice)
	return err
}

func (r *SaleRepo) UpdateHeader(e sqlx.Ext, s domain.Sale) error {
	_, err := e.Exec(`
	  UPDATE sales SET sold_at = ?, status = ?, notes = ? WHERE id = ?
	`, s.SoldAt, s.Status, s.Notes, s.ID)
	return err
}

// SumItems derives the canonical total from the current line set.
func (r *SaleRepo) SumItems(e sqlx.Ext, saleID string) (float64, error) {
	var total float64
	err := sqlx.Get(e, &total, `
	  SELECT COALESCE(SUM(qty * unit_price), 0) FROM sale_items WHERE sale_id = ?
	`, saleID)
	return total, err
}

func (r *SaleRepo) SetTotal(e sqlx.Ext, saleID string, total float64) error {
	_, err := e.Exec(`UPDATE sales SET total = ? WHERE id = ?`, total, saleID)
	return err
}

func (r *SaleRepo) UpdateItem(e sqlx.Ext, it domain.SaleItem) error {
	_, err := e.Exec(`
	  UPDATE sale_items SET product_id = ?, qty = ?, unit_price = ? WHERE id = ?
	`, it.ProductID, it.Qty, it.UnitPrice, it.ID)
	return err
}

func (r *SaleRepo) DeleteItem(e sqlx.Ext, lineID string) error {
	_, err := e.Exec(`DELETE FROM sale_items WHERE id = ?`, lineID)
	return err
}

// Delete removes the sale header; sale_items cascade via the schema.
func (r *SaleRepo) Delete(e sqlx.Ext, id string) error {
	_, err := e.Exec(`DELETE FROM sales WHERE id = ?`, id)
	return err
}
