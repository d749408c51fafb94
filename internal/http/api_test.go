package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"erpvendas/internal/http/handlers"
	applog "erpvendas/internal/log"
	"erpvendas/internal/repos"
	"erpvendas/internal/services"
)

func testApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 10)
	schema := `
	PRAGMA foreign_keys = ON;
	CREATE TABLE customers(id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT, document TEXT,
	  phone TEXT, address TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, name TEXT NOT NULL,
	  password_hash TEXT NOT NULL, role TEXT NOT NULL, created_at TEXT, updated_at TEXT);
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT REFERENCES users(id),
	  created_at TEXT, last_seen TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT,
	  price NUMERIC NOT NULL, stock INTEGER, kind TEXT NOT NULL,
	  status TEXT NOT NULL DEFAULT 'ACTIVE', created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE sales(id TEXT PRIMARY KEY, customer_id TEXT NOT NULL REFERENCES customers(id),
	  user_id TEXT NOT NULL REFERENCES users(id), sold_at TEXT NOT NULL,
	  status TEXT NOT NULL DEFAULT 'PENDING', total NUMERIC NOT NULL DEFAULT 0,
	  notes TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE sale_items(id TEXT PRIMARY KEY,
	  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	  product_id TEXT NOT NULL REFERENCES products(id),
	  qty INTEGER NOT NULL, unit_price NUMERIC NOT NULL, created_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO customers(id,name) VALUES ('cus-1','Cliente Um');
	INSERT INTO products(id,name,price,stock,kind,status) VALUES
	  ('prod-a','Produto A',10.0,10,'PRODUCT','ACTIVE'),
	  ('prod-b','Produto B',5.0,5,'PRODUCT','ACTIVE');
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('usr-1','v@erp.test','Vendedor',?,'USER'),
	  ('usr-2','a@erp.test','Admin',?,'ADMIN')`, string(hash), string(hash))
	db.MustExec(`INSERT INTO sessions(id,user_id) VALUES ('test-sid','usr-1'),('admin-sid','usr-2')`)

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected error"})
		},
	})
	app.Use(requestid.New())
	handlers.Register(app, handlers.NewDeps(db, authSvc), authSvc)
	return app, db
}

func jsonReq(method, path string, body any, sid string) *http.Request {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, dest), "body: %s", b)
}

func TestAPI_RequiresLogin(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonReq("GET", "/api/v1/sales", nil, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonReq("GET", "/api/v1/sales", nil, "ghost-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LoginFlow(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/v1/login", fiber.Map{"email": "v@erp.test", "password": "wrong"}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonReq("POST", "/api/v1/login", fiber.Map{"email": "v@erp.test", "password": "Passw0rd!"}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sid string
	for _, ck := range resp.Cookies() {
		if ck.Name == "sid" {
			sid = ck.Value
		}
	}
	require.NotEmpty(t, sid)

	resp, err = app.Test(jsonReq("GET", "/api/v1/sales", nil, sid))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPI_SaleLifecycle(t *testing.T) {
	app, db := testApp(t)

	body := fiber.Map{
		"customerId": "cus-1",
		"userId":     "usr-1",
		"lines": []fiber.Map{
			{"productId": "prod-a", "qty": 2},
			{"productId": "prod-b", "qty": 1},
		},
	}
	resp, err := app.Test(jsonReq("POST", "/api/v1/sales", body, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Total  float64 `json:"total"`
		Items  []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, resp, &created)
	require.Equal(t, "PENDING", created.Status)
	require.InDelta(t, 25.00, created.Total, 1e-9)
	require.Len(t, created.Items, 2)

	// complete it: stock moves
	resp, err = app.Test(jsonReq("PATCH", "/api/v1/sales/"+created.ID+"/status", fiber.Map{"status": "COMPLETED"}, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stock int
	require.NoError(t, db.Get(&stock, `SELECT stock FROM products WHERE id='prod-a'`))
	require.Equal(t, 8, stock)

	// delete (admin) restores stock
	resp, err = app.Test(jsonReq("DELETE", "/api/v1/sales/"+created.ID, nil, "admin-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Get(&stock, `SELECT stock FROM products WHERE id='prod-a'`))
	require.Equal(t, 10, stock)

	resp, err = app.Test(jsonReq("GET", "/api/v1/sales/"+created.ID, nil, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateSaleRejections(t *testing.T) {
	app, _ := testApp(t)

	// malformed body
	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "test-sid"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// insufficient stock carries its kind
	body := fiber.Map{
		"customerId": "cus-1",
		"userId":     "usr-1",
		"status":     "COMPLETED",
		"lines":      []fiber.Map{{"productId": "prod-b", "qty": 50}},
	}
	resp, err = app.Test(jsonReq("POST", "/api/v1/sales", body, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out struct {
		Kind string `json:"kind"`
	}
	decode(t, resp, &out)
	require.Equal(t, "INSUFFICIENT_STOCK", out.Kind)

	// unknown customer
	body["customerId"] = "cus-ghost"
	resp, err = app.Test(jsonReq("POST", "/api/v1/sales", body, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &out)
	require.Equal(t, "REFERENCE_NOT_FOUND", out.Kind)
}

func TestAPI_DeletesRequireAdmin(t *testing.T) {
	app, db := testApp(t)

	// seller cannot delete records
	resp, err := app.Test(jsonReq("DELETE", "/api/v1/products/prod-a", nil, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM products WHERE id='prod-a'`))
	require.Equal(t, 1, n)

	// admin can
	resp, err = app.Test(jsonReq("DELETE", "/api/v1/products/prod-a", nil, "admin-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM products WHERE id='prod-a'`))
	require.Equal(t, 0, n)

	resp, err = app.Test(jsonReq("DELETE", "/api/v1/customers/cus-1", nil, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAPI_PasswordChange(t *testing.T) {
	app, _ := testApp(t)

	// wrong current password
	resp, err := app.Test(jsonReq("PUT", "/api/v1/me/password",
		fiber.Map{"current": "nope", "new": "N3w!Passw0rd"}, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out struct {
		Kind string `json:"kind"`
	}
	decode(t, resp, &out)
	require.Equal(t, "VALIDATION", out.Kind)

	// new password too weak
	resp, err = app.Test(jsonReq("PUT", "/api/v1/me/password",
		fiber.Map{"current": "Passw0rd!", "new": "weak"}, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// rotate, then log in with the new password
	resp, err = app.Test(jsonReq("PUT", "/api/v1/me/password",
		fiber.Map{"current": "Passw0rd!", "new": "N3w!Passw0rd"}, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonReq("POST", "/api/v1/login",
		fiber.Map{"email": "v@erp.test", "password": "Passw0rd!"}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonReq("POST", "/api/v1/login",
		fiber.Map{"email": "v@erp.test", "password": "N3w!Passw0rd"}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPI_SaleListRejectsBadDateFilter(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonReq("GET", "/api/v1/sales?from=notadate", nil, "test-sid"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out struct {
		Kind string `json:"kind"`
	}
	decode(t, resp, &out)
	require.Equal(t, "VALIDATION", out.Kind)
}

// Internals must never leak through the global error handler.
func TestErrorHandlerMasksInternals(t *testing.T) {
	app, _ := testApp(t)

	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	s := string(b)
	require.Contains(t, s, "unexpected error")
	require.NotContains(t, s, "db timeout")
	require.NotContains(t, s, "secret")
}
