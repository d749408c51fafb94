package handlers

import (
	"github.com/jmoiron/sqlx"

	"erpvendas/internal/repos"
	"erpvendas/internal/services"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CustomerHandler *CustomerHandler
	ProductHandler  *ProductHandler
	SaleHandler     *SaleHandler
	SaleItemHandler *SaleItemHandler
	UserHandler     *UserHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	custRepo := repos.NewCustomerRepo(db)
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCatalogRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	custSvc := services.NewCustomerService(custRepo)
	catSvc := services.NewCatalogService(catRepo)
	saleSvc := services.NewSaleService(db, saleRepo, catRepo, custRepo, userRepo)
	itemSvc := services.NewSaleItemService(db, saleRepo, catRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: auth},
		CustomerHandler: &CustomerHandler{Customers: custSvc},
		ProductHandler:  &ProductHandler{Catalog: catSvc},
		SaleHandler:     &SaleHandler{Sales: saleSvc},
		SaleItemHandler: &SaleItemHandler{Items: itemSvc, Sales: saleSvc},
		UserHandler:     &UserHandler{Users: userRepo},
	}
}
