package handlers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/config"
	"github.com/ypeng90/shopper/internal/repos"
	"github.com/ypeng90/shopper/internal/scraper"
	"github.com/ypeng90/shopper/internal/services"
	"github.com/ypeng90/shopper/internal/tasks"
)

type Deps struct {
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
}

func NewDeps(db *sqlx.DB, cfg *config.Config, clients map[string]scraper.Client, queue *tasks.Queue, log *zap.SugaredLogger) *Deps {
	prodRepo := repos.NewProductRepo(db)
	storeRepo := repos.NewStoreRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	userRepo := repos.NewUserRepo(db)

	invSvc := services.NewInventoryService(prodRepo, storeRepo, invRepo, userRepo, clients, queue, cfg.Refresh, log)
	prodSvc := services.NewProductService(prodRepo, userRepo, clients, queue, log)

	secret := cfg.Auth.JWTSecret
	return &Deps{
		ProductHandler:   &ProductHandler{Products: prodSvc, Secret: secret, Log: log},
		InventoryHandler: &InventoryHandler{Inv: invSvc, Secret: secret, Log: log},
	}
}
