package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/ypeng90/shopper/internal/config"
	"github.com/ypeng90/shopper/internal/http/handlers"
	applog "github.com/ypeng90/shopper/internal/log"
	"github.com/ypeng90/shopper/internal/repos"
	"github.com/ypeng90/shopper/internal/scraper"
	"github.com/ypeng90/shopper/internal/tasks"
)

func main() {
	cfgPath := os.Getenv("SHOPPER_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := applog.New(cfg.Log.File)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := repos.OpenDB(cfg.Database.DSN)
	if err != nil {
		zlog.Fatalw("open database failed", "dsn", cfg.Database.DSN, "error", err)
	}

	// One configured HTTP client shared by every scraper.
	fetcher := scraper.NewFetcher(cfg.Scraper.ParseTimeout(), cfg.Scraper.MaxRetries)
	clients := map[string]scraper.Client{
		"tgt": scraper.NewTarget(fetcher, zlog),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := tasks.NewQueue(tasks.Options{
		Workers:    cfg.Queue.Workers,
		SoftLimit:  cfg.Queue.ParseSoftLimit(),
		HardLimit:  cfg.Queue.ParseHardLimit(),
		Expiry:     cfg.Queue.ParseExpiry(),
		MaxRetries: cfg.Queue.MaxRetries,
	}, zlog)
	queue.Start(ctx)

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			zlog.Errorw("server error", "path", c.Path(), "error", err)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, clients, queue, zlog)

	app.Get("/", deps.InventoryHandler.Home)
	app.Static("/static", "./web/static")

	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products", deps.ProductHandler.Add)
	api.Put("/products", deps.ProductHandler.Update)
	api.Post("/products/search", deps.ProductHandler.Search)
	api.Post("/inventory", deps.InventoryHandler.List)
	api.Put("/zipcode", deps.ProductHandler.UpdateZipcode)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	zlog.Infow("listening", "port", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}
