package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kirodsllc/inventario-contable/internal/application/auth"
	"github.com/kirodsllc/inventario-contable/internal/application/costing"
	"github.com/kirodsllc/inventario-contable/internal/application/ledger"
	"github.com/kirodsllc/inventario-contable/internal/application/parts"
	"github.com/kirodsllc/inventario-contable/internal/application/stockledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	PartsUC   *parts.UseCase
	StockUC   *stockledger.UseCase
	CostingUC *costing.UseCase
	LedgerUC  *ledger.UseCase
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de repuestos y resolución canónica
	partHandler := NewPartHandler(deps.PartsUC, deps.CostingUC)
	partGroup := protected.Group("/parts")
	partGroup.Post("/", partHandler.Create)
	partGroup.Get("/search", partHandler.Search)
	partGroup.Get("/canonical", partHandler.ResolveCanonical)
	partGroup.Get("/:id", partHandler.GetByID)
	partGroup.Put("/:id/cost", partHandler.UpdateCost)

	// Libro de stock
	stockHandler := NewStockHandler(deps.StockUC, deps.CostingUC)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/movements", stockHandler.RecordMovement)
	stockGroup.Post("/movements/:id/location-correction", stockHandler.CorrectLocation)
	stockGroup.Get("/parts/:id/balance", stockHandler.GetBalance)
	stockGroup.Get("/parts/:id/movements", stockHandler.ListMovements)
	stockGroup.Post("/reservations", stockHandler.Reserve)
	stockGroup.Post("/reservations/release", stockHandler.ReleaseReservations)
	stockGroup.Post("/adjustments", stockHandler.Adjust)
	stockGroup.Get("/stores", stockHandler.ListStores)

	// Recepción de mercancía y costeo en destino
	receivingHandler := NewReceivingHandler(deps.CostingUC)
	receivingGroup := protected.Group("/receiving")
	receivingGroup.Post("/landed-costs", receivingHandler.ProcessLandedCosts)
	receivingGroup.Post("/", receivingHandler.ReceiveGoods)

	// Libro contable
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Post("/entries", ledgerHandler.PostEntry)
	ledgerGroup.Get("/entries/:id", ledgerHandler.GetEntry)
	ledgerGroup.Post("/entries/:id/reverse", RequireRole("admin"), ledgerHandler.ReverseEntry)

	accountGroup := protected.Group("/accounts")
	accountGroup.Post("/", RequireRole("admin"), ledgerHandler.CreateAccount)
	accountGroup.Get("/", ledgerHandler.ListAccounts)
	accountGroup.Get("/:id", ledgerHandler.GetAccount)
}

// RequestLogger registra cada petición con método, ruta, estado y latencia.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
