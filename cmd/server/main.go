package main

import (
	"strings"

	"paladar-backend/internal/backup"
	"paladar-backend/internal/cashflow"
	"paladar-backend/internal/closing"
	"paladar-backend/internal/config"
	"paladar-backend/internal/expense"
	"paladar-backend/internal/inventory"
	"paladar-backend/internal/menu"
	"paladar-backend/internal/models"
	"paladar-backend/internal/providers"
	"paladar-backend/internal/recipes"
	"paladar-backend/internal/settings"
	"paladar-backend/internal/store"
	"paladar-backend/internal/trade"
	"paladar-backend/internal/units"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func buildBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return store.NewGormBackend(cfg.DatabaseDSN)
	case "memory":
		return store.NewMemoryBackend(), nil
	default:
		return store.NewFileBackend(cfg.StorePath), nil
	}
}

func main() {
	cfg := config.Load()
	logger := config.GetLogger()

	backend, err := buildBackend(cfg)
	if err != nil {
		logger.WithError(err).Fatal("no se pudo abrir el almacén")
	}
	s, err := store.Open(backend)
	if err != nil {
		logger.WithError(err).Fatal("no se pudo cargar el documento")
	}

	// Conversiones básicas (kg↔g, l↔ml, docena↔unidad) una sola vez.
	if err := s.Mutate(func(d *models.Document) error {
		if d.Settings.ConversionsSeeded {
			return nil
		}
		n := units.Seed(d)
		logger.WithField("conversiones", n).Info("conversiones iniciales sembradas")
		return nil
	}); err != nil {
		logger.WithError(err).Fatal("no se pudieron sembrar las conversiones")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.WithError(err).Error("error inesperado")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Unidades y conversiones
	api.Get("/units", units.ListUnitsHandler(s))
	api.Post("/units", units.CreateUnitHandler(s))
	api.Delete("/units/:id", units.DeleteUnitHandler(s))
	api.Get("/conversions", units.ListConversionsHandler(s))
	api.Post("/conversions", units.CreateConversionHandler(s))
	api.Delete("/conversions/:id", units.DeleteConversionHandler(s))
	api.Post("/conversions/seed", units.SeedConversionsHandler(s))
	api.Get("/conversions/resolve", units.ResolveHandler(s))

	// Productos e inventario
	api.Get("/products", inventory.ListProductsHandler(s))
	api.Post("/products", inventory.CreateProductHandler(s))
	api.Put("/products/:id", inventory.UpdateProductHandler(s))
	api.Delete("/products/:id", inventory.DeleteProductHandler(s))
	api.Get("/inventory", inventory.ListInventoryHandler(s))
	api.Get("/inventory/alerts", inventory.LowStockAlertsHandler(s))

	// Proveedores
	api.Get("/providers", providers.ListProvidersHandler(s))
	api.Post("/providers", providers.CreateProviderHandler(s))
	api.Put("/providers/:id", providers.UpdateProviderHandler(s))
	api.Delete("/providers/:id", providers.DeleteProviderHandler(s))

	// Platos y recetas
	api.Get("/dishes", recipes.ListDishesHandler(s))
	api.Post("/dishes", recipes.CreateDishHandler(s))
	api.Delete("/dishes/:id", recipes.DeleteDishHandler(s))
	api.Get("/recipes", recipes.ListRecipesHandler(s))
	api.Post("/recipes", recipes.CreateRecipeHandler(s))
	api.Get("/dishes/:id/cost", recipes.DishCostHandler(s))
	api.Get("/dishes/:id/sufficiency", recipes.SufficiencyHandler(s))

	// Canales y precios de carta
	api.Get("/channels", menu.ListChannelsHandler(s))
	api.Post("/channels", menu.CreateChannelHandler(s))
	api.Delete("/channels/:id", menu.DeleteChannelHandler(s))
	api.Get("/menu-prices", menu.ListMenuPricesHandler(s))
	api.Post("/menu-prices", menu.SetMenuPriceHandler(s))
	api.Get("/menu-prices/resolve", menu.ResolvePriceHandler(s))

	// Transacciones
	api.Post("/transactions/purchases", trade.RecordPurchaseHandler(s))
	api.Post("/transactions/sales", trade.RecordSaleHandler(s))
	api.Get("/transactions", trade.ListTransactionsHandler(s))
	api.Delete("/transactions/:id", trade.DeleteTransactionHandler(s))
	api.Get("/debts", trade.ListPendingDebtsHandler(s))
	api.Post("/transactions/:id/settle", trade.SettleDebtHandler(s))
	api.Post("/transactions/:id/unsettle", trade.UndoSettlementHandler(s))

	// Gastos
	api.Post("/expenses", expense.CreateExpenseHandler(s))
	api.Get("/expenses", expense.ListExpensesHandler(s))
	api.Get("/expenses/summary/monthly", expense.MonthlySummaryHandler(s))
	api.Delete("/expenses/:id", expense.DeleteExpenseHandler(s))

	// Cierres mensuales y balance
	api.Post("/closings/preview", closing.PreviewClosingHandler(s))
	api.Post("/closings", closing.CommitClosingHandler(s))
	api.Get("/closings", closing.ListClosingsHandler(s))
	api.Delete("/closings/last", closing.RevertLastClosingHandler(s))
	api.Get("/balance-sheet", closing.BalanceSheetHandler(s))

	// Resumen financiero por rango
	api.Get("/financial-summary", cashflow.RangeSummaryHandler(s))

	// Configuración
	api.Get("/settings", settings.GetSettingsHandler(s))
	api.Put("/settings", settings.UpdateSettingsHandler(s))

	// Respaldo
	api.Get("/backup/export", backup.ExportHandler(s))
	api.Post("/backup/import", backup.ImportHandler(s))
	api.Post("/backup/reload", backup.ReloadHandler(s))

	logger.WithField("puerto", cfg.HTTPPort).Info("servidor escuchando")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.WithError(err).Fatal("el servidor terminó con error")
	}
}
