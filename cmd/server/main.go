package main

import (
	"log"
	"strings"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/client"
	"lokanta-backend/internal/config"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/menu"
	"lokanta-backend/internal/order"
	"lokanta-backend/internal/reservation"
	"lokanta-backend/internal/stats"
	"lokanta-backend/internal/table"
	"lokanta-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func newApp(cfg *config.Config, orderSvc *order.Service, itemSvc *order.ItemService, resSvc *reservation.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Yemek fotoğrafları
	app.Static("/static", cfg.DishImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public müşteri uçları (masadaki QR kod üzerinden)
	clientRoutes := api.Group("/client")
	clientRoutes.Get("/menu", client.MenuHandler())
	clientRoutes.Get("/menu/:tableId", client.TableMenuHandler())
	clientRoutes.Post("/order", client.CreateClientOrderHandler(orderSvc))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(cfg))

	// Menü: okuma tüm personel, yazma admin ve üstü
	protected.Get("/categories", menu.ListCategoriesHandler())
	protected.Post("/categories", auth.RequireAdmin(), menu.CreateCategoryHandler())
	protected.Put("/categories/:id", auth.RequireAdmin(), menu.UpdateCategoryHandler())
	protected.Delete("/categories/:id", auth.RequireAdmin(), menu.DeleteCategoryHandler())

	protected.Get("/dishes", menu.ListDishesHandler())
	protected.Get("/dishes/:id", menu.GetDishHandler())
	protected.Post("/dishes", auth.RequireAdmin(), menu.CreateDishHandler(cfg))
	protected.Post("/dishes/bulk-import", auth.RequireAdmin(), menu.BulkImportDishesHandler())
	protected.Put("/dishes/:id", auth.RequireAdmin(), menu.UpdateDishHandler(cfg))
	protected.Put("/dishes/:id/stop", auth.RequireAdmin(), menu.ToggleStopDishHandler())
	protected.Delete("/dishes/:id", auth.RequireAdmin(), menu.DeleteDishHandler(cfg))

	// Masalar: okuma tüm personel, yazma admin ve üstü
	protected.Get("/tables", table.ListTablesHandler())
	protected.Get("/tables/:id", table.GetTableHandler())
	protected.Post("/tables", auth.RequireAdmin(), table.CreateTableHandler())
	protected.Put("/tables/:id", auth.RequireAdmin(), table.UpdateTableHandler())
	protected.Delete("/tables/:id", auth.RequireAdmin(), table.DeleteTableHandler())

	// Siparişler: açma/düzenleme garson ve üstü, geri kalanı tüm personel.
	// /kitchen statik segmenti /:id'den önce kayıtlı olmalı.
	orderRoutes := protected.Group("/orders")
	orderRoutes.Get("", order.ListOrdersHandler(orderSvc))
	orderRoutes.Get("/kitchen", order.KitchenOrdersHandler(orderSvc))
	orderRoutes.Get("/:id", order.GetOrderHandler(orderSvc))
	orderRoutes.Post("", auth.RequireWaiter(), order.CreateOrderHandler(orderSvc))
	orderRoutes.Put("/:id", auth.RequireWaiter(), order.UpdateOrderHandler(orderSvc))
	orderRoutes.Put("/:id/status", order.ChangeOrderStatusHandler(orderSvc))
	orderRoutes.Put("/:id/close", order.CloseOrderHandler(orderSvc))
	orderRoutes.Get("/:id/can-close", order.CanCloseHandler(orderSvc))

	// Sipariş kalemleri: mutfak uçları aşçı ve üstü, servis tüm personel
	itemRoutes := protected.Group("/order-items")
	itemRoutes.Get("/kitchen", auth.RequireChef(), order.KitchenItemsHandler(itemSvc))
	itemRoutes.Put("/:id/status", auth.RequireChef(), order.ChangeItemStatusHandler(itemSvc))
	itemRoutes.Put("/:id/served", order.MarkServedHandler(itemSvc))

	// Rezervasyonlar: okuma/müsaitlik tüm personel, mutasyonlar admin ve üstü
	resRoutes := protected.Group("/reservations")
	resRoutes.Get("", reservation.ListReservationsHandler(resSvc))
	resRoutes.Get("/available", reservation.CheckAvailabilityHandler(resSvc))
	resRoutes.Post("", auth.RequireAdmin(), reservation.CreateReservationHandler(resSvc))
	resRoutes.Put("/:id", auth.RequireAdmin(), reservation.UpdateReservationHandler(resSvc))
	resRoutes.Put("/:id/status", auth.RequireAdmin(), reservation.ChangeReservationStatusHandler(resSvc))
	resRoutes.Delete("/:id", auth.RequireAdmin(), reservation.DeleteReservationHandler(resSvc))

	// Yönetim: admin ve üstü
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireAdmin())

	adminRoutes.Get("/users", user.ListUsersHandler())
	adminRoutes.Get("/users/:id", user.GetUserHandler())
	adminRoutes.Post("/users", user.CreateUserHandler())
	adminRoutes.Put("/users/:id", user.UpdateUserHandler())
	adminRoutes.Put("/users/:id/role", user.ChangeRoleHandler())
	adminRoutes.Put("/users/:id/status", user.ChangeStatusHandler())
	adminRoutes.Delete("/users/:id", user.DeleteUserHandler())

	adminRoutes.Get("/stats/popular-dishes", stats.PopularDishesHandler())
	adminRoutes.Get("/stats/:period", stats.PeriodStatsHandler())

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	return app
}

func main() {
	cfg := config.Load()
	database.Init(cfg)

	orderRepo := order.NewGormRepository(database.DB)
	orderSvc := order.NewService(orderRepo)
	itemSvc := order.NewItemService(orderRepo)

	resRepo := reservation.NewGormRepository(database.DB)
	resSvc := reservation.NewService(resRepo)

	app := newApp(cfg, orderSvc, itemSvc, resSvc)

	log.Printf("Sunucu %s portunda başlatılıyor", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("Sunucu başlatılamadı:", err)
	}
}
