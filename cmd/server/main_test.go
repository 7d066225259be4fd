package main

import (
	"testing"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/order"
	"lokanta-backend/internal/reservation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func testApp() *fiber.App {
	cfg := &config.Config{
		CORSOrigins:   "http://localhost:5173",
		DishImagePath: "./static",
	}
	orderRepo := order.NewGormRepository(nil)
	resRepo := reservation.NewGormRepository(nil)
	return newApp(cfg,
		order.NewService(orderRepo),
		order.NewItemService(orderRepo),
		reservation.NewService(resRepo))
}

// routeIndex: metot+path çiftinin kayıt sırasını döner, yoksa -1.
func routeIndex(routes []fiber.Route, method, path string) int {
	for i, r := range routes {
		if r.Method == method && r.Path == path {
			return i
		}
	}
	return -1
}

func TestRouteTable(t *testing.T) {
	app := testApp()
	routes := app.GetRoutes()

	want := []struct{ method, path string }{
		{"POST", "/api/auth/register"},
		{"POST", "/api/auth/login"},

		{"GET", "/api/client/menu"},
		{"GET", "/api/client/menu/:tableId"},
		{"POST", "/api/client/order"},

		{"GET", "/api/orders"},
		{"GET", "/api/orders/kitchen"},
		{"GET", "/api/orders/:id"},
		{"POST", "/api/orders"},
		{"PUT", "/api/orders/:id"},
		{"PUT", "/api/orders/:id/status"},
		{"PUT", "/api/orders/:id/close"},
		{"GET", "/api/orders/:id/can-close"},

		{"GET", "/api/order-items/kitchen"},
		{"PUT", "/api/order-items/:id/status"},
		{"PUT", "/api/order-items/:id/served"},

		{"GET", "/api/reservations"},
		{"GET", "/api/reservations/available"},
		{"POST", "/api/reservations"},
		{"PUT", "/api/reservations/:id"},
		{"PUT", "/api/reservations/:id/status"},
		{"DELETE", "/api/reservations/:id"},
	}

	for _, w := range want {
		assert.NotEqual(t, -1, routeIndex(routes, w.method, w.path),
			"%s %s kayıtlı değil", w.method, w.path)
	}
}

// Statik /kitchen segmenti :id parametresinden önce kayıtlı olmalı,
// yoksa GET /orders/kitchen isteği :id ile eşleşir.
func TestStaticSegmentsPrecedeParams(t *testing.T) {
	app := testApp()
	routes := app.GetRoutes()

	assert.Less(t,
		routeIndex(routes, "GET", "/api/orders/kitchen"),
		routeIndex(routes, "GET", "/api/orders/:id"))
}
