package client

import (
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/order"

	"github.com/gofiber/fiber/v2"
)

// Müşterinin masadaki QR kod üzerinden eriştiği public uçlar.
// JWT gerektirmez; sipariş garson atanmadan (waiter_id NULL) açılır.

type ClientOrderItemRequest struct {
	DishID   uint   `json:"dishId"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type ClientOrderRequest struct {
	TableID      uint                     `json:"tableId"`
	CustomerName string                   `json:"customerName"`
	Items        []ClientOrderItemRequest `json:"items"`
}

type MenuCategory struct {
	ID     uint          `json:"id"`
	Name   string        `json:"name"`
	Dishes []models.Dish `json:"dishes"`
}

// aktif ve stopta olmayan yemekleri kategorilere göre gruplar
func loadMenu() ([]MenuCategory, error) {
	var categories []models.DishCategory
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	var dishes []models.Dish
	if err := database.DB.
		Where("is_active = ? AND is_stopped = ?", true, false).
		Order("name ASC").
		Find(&dishes).Error; err != nil {
		return nil, err
	}

	byCategory := make(map[uint][]models.Dish)
	for _, d := range dishes {
		byCategory[d.CategoryID] = append(byCategory[d.CategoryID], d)
	}

	menu := make([]MenuCategory, 0, len(categories))
	for _, cat := range categories {
		catDishes := byCategory[cat.ID]
		if len(catDishes) == 0 {
			continue // boş kategorileri müşteriye gösterme
		}
		menu = append(menu, MenuCategory{ID: cat.ID, Name: cat.Name, Dishes: catDishes})
	}
	return menu, nil
}

// GET /api/client/menu
func MenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menu, err := loadMenu()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü yüklenemedi")
		}
		return c.JSON(menu)
	}
}

// GET /api/client/menu/:tableId — masa bilgisiyle birlikte menü
func TableMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tableID := c.Params("tableId")

		var table models.Table
		if err := database.DB.First(&table, "id = ? AND is_active = ?", tableID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		menu, err := loadMenu()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü yüklenemedi")
		}

		return c.JSON(fiber.Map{"table": table, "menu": menu})
	}
}

// POST /api/client/orders — müşterinin kendi açtığı sipariş.
// Fiyatlar istemciden alınmaz, veritabanındaki güncel fiyat kullanılır.
func CreateClientOrderHandler(svc *order.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClientOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.TableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tableId zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş en az bir kalem içermeli")
		}

		items := make([]order.ItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			var dish models.Dish
			if err := database.DB.First(&dish, "id = ?", it.DishID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Yemek bulunamadı")
			}
			if !dish.IsActive || dish.IsStopped {
				return fiber.NewError(fiber.StatusBadRequest, dish.Name+" şu anda sipariş edilemiyor")
			}
			items = append(items, order.ItemInput{
				DishID:   dish.ID,
				Quantity: it.Quantity,
				Price:    dish.Price,
				Notes:    it.Notes,
			})
		}

		created, err := svc.Create(order.CreateInput{
			TableID:      body.TableID,
			WaiterID:     nil, // self-servis: garson sonradan üstlenir
			OrderType:    models.OrderTypeDineIn,
			CustomerName: body.CustomerName,
			Items:        items,
		})
		if err != nil {
			switch err {
			case order.ErrTableNotFound, order.ErrNoTable:
				return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
			case order.ErrNoItems:
				return fiber.NewError(fiber.StatusBadRequest, "Sipariş en az bir kalem içermeli")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Siparişiniz alındı",
			"order":   created,
		})
	}
}
