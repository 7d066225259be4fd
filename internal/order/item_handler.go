package order

import (
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ChangeItemStatusRequest struct {
	Status models.OrderItemStatus `json:"status"`
}

// GET /api/order-items/kitchen (aşçı ve üstü)
func KitchenItemsHandler(svc *ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Kitchen()
		if err != nil {
			return httpError(err)
		}
		return c.JSON(items)
	}
}

// PUT /api/order-items/:id/status (aşçı ve üstü)
func ChangeItemStatusHandler(svc *ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body ChangeItemStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actorID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		if err := svc.ChangeStatus(id, body.Status, actorID); err != nil {
			return httpError(err)
		}

		return c.JSON(fiber.Map{"message": "Kalem durumu değiştirildi"})
	}
}

// PUT /api/order-items/:id/served
func MarkServedHandler(svc *ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		if err := svc.MarkServed(id); err != nil {
			return httpError(err)
		}

		return c.JSON(fiber.Map{"message": "Kalem servis edildi olarak işaretlendi"})
	}
}
