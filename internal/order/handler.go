package order

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	TableID      uint             `json:"tableId"`
	OrderType    models.OrderType `json:"orderType"`
	CustomerName string           `json:"customerName"`
	Items        []ItemInput      `json:"items"`
}

type UpdateOrderRequest struct {
	TableID   *uint             `json:"tableId"`
	OrderType *models.OrderType `json:"orderType"`
	Items     []ItemInput       `json:"items"`
}

type ChangeStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type CloseOrderRequest struct {
	Force bool `json:"force"`
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
	}
	return uint(id), nil
}

// httpError: servis hatalarını HTTP durum kodlarına çevirir.
func httpError(err error) error {
	var transition *InvalidTransitionError
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrTableNotFound),
		errors.Is(err, ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoItems),
		errors.Is(err, ErrNoTable),
		errors.Is(err, ErrItemNotReady):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &transition):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Beklenmeyen sunucu hatası")
	}
}

// GET /api/orders?status=open,in_progress&date=2026-08-29
func ListOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f ListFilter

		if statusStr := c.Query("status"); statusStr != "" {
			for _, s := range strings.Split(statusStr, ",") {
				status := models.OrderStatus(strings.TrimSpace(s))
				if !status.Valid() {
					return fiber.NewError(fiber.StatusBadRequest, "status geçersiz: "+s)
				}
				f.Statuses = append(f.Statuses, status)
			}
		}

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			f.Date = &d
		}

		orders, err := svc.List(f)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/kitchen
func KitchenOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.Kitchen()
		if err != nil {
			return httpError(err)
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		order, err := svc.Get(id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(order)
	}
}

// POST /api/orders (garson ve üstü)
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		waiterID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		order, err := svc.Create(CreateInput{
			TableID:      body.TableID,
			WaiterID:     &waiterID,
			OrderType:    body.OrderType,
			CustomerName: body.CustomerName,
			Items:        body.Items,
		})
		if err != nil {
			return httpError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// PUT /api/orders/:id (garson ve üstü)
func UpdateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		order, err := svc.Update(id, UpdateInput{
			Items:     body.Items,
			OrderType: body.OrderType,
			TableID:   body.TableID,
		})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(order)
	}
}

// PUT /api/orders/:id/status
func ChangeOrderStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body ChangeStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := svc.ChangeStatus(id, body.Status); err != nil {
			return httpError(err)
		}

		return c.JSON(fiber.Map{"message": "Sipariş durumu değiştirildi"})
	}
}

// PUT /api/orders/:id/close — body: {force: bool}
func CloseOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body CloseOrderRequest
		if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		order, err := svc.Close(id, body.Force)
		if err != nil {
			var blocked *CloseBlockedError
			if errors.As(err, &blocked) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message":             blocked.Message,
					"details":             blocked.Details,
					"forceCloseAvailable": true,
				})
			}
			return httpError(err)
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			desc := "Sipariş kapatıldı"
			if body.Force {
				desc = "Sipariş zorla kapatıldı (bitmemiş kalemler servis edildi sayıldı)"
			}
			audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.FirstName + " " + user.LastName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionClose,
				Description: desc,
				After:       order,
			})
		}

		msg := "Sipariş kapatıldı"
		if body.Force {
			msg = "Sipariş zorla kapatıldı"
		}
		return c.JSON(fiber.Map{
			"message": msg,
			"order":   order,
		})
	}
}

// GET /api/orders/:id/can-close
func CanCloseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		check, err := svc.CanClose(id)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(check)
	}
}
