package reservation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateReservationRequest struct {
	TableID       uint      `json:"tableId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	GuestCount    int       `json:"guestCount"`
	ReservedFrom  time.Time `json:"reservedFrom"`
	ReservedTo    time.Time `json:"reservedTo"`
}

type UpdateReservationRequest struct {
	TableID       *uint      `json:"tableId"`
	CustomerName  *string    `json:"customerName"`
	CustomerPhone *string    `json:"customerPhone"`
	GuestCount    *int       `json:"guestCount"`
	ReservedFrom  *time.Time `json:"reservedFrom"`
	ReservedTo    *time.Time `json:"reservedTo"`
}

type ChangeStatusRequest struct {
	Status models.ReservationStatus `json:"status"`
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
	}
	return uint(id), nil
}

// httpError: servis hatalarını HTTP cevaplarına çevirir. ConflictError
// çakışan rezervasyonun detaylarıyla birlikte 400 döner.
func httpError(c *fiber.Ctx, err error) error {
	var conflict *ConflictError
	switch {
	case errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrTableNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrInvalidWindow),
		errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Masa belirtilen saatlerde başka bir rezervasyon tarafından tutuluyor",
			"conflict": conflictInfo(conflict.Conflict),
		})
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Beklenmeyen sunucu hatası")
	}
}

// GET /api/reservations?date=2026-08-29&status=confirmed
func ListReservationsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f ListFilter

		if statusStr := c.Query("status"); statusStr != "" {
			status := models.ReservationStatus(statusStr)
			if !status.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
			}
			f.Status = status
		}

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			f.Date = &d
		}

		rows, err := svc.List(f)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(rows)
	}
}

// GET /api/reservations/available?tableId=1&reservedFrom=...&reservedTo=...&guestsCount=4&excludeReservationId=7
func CheckAvailabilityHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tableIDStr := c.Query("tableId")
		fromStr := c.Query("reservedFrom")
		toStr := c.Query("reservedTo")
		if tableIDStr == "" || fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "tableId, reservedFrom ve reservedTo zorunlu")
		}

		tableID, err := strconv.ParseUint(tableIDStr, 10, 32)
		if err != nil || tableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tableId geçersiz")
		}

		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reservedFrom RFC3339 formatında olmalı")
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reservedTo RFC3339 formatında olmalı")
		}

		in := AvailabilityInput{
			TableID: uint(tableID),
			From:    from,
			To:      to,
		}

		if g := c.Query("guestsCount"); g != "" {
			guests, err := strconv.Atoi(g)
			if err != nil || guests < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "guestsCount geçersiz")
			}
			in.GuestsCount = guests
		}
		if ex := c.Query("excludeReservationId"); ex != "" {
			exID, err := strconv.ParseUint(ex, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "excludeReservationId geçersiz")
			}
			in.ExcludeID = uint(exID)
		}

		result, err := svc.CheckAvailability(in)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(result)
	}
}

// POST /api/reservations (admin ve üstü)
func CreateReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		res, err := svc.Create(CreateInput{
			TableID:       body.TableID,
			UserID:        user.ID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			GuestCount:    body.GuestCount,
			ReservedFrom:  body.ReservedFrom,
			ReservedTo:    body.ReservedTo,
		})
		if err != nil {
			return httpError(c, err)
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.FirstName + " " + user.LastName,
			EntityType:  "reservation",
			EntityID:    res.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Rezervasyon açıldı: %s, masa %d", res.CustomerName, res.TableID),
			After:       res,
		})

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// PUT /api/reservations/:id (admin ve üstü)
func UpdateReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		res, err := svc.Update(id, UpdateInput{
			TableID:       body.TableID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			GuestCount:    body.GuestCount,
			ReservedFrom:  body.ReservedFrom,
			ReservedTo:    body.ReservedTo,
		})
		if err != nil {
			return httpError(c, err)
		}

		return c.JSON(res)
	}
}

// PUT /api/reservations/:id/status (admin ve üstü)
func ChangeReservationStatusHandler(svc *Service) fiber.Handler {
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
			return httpError(c, err)
		}

		return c.JSON(fiber.Map{"message": "Rezervasyon durumu değiştirildi"})
	}
}

// DELETE /api/reservations/:id (admin ve üstü)
func DeleteReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		res, err := svc.Get(id)
		if err != nil {
			return httpError(c, err)
		}

		if err := svc.Delete(id); err != nil {
			return httpError(c, err)
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.FirstName + " " + user.LastName,
				EntityType:  "reservation",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Rezervasyon silindi: %s", res.CustomerName),
				Before:      res,
			})
		}

		return c.JSON(fiber.Map{"message": "Rezervasyon silindi"})
	}
}
