package stats

import (
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// İstatistik uçları (admin ve üstü). Kapanan siparişler üzerinden
// ciro, sipariş sayısı ve popüler yemekler hesaplanır.

type PeriodStats struct {
	Period        string  `json:"period"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	OrderCount    int64   `json:"order_count"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
	Cancelled     int64   `json:"cancelled"`
	Reservations  int64   `json:"reservations"`
}

type PopularDish struct {
	DishID    uint    `json:"dish_id" gorm:"column:dish_id"`
	Name      string  `json:"name" gorm:"column:name"`
	TotalQty  int64   `json:"total_qty" gorm:"column:total_qty"`
	TotalSold float64 `json:"total_sold" gorm:"column:total_sold"`
}

// periodRange: "daily" | "weekly" | "monthly" için [from, to) aralığı.
// Opsiyonel date parametresi (YYYY-MM-DD) referans günü kaydırır.
func periodRange(period, dateStr string) (time.Time, time.Time, error) {
	ref := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih formatı (YYYY-MM-DD bekleniyor)")
		}
		ref = parsed
	}

	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch period {
	case "daily":
		return day, day.AddDate(0, 0, 1), nil
	case "weekly":
		// Haftanın başı pazartesi
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := day.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7), nil
	case "monthly":
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz periyot (daily, weekly veya monthly)")
	}
}

func computeStats(period string, from, to time.Time) (*PeriodStats, error) {
	var orderCount int64
	if err := database.DB.Model(&models.Order{}).
		Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderStatusClosed, from, to).
		Count(&orderCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş sayısı hesaplanamadı")
	}

	var revenue float64
	if err := database.DB.Model(&models.Order{}).
		Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderStatusClosed, from, to).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Ciro hesaplanamadı")
	}

	var cancelled int64
	if err := database.DB.Model(&models.Order{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", models.OrderStatusCancelled, from, to).
		Count(&cancelled).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "İptal sayısı hesaplanamadı")
	}

	var reservations int64
	if err := database.DB.Model(&models.Reservation{}).
		Where("reserved_from >= ? AND reserved_from < ?", from, to).
		Count(&reservations).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Rezervasyon sayısı hesaplanamadı")
	}

	avg := 0.0
	if orderCount > 0 {
		avg = revenue / float64(orderCount)
	}

	return &PeriodStats{
		Period:        period,
		From:          from.Format("2006-01-02"),
		To:            to.Format("2006-01-02"),
		OrderCount:    orderCount,
		Revenue:       revenue,
		AverageTicket: avg,
		Cancelled:     cancelled,
		Reservations:  reservations,
	}, nil
}

// GET /api/stats/:period?date=2026-08-29 (daily | weekly | monthly)
func PeriodStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Params("period")

		from, to, err := periodRange(period, c.Query("date"))
		if err != nil {
			return err
		}

		stats, err := computeStats(period, from, to)
		if err != nil {
			return err
		}
		return c.JSON(stats)
	}
}

// GET /api/stats/popular-dishes?period=monthly&limit=10
func PopularDishesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "monthly")

		from, to, err := periodRange(period, c.Query("date"))
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var rows []PopularDish
		if err := database.DB.
			Model(&models.OrderItem{}).
			Select("order_items.dish_id, dishes.name, SUM(order_items.quantity) as total_qty, SUM(order_items.item_price * order_items.quantity) as total_sold").
			Joins("JOIN dishes ON dishes.id = order_items.dish_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.status = ? AND orders.closed_at >= ? AND orders.closed_at < ?", models.OrderStatusClosed, from, to).
			Group("order_items.dish_id, dishes.name").
			Order("total_qty DESC").
			Limit(limit).
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Popüler yemekler hesaplanamadı")
		}

		return c.JSON(rows)
	}
}
