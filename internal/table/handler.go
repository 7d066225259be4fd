package table

import (
	"strings"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	QRURL    string `json:"qr_url"`
}

type UpdateTableRequest struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
	QRURL    *string `json:"qr_url"`
	IsActive *bool   `json:"is_active"`
}

// GET /api/tables — sadece aktif masalar
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}
		return c.JSON(tables)
	}
}

// GET /api/tables/:id
func GetTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var table models.Table
		if err := database.DB.First(&table, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}
		return c.JSON(table)
	}
}

// POST /api/tables (admin ve üstü)
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if body.Capacity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "capacity 1'den küçük olamaz")
		}

		table := models.Table{
			Name:     body.Name,
			Capacity: body.Capacity,
			QRURL:    body.QRURL,
			IsActive: true,
		}
		if err := database.DB.Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

// PUT /api/tables/:id (admin ve üstü)
func UpdateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var table models.Table
		if err := database.DB.First(&table, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		var body UpdateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			table.Name = name
		}
		if body.Capacity != nil {
			if *body.Capacity < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "capacity 1'den küçük olamaz")
			}
			table.Capacity = *body.Capacity
		}
		if body.QRURL != nil {
			table.QRURL = *body.QRURL
		}
		if body.IsActive != nil {
			table.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa güncellenemedi")
		}

		return c.JSON(table)
	}
}

// DELETE /api/tables/:id (admin ve üstü) — fiziksel silme yok, deaktive
// edilir; eski siparişler ve rezervasyonlar masaya referans tutuyor.
func DeleteTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var table models.Table
		if err := database.DB.First(&table, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		table.IsActive = false
		if err := database.DB.Save(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa deaktive edilemedi")
		}

		return c.JSON(fiber.Map{"message": "Masa deaktive edildi"})
	}
}
