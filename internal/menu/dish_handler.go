package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateDishRequest struct {
	Name           string  `json:"name"`
	CategoryID     uint    `json:"category_id"`
	Price          float64 `json:"price"`
	Ingredients    string  `json:"ingredients"`
	Allergens      string  `json:"allergens"`
	NutritionInfo  string  `json:"nutrition_info"`
	CookingTimeMin int     `json:"cooking_time_min"`
}

type UpdateDishRequest struct {
	Name           *string  `json:"name"`
	CategoryID     *uint    `json:"category_id"`
	Price          *float64 `json:"price"`
	Ingredients    *string  `json:"ingredients"`
	Allergens      *string  `json:"allergens"`
	NutritionInfo  *string  `json:"nutrition_info"`
	CookingTimeMin *int     `json:"cooking_time_min"`
	IsActive       *bool    `json:"is_active"`
	IsStopped      *bool    `json:"is_stopped"`
}

// saveDishImage: multipart "img" dosyasını benzersiz bir adla kaydeder ve
// /static altındaki URL'ini döner. Dosya yoksa boş string döner.
func saveDishImage(c *fiber.Ctx, cfg *config.Config) (string, error) {
	file, err := c.FormFile("img")
	if err != nil {
		return "", nil // fotoğraf opsiyonel
	}

	if err := os.MkdirAll(cfg.DishImagePath, 0o755); err != nil {
		return "", fmt.Errorf("fotoğraf klasörü oluşturulamadı: %w", err)
	}

	fileName := uuid.NewString() + ".jpg"
	if err := c.SaveFile(file, filepath.Join(cfg.DishImagePath, fileName)); err != nil {
		return "", fmt.Errorf("fotoğraf kaydedilemedi: %w", err)
	}

	return "/static/" + fileName, nil
}

func removeDishImage(cfg *config.Config, imgURL string) {
	if imgURL == "" {
		return
	}
	fileName := strings.TrimPrefix(imgURL, "/static/")
	os.Remove(filepath.Join(cfg.DishImagePath, fileName))
}

// GET /api/dishes?category_id=1&is_active=true
func ListDishesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Category")

		if catStr := c.Query("category_id"); catStr != "" {
			q = q.Where("category_id = ?", catStr)
		}
		if activeStr := c.Query("is_active"); activeStr != "" {
			q = q.Where("is_active = ?", activeStr == "true")
		}

		var dishes []models.Dish
		if err := q.Order("created_at DESC").Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemekler listelenemedi")
		}
		return c.JSON(dishes)
	}
}

// GET /api/dishes/:id
func GetDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dish models.Dish
		if err := database.DB.Preload("Category").First(&dish, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}
		return c.JSON(dish)
	}
}

// POST /api/dishes (admin ve üstü) — multipart form, opsiyonel "img"
func CreateDishHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.CategoryID == 0 || body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name, category_id ve price zorunlu, price > 0 olmalı")
		}

		var cat models.DishCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		imgURL, err := saveDishImage(c, cfg)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		cookingTime := body.CookingTimeMin
		if cookingTime <= 0 {
			cookingTime = 15
		}

		dish := models.Dish{
			Name:           body.Name,
			CategoryID:     body.CategoryID,
			Price:          body.Price,
			Ingredients:    body.Ingredients,
			Allergens:      body.Allergens,
			NutritionInfo:  body.NutritionInfo,
			CookingTimeMin: cookingTime,
			ImgURL:         imgURL,
			IsActive:       true,
		}

		if err := database.DB.Create(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(dish)
	}
}

// PUT /api/dishes/:id (admin ve üstü)
func UpdateDishHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dish models.Dish
		if err := database.DB.First(&dish, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		var body UpdateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			dish.Name = name
		}
		if body.CategoryID != nil {
			var cat models.DishCategory
			if err := database.DB.First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
			dish.CategoryID = *body.CategoryID
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price > 0 olmalı")
			}
			dish.Price = *body.Price
		}
		if body.Ingredients != nil {
			dish.Ingredients = *body.Ingredients
		}
		if body.Allergens != nil {
			dish.Allergens = *body.Allergens
		}
		if body.NutritionInfo != nil {
			dish.NutritionInfo = *body.NutritionInfo
		}
		if body.CookingTimeMin != nil && *body.CookingTimeMin > 0 {
			dish.CookingTimeMin = *body.CookingTimeMin
		}
		if body.IsActive != nil {
			dish.IsActive = *body.IsActive
		}
		if body.IsStopped != nil {
			dish.IsStopped = *body.IsStopped
		}

		// Yeni fotoğraf geldiyse eskisini sil
		if imgURL, err := saveDishImage(c, cfg); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		} else if imgURL != "" {
			removeDishImage(cfg, dish.ImgURL)
			dish.ImgURL = imgURL
		}

		if err := database.DB.Save(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek güncellenemedi")
		}

		return c.JSON(dish)
	}
}

// PUT /api/dishes/:id/stop (admin ve üstü) — stop durumunu tersine çevirir
func ToggleStopDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dish models.Dish
		if err := database.DB.First(&dish, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		dish.IsStopped = !dish.IsStopped
		if err := database.DB.Save(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek güncellenemedi")
		}

		msg := "Yemek stoptan çıkarıldı"
		if dish.IsStopped {
			msg = "Yemek stopa alındı"
		}
		return c.JSON(fiber.Map{"message": msg, "is_stopped": dish.IsStopped})
	}
}

// DELETE /api/dishes/:id (admin ve üstü)
func DeleteDishHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var dish models.Dish
		if err := database.DB.First(&dish, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}

		var count int64
		database.DB.Model(&models.OrderItem{}).Where("dish_id = ?", id).Count(&count)
		if count > 0 {
			// Sipariş geçmişi yemeğe referans tutuyor; silme yerine deaktive et
			dish.IsActive = false
			if err := database.DB.Save(&dish).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Yemek deaktive edilemedi")
			}
			return c.JSON(fiber.Map{"message": "Yemek sipariş geçmişinde kullanıldığı için deaktive edildi"})
		}

		if err := database.DB.Delete(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek silinemedi")
		}
		removeDishImage(cfg, dish.ImgURL)

		return c.JSON(fiber.Map{"message": "Yemek silindi"})
	}
}
