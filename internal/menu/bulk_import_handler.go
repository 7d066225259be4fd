package menu

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/dishes/bulk-import (admin ve üstü)
// XLSX dosyasından toplu yemek yükler. Beklenen kolonlar:
// [yemek adı, kategori adı, fiyat, içindekiler, alerjenler, pişirme süresi (dk)]
func BulkImportDishesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık satırı mı? ("YEMEK", "DISH", "NAME" gibi kelimeler varsa)
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "YEMEK") || strings.Contains(firstCell, "DISH") ||
				strings.Contains(firstCell, "NAME") || strings.Contains(firstCell, "AD") {
				startIndex = 1
				log.Printf("İlk satır başlık satırı olarak algılandı, atlanıyor")
			}
		}

		createdCount := 0
		skippedRows := make([]string, 0)

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 {
				continue
			}

			name := strings.TrimSpace(row[0])
			if name == "" {
				continue
			}

			if len(row) < 3 {
				skippedRows = append(skippedRows, name)
				continue
			}

			categoryName := strings.TrimSpace(row[1])
			price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[2]), ",", "."), 64)
			if err != nil || price <= 0 {
				skippedRows = append(skippedRows, name)
				continue
			}

			// Kategoriyi bul, yoksa oluştur
			var category models.DishCategory
			if err := database.DB.Where("name = ?", categoryName).First(&category).Error; err != nil {
				category = models.DishCategory{Name: categoryName}
				if err := database.DB.Create(&category).Error; err != nil {
					log.Printf("Kategori oluşturulurken hata (%s): %v", categoryName, err)
					skippedRows = append(skippedRows, name)
					continue
				}
			}

			dish := models.Dish{
				Name:           name,
				CategoryID:     category.ID,
				Price:          price,
				CookingTimeMin: 15,
				IsActive:       true,
			}
			if len(row) > 3 {
				dish.Ingredients = strings.TrimSpace(row[3])
			}
			if len(row) > 4 {
				dish.Allergens = strings.TrimSpace(row[4])
			}
			if len(row) > 5 {
				if mins, err := strconv.Atoi(strings.TrimSpace(row[5])); err == nil && mins > 0 {
					dish.CookingTimeMin = mins
				}
			}

			// Aynı isimli yemek varsa güncelle, yoksa oluştur
			var existing models.Dish
			if err := database.DB.Where("name = ?", name).First(&existing).Error; err == nil {
				dish.ID = existing.ID
				dish.ImgURL = existing.ImgURL
				if err := database.DB.Save(&dish).Error; err != nil {
					log.Printf("Yemek güncellenirken hata (%s): %v", name, err)
					skippedRows = append(skippedRows, name)
					continue
				}
			} else {
				if err := database.DB.Create(&dish).Error; err != nil {
					log.Printf("Yemek oluşturulurken hata (%s): %v", name, err)
					skippedRows = append(skippedRows, name)
					continue
				}
			}

			createdCount++
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"created_count": createdCount,
			"skipped_rows":  skippedRows,
			"message":       fmt.Sprintf("%d yemek içe aktarıldı. %d satır atlandı.", createdCount, len(skippedRows)),
		})
	}
}
