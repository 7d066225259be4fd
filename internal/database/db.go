package database

import (
	"log"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.DishCategory{},
		&models.Dish{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Aynı masada çakışan confirmed/seated rezervasyonları veritabanı
	// seviyesinde de engelle ([from, to) yarı açık aralık).
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Printf("btree_gist extension oluşturulamadı (devam ediliyor): %v", err)
	} else if err := DB.Exec(`
		ALTER TABLE reservations
		ADD CONSTRAINT reservations_no_overlap
		EXCLUDE USING gist (
			table_id WITH =,
			tsrange(reserved_from, reserved_to, '[)') WITH &&
		) WHERE (status IN ('confirmed', 'seated'))
	`).Error; err != nil {
		log.Printf("Rezervasyon exclusion constraint eklenemedi (zaten var olabilir): %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
