package order

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

// StatusCounts: bir siparişin kalemlerinin duruma göre dağılımı.
type StatusCounts struct {
	Ordered   int64 `json:"ordered"`
	Preparing int64 `json:"preparing"`
	Ready     int64 `json:"ready"`
	Served    int64 `json:"served"`
}

// Unfinished: servis edilmemiş kalem sayısı.
func (c StatusCounts) Unfinished() int64 {
	return c.Ordered + c.Preparing + c.Ready
}

// ItemTransition: tek transaction içinde uygulanan kalem güncellemesi.
// Patch kaleme yazılır; ardından aynı siparişteki PendingStatuses
// durumundaki kardeş kalemler sayılır ve sayı sıfırsa RollupPatch üst
// siparişe uygulanır (roll-up).
type ItemTransition struct {
	Patch           map[string]interface{}
	PendingStatuses []models.OrderItemStatus
	RollupPatch     map[string]interface{}
}

type ListFilter struct {
	Statuses []models.OrderStatus
	Date     *time.Time // gün bazlı filtre: [date, date+1)
}

// Repository: sipariş yaşam döngüsünün kalıcılık katmanı. Transaction
// sınırları burada; servis katmanı iş kurallarını yürütür.
type Repository interface {
	TableByID(id uint) (*models.Table, error)
	OrderByID(id uint) (*models.Order, error)
	Orders(f ListFilter) ([]models.Order, error)
	KitchenOrders() ([]models.Order, error)
	KitchenItems() ([]models.OrderItem, error)
	ItemByID(id uint) (*models.OrderItem, error)

	CreateOrderWithItems(order *models.Order) error
	ReplaceItems(order *models.Order, items []models.OrderItem, patch map[string]interface{}) error
	UpdateOrder(order *models.Order, patch map[string]interface{}) error
	CloseOrder(order *models.Order, closedAt time.Time, forceServe bool) error
	ItemStatusCounts(orderID uint) (StatusCounts, error)
	ApplyItemTransition(item *models.OrderItem, t ItemTransition) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) TableByID(id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("masa okunamadı: %w", err)
	}
	return &table, nil
}

func (r *GormRepository) OrderByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Table").
		Preload("Waiter").
		Preload("Items").
		Preload("Items.Dish").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("sipariş okunamadı: %w", err)
	}
	return &order, nil
}

func (r *GormRepository) Orders(f ListFilter) ([]models.Order, error) {
	q := r.db.
		Preload("Table").
		Preload("Waiter").
		Preload("Items").
		Preload("Items.Dish")

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Date != nil {
		start := f.Date.Truncate(24 * time.Hour)
		q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("siparişler listelenemedi: %w", err)
	}
	return orders, nil
}

// KitchenOrders: mutfak ekranı için open/in_progress siparişler, sadece
// bekleyen (ordered/preparing) kalemleriyle.
func (r *GormRepository) KitchenOrders() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Table").
		Preload("Items", "status IN ?", []models.OrderItemStatus{models.ItemStatusOrdered, models.ItemStatusPreparing}).
		Preload("Items.Dish").
		Where("status IN ?", []models.OrderStatus{models.OrderStatusOpen, models.OrderStatusInProgress}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("mutfak siparişleri listelenemedi: %w", err)
	}
	return orders, nil
}

func (r *GormRepository) KitchenItems() ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.
		Preload("Dish").
		Preload("Order").
		Preload("Order.Table").
		Where("status IN ?", []models.OrderItemStatus{models.ItemStatusOrdered, models.ItemStatusPreparing}).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("mutfak kalemleri listelenemedi: %w", err)
	}
	return items, nil
}

func (r *GormRepository) ItemByID(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.
		Preload("Order").
		Preload("Dish").
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("kalem okunamadı: %w", err)
	}
	return &item, nil
}

// CreateOrderWithItems: sipariş ve kalemleri tek transaction'da açılır;
// yarım sipariş asla görünmez.
func (r *GormRepository) CreateOrderWithItems(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("sipariş kaydedilemedi: %w", err)
		}
		return nil
	})
}

// ReplaceItems: kalem listesi toptan değişir (hepsi silinir, yenileri
// yazılır) ve sipariş alanları aynı transaction'da güncellenir. Kısmi
// yama yok; sıfır kalemli ara durum dışarıdan gözlenemez.
func (r *GormRepository) ReplaceItems(order *models.Order, items []models.OrderItem, patch map[string]interface{}) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("eski kalemler silinemedi: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("yeni kalemler kaydedilemedi: %w", err)
			}
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(patch).Error; err != nil {
			return fmt.Errorf("sipariş güncellenemedi: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) UpdateOrder(order *models.Order, patch map[string]interface{}) error {
	if err := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(patch).Error; err != nil {
		return fmt.Errorf("sipariş güncellenemedi: %w", err)
	}
	return nil
}

// CloseOrder: siparişi kapatır. forceServe ile servis edilmemiş tüm
// kalemler aynı transaction'da served'e çekilir; kapalı siparişin altında
// bitmemiş kalem kalmaz.
func (r *GormRepository) CloseOrder(order *models.Order, closedAt time.Time, forceServe bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if forceServe {
			err := tx.Model(&models.OrderItem{}).
				Where("order_id = ? AND status IN ?", order.ID,
					[]models.OrderItemStatus{models.ItemStatusOrdered, models.ItemStatusPreparing, models.ItemStatusReady}).
				Update("status", models.ItemStatusServed).Error
			if err != nil {
				return fmt.Errorf("kalemler servis edilemedi: %w", err)
			}
		}
		err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":    models.OrderStatusClosed,
			"closed_at": closedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("sipariş kapatılamadı: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) ItemStatusCounts(orderID uint) (StatusCounts, error) {
	return itemStatusCounts(r.db, orderID)
}

func itemStatusCounts(tx *gorm.DB, orderID uint) (StatusCounts, error) {
	type row struct {
		Status models.OrderItemStatus
		Count  int64
	}
	var rows []row
	err := tx.Model(&models.OrderItem{}).
		Select("status, COUNT(id) as count").
		Where("order_id = ?", orderID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, fmt.Errorf("kalem sayıları okunamadı: %w", err)
	}

	var counts StatusCounts
	for _, r := range rows {
		switch r.Status {
		case models.ItemStatusOrdered:
			counts.Ordered = r.Count
		case models.ItemStatusPreparing:
			counts.Preparing = r.Count
		case models.ItemStatusReady:
			counts.Ready = r.Count
		case models.ItemStatusServed:
			counts.Served = r.Count
		}
	}
	return counts, nil
}

// ApplyItemTransition: kalem yazısı, kardeş sayımı ve roll-up tek
// transaction'da. Sayım, kalem güncellendikten SONRA yapılır; kalemin yeni
// durumu bekleyen kümesinde değilse kendisi sayıma girmez.
func (r *GormRepository) ApplyItemTransition(item *models.OrderItem, t ItemTransition) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(t.Patch).Error; err != nil {
			return fmt.Errorf("kalem güncellenemedi: %w", err)
		}

		if len(t.PendingStatuses) == 0 || t.RollupPatch == nil {
			return nil
		}

		var pending int64
		err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status IN ?", item.OrderID, t.PendingStatuses).
			Count(&pending).Error
		if err != nil {
			return fmt.Errorf("bekleyen kalemler sayılamadı: %w", err)
		}

		if pending == 0 {
			if err := tx.Model(&models.Order{}).Where("id = ?", item.OrderID).Updates(t.RollupPatch).Error; err != nil {
				return fmt.Errorf("sipariş durumu güncellenemedi: %w", err)
			}
		}
		return nil
	})
}
