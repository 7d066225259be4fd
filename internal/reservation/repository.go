package reservation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

// ConflictCheck: çakışma kontrolünün girdisi. ExcludeID sıfırdan farklıysa
// o rezervasyon kontrol dışı bırakılır (kendi güncellemesi sırasında).
type ConflictCheck struct {
	TableID   uint
	From, To  time.Time
	ExcludeID uint
}

type ListFilter struct {
	Status models.ReservationStatus
	Date   *time.Time // reservedFrom gün filtresi: [date, date+1)
}

// Repository: rezervasyon kalıcılık katmanı. Guarded metodlar çakışma
// kontrolü ve yazmayı tek serializable transaction'da yürütür.
type Repository interface {
	TableByID(id uint) (*models.Table, error)
	ReservationByID(id uint) (*models.Reservation, error)
	Reservations(f ListFilter) ([]models.Reservation, error)

	// FirstConflict: çakışan ilk aktif rezervasyon; yoksa nil.
	FirstConflict(check ConflictCheck) (*models.Reservation, error)

	// CreateGuarded: kontrol + insert tek transaction. Çakışma varsa
	// rezervasyon yazılmaz ve çakışan kayıt döner.
	CreateGuarded(res *models.Reservation) (*models.Reservation, error)

	// UpdateGuarded: check nil değilse kontrol + update tek transaction.
	UpdateGuarded(res *models.Reservation, patch map[string]interface{}, check *ConflictCheck) (*models.Reservation, error)

	Delete(res *models.Reservation) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

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

func (r *GormRepository) ReservationByID(id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.Preload("Table").Preload("User").First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("rezervasyon okunamadı: %w", err)
	}
	return &res, nil
}

func (r *GormRepository) Reservations(f ListFilter) ([]models.Reservation, error) {
	q := r.db.Preload("Table").Preload("User")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		start := f.Date.Truncate(24 * time.Hour)
		q = q.Where("reserved_from >= ? AND reserved_from < ?", start, start.AddDate(0, 0, 1))
	}

	var rows []models.Reservation
	if err := q.Order("reserved_from ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("rezervasyonlar listelenemedi: %w", err)
	}
	return rows, nil
}

// firstConflict: Overlaps yükleminin SQL hali (overlapCond). Çakışma
// kontrolünün girdiği her yol (create, update, durum değişikliği, müsaitlik
// sorgusu) buradan geçer; koşul başka yerde tekrarlanmaz.
func firstConflict(tx *gorm.DB, check ConflictCheck) (*models.Reservation, error) {
	q := tx.
		Where("table_id = ? AND status IN ?", check.TableID, models.OccupyingStatuses).
		Where(overlapCond, check.To, check.From)
	if check.ExcludeID != 0 {
		q = q.Where("id <> ?", check.ExcludeID)
	}

	var conflict models.Reservation
	err := q.First(&conflict).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("çakışma kontrolü yapılamadı: %w", err)
	}
	return &conflict, nil
}

func (r *GormRepository) FirstConflict(check ConflictCheck) (*models.Reservation, error) {
	return firstConflict(r.db, check)
}

func (r *GormRepository) CreateGuarded(res *models.Reservation) (*models.Reservation, error) {
	var conflict *models.Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		c, err := firstConflict(tx, ConflictCheck{
			TableID: res.TableID,
			From:    res.ReservedFrom,
			To:      res.ReservedTo,
		})
		if err != nil {
			return err
		}
		if c != nil {
			conflict = c
			return nil
		}
		if err := tx.Create(res).Error; err != nil {
			return fmt.Errorf("rezervasyon kaydedilemedi: %w", err)
		}
		return nil
	}, serializable)
	return conflict, err
}

func (r *GormRepository) UpdateGuarded(res *models.Reservation, patch map[string]interface{}, check *ConflictCheck) (*models.Reservation, error) {
	var conflict *models.Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if check != nil {
			c, err := firstConflict(tx, *check)
			if err != nil {
				return err
			}
			if c != nil {
				conflict = c
				return nil
			}
		}
		if err := tx.Model(&models.Reservation{}).Where("id = ?", res.ID).Updates(patch).Error; err != nil {
			return fmt.Errorf("rezervasyon güncellenemedi: %w", err)
		}
		return nil
	}, serializable)
	return conflict, err
}

func (r *GormRepository) Delete(res *models.Reservation) error {
	if err := r.db.Delete(&models.Reservation{}, res.ID).Error; err != nil {
		return fmt.Errorf("rezervasyon silinemedi: %w", err)
	}
	return nil
}
