package reservation

import (
	"time"

	"lokanta-backend/internal/models"
)

// Service: rezervasyon yaşam döngüsü. Masayı işgal eden her mutasyon
// (create, pencere/masa değişikliği, confirmed/seated'e geçiş) çakışma
// dedektöründen geçer.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AvailabilityInput struct {
	TableID     uint
	From, To    time.Time
	GuestsCount int  // 0: kontrol edilmez
	ExcludeID   uint // 0: hariç tutulan yok
}

type ConflictInfo struct {
	ID           uint      `json:"id"`
	CustomerName string    `json:"customer_name,omitempty"`
	ReservedFrom time.Time `json:"reserved_from"`
	ReservedTo   time.Time `json:"reserved_to"`
}

type Availability struct {
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
	Conflict  *ConflictInfo `json:"conflict"`
}

type CreateInput struct {
	TableID       uint
	UserID        uint
	CustomerName  string
	CustomerPhone string
	GuestCount    int
	ReservedFrom  time.Time
	ReservedTo    time.Time
}

type UpdateInput struct {
	TableID       *uint
	CustomerName  *string
	CustomerPhone *string
	GuestCount    *int
	ReservedFrom  *time.Time
	ReservedTo    *time.Time
}

func conflictInfo(r *models.Reservation) *ConflictInfo {
	if r == nil {
		return nil
	}
	return &ConflictInfo{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		ReservedFrom: r.ReservedFrom,
		ReservedTo:   r.ReservedTo,
	}
}

// CheckAvailability: salt okunur müsaitlik kontrolü. Create ile aynı
// yüklemi kullanır; ikisinin sonucu birbirinden sapamaz.
func (s *Service) CheckAvailability(in AvailabilityInput) (*Availability, error) {
	table, err := s.repo.TableByID(in.TableID)
	if err != nil {
		return nil, err
	}

	if !in.To.After(in.From) {
		return nil, ErrInvalidWindow
	}

	// Kapasite aşılıyorsa çakışma kontrolüne hiç girilmez.
	if in.GuestsCount > 0 && in.GuestsCount > table.Capacity {
		return &Availability{
			Available: false,
			Reason:    "Masa kapasitesi aşıldı",
		}, nil
	}

	conflict, err := s.repo.FirstConflict(ConflictCheck{
		TableID:   in.TableID,
		From:      in.From,
		To:        in.To,
		ExcludeID: in.ExcludeID,
	})
	if err != nil {
		return nil, err
	}

	return &Availability{
		Available: conflict == nil,
		Conflict:  conflictInfo(conflict),
	}, nil
}

func (s *Service) Create(in CreateInput) (*models.Reservation, error) {
	if in.TableID == 0 || in.CustomerName == "" || in.CustomerPhone == "" ||
		in.ReservedFrom.IsZero() || in.ReservedTo.IsZero() {
		return nil, ErrMissingFields
	}
	if !in.ReservedTo.After(in.ReservedFrom) {
		return nil, ErrInvalidWindow
	}

	table, err := s.repo.TableByID(in.TableID)
	if err != nil {
		return nil, err
	}
	if in.GuestCount > table.Capacity {
		return nil, ErrCapacityExceeded
	}

	res := &models.Reservation{
		TableID:       in.TableID,
		UserID:        in.UserID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		GuestCount:    in.GuestCount,
		ReservedFrom:  in.ReservedFrom,
		ReservedTo:    in.ReservedTo,
		Status:        models.ReservationStatusConfirmed,
	}

	conflict, err := s.repo.CreateGuarded(res)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &ConflictError{Conflict: conflict}
	}

	return s.repo.ReservationByID(res.ID)
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Reservation, error) {
	res, err := s.repo.ReservationByID(id)
	if err != nil {
		return nil, err
	}

	// Efektif masa/pencere/kişi sayısı: gönderilen alanlar mevcut
	// değerlerle birleştirilir.
	tableID := res.TableID
	if in.TableID != nil {
		tableID = *in.TableID
	}
	from := res.ReservedFrom
	if in.ReservedFrom != nil {
		from = *in.ReservedFrom
	}
	to := res.ReservedTo
	if in.ReservedTo != nil {
		to = *in.ReservedTo
	}
	guests := res.GuestCount
	if in.GuestCount != nil {
		guests = *in.GuestCount
	}

	patch := map[string]interface{}{}
	if in.CustomerName != nil {
		patch["customer_name"] = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		patch["customer_phone"] = *in.CustomerPhone
	}

	var check *ConflictCheck
	if in.TableID != nil || in.ReservedFrom != nil || in.ReservedTo != nil || in.GuestCount != nil {
		if !to.After(from) {
			return nil, ErrInvalidWindow
		}

		table, err := s.repo.TableByID(tableID)
		if err != nil {
			return nil, err
		}
		if guests > table.Capacity {
			return nil, ErrCapacityExceeded
		}

		// Kendi id'si hariç tutularak yeniden kontrol edilir.
		check = &ConflictCheck{
			TableID:   tableID,
			From:      from,
			To:        to,
			ExcludeID: res.ID,
		}

		patch["table_id"] = tableID
		patch["reserved_from"] = from
		patch["reserved_to"] = to
		patch["guest_count"] = guests
	}

	if len(patch) > 0 {
		conflict, err := s.repo.UpdateGuarded(res, patch, check)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, &ConflictError{Conflict: conflict}
		}
	}

	return s.repo.ReservationByID(id)
}

// ChangeStatus: confirmed/seated'e geçiş masayı yeniden işgal eder ve
// mevcut pencere üzerinden çakışma kontrolünden geçer. Diğer geçişler
// koşulsuz.
func (s *Service) ChangeStatus(id uint, status models.ReservationStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	res, err := s.repo.ReservationByID(id)
	if err != nil {
		return err
	}

	var check *ConflictCheck
	if status.Occupies() && res.Status != status {
		check = &ConflictCheck{
			TableID:   res.TableID,
			From:      res.ReservedFrom,
			To:        res.ReservedTo,
			ExcludeID: res.ID,
		}
	}

	conflict, err := s.repo.UpdateGuarded(res, map[string]interface{}{"status": status}, check)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &ConflictError{Conflict: conflict}
	}
	return nil
}

func (s *Service) Delete(id uint) error {
	res, err := s.repo.ReservationByID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(res)
}

func (s *Service) Get(id uint) (*models.Reservation, error) {
	return s.repo.ReservationByID(id)
}

func (s *Service) List(f ListFilter) ([]models.Reservation, error) {
	return s.repo.Reservations(f)
}
