package order

import (
	"time"

	"lokanta-backend/internal/models"
)

// ItemService: kalem bazlı mutfak akışı
// (ordered -> preparing -> ready -> served).
type ItemService struct {
	repo Repository
	now  func() time.Time
}

func NewItemService(repo Repository) *ItemService {
	return &ItemService{repo: repo, now: time.Now}
}

// ChangeStatus: kalem durumunu geçiş tablosuna göre değiştirir.
// Yan etkiler hedefe göre uygulanır:
//   - preparing: chefId boşsa işlemi yapan kullanıcı atanır (bir kere).
//   - ready: preparedAt damgalanır; siparişte ordered/preparing kalem
//     kalmadıysa sipariş ready'ye çekilir (roll-up).
func (s *ItemService) ChangeStatus(id uint, status models.OrderItemStatus, actorID uint) error {
	if !status.Valid() {
		return &InvalidTransitionError{From: "?", To: string(status)}
	}

	item, err := s.repo.ItemByID(id)
	if err != nil {
		return err
	}

	if !item.Status.CanTransitionTo(status) {
		return &InvalidTransitionError{From: string(item.Status), To: string(status)}
	}

	t := ItemTransition{
		Patch: map[string]interface{}{"status": status},
	}

	if status == models.ItemStatusPreparing && item.ChefID == nil {
		t.Patch["chef_id"] = actorID
	}

	if status == models.ItemStatusReady {
		t.Patch["prepared_at"] = s.now()
		t.PendingStatuses = []models.OrderItemStatus{models.ItemStatusOrdered, models.ItemStatusPreparing}
		t.RollupPatch = map[string]interface{}{"status": models.OrderStatusReady}
	}

	return s.repo.ApplyItemTransition(item, t)
}

// MarkServed: sadece ready durumundaki kalem servis edilebilir. Siparişte
// ready kalem kalmadıysa sipariş kapatılır. Dikkat: sayım sadece ready
// kalemlere bakar; ordered/preparing kalemler hâlâ mutfaktayken sipariş
// kapanabilir.
func (s *ItemService) MarkServed(id uint) error {
	item, err := s.repo.ItemByID(id)
	if err != nil {
		return err
	}

	if item.Status != models.ItemStatusReady {
		return ErrItemNotReady
	}

	t := ItemTransition{
		Patch:           map[string]interface{}{"status": models.ItemStatusServed},
		PendingStatuses: []models.OrderItemStatus{models.ItemStatusReady},
		RollupPatch: map[string]interface{}{
			"status":    models.OrderStatusClosed,
			"closed_at": s.now(),
		},
	}

	return s.repo.ApplyItemTransition(item, t)
}

func (s *ItemService) Kitchen() ([]models.OrderItem, error) {
	return s.repo.KitchenItems()
}
