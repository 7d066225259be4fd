package order

import (
	"time"

	"lokanta-backend/internal/models"
)

// Service: sipariş yaşam döngüsü (open -> in_progress -> ready -> closed,
// cancelled her kapanmamış durumdan).
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ItemInput: sipariş açma/güncellemede istemciden gelen kalem.
// Fiyat bilinçli olarak istemciden alınır ve Dish fiyatından yeniden
// türetilmez; kalem fiyatı sipariş anının anlık görüntüsüdür (bkz. DESIGN.md).
type ItemInput struct {
	DishID   uint    `json:"dishId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

type CreateInput struct {
	TableID      uint
	WaiterID     *uint
	OrderType    models.OrderType
	CustomerName string
	Items        []ItemInput
}

type UpdateInput struct {
	Items     []ItemInput // nil: kalemlere dokunma
	OrderType *models.OrderType
	TableID   *uint
}

// CloseCheck: canClose ön kontrolünün sonucu. Sadece danışma amaçlı,
// kapatmayı kendisi engellemez.
type CloseCheck struct {
	CanClose        bool         `json:"canClose"`
	UnfinishedItems int64        `json:"unfinishedItems"`
	Details         StatusCounts `json:"details"`
}

func totalOf(items []ItemInput) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func buildItems(items []ItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, models.OrderItem{
			DishID:    it.DishID,
			Quantity:  qty,
			ItemPrice: it.Price,
			Status:    models.ItemStatusOrdered,
			Notes:     it.Notes,
		})
	}
	return out
}

func (s *Service) Create(in CreateInput) (*models.Order, error) {
	if in.TableID == 0 {
		return nil, ErrNoTable
	}
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}

	if _, err := s.repo.TableByID(in.TableID); err != nil {
		return nil, err
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}

	order := &models.Order{
		TableID:      in.TableID,
		WaiterID:     in.WaiterID,
		OrderType:    orderType,
		Status:       models.OrderStatusOpen,
		TotalAmount:  totalOf(in.Items),
		CustomerName: in.CustomerName,
		Items:        buildItems(in.Items),
	}

	if err := s.repo.CreateOrderWithItems(order); err != nil {
		return nil, err
	}

	return s.repo.OrderByID(order.ID)
}

func (s *Service) Update(id uint, in UpdateInput) (*models.Order, error) {
	order, err := s.repo.OrderByID(id)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}
	if in.OrderType != nil {
		patch["order_type"] = *in.OrderType
	}
	if in.TableID != nil {
		if _, err := s.repo.TableByID(*in.TableID); err != nil {
			return nil, err
		}
		patch["table_id"] = *in.TableID
	}

	if in.Items != nil {
		// Kalemler toptan değişir: eskiler silinir, yeniler yazılır,
		// toplam yeni listeden hesaplanır.
		patch["total_amount"] = totalOf(in.Items)
		if err := s.repo.ReplaceItems(order, buildItems(in.Items), patch); err != nil {
			return nil, err
		}
	} else if len(patch) > 0 {
		if err := s.repo.UpdateOrder(order, patch); err != nil {
			return nil, err
		}
	}

	return s.repo.OrderByID(id)
}

func (s *Service) ChangeStatus(id uint, status models.OrderStatus) error {
	if !status.Valid() {
		return &InvalidTransitionError{From: "?", To: string(status)}
	}

	order, err := s.repo.OrderByID(id)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(status) {
		return &InvalidTransitionError{From: string(order.Status), To: string(status)}
	}

	return s.repo.UpdateOrder(order, map[string]interface{}{"status": status})
}

// Close: tüm kalemler servis edilmişse kapatır. force ile bitmemiş
// kalemler served'e çekilerek kapatılır.
func (s *Service) Close(id uint, force bool) (*models.Order, error) {
	order, err := s.repo.OrderByID(id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ItemStatusCounts(order.ID)
	if err != nil {
		return nil, err
	}

	if !force {
		if counts.Ordered > 0 || counts.Preparing > 0 {
			return nil, &CloseBlockedError{
				Message: "Sipariş kapatılamaz: mutfakta hazırlanan kalemler var",
				Details: counts,
			}
		}
		if counts.Ready > 0 {
			return nil, &CloseBlockedError{
				Message: "Hazır ama henüz servis edilmemiş kalemler var",
				Details: counts,
			}
		}
	}

	if err := s.repo.CloseOrder(order, s.now(), force); err != nil {
		return nil, err
	}

	return s.repo.OrderByID(id)
}

func (s *Service) CanClose(id uint) (*CloseCheck, error) {
	order, err := s.repo.OrderByID(id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ItemStatusCounts(order.ID)
	if err != nil {
		return nil, err
	}

	return &CloseCheck{
		CanClose:        counts.Unfinished() == 0,
		UnfinishedItems: counts.Unfinished(),
		Details:         counts,
	}, nil
}

func (s *Service) Get(id uint) (*models.Order, error) {
	return s.repo.OrderByID(id)
}

func (s *Service) List(f ListFilter) ([]models.Order, error) {
	return s.repo.Orders(f)
}

func (s *Service) Kitchen() ([]models.Order, error) {
	return s.repo.KitchenOrders()
}
