package models

import "time"

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeaway
}

type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusClosed     OrderStatus = "closed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Sipariş durum geçiş tablosu. "closed" buradan ulaşılamaz: kapanış
// closedAt ve kalem tutarlılığı için her zaman close operasyonundan geçer.
// "cancelled" kapanmamış her durumdan ulaşılabilir.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusOpen:       {OrderStatusInProgress, OrderStatusReady, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusCancelled},
	OrderStatusClosed:     {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo: s durumundan target durumuna geçiş tabloda tanımlı mı?
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type OrderItemStatus string

const (
	ItemStatusOrdered   OrderItemStatus = "ordered"
	ItemStatusPreparing OrderItemStatus = "preparing"
	ItemStatusReady     OrderItemStatus = "ready"
	ItemStatusServed    OrderItemStatus = "served"
)

// Kalem geçiş tablosu. ordered -> ready'ye doğrudan izin var: hazırlığı
// kısa süren yemekler preparing adımına uğramadan hazırlanabiliyor.
var itemTransitions = map[OrderItemStatus][]OrderItemStatus{
	ItemStatusOrdered:   {ItemStatusPreparing, ItemStatusReady},
	ItemStatusPreparing: {ItemStatusReady},
	ItemStatusReady:     {ItemStatusServed},
	ItemStatusServed:    {},
}

func (s OrderItemStatus) Valid() bool {
	_, ok := itemTransitions[s]
	return ok
}

func (s OrderItemStatus) CanTransitionTo(target OrderItemStatus) bool {
	for _, t := range itemTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TableID uint   `gorm:"index;not null" json:"table_id"`
	Table   *Table `json:"table,omitempty"`

	// Müşterinin kendi açtığı siparişlerde garson yoktur.
	WaiterID *uint `gorm:"index" json:"waiter_id"`
	Waiter   *User `json:"waiter,omitempty"`

	OrderType    OrderType   `gorm:"size:20;not null;default:dine_in" json:"order_type"`
	Status       OrderStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	CustomerName string      `gorm:"size:100" json:"customer_name"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"index;not null" json:"order_id"`
	Order   *Order `json:"order,omitempty"`

	DishID uint  `gorm:"index;not null" json:"dish_id"`
	Dish   *Dish `json:"dish,omitempty"`

	// İlk "preparing" geçişinde atanır, sonraki durum değişiklikleri
	// tarafından asla yeniden atanmaz.
	ChefID *uint `gorm:"index" json:"chef_id"`
	Chef   *User `json:"chef,omitempty"`

	Quantity int `gorm:"not null;default:1" json:"quantity"`

	// Sipariş anındaki yemek fiyatının kopyası; canlı Dish fiyatından
	// bir daha türetilmez.
	ItemPrice float64 `gorm:"type:decimal(10,2);not null" json:"item_price"`

	Status     OrderItemStatus `gorm:"size:20;not null;default:ordered;index" json:"status"`
	PreparedAt *time.Time      `json:"prepared_at"`
	Notes      string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
