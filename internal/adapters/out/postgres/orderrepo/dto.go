// Package orderrepo persists the order aggregate and its items with GORM and
// applies lifecycle transitions as conditional updates.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status, rider and the lifecycle timestamps are the only columns written
// after placement.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number           string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	RiderID          *uuid.UUID      `gorm:"type:uuid;index"`
	Status           int             `gorm:"type:smallint;not null;index"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CommissionRate   decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryCode     string          `gorm:"type:char(6);not null"`
	DeliveryAddress  string          `gorm:"type:varchar(500);not null"`
	Latitude         float64         `gorm:"type:double precision;not null"`
	Longitude        float64         `gorm:"type:double precision;not null"`
	Notes            string          `gorm:"type:varchar(500)"`
	PlacedAt         time.Time       `gorm:"not null;index"`
	AcceptedAt       *time.Time      `gorm:"index"`
	RiderAssignedAt  *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	Items            []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one priced product line; Position keeps the customer's order.
type ItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"type:smallint;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"type:int;not null"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	timeline := o.Timeline()
	dto := OrderDTO{
		ID:               o.ID().Bytes(),
		Number:           o.Number().String(),
		CustomerID:       o.CustomerID().Bytes(),
		StoreID:          o.StoreID().Bytes(),
		RiderID:          riderColumn(o.RiderID()),
		Status:           int(o.Status()),
		Subtotal:         o.Subtotal().Decimal(),
		DeliveryFee:      o.DeliveryFee().Decimal(),
		CommissionRate:   o.CommissionRate().Percentage(),
		CommissionAmount: o.Commission().Decimal(),
		TotalAmount:      o.Total().Decimal(),
		DeliveryCode:     o.DeliveryCode().String(),
		DeliveryAddress:  o.Address().Text(),
		Latitude:         o.Address().Location().Latitude(),
		Longitude:        o.Address().Location().Longitude(),
		Notes:            o.Notes(),
		PlacedAt:         timeline.PlacedAt,
		AcceptedAt:       timeline.AcceptedAt,
		RiderAssignedAt:  timeline.RiderAssignedAt,
		OutForDeliveryAt: timeline.OutForDeliveryAt,
		DeliveredAt:      timeline.DeliveredAt,
		CancelledAt:      timeline.CancelledAt,
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			ID:          item.ID().Bytes(),
			OrderID:     dto.ID,
			Position:    i,
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Quantity:    item.Quantity(),
			LineTotal:   item.LineTotal().Decimal(),
		})
	}

	return dto
}

func riderColumn(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.CustomerID, dto.StoreID)
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	number, err := order.NumberFromString(dto.Number)
	if err != nil {
		return nil, err
	}
	code, err := order.DeliveryCodeFromString(dto.DeliveryCode)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddress(dto.DeliveryAddress, location)
	if err != nil {
		return nil, err
	}
	rate, err := commission.NewRate(dto.CommissionRate)
	if err != nil {
		return nil, err
	}
	amounts, err := moneys(dto.Subtotal, dto.DeliveryFee, dto.CommissionAmount, dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:             ids[0],
		Number:         number,
		CustomerID:     ids[1],
		StoreID:        ids[2],
		RiderID:        riderID,
		Status:         order.Status(dto.Status),
		Items:          items,
		Subtotal:       amounts[0],
		DeliveryFee:    amounts[1],
		CommissionRate: rate,
		Commission:     amounts[2],
		Total:          amounts[3],
		DeliveryCode:   code,
		Address:        address,
		Notes:          dto.Notes,
		Timeline: order.Timeline{
			PlacedAt:         dto.PlacedAt,
			AcceptedAt:       dto.AcceptedAt,
			RiderAssignedAt:  dto.RiderAssignedAt,
			OutForDeliveryAt: dto.OutForDeliveryAt,
			DeliveredAt:      dto.DeliveredAt,
			CancelledAt:      dto.CancelledAt,
		},
	})
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	ids, err := parseIDs(dto.ID, dto.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	amounts, err := moneys(dto.UnitPrice, dto.LineTotal)
	if err != nil {
		return order.Item{}, err
	}
	return order.RestoreItem(ids[0], ids[1], dto.ProductName, amounts[0], dto.Quantity, amounts[1])
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func moneys(raw ...decimal.Decimal) ([]kernel.Money, error) {
	out := make([]kernel.Money, 0, len(raw))
	for _, r := range raw {
		m, err := kernel.NewMoney(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
