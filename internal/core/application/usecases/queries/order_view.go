// Package queries holds the read side: query objects and handlers that read
// Postgres directly and return views shaped for the caller.
package queries

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderView is an order as one actor may see it. DeliveryCode is filled only
// for the customer who placed the order.
type OrderView struct {
	ID              string       `json:"id"`
	Number          string       `json:"orderNumber"`
	Status          string       `json:"status"`
	CustomerID      string       `json:"customerId"`
	StoreID         string       `json:"storeId"`
	RiderID         *string      `json:"riderId"`
	Subtotal        string       `json:"subtotal"`
	DeliveryFee     string       `json:"deliveryFee"`
	CommissionRate  string       `json:"commissionRate"`
	Commission      string       `json:"commissionAmount"`
	Total           string       `json:"totalAmount"`
	Payout          PayoutView   `json:"payout"`
	DeliveryCode    string       `json:"deliveryCode,omitempty"`
	DeliveryAddress string       `json:"deliveryAddress"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	Notes           string       `json:"notes,omitempty"`
	Items           []ItemView   `json:"items"`
	Timeline        TimelineView `json:"timeline"`
}

type ItemView struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"subtotal"`
}

// PayoutView splits the total between store, rider and platform.
type PayoutView struct {
	Store    string `json:"store"`
	Rider    string `json:"rider"`
	Platform string `json:"platform"`
}

type TimelineView struct {
	PlacedAt         time.Time  `json:"placedAt"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty"`
	RiderAssignedAt  *time.Time `json:"riderAssignedAt,omitempty"`
	OutForDeliveryAt *time.Time `json:"outForDeliveryAt,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
}

// NewOrderView renders an aggregate, as the notification fanout does right
// after a transition commits.
func NewOrderView(o *order.Order, withCode bool) (OrderView, error) {
	payout, err := services.NewPayoutSplitter().SplitOrder(o)
	if err != nil {
		return OrderView{}, err
	}

	timeline := o.Timeline()
	v := OrderView{
		ID:              o.ID().String(),
		Number:          o.Number().String(),
		Status:          o.Status().String(),
		CustomerID:      o.CustomerID().String(),
		StoreID:         o.StoreID().String(),
		Subtotal:        o.Subtotal().String(),
		DeliveryFee:     o.DeliveryFee().String(),
		CommissionRate:  o.CommissionRate().Percentage().String(),
		Commission:      o.Commission().String(),
		Total:           o.Total().String(),
		Payout:          PayoutView{Store: payout.Store.String(), Rider: payout.Rider.String(), Platform: payout.Platform.String()},
		DeliveryAddress: o.Address().Text(),
		Latitude:        o.Address().Location().Latitude(),
		Longitude:       o.Address().Location().Longitude(),
		Notes:           o.Notes(),
		Timeline: TimelineView{
			PlacedAt:         timeline.PlacedAt,
			AcceptedAt:       timeline.AcceptedAt,
			RiderAssignedAt:  timeline.RiderAssignedAt,
			OutForDeliveryAt: timeline.OutForDeliveryAt,
			DeliveredAt:      timeline.DeliveredAt,
			CancelledAt:      timeline.CancelledAt,
		},
	}
	if id := o.RiderID(); id != nil {
		s := id.String()
		v.RiderID = &s
	}
	if withCode {
		v.DeliveryCode = o.DeliveryCode().String()
	}
	for _, item := range o.Items() {
		v.Items = append(v.Items, ItemView{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().String(),
			Quantity:    item.Quantity(),
			LineTotal:   item.LineTotal().String(),
		})
	}
	return v, nil
}

// orderColumns is the select list orderRow scans.
const orderColumns = `
	id, number, customer_id, store_id, rider_id, status,
	subtotal, delivery_fee, commission_rate, commission_amount, total_amount,
	delivery_code, delivery_address, latitude, longitude, notes,
	placed_at, accepted_at, rider_assigned_at, out_for_delivery_at, delivered_at, cancelled_at`

type orderRow struct {
	ID               uuid.UUID
	Number           string
	CustomerID       uuid.UUID
	StoreID          uuid.UUID
	RiderID          *uuid.UUID
	Status           int
	Subtotal         decimal.Decimal
	DeliveryFee      decimal.Decimal
	CommissionRate   decimal.Decimal
	CommissionAmount decimal.Decimal
	TotalAmount      decimal.Decimal
	DeliveryCode     string
	DeliveryAddress  string
	Latitude         float64
	Longitude        float64
	Notes            string
	PlacedAt         time.Time
	AcceptedAt       *time.Time
	RiderAssignedAt  *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
}

type itemRow struct {
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// visibleTo reports whether actor takes part in the order. Admins see every order.
func (r orderRow) visibleTo(actor kernel.Actor) bool {
	id := actor.ID().Bytes()
	switch actor.Role() {
	case kernel.RoleAdmin:
		return true
	case kernel.RoleCustomer:
		return r.CustomerID == id
	case kernel.RoleStore:
		return r.StoreID == id
	case kernel.RoleRider:
		return r.RiderID != nil && *r.RiderID == id
	default:
		return false
	}
}

func (r orderRow) view(items []itemRow, withCode bool) OrderView {
	v := OrderView{
		ID:              r.ID.String(),
		Number:          r.Number,
		Status:          order.Status(r.Status).String(),
		CustomerID:      r.CustomerID.String(),
		StoreID:         r.StoreID.String(),
		Subtotal:        money(r.Subtotal),
		DeliveryFee:     money(r.DeliveryFee),
		CommissionRate:  r.CommissionRate.String(),
		Commission:      money(r.CommissionAmount),
		Total:           money(r.TotalAmount),
		Payout:          payout(r.TotalAmount, r.DeliveryFee, r.CommissionAmount),
		DeliveryAddress: r.DeliveryAddress,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Notes:           r.Notes,
		Timeline: TimelineView{
			PlacedAt:         r.PlacedAt.UTC(),
			AcceptedAt:       utc(r.AcceptedAt),
			RiderAssignedAt:  utc(r.RiderAssignedAt),
			OutForDeliveryAt: utc(r.OutForDeliveryAt),
			DeliveredAt:      utc(r.DeliveredAt),
			CancelledAt:      utc(r.CancelledAt),
		},
	}
	if r.RiderID != nil {
		s := r.RiderID.String()
		v.RiderID = &s
	}
	if withCode {
		v.DeliveryCode = r.DeliveryCode
	}
	for _, item := range items {
		v.Items = append(v.Items, ItemView{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			UnitPrice:   money(item.UnitPrice),
			Quantity:    item.Quantity,
			LineTotal:   money(item.LineTotal),
		})
	}
	return v
}

// payout mirrors services.PayoutSplitter on stored amounts.
func payout(total, fee, commission decimal.Decimal) PayoutView {
	return PayoutView{
		Store:    money(total.Sub(fee).Sub(commission)),
		Rider:    money(fee),
		Platform: money(commission),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(kernel.MoneyScale)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
