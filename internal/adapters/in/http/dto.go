package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/domain/model/rider"

	"github.com/shopspring/decimal"
)

type PlaceOrderItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	// max mirrors order.MaxItemQuantity
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

type PlaceOrderRequest struct {
	StoreID         string           `json:"storeId" validate:"required,uuid"`
	Items           []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string           `json:"deliveryAddress" validate:"required"`
	Latitude        *float64         `json:"latitude" validate:"required"`
	Longitude       *float64         `json:"longitude" validate:"required"`
	Notes           string           `json:"notes"`
}

// PaymentInit is what the client needs to open the gateway checkout.
type PaymentInit struct {
	Handle   string `json:"handle"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId,omitempty"`
}

type PlaceOrderResponse struct {
	Order   queries.OrderView `json:"order"`
	Payment PaymentInit       `json:"payment"`
}

type DeliverRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type RegisterRiderRequest struct {
	Name string `json:"name" validate:"required"`
}

type CommissionRequest struct {
	Percentage *decimal.Decimal `json:"percentage" validate:"required"`
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

type RiderView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IsApproved      bool   `json:"isApproved"`
	IsAvailable     bool   `json:"isAvailable"`
	TotalDeliveries int    `json:"totalDeliveries"`
}

func newRiderView(r *rider.Rider) RiderView {
	return RiderView{
		ID:              r.ID().String(),
		Name:            r.Name(),
		IsApproved:      r.IsApproved(),
		IsAvailable:     r.IsAvailable(),
		TotalDeliveries: r.TotalDeliveries(),
	}
}

type PaymentView struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"orderId"`
	Handle           string     `json:"handle"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
	Amount           string     `json:"amount"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

func newPaymentView(p *payment.Payment) PaymentView {
	return PaymentView{
		ID:               p.ID().String(),
		OrderID:          p.OrderID().String(),
		Handle:           p.Handle(),
		GatewayPaymentID: p.GatewayPaymentID(),
		Amount:           p.Amount().String(),
		Status:           string(p.Status()),
		PaidAt:           p.PaidAt(),
	}
}

func newCommissionView(e *commission.Entry) queries.CommissionRateView {
	created := e.CreatedAt().UTC()
	return queries.CommissionRateView{
		Version:    e.Version(),
		Percentage: e.Rate().Percentage().String(),
		IsActive:   e.IsActive(),
		CreatedAt:  &created,
	}
}
