package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Payout is the three-way split of an order's total.
type Payout struct {
	Store    kernel.Money
	Rider    kernel.Money
	Platform kernel.Money
}

// PayoutSplitter computes who earns what from an order:
//
//	store    = total - delivery fee - commission
//	rider    = delivery fee
//	platform = commission
//
// The three parts always add up to the order total.
type PayoutSplitter struct{}

func NewPayoutSplitter() PayoutSplitter {
	return PayoutSplitter{}
}

func (PayoutSplitter) SplitOrder(o *order.Order) (Payout, error) {
	if err := o.Validate(); err != nil {
		return Payout{}, err
	}
	return PayoutSplitter{}.Split(o.Total(), o.DeliveryFee(), o.Commission())
}

// Split works on raw amounts, for read models that never load the aggregate.
func (PayoutSplitter) Split(total, deliveryFee, commission kernel.Money) (Payout, error) {
	afterFee, err := total.Sub(deliveryFee)
	if err != nil {
		return Payout{}, errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("fee %s exceeds total %s", deliveryFee, total))
	}
	store, err := afterFee.Sub(commission)
	if err != nil {
		return Payout{}, errs.NewValueIsInvalidErrorWithCause("commission",
			fmt.Errorf("commission %s exceeds goods value %s", commission, afterFee))
	}
	return Payout{Store: store, Rider: deliveryFee, Platform: commission}, nil
}
