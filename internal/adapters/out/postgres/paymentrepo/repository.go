// Package paymentrepo persists the payment opened for each order.
package paymentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentDTO represents the database structure for persisting payments.
type PaymentDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Handle           string          `gorm:"type:varchar(255);not null"`
	GatewayPaymentID string          `gorm:"type:varchar(255)"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status           string          `gorm:"type:varchar(16);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	PaidAt           *time.Time
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:               p.ID().Bytes(),
		OrderID:          p.OrderID().Bytes(),
		Handle:           p.Handle(),
		GatewayPaymentID: p.GatewayPaymentID(),
		Amount:           p.Amount().Decimal(),
		Status:           string(p.Status()),
		CreatedAt:        p.CreatedAt(),
		PaidAt:           p.PaidAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}
	return payment.RestorePayment(payment.State{
		ID:               id,
		OrderID:          orderID,
		Handle:           dto.Handle,
		GatewayPaymentID: dto.GatewayPaymentID,
		Amount:           amount,
		Status:           payment.Status(dto.Status),
		CreatedAt:        dto.CreatedAt,
		PaidAt:           dto.PaidAt,
	})
}


// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("payment", aggregate.OrderID(), "order already has a payment", err)
		}
		return err
	}

	return nil
}

func (r *GormPaymentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// MarkPaid flips PENDING to PAID only if the row is still PENDING.
func (r *GormPaymentRepository) MarkPaid(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(payment.StatusPending)).
		Updates(map[string]any{
			"status":             dto.Status,
			"gateway_payment_id": dto.GatewayPaymentID,
			"paid_at":            dto.PaidAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("payment", aggregate.ID(), "payment is no longer pending")
	}

	return nil
}
