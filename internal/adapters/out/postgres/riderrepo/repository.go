package riderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

const activeDeliveryExists = "EXISTS (SELECT 1 FROM orders WHERE orders.rider_id = riders.id AND orders.status IN ?)"

// GormRiderRepository implements ports.RiderRepository using GORM.
type GormRiderRepository struct {
	db *gorm.DB
}

// NewGormRiderRepository creates a new GORM rider repository.
func NewGormRiderRepository(db *gorm.DB) *GormRiderRepository {
	return &GormRiderRepository{db: db}
}

// Add saves a new rider to the database.
func (r *GormRiderRepository) Add(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("rider", aggregate.ID(), "rider is already registered", err)
		}
		return err
	}

	return nil
}

// Get retrieves a rider by ID.
func (r *GormRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RiderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update saves name and approval. Availability and the delivery counter have
// their own conditional writers.
func (r *GormRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RiderDTO{}).Where("id = ?", dto.ID).
		Select("name", "is_approved").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rider", aggregate.ID().String())
	}

	return nil
}

// HasActiveDelivery reports whether the rider holds an assigned or out for
// delivery order.
func (r *GormRiderRepository) HasActiveDelivery(ctx context.Context, id kernel.UUID) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM orders WHERE rider_id = ? AND status IN ?)", id.Bytes(), activeStatuses()).
		Scan(&exists).Error
	return exists, err
}

// SaveAvailability writes is_available. Switching it on is refused in the
// same statement when the rider holds an active delivery.
func (r *GormRiderRepository) SaveAvailability(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	query := r.db.WithContext(ctx).Model(&RiderDTO{}).Where("id = ?", aggregate.ID().Bytes())
	if aggregate.IsAvailable() {
		query = query.Where("NOT "+activeDeliveryExists, activeStatuses())
	}

	result := query.Update("is_available", aggregate.IsAvailable())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConflictError("rider", aggregate.ID(), "rider has an active delivery")
	}

	return nil
}

// RecordDelivery increments total_deliveries in place and frees the rider.
func (r *GormRiderRepository) RecordDelivery(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&RiderDTO{}).Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"total_deliveries": gorm.Expr("total_deliveries + 1"),
			"is_available":     true,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rider", aggregate.ID().String())
	}

	return nil
}

// MarkBusyUnavailable fixes riders left available while holding a delivery.
func (r *GormRiderRepository) MarkBusyUnavailable(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&RiderDTO{}).
		Where("is_available").
		Where(activeDeliveryExists, activeStatuses()).
		Update("is_available", false)
	return result.RowsAffected, result.Error
}

func activeStatuses() []int {
	return []int{int(order.RiderAssigned), int(order.OutForDelivery)}
}
