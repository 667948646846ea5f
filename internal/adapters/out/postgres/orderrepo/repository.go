package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order together with its items. A taken number is reported
// as order.ErrNumberTaken and leaves the surrounding transaction usable, so
// the caller can renumber and call Add again.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	// nested Transaction runs under a savepoint when r.db is already a transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "number"}}, DoNothing: true}).
			Create(&dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %w", order.ErrNumberTaken,
				errs.NewConflictError("order number", dto.Number, "order number already taken"))
		}
		if len(dto.Items) == 0 {
			return nil
		}
		return tx.Create(&dto.Items).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictErrorWithCause("order", aggregate.ID(), "order already exists", err)
	}
	return err
}

// Update writes the lifecycle columns only while the row still matches
// expected. Zero affected rows means another writer moved the order first.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Precondition) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Where("status = ?", int(expected.Status))

	if expected.RiderID == nil {
		query = query.Where("rider_id IS NULL")
	} else {
		query = query.Where("rider_id = ?", expected.RiderID.Bytes())
	}

	if claimed := aggregate.RiderID(); claimed != nil && expected.RiderID == nil {
		// serialises claims by the same rider until the transaction ends
		if err := r.db.WithContext(ctx).
			Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", claimed.String()).Error; err != nil {
			return err
		}
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM orders AS held WHERE held.rider_id = ? AND held.status IN ?)",
			claimed.Bytes(), activeStatuses(),
		)
	}

	result := query.Updates(map[string]any{
		"status":              dto.Status,
		"rider_id":            dto.RiderID,
		"accepted_at":         dto.AcceptedAt,
		"rider_assigned_at":   dto.RiderAssignedAt,
		"out_for_delivery_at": dto.OutForDeliveryAt,
		"delivered_at":        dto.DeliveredAt,
		"cancelled_at":        dto.CancelledAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID(),
			"order is no longer "+expected.Status.String()+" or is held by someone else")
	}

	return nil
}

// Get retrieves an order by ID with its items in placement order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func activeStatuses() []int {
	return []int{int(order.RiderAssigned), int(order.OutForDelivery)}
}
