package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListClaimableOrdersQueryHandler reads the dispatch board.
type ListClaimableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListClaimableOrdersQueryHandler(db *gorm.DB) ListClaimableOrdersQueryHandler {
	return ListClaimableOrdersQueryHandler{db: db}
}

func (h ListClaimableOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListClaimableOrdersQuery,
) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if rider := query.Rider(); rider != nil {
		var approved bool
		err := h.db.WithContext(ctx).Raw("SELECT is_approved FROM riders WHERE id = ?", rider.ID().Bytes()).
			Row().Scan(&approved)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if !approved {
			return nil, errs.NewNotPermittedError("rider", "rider is not approved")
		}
	}

	tx := h.db.WithContext(ctx).Table("orders").Select(orderColumns).
		Where("status = ? AND rider_id IS NULL", int(order.Accepted))
	if before := query.AcceptedBefore(); !before.IsZero() {
		tx = tx.Where("accepted_at <= ?", before)
	}

	var rows []orderRow
	if err := tx.Order("accepted_at ASC").Order("id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	return viewsWithItems(ctx, h.db, rows, false)
}
