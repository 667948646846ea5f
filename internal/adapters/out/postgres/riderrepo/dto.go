// Package riderrepo provides data transfer objects and the GORM repository for
// the rider aggregate.
package riderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO represents the database structure for persisting rider aggregates.
type RiderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null"`
	IsApproved      bool      `gorm:"not null;default:false"`
	IsAvailable     bool      `gorm:"not null;default:false;index"`
	TotalDeliveries int       `gorm:"type:int;not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for rider entities.
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider domain aggregate to its database representation.
func fromDomain(r *rider.Rider) RiderDTO {
	return RiderDTO{
		ID:              r.ID().Bytes(),
		Name:            r.Name(),
		IsApproved:      r.IsApproved(),
		IsAvailable:     r.IsAvailable(),
		TotalDeliveries: r.TotalDeliveries(),
	}
}

// toDomain converts a database DTO to a rider domain aggregate.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return rider.RestoreRider(id, dto.Name, dto.IsApproved, dto.IsAvailable, dto.TotalDeliveries)
}
