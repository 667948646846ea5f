// Package catalogrepo reads stores and products from the catalog tables that
// placement prices against. The catalog service owns and writes these rows.
package catalogrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	IsApproved bool      `gorm:"not null;default:false"`
	IsActive   bool      `gorm:"not null"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

type ProductDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsAvailable   bool            `gorm:"not null"`
	StockQuantity int             `gorm:"type:int;not null;default:0"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormCatalog implements ports.Catalog using GORM.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetStore(ctx context.Context, id kernel.UUID) (catalog.Store, error) {
	if err := id.Validate(); err != nil {
		return catalog.Store{}, err
	}

	var dto StoreDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Store{}, errs.NewObjectNotFoundError("store", id.String())
		}
		return catalog.Store{}, err
	}

	return catalog.Store{ID: id, Name: dto.Name, Approved: dto.IsApproved, Active: dto.IsActive}, nil
}

func (c *GormCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error) {
	products := make(map[kernel.UUID]catalog.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := c.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		product, err := toProduct(dto)
		if err != nil {
			return nil, err
		}
		products[product.ID] = product
	}

	return products, nil
}

func toProduct(dto ProductDTO) (catalog.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return catalog.Product{}, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return catalog.Product{}, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.Product{
		ID:            id,
		StoreID:       storeID,
		Name:          dto.Name,
		Price:         price,
		Available:     dto.IsAvailable,
		StockQuantity: dto.StockQuantity,
	}, nil
}
