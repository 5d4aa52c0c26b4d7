package models

import (
	"time"

	"github.com/google/uuid"
)

// Prices are stored in kuruş. The JSON shape exposes TL as a float because
// that is what the storefront renders.
type Product struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string           `json:"sku" gorm:"uniqueIndex;not null"`
	Name        string           `json:"name" gorm:"not null"`
	Description string           `json:"description"`
	Category    string           `json:"category" gorm:"index"`
	Region      string           `json:"region" gorm:"index"`
	BasePrice   int64            `json:"base_price" gorm:"not null"`
	Active      bool             `json:"active" gorm:"default:true"`
	Variants    []ProductVariant `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

type ProductVariant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	SizeLabel string    `json:"size_label" gorm:"not null"`
	Price     int64     `json:"price"` // 0 means "use the product base price"
	Stock     int       `json:"stock" gorm:"not null;default:0"`
}

// EffectivePrice resolves the variant price override against the product base
// price.
func (v ProductVariant) EffectivePrice(p *Product) int64 {
	if v.Price > 0 {
		return v.Price
	}
	return p.BasePrice
}

// ProductFilters narrows catalog listings.
type ProductFilters struct {
	Category string
	Region   string
}
