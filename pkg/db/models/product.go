package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a vendor's shoe listing.
type Product struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null"`
	Name            string         `gorm:"column:name;not null"`
	Description     *string        `gorm:"column:description"`
	PriceKES        int64          `gorm:"column:price_kes;not null"`
	Stock           int            `gorm:"column:stock;not null;default:0"`
	AvailableSizes  pq.StringArray `gorm:"column:available_sizes;type:text[];not null;default:'{}'"`
	AvailableColors pq.StringArray `gorm:"column:available_colors;type:text[];not null;default:'{}'"`
	ImageURL        *string        `gorm:"column:image_url"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	Vendor          *Vendor        `gorm:"foreignKey:VendorID"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchasable reports whether the listing can be added to a cart.
func (p *Product) Purchasable() bool {
	return p != nil && p.IsActive && p.Stock > 0
}

// OffersSize reports whether size is allowed. A product without declared sizes accepts any.
func (p *Product) OffersSize(size string) bool {
	return offers(p.AvailableSizes, size)
}

// OffersColor reports whether color is allowed. A product without declared colors accepts any.
func (p *Product) OffersColor(color string) bool {
	return offers(p.AvailableColors, color)
}

func offers(options []string, value string) bool {
	if value == "" || len(options) == 0 {
		return true
	}
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
