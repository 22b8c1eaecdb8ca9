package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	"github.com/kiatumarket/kiatu-backend/pkg/types"
)

// Order is a placed single-vendor order. Escrow collection and every status
// after awaiting_payment are handled outside this service.
type Order struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID         uuid.UUID          `gorm:"column:buyer_id;type:uuid;not null"`
	VendorID        uuid.UUID          `gorm:"column:vendor_id;type:uuid;not null"`
	Status          enums.OrderStatus  `gorm:"column:status;type:order_status;not null;default:'awaiting_payment'"`
	IsPickup        bool               `gorm:"column:is_pickup;not null;default:false"`
	BuyerRegion     string             `gorm:"column:buyer_region;not null;default:''"`
	DeliveryZone    enums.DeliveryZone `gorm:"column:delivery_zone;type:delivery_zone;not null"`
	ShippingAddress *types.Address     `gorm:"column:shipping_address;type:delivery_address_t"`
	SubtotalKES     int64              `gorm:"column:subtotal_kes;not null"`
	DeliveryFeeKES  int64              `gorm:"column:delivery_fee_kes;not null;default:0"`
	TotalKES        int64              `gorm:"column:total_kes;not null"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one cart line at the time the order was placed.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name         string    `gorm:"column:name;not null"`
	Size         *string   `gorm:"column:size"`
	Color        *string   `gorm:"column:color"`
	Quantity     int       `gorm:"column:quantity;not null"`
	UnitPriceKES int64     `gorm:"column:unit_price_kes;not null"`
	LineTotalKES int64     `gorm:"column:line_total_kes;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
