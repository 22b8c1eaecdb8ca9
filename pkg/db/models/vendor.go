package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a seller on the marketplace. Region is the county the vendor ships
// from and may be unset for vendors who never completed onboarding.
type Vendor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Region    *string   `gorm:"column:region"`
	Phone     *string   `gorm:"column:phone"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
