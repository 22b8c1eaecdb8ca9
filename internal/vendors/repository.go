package vendors

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiatumarket/kiatu-backend/internal/repo"
	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
)

// Repository is the vendor directory.
type Repository struct {
	base repo.Base
}

// NewRepository binds a GORM DB to vendor operations.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Create persists a new vendor row.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	return r.base.DB(ctx).Create(vendor).Error
}

// GetByID loads a vendor by its UUID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return repo.FindByID[models.Vendor](ctx, r.base, "vendor", id)
}
