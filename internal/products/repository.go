package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiatumarket/kiatu-backend/internal/repo"
	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
)

// Repository is the product catalog.
type Repository struct {
	base repo.Base
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Create persists a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.base.DB(ctx).Omit("Vendor").Create(product).Error
}

// GetByID loads a product regardless of its active flag.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return repo.FindByID[models.Product](ctx, r.base, "product", id)
}

// ListByIDs returns the products matching ids keyed by id. Unknown ids are
// absent from the result.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.base.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
