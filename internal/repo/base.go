package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiatumarket/kiatu-backend/pkg/db"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(conn *gorm.DB) Base {
	return Base{db: conn}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a Base bound to tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// FindByID loads a single row of T. A missing row becomes a NOT_FOUND error
// naming resource; any other failure is a dependency error.
func FindByID[T any](ctx context.Context, b Base, resource string, id uuid.UUID) (*T, error) {
	if b.db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
	}
	var row T
	if err := b.DB(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", resource))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load %s", resource))
	}
	return &row, nil
}
