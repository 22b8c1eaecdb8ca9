package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
)

// Store persists one JSON document per buyer.
type Store interface {
	LoadCart(ctx context.Context, buyerID string) (string, bool, error)
	SaveCart(ctx context.Context, buyerID, payload string, ttl time.Duration) error
	DeleteCart(ctx context.Context, buyerID string) error
}

type productReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service owns the load, mutate and persist cycle for each buyer's cart.
type Service interface {
	Get(ctx context.Context, buyerID uuid.UUID) (*View, error)
	Load(ctx context.Context, buyerID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, buyerID uuid.UUID, input AddItemInput) (*View, error)
	RemoveItem(ctx context.Context, buyerID uuid.UUID, input ItemKeyInput) (*View, error)
	UpdateQuantity(ctx context.Context, buyerID uuid.UUID, input UpdateQuantityInput) (*View, error)
	UpdateSize(ctx context.Context, buyerID uuid.UUID, input UpdateSizeInput) (*View, error)
	UpdateColor(ctx context.Context, buyerID uuid.UUID, input UpdateColorInput) (*View, error)
	Refresh(ctx context.Context, buyerID uuid.UUID) (*View, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
	Checkout(ctx context.Context, buyerID uuid.UUID, fn func(c *Cart) error) error
}

// AddItemInput selects a catalog product and variant. Quantity 0 means 1.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// ItemKeyInput addresses a line by its identity.
type ItemKeyInput struct {
	ProductID string
	Size      string
	Color     string
}

type UpdateQuantityInput struct {
	ItemKeyInput
	Quantity int
}

type UpdateSizeInput struct {
	ProductID string
	Color     string
	OldSize   string
	NewSize   string
}

type UpdateColorInput struct {
	ProductID string
	Size      string
	OldColor  string
	NewColor  string
}

type service struct {
	store   Store
	catalog productReader
	metrics *metrics.CartMetrics
	logg    *logger.Logger
	ttl     time.Duration
	locks   *buyerLocks
}

// NewService wires the cart service. ttl bounds how long an untouched cart is kept.
func NewService(store Store, catalog productReader, m *metrics.CartMetrics, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("cart ttl must not be negative")
	}
	return &service{
		store:   store,
		catalog: catalog,
		metrics: m,
		logg:    logg,
		ttl:     ttl,
		locks:   newBuyerLocks(),
	}, nil
}

func (s *service) Get(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	c, err := s.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return NewView(c), nil
}

// Load hydrates the stored cart. A missing document is an empty cart.
func (s *service) Load(ctx context.Context, buyerID uuid.UUID) (*Cart, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer id required")
	}
	raw, found, err := s.store.LoadCart(ctx, buyerID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if !found {
		return New(), nil
	}
	return Hydrate(raw), nil
}

func (s *service) AddItem(ctx context.Context, buyerID uuid.UUID, input AddItemInput) (*View, error) {
	product, err := s.catalog.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	item, err := lineItemFromProduct(product, input)
	if err != nil {
		return nil, err
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = MinQuantity
	}

	return s.mutate(ctx, buyerID, enums.CartOperationAdd, func(c *Cart) error {
		if err := c.AddItem(item, quantity); err != nil {
			return s.mapAddError(ctx, err)
		}
		if total := c.ProductQuantity(item.ProductID); total > product.Stock {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "only %d of %s left", product.Stock, product.Name).
				WithDetails(map[string]any{"available": product.Stock, "requested": total})
		}
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, buyerID uuid.UUID, input ItemKeyInput) (*View, error) {
	return s.mutate(ctx, buyerID, enums.CartOperationRemove, func(c *Cart) error {
		c.RemoveItem(input.ProductID, input.Size, input.Color)
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, buyerID uuid.UUID, input UpdateQuantityInput) (*View, error) {
	return s.mutate(ctx, buyerID, enums.CartOperationUpdateQuantity, func(c *Cart) error {
		c.UpdateQuantity(input.ProductID, input.Quantity, input.Size, input.Color)
		return nil
	})
}

func (s *service) UpdateSize(ctx context.Context, buyerID uuid.UUID, input UpdateSizeInput) (*View, error) {
	return s.mutate(ctx, buyerID, enums.CartOperationUpdateSize, func(c *Cart) error {
		item, ok := c.Find(Key{ProductID: input.ProductID, Size: input.OldSize, Color: input.Color})
		if ok && input.NewSize != "" && len(item.AvailableSizes) > 0 && !contains(item.AvailableSizes, input.NewSize) {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "size %s is not available for %s", input.NewSize, item.Name).
				WithDetails(map[string]any{"available_sizes": item.AvailableSizes})
		}
		c.UpdateSize(input.ProductID, input.NewSize, input.OldSize, input.Color)
		return nil
	})
}

func (s *service) UpdateColor(ctx context.Context, buyerID uuid.UUID, input UpdateColorInput) (*View, error) {
	return s.mutate(ctx, buyerID, enums.CartOperationUpdateColor, func(c *Cart) error {
		item, ok := c.Find(Key{ProductID: input.ProductID, Size: input.Size, Color: input.OldColor})
		if ok && input.NewColor != "" && len(item.AvailableColors) > 0 && !contains(item.AvailableColors, input.NewColor) {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "color %s is not available for %s", input.NewColor, item.Name).
				WithDetails(map[string]any{"available_colors": item.AvailableColors})
		}
		c.UpdateColor(input.ProductID, input.NewColor, input.Size, input.OldColor)
		return nil
	})
}

// Refresh re-reads every product in the cart, updating prices and variant
// snapshots. Products that were removed or deactivated are dropped.
func (s *service) Refresh(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	return s.mutate(ctx, buyerID, enums.CartOperationRefresh, func(c *Cart) error {
		for _, rawID := range c.ProductIDs() {
			productID, err := uuid.Parse(rawID)
			if err != nil {
				c.RemoveProduct(rawID)
				continue
			}
			product, err := s.catalog.GetByID(ctx, productID)
			switch {
			case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
				c.RemoveProduct(rawID)
				continue
			case err != nil:
				return err
			case !product.IsActive:
				c.RemoveProduct(rawID)
				continue
			}
			c.ApplySnapshot(rawID, snapshotFromProduct(product))
		}
		return nil
	})
}

// Clear drops the stored document. A missing document loads as an empty cart.
func (s *service) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer id required")
	}
	unlock := s.locks.Lock(buyerID.String())
	defer unlock()

	if err := s.store.DeleteCart(ctx, buyerID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncMutation(enums.CartOperationClear)
	return nil
}

// Checkout hands the stored cart to fn while holding the buyer's lock and
// deletes it once fn succeeds, so no mutation can land between reading the
// cart and clearing it. A failed delete after fn succeeded wraps
// ErrCheckoutClear.
func (s *service) Checkout(ctx context.Context, buyerID uuid.UUID, fn func(c *Cart) error) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer id required")
	}
	unlock := s.locks.Lock(buyerID.String())
	defer unlock()

	c, err := s.Load(ctx, buyerID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := s.store.DeleteCart(ctx, buyerID.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckoutClear, err)
	}
	s.metrics.IncMutation(enums.CartOperationCheckout)
	return nil
}

func (s *service) mutate(ctx context.Context, buyerID uuid.UUID, op enums.CartOperation, fn func(c *Cart) error) (*View, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer id required")
	}
	unlock := s.locks.Lock(buyerID.String())
	defer unlock()

	c, err := s.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}

	payload, err := c.Marshal()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.SaveCart(ctx, buyerID.String(), payload, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	s.metrics.IncMutation(op)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"cart_op":    op.String(),
		"line_count": c.Len(),
	}), "cart updated")
	return NewView(c), nil
}

func (s *service) mapAddError(ctx context.Context, err error) error {
	var conflict *VendorConflictError
	switch {
	case errors.As(err, &conflict):
		s.metrics.IncVendorConflict()
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"cart_vendor_id": conflict.CartVendorID,
			"item_vendor_id": conflict.ItemVendorID,
		}), "cart vendor conflict")
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart contains items from another vendor").
			WithDetails(map[string]any{
				"cart_vendor_id": conflict.CartVendorID,
				"item_vendor_id": conflict.ItemVendorID,
			})
	case errors.Is(err, ErrVendorRequired), errors.Is(err, ErrProductRequired):
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog product is missing identifiers")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
}

func lineItemFromProduct(product *models.Product, input AddItemInput) (LineItem, error) {
	if !product.Purchasable() {
		return LineItem{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is out of stock", product.Name)
	}
	size := strings.TrimSpace(input.Size)
	color := strings.TrimSpace(input.Color)
	if !product.OffersSize(size) {
		return LineItem{}, pkgerrors.Newf(pkgerrors.CodeValidation, "size %s is not available for %s", size, product.Name).
			WithDetails(map[string]any{"available_sizes": []string(product.AvailableSizes)})
	}
	if !product.OffersColor(color) {
		return LineItem{}, pkgerrors.Newf(pkgerrors.CodeValidation, "color %s is not available for %s", color, product.Name).
			WithDetails(map[string]any{"available_colors": []string(product.AvailableColors)})
	}

	snap := snapshotFromProduct(product)
	return LineItem{
		ProductID:       product.ID.String(),
		VendorID:        product.VendorID.String(),
		Name:            snap.Name,
		UnitPrice:       snap.UnitPrice,
		Image:           snap.Image,
		Size:            size,
		Color:           color,
		AvailableSizes:  snap.AvailableSizes,
		AvailableColors: snap.AvailableColors,
	}, nil
}

func snapshotFromProduct(product *models.Product) Snapshot {
	var image string
	if product.ImageURL != nil {
		image = *product.ImageURL
	}
	return Snapshot{
		Name:            product.Name,
		UnitPrice:       product.PriceKES,
		Image:           image,
		AvailableSizes:  []string(product.AvailableSizes),
		AvailableColors: []string(product.AvailableColors),
	}
}
