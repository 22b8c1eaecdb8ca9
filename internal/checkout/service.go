package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiatumarket/kiatu-backend/internal/cart"
	"github.com/kiatumarket/kiatu-backend/internal/delivery"
	"github.com/kiatumarket/kiatu-backend/internal/orders"
	"github.com/kiatumarket/kiatu-backend/pkg/db"
	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/pagination"
	"github.com/kiatumarket/kiatu-backend/pkg/types"
)

type cartStore interface {
	Load(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error)
	Checkout(ctx context.Context, buyerID uuid.UUID, fn func(c *cart.Cart) error) error
}

type deliveryQuoter interface {
	Quote(ctx context.Context, input delivery.QuoteInput) (delivery.Result, error)
}

type orderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*orders.Page, error)
}

// OrderWriter persists an order inside the checkout transaction.
type OrderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

// StockReader re-reads catalog rows inside the checkout transaction.
type StockReader interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// TxRepositories binds the order writer and stock reader to tx.
type TxRepositories func(tx *gorm.DB) (OrderWriter, StockReader)

// Service turns a buyer's cart into a delivery quote and a placed order.
type Service interface {
	Quote(ctx context.Context, buyerID uuid.UUID, input QuoteInput) (*Quote, error)
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*orders.Page, error)
}

type QuoteInput struct {
	BuyerRegion string
	IsPickup    bool
}

// PlaceOrderInput requires a shipping address unless the buyer collects the
// order. The address region stands in for a missing buyer region.
type PlaceOrderInput struct {
	BuyerRegion     string
	IsPickup        bool
	ShippingAddress *types.Address
}

// Quote is the priced cart.
type Quote struct {
	VendorID       string             `json:"vendor_id"`
	Items          []cart.ItemView    `json:"items"`
	TotalQuantity  int                `json:"total_quantity"`
	SubtotalKES    int64              `json:"subtotal"`
	Zone           enums.DeliveryZone `json:"zone"`
	DeliveryFeeKES int64              `json:"delivery_fee"`
	TotalKES       int64              `json:"total"`

	snapshot []cart.LineItem
}

type service struct {
	tx       db.TxRunner
	carts    cartStore
	delivery deliveryQuoter
	orders   orderReader
	repos    TxRepositories
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(tx db.TxRunner, carts cartStore, quoter deliveryQuoter, orderRepo orderReader, repos TxRepositories, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if quoter == nil {
		return nil, fmt.Errorf("delivery quoter required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if repos == nil {
		return nil, fmt.Errorf("tx repositories required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		carts:    carts,
		delivery: quoter,
		orders:   orderRepo,
		repos:    repos,
		logg:     logg,
	}, nil
}

func (s *service) Quote(ctx context.Context, buyerID uuid.UUID, input QuoteInput) (*Quote, error) {
	c, err := s.carts.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return s.quoteCart(ctx, c, input)
}

func (s *service) quoteCart(ctx context.Context, c *cart.Cart, input QuoteInput) (*Quote, error) {
	if err := checkGates(c); err != nil {
		return nil, err
	}

	region := strings.TrimSpace(input.BuyerRegion)
	if region == "" && !input.IsPickup {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer region is required")
	}

	quoteInput := delivery.QuoteInput{BuyerRegion: region, IsPickup: input.IsPickup}
	if vendorID, err := uuid.Parse(c.VendorID()); err == nil {
		quoteInput.VendorID = &vendorID
	}
	result, err := s.delivery.Quote(ctx, quoteInput)
	if err != nil {
		return nil, err
	}

	view := cart.NewView(c)
	return &Quote{
		VendorID:       view.VendorID,
		Items:          view.Items,
		TotalQuantity:  view.TotalQuantity,
		SubtotalKES:    view.Subtotal,
		Zone:           result.Zone,
		DeliveryFeeKES: result.FeeKES,
		TotalKES:       view.Subtotal + result.FeeKES,
		snapshot:       c.Items(),
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	region := strings.TrimSpace(input.BuyerRegion)
	if input.ShippingAddress != nil {
		if err := validateAddress(input.ShippingAddress); err != nil {
			return nil, err
		}
		if region == "" {
			region = strings.TrimSpace(input.ShippingAddress.Region)
		}
	} else if !input.IsPickup {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	// The cart stays locked from quote to clear, so concurrent edits or a
	// duplicate submit wait and then see the emptied cart.
	var order *models.Order
	err := s.carts.Checkout(ctx, buyerID, func(c *cart.Cart) error {
		quote, err := s.quoteCart(ctx, c, QuoteInput{BuyerRegion: region, IsPickup: input.IsPickup})
		if err != nil {
			return err
		}
		built, err := buildOrder(buyerID, region, input, quote)
		if err != nil {
			return err
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			writer, stock := s.repos(tx)
			if err := checkStock(ctx, stock, quote.snapshot); err != nil {
				return err
			}
			if err := writer.Create(ctx, built); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}
			return nil
		})
		if err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil && (order == nil || !errors.Is(err, cart.ErrCheckoutClear)) {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":  order.ID.String(),
		"vendor_id": order.VendorID.String(),
		"zone":      order.DeliveryZone.String(),
		"total_kes": order.TotalKES,
	})
	s.logg.Info(logCtx, "order placed")
	if err != nil {
		s.logg.Error(logCtx, "failed to clear cart after order", err)
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ListOrders returns the buyer's order history, newest first.
func (s *service) ListOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*orders.Page, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer required")
	}
	return s.orders.ListByBuyer(ctx, buyerID, params)
}

func buildOrder(buyerID uuid.UUID, region string, input PlaceOrderInput, quote *Quote) (*models.Order, error) {
	vendorID, err := uuid.Parse(quote.VendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart vendor id is not a uuid")
	}

	items := make([]models.OrderItem, 0, len(quote.snapshot))
	for _, line := range quote.snapshot {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart product id is not a uuid")
		}
		items = append(items, models.OrderItem{
			ProductID:    productID,
			Name:         line.Name,
			Size:         optional(line.Size),
			Color:        optional(line.Color),
			Quantity:     line.Quantity,
			UnitPriceKES: line.UnitPrice,
			LineTotalKES: line.LineTotal(),
		})
	}

	order := &models.Order{
		ID:             uuid.New(),
		BuyerID:        buyerID,
		VendorID:       vendorID,
		Status:         enums.OrderStatusAwaitingPayment,
		IsPickup:       input.IsPickup,
		BuyerRegion:    region,
		DeliveryZone:   quote.Zone,
		SubtotalKES:    quote.SubtotalKES,
		DeliveryFeeKES: quote.DeliveryFeeKES,
		TotalKES:       quote.TotalKES,
		Items:          items,
	}
	if input.ShippingAddress != nil {
		addr := *input.ShippingAddress
		if strings.TrimSpace(addr.Country) == "" {
			addr.Country = types.DefaultCountry
		}
		order.ShippingAddress = &addr
	}
	return order, nil
}

func validateAddress(addr *types.Address) error {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(addr.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(addr.Region) == "" {
		missing = append(missing, "region")
	}
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
		WithDetails(map[string]any{"missing": missing})
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
