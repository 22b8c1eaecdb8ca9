package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/api/validators"
	"github.com/kiatumarket/kiatu-backend/internal/checkout"
	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/pagination"
	"github.com/kiatumarket/kiatu-backend/pkg/types"
)

type checkoutQuoteRequest struct {
	BuyerRegion string `json:"buyer_region" validate:"max=64"`
	IsPickup    bool   `json:"is_pickup"`
}

type placeOrderRequest struct {
	BuyerRegion     string         `json:"buyer_region" validate:"max=64"`
	IsPickup        bool           `json:"is_pickup"`
	ShippingAddress *types.Address `json:"shipping_address"`
}

type orderItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Size      *string   `json:"size,omitempty"`
	Color     *string   `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	LineTotal int64     `json:"line_total"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	VendorID        uuid.UUID           `json:"vendor_id"`
	Status          enums.OrderStatus   `json:"status"`
	IsPickup        bool                `json:"is_pickup"`
	BuyerRegion     string              `json:"buyer_region,omitempty"`
	DeliveryZone    enums.DeliveryZone  `json:"delivery_zone"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	Subtotal        int64               `json:"subtotal"`
	DeliveryFee     int64               `json:"delivery_fee"`
	Total           int64               `json:"total"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPriceKES,
			LineTotal: item.LineTotalKES,
		})
	}
	return orderResponse{
		ID:              order.ID,
		VendorID:        order.VendorID,
		Status:          order.Status,
		IsPickup:        order.IsPickup,
		BuyerRegion:     order.BuyerRegion,
		DeliveryZone:    order.DeliveryZone,
		ShippingAddress: order.ShippingAddress,
		Subtotal:        order.SubtotalKES,
		DeliveryFee:     order.DeliveryFeeKES,
		Total:           order.TotalKES,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), buyerID, checkout.QuoteInput{
			BuyerRegion: payload.BuyerRegion,
			IsPickup:    payload.IsPickup,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutPlaceOrder converts the buyer's cart into an order awaiting payment.
func CheckoutPlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), buyerID, checkout.PlaceOrderInput{
			BuyerRegion:     payload.BuyerRegion,
			IsPickup:        payload.IsPickup,
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

func OrderGet(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUID("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), buyerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderList pages through the buyer's orders using limit and cursor query parameters.
func OrderList(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryUint(r, "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if limit > pagination.MaxLimit {
			limit = pagination.MaxLimit
		}

		page, err := svc.ListOrders(r.Context(), buyerID, pagination.Params{
			Limit:  int(limit),
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListResponse{Orders: make([]orderResponse, 0, len(page.Orders)), NextCursor: page.NextCursor}
		for i := range page.Orders {
			out.Orders = append(out.Orders, newOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
