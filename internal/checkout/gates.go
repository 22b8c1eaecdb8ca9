package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/internal/cart"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
)

// checkGates runs the checkout preconditions in the order the storefront
// surfaces them: empty cart, missing sizes, missing colors, stale sizes.
func checkGates(c *cart.Cart) error {
	if c.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !c.HasAllSizes() {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a size for every item").
			WithDetails(map[string]any{"product_ids": productIDs(c.Items(), cart.LineItem.NeedsSize)})
	}
	if !c.HasAllColors() {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a color for every item").
			WithDetails(map[string]any{"product_ids": productIDs(c.Items(), cart.LineItem.NeedsColor)})
	}
	if !c.HasAllValidSizes() {
		invalid := c.InvalidSizeItems()
		messages := make([]string, 0, len(invalid))
		for _, item := range invalid {
			messages = append(messages, fmt.Sprintf("size %s is no longer available for %s, try another vendor", item.Size, item.Name))
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, strings.Join(messages, "; ")).
			WithDetails(map[string]any{
				"messages":    messages,
				"product_ids": productIDs(invalid, nil),
			})
	}
	return nil
}

// checkStock re-reads every product inside the order transaction.
func checkStock(ctx context.Context, stock StockReader, items []cart.LineItem) error {
	wanted := make(map[uuid.UUID]int, len(items))
	names := make(map[uuid.UUID]string, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart product id is not a uuid")
		}
		if _, seen := wanted[id]; !seen {
			ids = append(ids, id)
		}
		wanted[id] += item.Quantity
		names[id] = item.Name
	}

	products, err := stock.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		product, ok := products[id]
		if !ok || !product.IsActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is no longer available", names[id]).
				WithDetails(map[string]any{"product_id": id.String()})
		}
		if product.Stock < wanted[id] {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "only %d of %s left", product.Stock, product.Name).
				WithDetails(map[string]any{"product_id": id.String(), "available": product.Stock})
		}
	}
	return nil
}

func productIDs(items []cart.LineItem, keep func(cart.LineItem) bool) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if keep != nil && !keep(item) {
			continue
		}
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		out = append(out, item.ProductID)
	}
	return out
}
