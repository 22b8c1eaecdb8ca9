package cart

import (
	"encoding/json"
	"strings"
)

// Marshal encodes the cart as the JSON array persisted per buyer.
func (c *Cart) Marshal() (string, error) {
	c.mustBeProvisioned()
	data, err := json.Marshal(c.items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// storedItem mirrors LineItem with pointers so absent fields can be told apart
// from zero values.
type storedItem struct {
	ProductID       *string  `json:"product_id"`
	VendorID        *string  `json:"vendor_id"`
	Name            string   `json:"name"`
	UnitPrice       *int64   `json:"unit_price"`
	Image           string   `json:"image"`
	Quantity        *int     `json:"quantity"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
	AvailableSizes  []string `json:"available_sizes"`
	AvailableColors []string `json:"available_colors"`
}

// Hydrate rebuilds a cart from persisted JSON. It never fails: input that is
// not a JSON array yields an empty cart, and entries that are not objects,
// lack a product or vendor id, or carry a negative price are dropped.
// Quantities are clamped, entries from a vendor other than the first kept
// entry's are dropped, and duplicate keys are merged.
func Hydrate(raw string) *Cart {
	c := New()
	if strings.TrimSpace(raw) == "" {
		return c
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return c
	}

	for _, entry := range entries {
		item, ok := decodeStoredItem(entry)
		if !ok {
			continue
		}
		if vendor := c.VendorID(); vendor != "" && vendor != item.VendorID {
			continue
		}
		if idx := c.indexOf(item.Key()); idx >= 0 {
			c.items[idx].Quantity = clampQuantity(c.items[idx].Quantity + item.Quantity)
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

func decodeStoredItem(raw json.RawMessage) (LineItem, bool) {
	var stored storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return LineItem{}, false
	}
	if stored.ProductID == nil || strings.TrimSpace(*stored.ProductID) == "" {
		return LineItem{}, false
	}
	if stored.VendorID == nil || strings.TrimSpace(*stored.VendorID) == "" {
		return LineItem{}, false
	}

	var price int64
	if stored.UnitPrice != nil {
		price = *stored.UnitPrice
	}
	if price < 0 {
		return LineItem{}, false
	}

	quantity := MinQuantity
	if stored.Quantity != nil {
		quantity = clampQuantity(*stored.Quantity)
	}

	return LineItem{
		ProductID:       strings.TrimSpace(*stored.ProductID),
		VendorID:        strings.TrimSpace(*stored.VendorID),
		Name:            stored.Name,
		UnitPrice:       price,
		Image:           stored.Image,
		Quantity:        quantity,
		Size:            stored.Size,
		Color:           stored.Color,
		AvailableSizes:  cloneStrings(stored.AvailableSizes),
		AvailableColors: cloneStrings(stored.AvailableColors),
	}, true
}
