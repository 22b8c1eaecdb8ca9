package cart

// MinQuantity and MaxQuantity bound every line item's quantity.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// Key is the identity of a line item. Two adds with the same key merge.
type Key struct {
	ProductID string
	Size      string
	Color     string
}

// LineItem is one (product, size, color) entry. AvailableSizes and
// AvailableColors are catalog snapshots used for validation only.
type LineItem struct {
	ProductID       string   `json:"product_id"`
	VendorID        string   `json:"vendor_id"`
	Name            string   `json:"name"`
	UnitPrice       int64    `json:"unit_price"`
	Image           string   `json:"image,omitempty"`
	Quantity        int      `json:"quantity"`
	Size            string   `json:"size,omitempty"`
	Color           string   `json:"color,omitempty"`
	AvailableSizes  []string `json:"available_sizes,omitempty"`
	AvailableColors []string `json:"available_colors,omitempty"`
}

// Key returns the item's identity.
func (i LineItem) Key() Key {
	return Key{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// LineTotal is quantity times unit price.
func (i LineItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// NeedsSize reports whether the product declares sizes but none is selected.
func (i LineItem) NeedsSize() bool {
	return len(i.AvailableSizes) > 0 && i.Size == ""
}

// NeedsColor reports whether the product declares colors but none is selected.
func (i LineItem) NeedsColor() bool {
	return len(i.AvailableColors) > 0 && i.Color == ""
}

// HasInvalidSize reports whether a selected size is missing from the declared sizes.
func (i LineItem) HasInvalidSize() bool {
	return i.Size != "" && len(i.AvailableSizes) > 0 && !contains(i.AvailableSizes, i.Size)
}

// HasInvalidColor reports whether a selected color is missing from the declared colors.
func (i LineItem) HasInvalidColor() bool {
	return i.Color != "" && len(i.AvailableColors) > 0 && !contains(i.AvailableColors, i.Color)
}

func (i LineItem) clone() LineItem {
	i.AvailableSizes = cloneStrings(i.AvailableSizes)
	i.AvailableColors = cloneStrings(i.AvailableColors)
	return i
}

func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

// cloneStrings copies values, normalising empty lists to nil so that a cart
// compares equal to its own JSON round trip.
func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
