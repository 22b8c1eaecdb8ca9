package cart

// ItemView is a line item as rendered to the storefront.
type ItemView struct {
	LineItem
	LineTotal int64 `json:"line_total"`
}

// View is the cart plus the derived values and checkout gates.
type View struct {
	VendorID          string     `json:"vendor_id,omitempty"`
	Items             []ItemView `json:"items"`
	TotalQuantity     int        `json:"total_quantity"`
	Subtotal          int64      `json:"subtotal"`
	HasAllSizes       bool       `json:"has_all_sizes"`
	HasAllColors      bool       `json:"has_all_colors"`
	HasAllValidSizes  bool       `json:"has_all_valid_sizes"`
	InvalidSizeItems  []ItemView `json:"invalid_size_items"`
	InvalidColorItems []ItemView `json:"invalid_color_items"`
}

// NewView renders c.
func NewView(c *Cart) *View {
	return &View{
		VendorID:          c.VendorID(),
		Items:             itemViews(c.Items()),
		TotalQuantity:     c.TotalQuantity(),
		Subtotal:          c.Subtotal(),
		HasAllSizes:       c.HasAllSizes(),
		HasAllColors:      c.HasAllColors(),
		HasAllValidSizes:  c.HasAllValidSizes(),
		InvalidSizeItems:  itemViews(c.InvalidSizeItems()),
		InvalidColorItems: itemViews(c.InvalidColorItems()),
	}
}

func itemViews(items []LineItem) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		out = append(out, ItemView{LineItem: item, LineTotal: item.LineTotal()})
	}
	return out
}
