package cart

import "strings"

// Cart is a single-vendor, variant-aware shopping cart. The zero value is not
// usable; obtain one from New or Hydrate. A Cart is not safe for concurrent
// use; Service serialises access per buyer.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: []LineItem{}}
}

func (c *Cart) mustBeProvisioned() {
	if c == nil || c.items == nil {
		panic(unprovisionedMessage)
	}
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mustBeProvisioned()
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.clone()
	}
	return out
}

// Len is the number of distinct line items.
func (c *Cart) Len() int {
	c.mustBeProvisioned()
	return len(c.items)
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Find returns the line with key.
func (c *Cart) Find(key Key) (LineItem, bool) {
	c.mustBeProvisioned()
	if idx := c.indexOf(key); idx >= 0 {
		return c.items[idx].clone(), true
	}
	return LineItem{}, false
}

// ProductIDs lists the distinct products in the cart in first-seen order.
func (c *Cart) ProductIDs() []string {
	c.mustBeProvisioned()
	seen := make(map[string]struct{}, len(c.items))
	var ids []string
	for _, item := range c.items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ProductQuantity sums the quantity of every variant of productID.
func (c *Cart) ProductQuantity(productID string) int {
	c.mustBeProvisioned()
	total := 0
	for _, item := range c.items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// VendorID is the vendor every line item belongs to, or "" for an empty cart.
func (c *Cart) VendorID() string {
	c.mustBeProvisioned()
	if len(c.items) == 0 {
		return ""
	}
	return c.items[0].VendorID
}

// AddItem merges item into the cart. quantity below 1 counts as 1 and the
// merged quantity is capped at MaxQuantity without error. The item's own
// Quantity field is ignored. When the key already exists the stored catalog
// snapshot is refreshed from item.
func (c *Cart) AddItem(item LineItem, quantity int) error {
	c.mustBeProvisioned()

	item.ProductID = strings.TrimSpace(item.ProductID)
	item.VendorID = strings.TrimSpace(item.VendorID)
	if item.VendorID == "" {
		return ErrVendorRequired
	}
	if item.ProductID == "" {
		return ErrProductRequired
	}
	if current := c.VendorID(); current != "" && current != item.VendorID {
		return &VendorConflictError{CartVendorID: current, ItemVendorID: item.VendorID}
	}

	requested := clampQuantity(quantity)
	if idx := c.indexOf(item.Key()); idx >= 0 {
		existing := &c.items[idx]
		existing.Quantity = clampQuantity(existing.Quantity + requested)
		existing.Name = item.Name
		existing.UnitPrice = item.UnitPrice
		existing.Image = item.Image
		existing.AvailableSizes = cloneStrings(item.AvailableSizes)
		existing.AvailableColors = cloneStrings(item.AvailableColors)
		return nil
	}

	item = item.clone()
	item.Quantity = requested
	c.items = append(c.items, item)
	return nil
}

// RemoveItem drops the line with the exact key. Missing keys are a no-op.
func (c *Cart) RemoveItem(productID, size, color string) {
	c.mustBeProvisioned()
	key := Key{ProductID: productID, Size: size, Color: color}
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// RemoveProduct drops every line of productID whatever its variant.
func (c *Cart) RemoveProduct(productID string) {
	c.mustBeProvisioned()
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity of the matching line, clamped to
// [MinQuantity, MaxQuantity]. Missing keys are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int, size, color string) {
	c.mustBeProvisioned()
	if idx := c.indexOf(Key{ProductID: productID, Size: size, Color: color}); idx >= 0 {
		c.items[idx].Quantity = clampQuantity(quantity)
	}
}

// UpdateSize changes the size of the line keyed by oldSize. If another line
// already has the new key the two merge into that line.
func (c *Cart) UpdateSize(productID, newSize, oldSize, color string) {
	c.mustBeProvisioned()
	c.rekey(Key{ProductID: productID, Size: oldSize, Color: color}, func(item *LineItem) {
		item.Size = newSize
	})
}

// UpdateColor changes the color of the line keyed by oldColor, merging on
// collision like UpdateSize.
func (c *Cart) UpdateColor(productID, newColor, size, oldColor string) {
	c.mustBeProvisioned()
	c.rekey(Key{ProductID: productID, Size: size, Color: oldColor}, func(item *LineItem) {
		item.Color = newColor
	})
}

func (c *Cart) rekey(current Key, mutate func(*LineItem)) {
	idx := c.indexOf(current)
	if idx < 0 {
		return
	}
	renamed := c.items[idx]
	mutate(&renamed)
	if renamed.Key() == current {
		return
	}

	if other := c.indexOf(renamed.Key()); other >= 0 {
		c.items[other].Quantity = clampQuantity(c.items[other].Quantity + renamed.Quantity)
		c.items = append(c.items[:idx], c.items[idx+1:]...)
		return
	}
	c.items[idx] = renamed
}

// Snapshot is the catalog data refreshed onto existing lines.
type Snapshot struct {
	Name            string
	UnitPrice       int64
	Image           string
	AvailableSizes  []string
	AvailableColors []string
}

// ApplySnapshot overwrites the catalog snapshot of every line of productID.
// Selected sizes and colors are kept even when no longer offered so the
// validity predicates can report them.
func (c *Cart) ApplySnapshot(productID string, snap Snapshot) {
	c.mustBeProvisioned()
	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		c.items[i].Name = snap.Name
		c.items[i].UnitPrice = snap.UnitPrice
		c.items[i].Image = snap.Image
		c.items[i].AvailableSizes = cloneStrings(snap.AvailableSizes)
		c.items[i].AvailableColors = cloneStrings(snap.AvailableColors)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mustBeProvisioned()
	c.items = []LineItem{}
}

// TotalQuantity is the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	c.mustBeProvisioned()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of quantity times unit price, in whole shillings.
func (c *Cart) Subtotal() int64 {
	c.mustBeProvisioned()
	var total int64
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

// HasAllSizes is true when the cart is non-empty and every item that declares
// sizes has one selected.
func (c *Cart) HasAllSizes() bool {
	c.mustBeProvisioned()
	if len(c.items) == 0 {
		return false
	}
	for _, item := range c.items {
		if item.NeedsSize() {
			return false
		}
	}
	return true
}

// HasAllColors is true when the cart is non-empty and every item that declares
// colors has one selected.
func (c *Cart) HasAllColors() bool {
	c.mustBeProvisioned()
	if len(c.items) == 0 {
		return false
	}
	for _, item := range c.items {
		if item.NeedsColor() {
			return false
		}
	}
	return true
}

// HasAllValidSizes is true when no item has a selected size outside its
// declared sizes. Missing selections are HasAllSizes' concern; an empty cart
// is trivially valid.
func (c *Cart) HasAllValidSizes() bool {
	c.mustBeProvisioned()
	for _, item := range c.items {
		if item.HasInvalidSize() {
			return false
		}
	}
	return true
}

// InvalidSizeItems returns the items whose selected size is no longer offered.
func (c *Cart) InvalidSizeItems() []LineItem {
	c.mustBeProvisioned()
	var out []LineItem
	for _, item := range c.items {
		if item.HasInvalidSize() {
			out = append(out, item.clone())
		}
	}
	return out
}

// InvalidColorItems returns the items whose selected color is no longer offered.
func (c *Cart) InvalidColorItems() []LineItem {
	c.mustBeProvisioned()
	var out []LineItem
	for _, item := range c.items {
		if item.HasInvalidColor() {
			out = append(out, item.clone())
		}
	}
	return out
}

func (c *Cart) indexOf(key Key) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
