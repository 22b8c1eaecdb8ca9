package cart

import (
	"errors"
	"reflect"
	"testing"
)

func shoe(productID, size, color string) LineItem {
	return LineItem{
		ProductID:       productID,
		VendorID:        "vendor-a",
		Name:            "Air Max " + productID,
		UnitPrice:       2500,
		Size:            size,
		Color:           color,
		AvailableSizes:  []string{"40", "41", "42"},
		AvailableColors: []string{"black", "white"},
	}
}

func mustAdd(t *testing.T, c *Cart, item LineItem, qty int) {
	t.Helper()
	if err := c.AddItem(item, qty); err != nil {
		t.Fatalf("add item: %v", err)
	}
}

func TestAddItemMergesAndCaps(t *testing.T) {
	sequences := [][]int{
		{1},
		{3, 4},
		{5, 5},
		{9, 9, 9},
		{2, 2, 2, 2, 2, 2},
	}
	for _, seq := range sequences {
		c := New()
		sum := 0
		for _, q := range seq {
			mustAdd(t, c, shoe("p1", "41", "black"), q)
			sum += q
		}
		want := sum
		if want > MaxQuantity {
			want = MaxQuantity
		}
		if c.Len() != 1 {
			t.Fatalf("%v: expected a single merged line, got %d", seq, c.Len())
		}
		if got := c.Items()[0].Quantity; got != want {
			t.Fatalf("%v: expected quantity %d, got %d", seq, want, got)
		}
	}
}

func TestAddItemClampsNewLines(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 0)
	mustAdd(t, c, shoe("p2", "40", "black"), -4)
	mustAdd(t, c, shoe("p3", "40", "black"), 25)

	items := c.Items()
	if items[0].Quantity != 1 || items[1].Quantity != 1 || items[2].Quantity != 10 {
		t.Fatalf("unexpected quantities %d %d %d", items[0].Quantity, items[1].Quantity, items[2].Quantity)
	}
}

func TestAddItemVariantsAreDistinct(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 1)
	mustAdd(t, c, shoe("p1", "41", "black"), 1)
	mustAdd(t, c, shoe("p1", "41", "white"), 1)
	mustAdd(t, c, shoe("p1", "", ""), 1)
	mustAdd(t, c, shoe("p1", "41", "white"), 2)

	if c.Len() != 4 {
		t.Fatalf("expected 4 distinct lines, got %d", c.Len())
	}
	if c.TotalQuantity() != 6 {
		t.Fatalf("expected total quantity 6, got %d", c.TotalQuantity())
	}
}

func TestAddItemVendorConflictLeavesCartUntouched(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 2)
	before := c.Items()

	other := shoe("p9", "40", "black")
	other.VendorID = "vendor-b"
	err := c.AddItem(other, 1)
	if !errors.Is(err, ErrVendorConflict) {
		t.Fatalf("expected vendor conflict, got %v", err)
	}
	var conflict *VendorConflictError
	if !errors.As(err, &conflict) || conflict.CartVendorID != "vendor-a" || conflict.ItemVendorID != "vendor-b" {
		t.Fatalf("unexpected conflict detail %+v", conflict)
	}
	if !reflect.DeepEqual(before, c.Items()) {
		t.Fatal("cart mutated by rejected add")
	}

	c.Clear()
	if err := c.AddItem(other, 1); err != nil {
		t.Fatalf("empty cart should accept any vendor: %v", err)
	}
	if c.VendorID() != "vendor-b" {
		t.Fatalf("expected vendor-b, got %q", c.VendorID())
	}
}

func TestAddItemRequiresIdentifiers(t *testing.T) {
	c := New()
	item := shoe("p1", "40", "black")
	item.VendorID = "  "
	if err := c.AddItem(item, 1); !errors.Is(err, ErrVendorRequired) {
		t.Fatalf("expected ErrVendorRequired, got %v", err)
	}
	item = shoe("", "40", "black")
	if err := c.AddItem(item, 1); !errors.Is(err, ErrProductRequired) {
		t.Fatalf("expected ErrProductRequired, got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("rejected adds must not mutate the cart")
	}
}

func TestAddItemIgnoresCallerQuantityAndRefreshesSnapshot(t *testing.T) {
	c := New()
	item := shoe("p1", "40", "black")
	item.Quantity = 9
	mustAdd(t, c, item, 1)
	if got := c.Items()[0].Quantity; got != 1 {
		t.Fatalf("item.Quantity must be ignored, got %d", got)
	}

	item.UnitPrice = 2800
	item.AvailableSizes = []string{"40"}
	mustAdd(t, c, item, 1)
	got := c.Items()[0]
	if got.UnitPrice != 2800 || !reflect.DeepEqual(got.AvailableSizes, []string{"40"}) {
		t.Fatalf("snapshot not refreshed on merge: %+v", got)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 1)
	mustAdd(t, c, shoe("p1", "41", "black"), 1)
	mustAdd(t, c, shoe("p2", "", ""), 1)

	c.RemoveItem("p1", "40", "black")
	c.RemoveItem("p1", "40", "black")
	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}

	c.RemoveItem("p2", "40", "")
	if c.Len() != 2 {
		t.Fatal("partial key must not match the no-size line")
	}
	c.RemoveItem("p2", "", "")
	if c.Len() != 1 || c.Items()[0].Key() != (Key{ProductID: "p1", Size: "41", Color: "black"}) {
		t.Fatalf("unexpected remaining items %+v", c.Items())
	}
}

func TestUpdateQuantityClamps(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 3)

	c.UpdateQuantity("p1", 0, "40", "black")
	if got := c.Items()[0].Quantity; got != 1 {
		t.Fatalf("expected floor 1, got %d", got)
	}
	c.UpdateQuantity("p1", 999, "40", "black")
	if got := c.Items()[0].Quantity; got != 10 {
		t.Fatalf("expected cap 10, got %d", got)
	}
	c.UpdateQuantity("p1", 4, "41", "black")
	if got := c.Items()[0].Quantity; got != 10 {
		t.Fatalf("non-matching key must be a no-op, got %d", got)
	}
	if c.Len() != 1 {
		t.Fatal("update must never drop lines")
	}
}

func TestUpdateSizeRenamesAndMergesOnCollision(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "", "black"), 2)
	c.UpdateSize("p1", "42", "", "black")
	if got := c.Items()[0]; got.Size != "42" || got.Quantity != 2 {
		t.Fatalf("unexpected renamed item %+v", got)
	}

	mustAdd(t, c, shoe("p1", "41", "black"), 9)
	c.UpdateSize("p1", "42", "41", "black")
	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected collision to merge, got %d lines", len(items))
	}
	if items[0].Size != "42" || items[0].Quantity != 10 {
		t.Fatalf("expected merged 42 x10, got %+v", items[0])
	}

	c.UpdateSize("p1", "40", "39", "black")
	if c.Items()[0].Size != "42" {
		t.Fatal("non-matching key must be a no-op")
	}
}

func TestUpdateColorRenamesAndMergesOnCollision(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "41", "black"), 2)
	mustAdd(t, c, shoe("p1", "41", "white"), 3)
	mustAdd(t, c, shoe("p2", "41", "black"), 1)

	c.UpdateColor("p1", "white", "41", "black")
	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected merge into existing white line, got %d lines", len(items))
	}
	if items[0].Color != "white" || items[0].Quantity != 5 {
		t.Fatalf("unexpected merged line %+v", items[0])
	}
	if items[1].ProductID != "p2" {
		t.Fatal("other products must keep their order")
	}

	c.UpdateColor("p2", "white", "41", "black")
	if got := c.Items()[1]; got.Color != "white" || got.ProductID != "p2" {
		t.Fatalf("expected p2 recoloured, got %+v", got)
	}
}

func TestDerivedTotals(t *testing.T) {
	c := New()
	a := shoe("p1", "40", "black")
	a.UnitPrice = 1999
	b := shoe("p2", "41", "white")
	b.UnitPrice = 3500
	mustAdd(t, c, a, 2)
	mustAdd(t, c, b, 3)

	if c.TotalQuantity() != 5 {
		t.Fatalf("expected 5, got %d", c.TotalQuantity())
	}
	if c.Subtotal() != 2*1999+3*3500 {
		t.Fatalf("unexpected subtotal %d", c.Subtotal())
	}
	c.Clear()
	if c.TotalQuantity() != 0 || c.Subtotal() != 0 || !c.IsEmpty() {
		t.Fatal("clear must empty the cart")
	}
}

func TestSizeAndColorPredicates(t *testing.T) {
	c := New()
	if c.HasAllSizes() || c.HasAllColors() {
		t.Fatal("empty cart must not pass presence gates")
	}
	if !c.HasAllValidSizes() || len(c.InvalidSizeItems()) != 0 {
		t.Fatal("empty cart has no invalid sizes")
	}

	plain := LineItem{ProductID: "laces", VendorID: "vendor-a", UnitPrice: 150}
	mustAdd(t, c, plain, 1)
	if !c.HasAllSizes() || !c.HasAllColors() {
		t.Fatal("items without declared variants are exempt")
	}

	mustAdd(t, c, shoe("p1", "", "black"), 1)
	if c.HasAllSizes() {
		t.Fatal("missing size must fail HasAllSizes")
	}
	if !c.HasAllColors() {
		t.Fatal("color is selected")
	}
	if !c.HasAllValidSizes() {
		t.Fatal("an unselected size is not an invalid size")
	}

	c.UpdateSize("p1", "45", "", "black")
	if !c.HasAllSizes() {
		t.Fatal("size now selected")
	}
	if c.HasAllValidSizes() {
		t.Fatal("45 is not offered")
	}
	invalid := c.InvalidSizeItems()
	if len(invalid) != 1 || invalid[0].ProductID != "p1" || invalid[0].Size != "45" {
		t.Fatalf("unexpected invalid items %+v", invalid)
	}

	mustAdd(t, c, shoe("p2", "41", ""), 1)
	if c.HasAllColors() {
		t.Fatal("missing color must fail HasAllColors")
	}

	c.UpdateColor("p2", "red", "41", "")
	if got := c.InvalidColorItems(); len(got) != 1 || got[0].ProductID != "p2" {
		t.Fatalf("unexpected invalid colors %+v", got)
	}
}

func TestApplySnapshotSurfacesRemovedSizes(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "42", "black"), 1)
	mustAdd(t, c, shoe("p1", "40", "black"), 1)

	c.ApplySnapshot("p1", Snapshot{
		Name:            "Air Max p1",
		UnitPrice:       2200,
		AvailableSizes:  []string{"40", "41"},
		AvailableColors: []string{"black"},
	})

	invalid := c.InvalidSizeItems()
	if len(invalid) != 1 || invalid[0].Size != "42" {
		t.Fatalf("expected size 42 to be invalid, got %+v", invalid)
	}
	if c.Subtotal() != 4400 {
		t.Fatalf("expected refreshed price, got subtotal %d", c.Subtotal())
	}

	c.RemoveProduct("p1")
	if !c.IsEmpty() {
		t.Fatal("remove product should drop every variant")
	}
}

func TestItemsReturnsCopies(t *testing.T) {
	c := New()
	mustAdd(t, c, shoe("p1", "40", "black"), 1)
	items := c.Items()
	items[0].Quantity = 7
	items[0].AvailableSizes[0] = "99"

	got := c.Items()[0]
	if got.Quantity != 1 || got.AvailableSizes[0] != "40" {
		t.Fatalf("cart state leaked through Items: %+v", got)
	}
}

func TestUnprovisionedCartPanics(t *testing.T) {
	calls := map[string]func(c *Cart){
		"items":    func(c *Cart) { c.Items() },
		"add":      func(c *Cart) { _ = c.AddItem(shoe("p1", "", ""), 1) },
		"clear":    func(c *Cart) { c.Clear() },
		"subtotal": func(c *Cart) { c.Subtotal() },
		"marshal":  func(c *Cart) { _, _ = c.Marshal() },
	}
	for name, call := range calls {
		for _, c := range []*Cart{nil, {}} {
			func() {
				defer func() {
					if r := recover(); r != unprovisionedMessage {
						t.Fatalf("%s: expected contract panic, got %v", name, r)
					}
				}()
				call(c)
			}()
		}
	}
}
