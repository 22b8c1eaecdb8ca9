package types

import (
	"errors"
	"testing"
)

func strPtr(v string) *string { return &v }

func TestAddressValueScanRoundTrip(t *testing.T) {
	addr := Address{
		Line1:   `Sarit Centre, "Shop 4"`,
		Town:    "Westlands",
		Region:  "Nairobi County",
		Lat:     -1.2606,
		Lng:     36.8024,
		PlaceID: strPtr("ChIJ123"),
	}

	raw, err := addr.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded Address
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if decoded.Line1 != addr.Line1 || decoded.Region != addr.Region || decoded.Town != addr.Town {
		t.Fatalf("unexpected decoded address %+v", decoded)
	}
	if decoded.Line2 != nil || decoded.PostalCode != nil {
		t.Fatalf("expected nil optional fields, got line2=%v postal=%v", decoded.Line2, decoded.PostalCode)
	}
	if decoded.Country != DefaultCountry {
		t.Fatalf("expected default country, got %q", decoded.Country)
	}
	if decoded.PlaceID == nil || *decoded.PlaceID != "ChIJ123" {
		t.Fatalf("unexpected place id %v", decoded.PlaceID)
	}
}

func TestAddressValueRequiresRegion(t *testing.T) {
	if _, err := (Address{Line1: "Moi Avenue"}).Value(); err == nil {
		t.Fatal("expected error for missing region")
	}
}

func TestAddressScanPostgresLiteral(t *testing.T) {
	var addr Address
	raw := []byte(`("Moi Avenue",,Mombasa,Mombasa,"80100",KE,-4.05,39.66,)`)
	if err := addr.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if addr.Line2 != nil || addr.PlaceID != nil {
		t.Fatal("empty unquoted fields should decode as NULL")
	}
	if addr.PostalCode == nil || *addr.PostalCode != "80100" {
		t.Fatalf("unexpected postal code %v", addr.PostalCode)
	}
	if addr.Lat != -4.05 || addr.Lng != 39.66 {
		t.Fatalf("unexpected coordinates %v,%v", addr.Lat, addr.Lng)
	}
}

func TestParseCompositeFieldCount(t *testing.T) {
	_, err := parseComposite("(a,b)", 3)
	if !errors.Is(err, errCompositeFieldCount) {
		t.Fatalf("expected field count error, got %v", err)
	}
	if _, err := parseComposite("a,b", 0); err == nil {
		t.Fatal("expected format error")
	}
}
