package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCountry is the ISO code applied when an address omits one.
const DefaultCountry = "KE"

// Address mirrors the delivery_address_t composite Postgres type. Region holds
// the county and is the input to delivery zone classification.
type Address struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	Town       string  `json:"town"`
	Region     string  `json:"region" validate:"required"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	PlaceID    *string `json:"place_id,omitempty"`
}

const addressFieldCount = 9

// Value marshals Address into a Postgres composite literal.
func (a Address) Value() (driver.Value, error) {
	if strings.TrimSpace(a.Line1) == "" {
		return nil, fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.Region) == "" {
		return nil, fmt.Errorf("address: missing region")
	}

	country := strings.TrimSpace(a.Country)
	if country == "" {
		country = DefaultCountry
	}

	parts := []string{
		quoteCompositeString(a.Line1),
		quoteCompositeNullable(a.Line2),
		quoteCompositeString(a.Town),
		quoteCompositeString(a.Region),
		quoteCompositeNullable(a.PostalCode),
		quoteCompositeString(country),
		strconv.FormatFloat(a.Lat, 'f', -1, 64),
		strconv.FormatFloat(a.Lng, 'f', -1, 64),
		quoteCompositeNullable(a.PlaceID),
	}

	return "(" + strings.Join(parts, ",") + ")", nil
}

// Scan decodes the Postgres composite literal.
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("address: unsupported scan type %T", value)
	}

	fields, err := parseComposite(raw, addressFieldCount)
	if err != nil {
		return err
	}

	a.Line1 = fields[0].value
	a.Line2 = fields[1].nullable()
	a.Town = fields[2].value
	a.Region = fields[3].value
	a.PostalCode = fields[4].nullable()

	a.Country = strings.TrimSpace(fields[5].value)
	if a.Country == "" {
		a.Country = DefaultCountry
	}

	if a.Lat, err = parseCoordinate("lat", fields[6]); err != nil {
		return err
	}
	if a.Lng, err = parseCoordinate("lng", fields[7]); err != nil {
		return err
	}

	a.PlaceID = fields[8].nullable()
	return nil
}

func parseCoordinate(name string, field compositeField) (float64, error) {
	if field.isNull() {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(field.value), 64)
	if err != nil {
		return 0, fmt.Errorf("address: parse %s: %w", name, err)
	}
	return v, nil
}
