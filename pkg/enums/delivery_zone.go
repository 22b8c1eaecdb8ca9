package enums

import (
	"fmt"
	"strings"
)

// DeliveryZone is the pricing tier assigned to a shipment.
type DeliveryZone string

const (
	DeliveryZoneSameMetro DeliveryZone = "same_metro"
	DeliveryZoneInterCity DeliveryZone = "inter_city"
	DeliveryZoneDistant   DeliveryZone = "distant"
	DeliveryZonePickup    DeliveryZone = "pickup"
)

var validDeliveryZones = []DeliveryZone{
	DeliveryZoneSameMetro,
	DeliveryZoneInterCity,
	DeliveryZoneDistant,
	DeliveryZonePickup,
}

// String implements fmt.Stringer.
func (z DeliveryZone) String() string {
	return string(z)
}

// IsValid reports whether the value is a known DeliveryZone.
func (z DeliveryZone) IsValid() bool {
	for _, candidate := range validDeliveryZones {
		if candidate == z {
			return true
		}
	}
	return false
}

// ParseDeliveryZone converts raw input into a DeliveryZone.
func ParseDeliveryZone(value string) (DeliveryZone, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDeliveryZones {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery zone %q", value)
}
