package delivery

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/kiatumarket/kiatu-backend/pkg/config"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
)

// FeeSchedule holds the flat delivery fee per zone in whole shillings. Pickup is always free.
type FeeSchedule struct {
	SameMetro int64
	InterCity int64
	Distant   int64
}

// DefaultFeeSchedule is the canonical 200/400/500 table.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{SameMetro: 200, InterCity: 400, Distant: 500}
}

// FeeScheduleFromConfig reads the schedule from the delivery config section.
func FeeScheduleFromConfig(cfg config.DeliveryConfig) FeeSchedule {
	return FeeSchedule{
		SameMetro: cfg.SameMetroFee,
		InterCity: cfg.InterCityFee,
		Distant:   cfg.DistantFee,
	}
}

// Validate rejects negative fees.
func (f FeeSchedule) Validate() error {
	var errs error
	for zone, fee := range map[enums.DeliveryZone]int64{
		enums.DeliveryZoneSameMetro: f.SameMetro,
		enums.DeliveryZoneInterCity: f.InterCity,
		enums.DeliveryZoneDistant:   f.Distant,
	} {
		if fee < 0 {
			errs = multierr.Append(errs, fmt.Errorf("fee schedule: %s fee must be non-negative, got %d", zone, fee))
		}
	}
	return errs
}

// FeeFor returns the fee charged for zone.
func (f FeeSchedule) FeeFor(zone enums.DeliveryZone) int64 {
	switch zone {
	case enums.DeliveryZoneSameMetro:
		return f.SameMetro
	case enums.DeliveryZoneInterCity:
		return f.InterCity
	case enums.DeliveryZoneDistant:
		return f.Distant
	default:
		return 0
	}
}
