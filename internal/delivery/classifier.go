package delivery

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/kiatumarket/kiatu-backend/pkg/enums"
)

// DefaultCapitalMetro is the metro used by the vendor-less fallback rule.
const DefaultCapitalMetro = "nairobi"

// Result is the zone and fee for one shipment.
type Result struct {
	Zone   enums.DeliveryZone `json:"zone"`
	FeeKES int64              `json:"fee_kes"`
}

// Classifier maps vendor and buyer regions to a delivery zone. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	table   *MetroTable
	fees    FeeSchedule
	capital string
}

// NewClassifier validates the table, fee schedule and capital metro together
// and reports every problem at once.
func NewClassifier(table *MetroTable, fees FeeSchedule, capitalMetro string) (*Classifier, error) {
	var errs error
	if table == nil {
		errs = multierr.Append(errs, fmt.Errorf("classifier: metro table is required"))
	}
	errs = multierr.Append(errs, fees.Validate())

	capital := NormalizeRegion(capitalMetro)
	switch {
	case capital == "":
		errs = multierr.Append(errs, fmt.Errorf("classifier: capital metro is required"))
	case table != nil && !table.Has(capital):
		errs = multierr.Append(errs, fmt.Errorf("classifier: capital metro %q is not a metro group", capital))
	}

	if errs != nil {
		return nil, errs
	}
	return &Classifier{table: table, fees: fees, capital: capital}, nil
}

// NewDefaultClassifier uses the built-in metro table and fee schedule.
func NewDefaultClassifier() *Classifier {
	table, err := NewMetroTable(DefaultMetroGroups())
	if err != nil {
		panic(fmt.Sprintf("delivery: built-in metro table is invalid: %v", err))
	}
	return &Classifier{table: table, fees: DefaultFeeSchedule(), capital: DefaultCapitalMetro}
}

// Classify returns the zone and fee for a shipment. Pickup short-circuits to a
// free pickup result. A nil or blank vendor region falls back to a two-tier
// rule on the buyer alone: capital metro buyers pay the same-metro fee,
// everyone else the distant fee. An unrecognised or blank region on either
// side classifies as distant. Classify never fails.
func (c *Classifier) Classify(vendorRegion *string, buyerRegion string, isPickup bool) Result {
	if isPickup {
		return Result{Zone: enums.DeliveryZonePickup, FeeKES: 0}
	}

	buyerMetro, buyerKnown := c.table.Resolve(buyerRegion)

	if vendorRegion == nil || strings.TrimSpace(*vendorRegion) == "" {
		if buyerKnown && buyerMetro == c.capital {
			return c.result(enums.DeliveryZoneSameMetro)
		}
		return c.result(enums.DeliveryZoneDistant)
	}

	vendorMetro, vendorKnown := c.table.Resolve(*vendorRegion)
	switch {
	case !vendorKnown || !buyerKnown:
		return c.result(enums.DeliveryZoneDistant)
	case vendorMetro == buyerMetro:
		return c.result(enums.DeliveryZoneSameMetro)
	default:
		return c.result(enums.DeliveryZoneInterCity)
	}
}

// Resolve exposes the metro lookup used by Classify.
func (c *Classifier) Resolve(region string) (string, bool) {
	return c.table.Resolve(region)
}

// Fees returns the active fee schedule.
func (c *Classifier) Fees() FeeSchedule {
	return c.fees
}

func (c *Classifier) result(zone enums.DeliveryZone) Result {
	return Result{Zone: zone, FeeKES: c.fees.FeeFor(zone)}
}
