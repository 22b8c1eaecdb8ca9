package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
)

type vendorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// QuoteInput identifies the vendor either by stored id or by an explicit region.
// An explicit VendorRegion wins over the stored one.
type QuoteInput struct {
	VendorID     *uuid.UUID
	VendorRegion *string
	BuyerRegion  string
	IsPickup     bool
}

// Service prices deliveries, looking up vendor regions when needed.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (Result, error)
}

type service struct {
	classifier *Classifier
	vendors    vendorReader
	metrics    *metrics.DeliveryMetrics
	logg       *logger.Logger
}

// NewService builds the delivery quote service.
func NewService(classifier *Classifier, vendors vendorReader, m *metrics.DeliveryMetrics, logg *logger.Logger) (Service, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{classifier: classifier, vendors: vendors, metrics: m, logg: logg}, nil
}

// Quote never fails because of a vendor lookup: an unknown vendor or a
// database error degrades to the vendor-less rule. Only a cancelled context
// is returned as an error.
func (s *service) Quote(ctx context.Context, input QuoteInput) (Result, error) {
	vendorRegion := input.VendorRegion
	if !input.IsPickup && blank(vendorRegion) && input.VendorID != nil {
		vendorRegion = s.lookupRegion(ctx, *input.VendorID)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delivery quote cancelled")
	}

	result := s.classifier.Classify(vendorRegion, input.BuyerRegion, input.IsPickup)
	s.metrics.IncQuote(result.Zone)
	return result, nil
}

func (s *service) lookupRegion(ctx context.Context, vendorID uuid.UUID) *string {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"vendor_id": vendorID.String(),
				"error":     err.Error(),
			}), "vendor region lookup failed, using buyer-only zone")
		}
		return nil
	}
	return vendor.Region
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
