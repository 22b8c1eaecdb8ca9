package delivery

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
)

type stubVendors struct {
	vendors map[uuid.UUID]*models.Vendor
	err     error
	calls   int
}

func (s *stubVendors) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return vendor, nil
}

func newTestService(t *testing.T, vendors *stubVendors) (Service, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	svc, err := NewService(NewDefaultClassifier(), vendors, metrics.NewDeliveryMetrics(prometheus.NewRegistry()), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, buf
}

func TestQuoteLooksUpVendorRegion(t *testing.T) {
	vendorID := uuid.New()
	vendors := &stubVendors{vendors: map[uuid.UUID]*models.Vendor{
		vendorID: {ID: vendorID, Name: "Bata Westlands", Region: strPtr("Nairobi")},
	}}
	svc, _ := newTestService(t, vendors)

	got, err := svc.Quote(context.Background(), QuoteInput{VendorID: &vendorID, BuyerRegion: "Mombasa"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.Zone != enums.DeliveryZoneInterCity || got.FeeKES != 400 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestQuoteExplicitRegionSkipsLookup(t *testing.T) {
	vendorID := uuid.New()
	vendors := &stubVendors{}
	svc, _ := newTestService(t, vendors)

	got, err := svc.Quote(context.Background(), QuoteInput{VendorID: &vendorID, VendorRegion: strPtr("Kisumu"), BuyerRegion: "Maseno"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.Zone != enums.DeliveryZoneSameMetro {
		t.Fatalf("expected same metro, got %s", got.Zone)
	}
	if vendors.calls != 0 {
		t.Fatalf("expected no vendor lookup, got %d", vendors.calls)
	}
}

func TestQuoteDegradesWhenVendorUnavailable(t *testing.T) {
	vendorID := uuid.New()

	svc, buf := newTestService(t, &stubVendors{})
	got, err := svc.Quote(context.Background(), QuoteInput{VendorID: &vendorID, BuyerRegion: "Karen"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.Zone != enums.DeliveryZoneSameMetro || got.FeeKES != 200 {
		t.Fatalf("missing vendor with capital buyer should be same metro, got %+v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("not found should not be logged, got %s", buf.String())
	}

	svc, buf = newTestService(t, &stubVendors{err: errors.New("connection refused")})
	got, err = svc.Quote(context.Background(), QuoteInput{VendorID: &vendorID, BuyerRegion: "Nyeri"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.Zone != enums.DeliveryZoneDistant {
		t.Fatalf("expected distant fallback, got %s", got.Zone)
	}
	if !strings.Contains(buf.String(), "vendor region lookup failed") {
		t.Fatalf("expected warning log, got %s", buf.String())
	}
}

func TestQuotePickupAndCancellation(t *testing.T) {
	vendors := &stubVendors{}
	svc, _ := newTestService(t, vendors)
	vendorID := uuid.New()

	got, err := svc.Quote(context.Background(), QuoteInput{VendorID: &vendorID, BuyerRegion: "Nairobi", IsPickup: true})
	if err != nil || got.Zone != enums.DeliveryZonePickup || got.FeeKES != 0 {
		t.Fatalf("unexpected pickup result %+v %v", got, err)
	}
	if vendors.calls != 0 {
		t.Fatal("pickup should not look up the vendor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Quote(ctx, QuoteInput{BuyerRegion: "Nairobi"}); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for cancelled context, got %v", err)
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	if _, err := NewService(nil, &stubVendors{}, nil, logg); err == nil {
		t.Fatal("expected classifier error")
	}
	if _, err := NewService(NewDefaultClassifier(), nil, nil, logg); err == nil {
		t.Fatal("expected vendor reader error")
	}
	if _, err := NewService(NewDefaultClassifier(), &stubVendors{}, nil, nil); err == nil {
		t.Fatal("expected logger error")
	}
}
