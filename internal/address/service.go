package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/maps"
	"github.com/kiatumarket/kiatu-backend/pkg/types"
)

type placesProvider interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error)
	ResolvePlace(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
}

type Service interface {
	Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error)
	Resolve(ctx context.Context, req ResolveRequest) (types.Address, error)
}

// SuggestRequest carries one autocomplete keystroke. Session and Seq are
// optional; when both are set the response is checked against the guard.
// Sessions are scoped to BuyerID so buyers cannot supersede each other.
type SuggestRequest struct {
	BuyerID      uuid.UUID
	Query        string
	Country      string
	SessionToken string
	Session      string
	Seq          uint64
}

func (r SuggestRequest) guardKey() string {
	if r.BuyerID == uuid.Nil {
		return r.Session
	}
	return r.BuyerID.String() + ":" + r.Session
}

type ResolveRequest struct {
	PlaceID      string
	SessionToken string
}

type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// SuggestResult is empty and marked stale when a newer keystroke for the same
// session arrived while the lookup was running.
type SuggestResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	Seq         uint64       `json:"seq,omitempty"`
	Stale       bool         `json:"stale"`
}

type service struct {
	places         placesProvider
	guard          *SequenceGuard
	defaultCountry string
	logg           *logger.Logger
}

// NewService wires the address lookup. defaultCountry falls back to KE.
func NewService(places placesProvider, guard *SequenceGuard, defaultCountry string, logg *logger.Logger) (Service, error) {
	if places == nil {
		return nil, fmt.Errorf("places provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if guard == nil {
		guard = NewSequenceGuard(0)
	}
	country := strings.ToUpper(strings.TrimSpace(defaultCountry))
	if country == "" {
		country = types.DefaultCountry
	}
	return &service{places: places, guard: guard, defaultCountry: country, logg: logg}, nil
}

func (s *service) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if country == "" {
		country = s.defaultCountry
	}

	guarded := req.Session != "" && req.Seq > 0
	sessionKey := req.guardKey()
	if guarded && !s.guard.Observe(sessionKey, req.Seq) {
		return &SuggestResult{Suggestions: []Suggestion{}, Seq: req.Seq, Stale: true}, nil
	}

	found, err := s.places.Autocomplete(ctx, maps.AutocompleteRequest{
		Input:        query,
		SessionToken: req.SessionToken,
		RegionCode:   country,
	})
	if err != nil {
		return nil, err
	}

	if guarded && !s.guard.IsLatest(sessionKey, req.Seq) {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"session": req.Session,
			"seq":     req.Seq,
		}), "discarding superseded address suggestions")
		return &SuggestResult{Suggestions: []Suggestion{}, Seq: req.Seq, Stale: true}, nil
	}

	suggestions := make([]Suggestion, 0, len(found))
	for _, item := range found {
		suggestions = append(suggestions, Suggestion{PlaceID: item.PlaceID, Description: item.Description})
	}
	return &SuggestResult{Suggestions: suggestions, Seq: req.Seq}, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (types.Address, error) {
	placeID := strings.TrimSpace(req.PlaceID)
	if placeID == "" {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "place_id is required")
	}

	details, err := s.places.ResolvePlace(ctx, placeID)
	if err != nil {
		return types.Address{}, err
	}
	addr, err := mapPlaceDetails(details, s.defaultCountry)
	if err != nil {
		return types.Address{}, err
	}
	if addr.PlaceID == nil {
		addr.PlaceID = ptr(placeID)
	}
	return addr, nil
}

func mapPlaceDetails(details *maps.PlaceDetails, defaultCountry string) (types.Address, error) {
	if details == nil {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeDependency, "place details missing")
	}
	if details.Location.Latitude == 0 && details.Location.Longitude == 0 {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeDependency, "place location missing")
	}

	line1 := strings.TrimSpace(strings.Join(nonEmpty(
		details.Component("street_number"),
		details.Component("route"),
	), " "))
	if line1 == "" {
		line1 = firstOf(details, "premise", "establishment", "point_of_interest")
	}
	if line1 == "" && strings.TrimSpace(details.FormattedAddress) != "" {
		parts := strings.Split(details.FormattedAddress, ",")
		line1 = strings.TrimSpace(parts[0])
	}
	if line1 == "" {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeDependency, "address line1 missing")
	}

	town := firstOf(details, "locality", "postal_town", "sublocality", "administrative_area_level_2")

	// Kenyan counties come back as administrative_area_level_1.
	region := details.Component("administrative_area_level_1")
	if region == "" {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeDependency, "region missing")
	}

	country := countryCode(details)
	if country == "" {
		country = defaultCountry
	}

	return types.Address{
		Line1:      line1,
		Line2:      ptr(firstOf(details, "subpremise", "neighborhood")),
		Town:       town,
		Region:     region,
		PostalCode: ptr(details.Component("postal_code")),
		Country:    country,
		Lat:        details.Location.Latitude,
		Lng:        details.Location.Longitude,
		PlaceID:    ptr(details.PlaceID),
	}, nil
}

// firstOf returns the component for the first type, in priority order, that
// the place carries.
func firstOf(details *maps.PlaceDetails, kinds ...string) string {
	for _, kind := range kinds {
		if v := details.Component(kind); v != "" {
			return v
		}
	}
	return ""
}

func countryCode(details *maps.PlaceDetails) string {
	for _, comp := range details.AddressComponents {
		for _, typ := range comp.Types {
			if typ == "country" {
				return strings.ToUpper(comp.ShortName)
			}
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	v := value
	return &v
}
