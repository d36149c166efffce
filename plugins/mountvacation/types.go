package mountvacation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NotAvailable is rendered in place of any upstream value the API omitted.
const NotAvailable = "N/A"

// Field is an optional scalar that marshals to NotAvailable when unset,
// so formatted payloads keep the same shape regardless of upstream gaps.
type Field[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Valid: true}
}

// FromPtr converts a decoded optional pointer into a Field.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Field[T]{}
	}
	return Some(*p)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(f.Value)
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	var v T
	err := json.Unmarshal(b, &v)
	if err == nil {
		*f = Some(v)
		return nil
	}
	var s string
	if json.Unmarshal(b, &s) == nil && s == NotAvailable {
		*f = Field[T]{}
		return nil
	}
	return err
}

// SearchResponse is the body of GET /accommodations/search/.
type SearchResponse struct {
	Accommodations []Accommodation `json:"accommodations"`
	Arrival        string          `json:"arrival"`
	Departure      string          `json:"departure"`
	Nights         *int            `json:"nights"`
	PersonsAges    PersonsAges     `json:"personsAges"`
	Currency       string          `json:"currency"`
	Error          json.RawMessage `json:"error,omitempty"`
}

// HasError reports whether the body carries a truthy "error" key.
func (r *SearchResponse) HasError() bool {
	return truthy(r.Error)
}

// truthy reports whether a raw JSON value is non-empty: null, false, zero,
// empty strings, empty objects and empty arrays are all falsy.
func truthy(raw json.RawMessage) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

// ErrorMessage returns the upstream error as text.
func (r *SearchResponse) ErrorMessage() string {
	var s string
	if err := json.Unmarshal(r.Error, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(r.Error))
}

// PersonsAges accepts either a JSON array of ages or the comma separated string the API echoes back.
type PersonsAges []json.RawMessage

func (p *PersonsAges) UnmarshalJSON(b []byte) error {
	var list []json.RawMessage
	if err := json.Unmarshal(b, &list); err == nil {
		*p = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = nil
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		*p = append(*p, json.RawMessage(part))
	}
	return nil
}

// Accommodation is one raw upstream record. Only the fields the formatter reads are decoded.
type Accommodation struct {
	ID              *int64            `json:"id"`
	AccommodationID *int64            `json:"accommodationID"`
	Title           *string           `json:"title"`
	City            *string           `json:"city"`
	Country         *string           `json:"country"`
	Resort          *string           `json:"resort"`
	Category        json.RawMessage   `json:"category"`
	Type            json.RawMessage   `json:"type"`
	InternetWifi    bool              `json:"internetWifi"`
	Parking         bool              `json:"parking"`
	Pets            bool              `json:"pets"`
	Balcony         bool              `json:"balcony"`
	Kitchen         bool              `json:"kitchen"`
	DistResort      *float64          `json:"distResort"`
	DistRuns        *float64          `json:"distRuns"`
	DistCentre      *float64          `json:"distCentre"`
	URL             *string           `json:"url"`
	Images          []json.RawMessage `json:"images"`
	Offers          []Offer           `json:"offers"`
}

// Offer is one priced option of an accommodation.
type Offer struct {
	FacilityID             *int64   `json:"facilityID"`
	FacilityTitle          *string  `json:"facilityTitle"`
	Beds                   *float64 `json:"beds"`
	Bedrooms               *float64 `json:"bedrooms"`
	SizeSqM                *float64 `json:"sizeSqM"`
	MaxPersons             *float64 `json:"maxPersons"`
	TotalPrice             *float64 `json:"totalPrice"`
	BreakfastIncluded      bool     `json:"breakfastIncluded"`
	ReservationURL         *string  `json:"reservationUrl"`
	FreeCancellationBefore *string  `json:"freeCancellationBefore"`
	Conditions             *string  `json:"conditions"`
}

// SearchResult is the payload returned to tool callers and stored in the cache.
// Exactly one of the three shapes is populated: a summary with accommodations,
// a message with search info, or an error.
type SearchResult struct {
	SearchSummary       *SearchSummary           `json:"search_summary,omitempty"`
	Accommodations      []FormattedAccommodation `json:"accommodations,omitempty"`
	Message             string                   `json:"message,omitempty"`
	SearchInfo          *SearchInfo              `json:"search_info,omitempty"`
	Error               string                   `json:"error,omitempty"`
	Suggestions         []string                 `json:"suggestions,omitempty"`
	AttemptedStrategies []AttemptReport          `json:"attempted_strategies,omitempty"`
}

// IsError reports whether the payload is an error payload.
func (r *SearchResult) IsError() bool {
	return r != nil && r.Error != ""
}

type SearchSummary struct {
	ArrivalDate   string     `json:"arrival_date"`
	DepartureDate string     `json:"departure_date"`
	Nights        Field[int] `json:"nights"`
	PersonsCount  int        `json:"persons_count"`
	TotalFound    int        `json:"total_found"`
	Currency      string     `json:"currency"`
}

type SearchInfo struct {
	Arrival   string     `json:"arrival"`
	Departure string     `json:"departure"`
	Nights    Field[int] `json:"nights"`
	Persons   int        `json:"persons"`
}

// AttemptReport records one strategy that did not produce a result.
type AttemptReport struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error"`
}

type FormattedAccommodation struct {
	Name            Field[string]     `json:"name"`
	Location        LocationInfo      `json:"location"`
	PropertyDetails PropertyDetails   `json:"property_details"`
	Pricing         Pricing           `json:"pricing"`
	Amenities       Amenities         `json:"amenities"`
	Distances       Distances         `json:"distances"`
	Booking         Booking           `json:"booking"`
	Facilities      []FacilityRef     `json:"facilities"`
	PropertyURL     Field[string]     `json:"property_url"`
	Images          []json.RawMessage `json:"images"`
}

type LocationInfo struct {
	City        Field[string] `json:"city"`
	Country     Field[string] `json:"country"`
	Resort      Field[string] `json:"resort"`
	FullAddress string        `json:"full_address"`
}

type PropertyDetails struct {
	AccommodationID Field[int64]           `json:"accommodation_id"`
	Category        Field[json.RawMessage] `json:"category"`
	Type            Field[json.RawMessage] `json:"type"`
	Beds            Field[float64]         `json:"beds"`
	Bedrooms        Field[float64]         `json:"bedrooms"`
	SizeSqM         Field[float64]         `json:"size_sqm"`
	MaxOccupancy    Field[float64]         `json:"max_occupancy"`
}

type Pricing struct {
	TotalPrice    Field[float64] `json:"total_price"`
	Currency      string         `json:"currency"`
	Nights        Field[int]     `json:"nights"`
	PricePerNight Field[float64] `json:"price_per_night"`
}

type Amenities struct {
	Wifi              bool `json:"wifi"`
	Parking           bool `json:"parking"`
	PetsAllowed       bool `json:"pets_allowed"`
	BreakfastIncluded bool `json:"breakfast_included"`
	Balcony           bool `json:"balcony"`
	Kitchen           bool `json:"kitchen"`
}

type Distances struct {
	ToResortCenter string `json:"to_resort_center"`
	ToSkiRuns      string `json:"to_ski_runs"`
	ToCityCenter   string `json:"to_city_center"`
}

// FacilityRef names one bookable room so callers can ask for its details.
type FacilityRef struct {
	FacilityID Field[int64]   `json:"facility_id"`
	Title      Field[string]  `json:"facility_title"`
	TotalPrice Field[float64] `json:"total_price"`
}

type Booking struct {
	ReservationURL        Field[string] `json:"reservation_url"`
	FreeCancellationUntil string        `json:"free_cancellation_until"`
	BookingConditions     string        `json:"booking_conditions"`
}
