package mountvacation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
	"github.com/va6996/mountvacation-mcp/log"
	"github.com/va6996/mountvacation-mcp/tools"
)

const stayParamsHelp = "arrival_date and departure_date are YYYY-MM-DD; persons_ages lists every guest's age, e.g. \"18,18,12,8\" for two adults and two children."

// SearchInput is the argument set shared by all search tools.
type SearchInput struct {
	Location      string
	ArrivalDate   string
	DepartureDate string
	PersonsAges   []int
	Currency      string
	MaxResults    int
}

func (in SearchInput) request(direct *Strategy) SearchRequest {
	return SearchRequest{
		Location:    in.Location,
		Direct:      direct,
		Arrival:     in.ArrivalDate,
		Departure:   in.DepartureDate,
		PersonsAges: in.PersonsAges,
		Currency:    in.Currency,
		MaxResults:  in.MaxResults,
	}
}

// parseSearchInput coerces loosely typed tool arguments. location is only required when needLocation is set.
func parseSearchInput(args map[string]interface{}, needLocation bool) (SearchInput, error) {
	in := SearchInput{
		Location:      strings.TrimSpace(cast.ToString(args["location"])),
		ArrivalDate:   strings.TrimSpace(cast.ToString(args["arrival_date"])),
		DepartureDate: strings.TrimSpace(cast.ToString(args["departure_date"])),
		Currency:      cast.ToString(args["currency"]),
	}
	if needLocation && in.Location == "" {
		return in, fmt.Errorf("location is required")
	}
	if in.ArrivalDate == "" || in.DepartureDate == "" {
		return in, fmt.Errorf("arrival_date and departure_date are required")
	}

	ages, err := ParsePersonsAges(args["persons_ages"])
	if err != nil {
		return in, err
	}
	in.PersonsAges = ages

	if v, ok := args["max_results"]; ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return in, fmt.Errorf("max_results must be a number: %w", err)
		}
		in.MaxResults = n
	}
	return in, nil
}

// ParsePersonsAges accepts "18,18,12", a JSON array of whole numbers or a single whole number.
func ParsePersonsAges(v interface{}) ([]int, error) {
	var items []interface{}
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("persons_ages is required")
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("persons_ages is required")
		}
	case []interface{}:
		items = t
	case []int:
		return append([]int(nil), t...), nil
	case []float64:
		for _, f := range t {
			items = append(items, f)
		}
	case []string:
		for _, str := range t {
			items = append(items, str)
		}
	default:
		items = []interface{}{t}
	}

	ages := make([]int, 0, len(items))
	for _, item := range items {
		age, err := wholeNumber(item)
		if err != nil {
			return nil, fmt.Errorf("invalid age %v in persons_ages", item)
		}
		ages = append(ages, int(age))
	}
	return ages, nil
}

// wholeNumber converts a decoded JSON scalar to an integer, rejecting fractions.
func wholeNumber(v interface{}) (int64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) || n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		return int64(n), nil
	case float32:
		return wholeNumber(float64(n))
	case json.Number:
		return wholeNumber(n.String())
	case bool, nil:
		return 0, fmt.Errorf("%v is not a number", v)
	}
	return cast.ToInt64E(v)
}

func stayOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("arrival_date", mcp.Required(), mcp.Description("Check-in date (YYYY-MM-DD)")),
		mcp.WithString("departure_date", mcp.Required(), mcp.Description("Check-out date (YYYY-MM-DD)")),
		mcp.WithString("persons_ages", mcp.Required(), mcp.Description("Comma-separated ages of all guests, e.g. \"18,18,12,8\"")),
		mcp.WithString("currency", mcp.DefaultString(defaultCurrency), mcp.Description("ISO 4217 currency code for prices, e.g. EUR, USD, GBP, CHF")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of accommodations to return")),
	}
}

// SearchTool implements search_accommodations.
type SearchTool struct {
	Searcher *Searcher
}

func (t *SearchTool) Name() string {
	return "search_accommodations"
}

func (t *SearchTool) Description() string {
	return "Search mountain vacation accommodations (ski resorts, alpine towns, regions) with pricing, amenities, distances and booking links. " + stayParamsHelp
}

func (t *SearchTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description()),
		mcp.WithString("location", mcp.Required(), mcp.Description("Resort, town or region name, e.g. \"Chamonix\", \"Madonna di Campiglio\", \"Dolomites\"")),
	}
	return mcp.NewTool(t.Name(), append(opts, stayOptions()...)...)
}

func (t *SearchTool) Execute(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if t.Searcher == nil {
		return nil, fmt.Errorf("searcher not initialized")
	}
	return t.Searcher.Search(ctx, input.request(nil)), nil
}

// NewSearchTool initializes and registers the SearchTool
func NewSearchTool(s *Searcher, registry *tools.Registry) *SearchTool {
	t := &SearchTool{Searcher: s}
	if registry == nil {
		return t
	}
	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		in, err := parseSearchInput(args, true)
		if err != nil {
			return nil, err
		}
		return t.Execute(ctx, in)
	})
	return t
}

// DirectSearchTool searches one known upstream location ID without name resolution.
type DirectSearchTool struct {
	Searcher *Searcher
	Type     IDType
}

func (t *DirectSearchTool) Name() string {
	return "search_by_" + string(t.Type) + "_id"
}

func (t *DirectSearchTool) argName() string {
	return string(t.Type) + "_id"
}

func (t *DirectSearchTool) Description() string {
	return fmt.Sprintf("Search accommodations by a MountVacation %s ID (see list_supported_locations). %s", t.Type, stayParamsHelp)
}

func (t *DirectSearchTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description()),
		mcp.WithString(t.argName(), mcp.Required(), mcp.Description(fmt.Sprintf("Numeric MountVacation %s ID", t.Type))),
	}
	return mcp.NewTool(t.Name(), append(opts, stayOptions()...)...)
}

func (t *DirectSearchTool) Execute(ctx context.Context, id string, input SearchInput) (*SearchResult, error) {
	if t.Searcher == nil {
		return nil, fmt.Errorf("searcher not initialized")
	}
	st := IDStrategy(t.Type, id)
	return t.Searcher.Search(ctx, input.request(&st)), nil
}

// NewDirectSearchTool initializes and registers a search_by_<type>_id tool
func NewDirectSearchTool(s *Searcher, idType IDType, registry *tools.Registry) *DirectSearchTool {
	t := &DirectSearchTool{Searcher: s, Type: idType}
	if registry == nil {
		return t
	}
	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		id := strings.TrimSpace(cast.ToString(args[t.argName()]))
		if id == "" {
			return nil, fmt.Errorf("%s is required", t.argName())
		}
		if _, err := cast.ToUint64E(id); err != nil {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", t.argName(), id)
		}
		in, err := parseSearchInput(args, false)
		if err != nil {
			return nil, err
		}
		return t.Execute(ctx, id, in)
	})
	return t
}

// GeoSearchTool implements search_by_geolocation.
type GeoSearchTool struct {
	Searcher      *Searcher
	DefaultRadius int
}

func (t *GeoSearchTool) Name() string {
	return "search_by_geolocation"
}

func (t *GeoSearchTool) Description() string {
	return "Search accommodations within a radius (metres) of a coordinate. " + stayParamsHelp
}

func (t *GeoSearchTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description()),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude in decimal degrees")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude in decimal degrees")),
		mcp.WithNumber("radius", mcp.DefaultNumber(float64(t.DefaultRadius)), mcp.Description("Search radius in metres")),
	}
	return mcp.NewTool(t.Name(), append(opts, stayOptions()...)...)
}

func (t *GeoSearchTool) Execute(ctx context.Context, lat, lng float64, radius int, input SearchInput) (*SearchResult, error) {
	if t.Searcher == nil {
		return nil, fmt.Errorf("searcher not initialized")
	}
	st := GeoStrategy(lat, lng, radius)
	return t.Searcher.Search(ctx, input.request(&st)), nil
}

// NewGeoSearchTool initializes and registers the GeoSearchTool
func NewGeoSearchTool(s *Searcher, registry *tools.Registry) *GeoSearchTool {
	t := &GeoSearchTool{Searcher: s, DefaultRadius: 10000}
	if registry == nil {
		return t
	}
	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		if args["latitude"] == nil || args["longitude"] == nil {
			return nil, fmt.Errorf("latitude and longitude are required")
		}
		lat, err := cast.ToFloat64E(args["latitude"])
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("latitude must be between -90 and 90")
		}
		lng, err := cast.ToFloat64E(args["longitude"])
		if err != nil || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("longitude must be between -180 and 180")
		}
		radius := t.DefaultRadius
		if v, ok := args["radius"]; ok && v != nil {
			radius, err = cast.ToIntE(v)
			if err != nil || radius <= 0 {
				return nil, fmt.Errorf("radius must be a positive number of metres")
			}
		}
		in, err := parseSearchInput(args, false)
		if err != nil {
			return nil, err
		}
		return t.Execute(ctx, lat, lng, radius, in)
	})
	return t
}

// LocationsTool implements list_supported_locations.
type LocationsTool struct {
	Table *LocationTable
}

// LocationsResult lists the destinations the resolver recognises.
type LocationsResult struct {
	Mappings     []LocationMapping `json:"mappings"`
	GeoFallbacks []GeoFallback     `json:"geo_fallbacks"`
}

func (t *LocationsTool) Name() string {
	return "list_supported_locations"
}

func (t *LocationsTool) Execute(ctx context.Context, query string) *LocationsResult {
	q := normalizeLocation(query)
	out := &LocationsResult{Mappings: []LocationMapping{}, GeoFallbacks: []GeoFallback{}}
	for _, m := range t.Table.Mappings() {
		if matchesQuery(q, m.Names, m.Description) {
			out.Mappings = append(out.Mappings, m)
		}
	}
	for _, g := range t.Table.GeoFallbacks() {
		if matchesQuery(q, g.Names, g.Description) {
			out.GeoFallbacks = append(out.GeoFallbacks, g)
		}
	}
	log.Debugf(ctx, "LocationsTool: %d mappings, %d geo fallbacks for %q", len(out.Mappings), len(out.GeoFallbacks), query)
	return out
}

func matchesQuery(q string, names []string, description string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(normalizeLocation(description), q) {
		return true
	}
	for _, n := range names {
		if strings.Contains(normalizeLocation(n), q) {
			return true
		}
	}
	return false
}

// NewLocationsTool initializes and registers the LocationsTool
func NewLocationsTool(table *LocationTable, registry *tools.Registry) *LocationsTool {
	t := &LocationsTool{Table: table}
	if registry == nil {
		return t
	}
	registry.Register(mcp.NewTool(t.Name(),
		mcp.WithDescription("Lists destinations with known MountVacation IDs or coordinates. Optional query filters by substring."),
		mcp.WithString("query", mcp.Description("Filter, e.g. \"italy\" or \"val\"")),
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return t.Execute(ctx, cast.ToString(args["query"])), nil
	})
	return t
}

// PropertiesFetcher reads accommodation and facility property sheets. *Client implements it.
type PropertiesFetcher interface {
	AccommodationProperties(ctx context.Context, accommodationID int64, lang string, includeFacilities bool) (json.RawMessage, error)
	FacilityProperties(ctx context.Context, accommodationID, facilityID int64, lang string) (json.RawMessage, error)
}

// DetailsResult wraps an upstream property sheet.
type DetailsResult struct {
	AccommodationID int64           `json:"accommodation_id"`
	FacilityID      int64           `json:"facility_id,omitempty"`
	Properties      json.RawMessage `json:"properties,omitempty"`
	Error           string          `json:"error,omitempty"`
}

func (r *DetailsResult) IsError() bool {
	return r != nil && r.Error != ""
}

func detailsFailure(ctx context.Context, result *DetailsResult, err error) (*DetailsResult, error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}
	log.Warnf(ctx, "Details: accommodation %d facility %d failed: %v", result.AccommodationID, result.FacilityID, err)
	result.Error = apiErr.Message
	return result, nil
}

func requiredID(args map[string]interface{}, name string) (int64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := wholeNumber(v)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %v", name, v)
	}
	return id, nil
}

// AccommodationDetailsTool implements get_accommodation_details.
type AccommodationDetailsTool struct {
	Fetcher PropertiesFetcher
}

func (t *AccommodationDetailsTool) Name() string {
	return "get_accommodation_details"
}

func (t *AccommodationDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("Get the full property sheet of one accommodation: description, amenities, wellness, distances, images and, optionally, every room or facility. Use property_details.accommodation_id from search results."),
		mcp.WithNumber("accommodation_id", mcp.Required(), mcp.Description("Accommodation ID from search results")),
		mcp.WithString("language", mcp.Description("Language for descriptions, e.g. en, de, it (default: server language)")),
		mcp.WithBoolean("include_facilities", mcp.DefaultBool(true), mcp.Description("Include property sheets of every room or facility")),
	)
}

func (t *AccommodationDetailsTool) Execute(ctx context.Context, accommodationID int64, lang string, includeFacilities bool) (*DetailsResult, error) {
	if t.Fetcher == nil {
		return nil, fmt.Errorf("accommodation details are not available")
	}
	result := &DetailsResult{AccommodationID: accommodationID}
	props, err := t.Fetcher.AccommodationProperties(ctx, accommodationID, lang, includeFacilities)
	if err != nil {
		return detailsFailure(ctx, result, err)
	}
	result.Properties = props
	return result, nil
}

// NewAccommodationDetailsTool initializes and registers the AccommodationDetailsTool
func NewAccommodationDetailsTool(s *Searcher, registry *tools.Registry) *AccommodationDetailsTool {
	t := &AccommodationDetailsTool{}
	if s != nil {
		t.Fetcher, _ = s.Upstream.(PropertiesFetcher)
	}
	if registry == nil {
		return t
	}
	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		id, err := requiredID(args, "accommodation_id")
		if err != nil {
			return nil, err
		}
		include := true
		if v, ok := args["include_facilities"]; ok && v != nil {
			if include, err = cast.ToBoolE(v); err != nil {
				return nil, fmt.Errorf("include_facilities must be a boolean")
			}
		}
		return t.Execute(ctx, id, cast.ToString(args["language"]), include)
	})
	return t
}

// FacilityDetailsTool implements get_facility_details.
type FacilityDetailsTool struct {
	Fetcher PropertiesFetcher
}

func (t *FacilityDetailsTool) Name() string {
	return "get_facility_details"
}

func (t *FacilityDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription("Get the property sheet of one room or facility within an accommodation: beds, views, kitchen and bathroom details. Use facilities[].facility_id from search results."),
		mcp.WithNumber("accommodation_id", mcp.Required(), mcp.Description("Accommodation ID from search results")),
		mcp.WithNumber("facility_id", mcp.Required(), mcp.Description("Room or facility ID from search results")),
		mcp.WithString("language", mcp.Description("Language for descriptions, e.g. en, de, it (default: server language)")),
	)
}

func (t *FacilityDetailsTool) Execute(ctx context.Context, accommodationID, facilityID int64, lang string) (*DetailsResult, error) {
	if t.Fetcher == nil {
		return nil, fmt.Errorf("facility details are not available")
	}
	result := &DetailsResult{AccommodationID: accommodationID, FacilityID: facilityID}
	props, err := t.Fetcher.FacilityProperties(ctx, accommodationID, facilityID, lang)
	if err != nil {
		return detailsFailure(ctx, result, err)
	}
	result.Properties = props
	return result, nil
}

// NewFacilityDetailsTool initializes and registers the FacilityDetailsTool
func NewFacilityDetailsTool(s *Searcher, registry *tools.Registry) *FacilityDetailsTool {
	t := &FacilityDetailsTool{}
	if s != nil {
		t.Fetcher, _ = s.Upstream.(PropertiesFetcher)
	}
	if registry == nil {
		return t
	}
	registry.Register(t.Definition(), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		accID, err := requiredID(args, "accommodation_id")
		if err != nil {
			return nil, err
		}
		facID, err := requiredID(args, "facility_id")
		if err != nil {
			return nil, err
		}
		return t.Execute(ctx, accID, facID, cast.ToString(args["language"]))
	})
	return t
}

// Plugin bundles the MountVacation tools.
type Plugin struct {
	SearchTool    *SearchTool
	ResortTool    *DirectSearchTool
	CityTool      *DirectSearchTool
	GeoTool       *GeoSearchTool
	LocationsTool *LocationsTool
	DetailsTool   *AccommodationDetailsTool
	FacilityTool  *FacilityDetailsTool
}

// NewPlugin registers every MountVacation tool.
func NewPlugin(s *Searcher, registry *tools.Registry) *Plugin {
	return &Plugin{
		SearchTool:    NewSearchTool(s, registry),
		ResortTool:    NewDirectSearchTool(s, IDResort, registry),
		CityTool:      NewDirectSearchTool(s, IDCity, registry),
		GeoTool:       NewGeoSearchTool(s, registry),
		LocationsTool: NewLocationsTool(s.Resolver.Table(), registry),
		DetailsTool:   NewAccommodationDetailsTool(s, registry),
		FacilityTool:  NewFacilityDetailsTool(s, registry),
	}
}

