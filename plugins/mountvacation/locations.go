package mountvacation

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/va6996/mountvacation-mcp/log"
	"golang.org/x/text/cases"
)

// IDType names the query parameter a strategy sets upstream.
type IDType string

const (
	IDResort  IDType = "resort"
	IDCity    IDType = "city"
	IDRegion  IDType = "region"
	IDSkiArea IDType = "skiarea"
	IDGeo     IDType = "geo"
)

// ParseIDType accepts the upstream parameter names.
func ParseIDType(s string) (IDType, error) {
	switch t := IDType(strings.ToLower(strings.TrimSpace(s))); t {
	case IDResort, IDCity, IDRegion, IDSkiArea:
		return t, nil
	}
	return "", fmt.Errorf("unknown location id type %q", s)
}

// LocationMapping ties a set of place names to one upstream location ID.
type LocationMapping struct {
	Names       []string `json:"names"`
	Type        IDType   `json:"type"`
	ID          string   `json:"id"`
	Description string   `json:"description"`
}

// GeoFallback is a coordinate search used when no ID mapping knows the name.
type GeoFallback struct {
	Names       []string `json:"names"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Radius      int      `json:"radius"`
	Description string   `json:"description"`
}

// Strategy is one candidate query tried against the search endpoint.
type Strategy struct {
	Type      IDType
	ID        string
	Latitude  float64
	Longitude float64
	Radius    int
}

// IDStrategy builds a named-ID strategy.
func IDStrategy(t IDType, id string) Strategy {
	return Strategy{Type: t, ID: id}
}

// GeoStrategy builds a coordinate strategy.
func GeoStrategy(lat, lng float64, radius int) Strategy {
	return Strategy{Type: IDGeo, Latitude: lat, Longitude: lng, Radius: radius}
}

func (s Strategy) String() string {
	if s.Type == IDGeo {
		return fmt.Sprintf("geo:%s,%s/%dm", formatCoord(s.Latitude), formatCoord(s.Longitude), s.Radius)
	}
	return string(s.Type) + ":" + s.ID
}

// Params returns exactly the location parameters of this strategy.
func (s Strategy) Params() url.Values {
	v := url.Values{}
	if s.Type == IDGeo {
		v.Set("latitude", formatCoord(s.Latitude))
		v.Set("longitude", formatCoord(s.Longitude))
		v.Set("radius", strconv.Itoa(s.Radius))
		return v
	}
	v.Set(string(s.Type), s.ID)
	return v
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LocationTable is an immutable, pre-folded lookup table. Build it with NewLocationTable.
type LocationTable struct {
	mappings []LocationMapping
	geo      []GeoFallback
	idNames  []map[string]struct{}
	geoNames []map[string]struct{}
}

// NewLocationTable copies the given entries and indexes their names case-insensitively.
func NewLocationTable(mappings []LocationMapping, geo []GeoFallback) *LocationTable {
	t := &LocationTable{
		mappings: make([]LocationMapping, len(mappings)),
		geo:      make([]GeoFallback, len(geo)),
		idNames:  make([]map[string]struct{}, len(mappings)),
		geoNames: make([]map[string]struct{}, len(geo)),
	}
	for i, m := range mappings {
		m.Names = append([]string(nil), m.Names...)
		t.mappings[i] = m
		t.idNames[i] = nameSet(m.Names)
	}
	for i, g := range geo {
		g.Names = append([]string(nil), g.Names...)
		t.geo[i] = g
		t.geoNames[i] = nameSet(g.Names)
	}
	return t
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[normalizeLocation(n)] = struct{}{}
	}
	return set
}

// Mappings returns a copy of the ID mappings in declaration order.
func (t *LocationTable) Mappings() []LocationMapping {
	out := make([]LocationMapping, len(t.mappings))
	for i, m := range t.mappings {
		m.Names = append([]string(nil), m.Names...)
		out[i] = m
	}
	return out
}

// GeoFallbacks returns a copy of the coordinate fallbacks in declaration order.
func (t *LocationTable) GeoFallbacks() []GeoFallback {
	out := make([]GeoFallback, len(t.geo))
	for i, g := range t.geo {
		g.Names = append([]string(nil), g.Names...)
		out[i] = g
	}
	return out
}

// normalizeLocation trims, collapses inner whitespace and case-folds.
func normalizeLocation(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Geocoder turns free text into coordinates when the static tables miss.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// Resolver maps free-text locations onto search strategies.
type Resolver struct {
	table         *LocationTable
	geocoder      Geocoder
	geocodeRadius int
}

// DefaultGeocodeRadius is the search radius in metres for geocoded locations.
const DefaultGeocodeRadius = 25000

// NewResolver creates a resolver over table. geocoder may be nil.
func NewResolver(table *LocationTable, geocoder Geocoder) *Resolver {
	if table == nil {
		table = DefaultLocations()
	}
	return &Resolver{table: table, geocoder: geocoder, geocodeRadius: DefaultGeocodeRadius}
}

// Table exposes the resolver's lookup table.
func (r *Resolver) Table() *LocationTable {
	return r.table
}

// Resolve returns candidate strategies for location in table order.
// Every ID mapping containing the name contributes one strategy. Only when none
// match is a single coordinate fallback added. An empty result means the location is unknown.
func (r *Resolver) Resolve(ctx context.Context, location string) []Strategy {
	key := normalizeLocation(location)
	if key == "" {
		return nil
	}

	var strategies []Strategy
	for i, m := range r.table.mappings {
		if _, ok := r.table.idNames[i][key]; ok {
			strategies = append(strategies, IDStrategy(m.Type, m.ID))
		}
	}
	if len(strategies) > 0 {
		return strategies
	}

	for i, g := range r.table.geo {
		if _, ok := r.table.geoNames[i][key]; ok {
			return []Strategy{GeoStrategy(g.Latitude, g.Longitude, g.Radius)}
		}
	}

	if r.geocoder == nil {
		return nil
	}
	lat, lng, err := r.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Warnf(ctx, "Resolver: geocoding %q failed: %v", location, err)
		return nil
	}
	log.Debugf(ctx, "Resolver: geocoded %q to %f,%f", location, lat, lng)
	return []Strategy{GeoStrategy(lat, lng, r.geocodeRadius)}
}
