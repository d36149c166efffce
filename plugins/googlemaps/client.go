package googlemaps

import (
	"context"
	"errors"
	"fmt"

	"github.com/va6996/mountvacation-mcp/log"
	"googlemaps.github.io/maps"
)

// ErrNoResults is returned when the geocoder knows nothing about an address.
var ErrNoResults = errors.New("no geocoding results")

// Client handles Google Maps geocoding requests
type Client struct {
	MapsClient *maps.Client
}

// NewClient creates a new Google Maps API client
// Returns an error if the client cannot be initialized
func NewClient(apiKey string, opts ...maps.ClientOption) (*Client, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &Client{
		MapsClient: c,
	}, nil
}

// Geocode returns the coordinates of the best match for address.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if c.MapsClient == nil {
		return 0, 0, fmt.Errorf("maps client not initialized")
	}

	results, err := c.MapsClient.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%q: %w", address, ErrNoResults)
	}

	loc := results[0].Geometry.Location
	log.Debugf(ctx, "Geocode: %q -> %s (%f,%f)", address, results[0].FormattedAddress, loc.Lat, loc.Lng)
	return loc.Lat, loc.Lng, nil
}
