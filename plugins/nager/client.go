package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/va6996/mountvacation-mcp/log"
	"github.com/va6996/mountvacation-mcp/tools"
)

const DefaultBaseURL = "https://date.nager.at/api/v3"

// Client handles Nager.Date API requests
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Now is used to default the year and to answer "is today a holiday".
	Now func() time.Time
}

// NewClient creates a new Nager.Date API client and registers its tools
func NewClient(baseURL string, registry *tools.Registry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = log.NewLeveledLogger("nager")
	rc.HTTPClient.Timeout = 15 * time.Second

	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: rc.StandardClient(),
		Now:        time.Now,
	}

	if registry != nil {
		NewPublicHolidaysTool(c, registry)
		NewLongWeekendsTool(c, registry)
	}

	return c
}

// Holiday represents a public holiday from Nager.Date API
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// LongWeekend represents a long weekend from Nager.Date API
type LongWeekend struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DayCount      int    `json:"dayCount"`
	NeedBridgeDay bool   `json:"needBridgeDay"`
}

// GetPublicHolidays returns public holidays for a specific country and year
func (c *Client) GetPublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	var holidays []Holiday
	if err := c.get(ctx, fmt.Sprintf("/PublicHolidays/%d/%s", year, countryCode), &holidays); err != nil {
		return nil, fmt.Errorf("failed to get public holidays: %w", err)
	}
	return holidays, nil
}

// GetLongWeekends returns long weekends for a specific country and year
func (c *Client) GetLongWeekends(ctx context.Context, year int, countryCode string) ([]LongWeekend, error) {
	var weekends []LongWeekend
	if err := c.get(ctx, fmt.Sprintf("/LongWeekend/%d/%s", year, countryCode), &weekends); err != nil {
		return nil, fmt.Errorf("failed to get long weekends: %w", err)
	}
	return weekends, nil
}

// HolidaysBetween returns the holidays falling within [from, to], both YYYY-MM-DD.
func (c *Client) HolidaysBetween(ctx context.Context, countryCode, from, to string) ([]Holiday, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q", from)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q", to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("to date must not be before from date")
	}

	var out []Holiday
	for year := start.Year(); year <= end.Year(); year++ {
		holidays, err := c.GetPublicHolidays(ctx, year, countryCode)
		if err != nil {
			return nil, err
		}
		for _, h := range holidays {
			if h.Date >= from && h.Date <= to {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("unknown country code")
	default:
		return fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
