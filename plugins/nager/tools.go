package nager

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
	"github.com/va6996/mountvacation-mcp/log"
	"github.com/va6996/mountvacation-mcp/tools"
)

// --- Public Holidays Tool ---

type PublicHolidaysInput struct {
	CountryCode string
	Year        int
	From        string
	To          string
}

type PublicHolidaysOutput struct {
	CountryCode string    `json:"country_code"`
	Holidays    []Holiday `json:"holidays"`
	Count       int       `json:"count"`
}

type PublicHolidaysTool struct {
	client *Client
}

func NewPublicHolidaysTool(client *Client, registry *tools.Registry) *PublicHolidaysTool {
	t := &PublicHolidaysTool{client: client}
	if registry == nil {
		return t
	}

	registry.Register(mcp.NewTool("get_public_holidays",
		mcp.WithDescription("Returns public holidays for a country, either for a whole year or between two dates. Holiday periods are busy on the slopes, so use this when choosing arrival and departure dates."),
		mcp.WithString("country_code", mcp.Required(), mcp.Description("ISO 3166-1 alpha-2 country code, e.g. AT")),
		mcp.WithNumber("year", mcp.Description("Year, defaults to the current year")),
		mcp.WithString("from", mcp.Description("Only holidays on or after this date (YYYY-MM-DD); requires 'to'")),
		mcp.WithString("to", mcp.Description("Only holidays on or before this date (YYYY-MM-DD)")),
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		year, err := cast.ToIntE(args["year"])
		if err != nil && args["year"] != nil {
			return nil, fmt.Errorf("invalid year: %v", args["year"])
		}
		return t.Execute(ctx, &PublicHolidaysInput{
			CountryCode: cast.ToString(args["country_code"]),
			Year:        year,
			From:        cast.ToString(args["from"]),
			To:          cast.ToString(args["to"]),
		})
	})
	return t
}

func (t *PublicHolidaysTool) Execute(ctx context.Context, input *PublicHolidaysInput) (*PublicHolidaysOutput, error) {
	code, err := countryCode(input.CountryCode)
	if err != nil {
		return nil, err
	}
	log.Debugf(ctx, "PublicHolidaysTool executing for %s year=%d from=%q to=%q", code, input.Year, input.From, input.To)

	var holidays []Holiday
	switch {
	case input.From != "" || input.To != "":
		if input.From == "" || input.To == "" {
			return nil, fmt.Errorf("from and to must be given together")
		}
		holidays, err = t.client.HolidaysBetween(ctx, code, input.From, input.To)
	default:
		year := input.Year
		if year == 0 {
			year = t.client.Now().Year()
		}
		holidays, err = t.client.GetPublicHolidays(ctx, year, code)
	}
	if err != nil {
		log.Errorf(ctx, "PublicHolidaysTool failed: %v", err)
		return nil, err
	}

	if holidays == nil {
		holidays = []Holiday{}
	}
	return &PublicHolidaysOutput{CountryCode: code, Holidays: holidays, Count: len(holidays)}, nil
}

// --- Long Weekends Tool ---

type LongWeekendsOutput struct {
	CountryCode string        `json:"country_code"`
	Year        int           `json:"year"`
	Weekends    []LongWeekend `json:"long_weekends"`
	Count       int           `json:"count"`
}

type LongWeekendsTool struct {
	client *Client
}

func NewLongWeekendsTool(client *Client, registry *tools.Registry) *LongWeekendsTool {
	t := &LongWeekendsTool{client: client}
	if registry == nil {
		return t
	}

	registry.Register(mcp.NewTool("get_long_weekends",
		mcp.WithDescription("Returns long weekends (three or more days off, possibly with a bridge day) for a country and year. Good candidates for short ski breaks."),
		mcp.WithString("country_code", mcp.Required(), mcp.Description("ISO 3166-1 alpha-2 country code")),
		mcp.WithNumber("year", mcp.Description("Year, defaults to the current year")),
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return t.Execute(ctx, cast.ToString(args["country_code"]), cast.ToInt(args["year"]))
	})
	return t
}

func (t *LongWeekendsTool) Execute(ctx context.Context, country string, year int) (*LongWeekendsOutput, error) {
	code, err := countryCode(country)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = t.client.Now().Year()
	}

	weekends, err := t.client.GetLongWeekends(ctx, year, code)
	if err != nil {
		log.Errorf(ctx, "LongWeekendsTool failed: %v", err)
		return nil, err
	}
	if weekends == nil {
		weekends = []LongWeekend{}
	}
	return &LongWeekendsOutput{CountryCode: code, Year: year, Weekends: weekends, Count: len(weekends)}, nil
}

func countryCode(s string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 2 {
		return "", fmt.Errorf("country_code must be a two-letter ISO code, got %q", s)
	}
	return code, nil
}
