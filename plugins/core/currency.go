package core

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
	"github.com/va6996/mountvacation-mcp/tools"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// GetCurrencyForCountry returns the currency code for a given country code (ISO 3166-1 alpha-2).
// Defaults to "EUR" if the country is not found or empty, matching the search default.
func GetCurrencyForCountry(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return "EUR"
	}

	region, err := language.ParseRegion(code)
	if err != nil {
		return "EUR"
	}

	cur, ok := currency.FromRegion(region)
	if !ok {
		return "EUR"
	}

	return cur.String()
}

// CurrencyTool wraps GetCurrencyForCountry
type CurrencyTool struct{}

// CurrencyResult is returned by get_currency_for_country.
type CurrencyResult struct {
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
}

func NewCurrencyTool(registry *tools.Registry) *CurrencyTool {
	t := &CurrencyTool{}
	if registry == nil {
		return t
	}

	registry.Register(mcp.NewTool("get_currency_for_country",
		mcp.WithDescription("Returns the ISO 4217 currency code used in a country (ISO 3166-1 alpha-2), e.g. CH -> CHF. Useful for choosing the search currency."),
		mcp.WithString("country_code", mcp.Required(), mcp.Description("ISO 3166-1 alpha-2 country code")),
	), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		countryCode := cast.ToString(args["country_code"])
		return &CurrencyResult{
			CountryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
			Currency:    GetCurrencyForCountry(countryCode),
		}, nil
	})

	return t
}
