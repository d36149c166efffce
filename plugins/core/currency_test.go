package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/mountvacation-mcp/tools"
)

func TestGetCurrencyForCountry(t *testing.T) {
	tests := map[string]string{
		"CH":  "CHF",
		"at":  "EUR",
		" gb": "GBP",
		"US":  "USD",
		"":    "EUR",
		"??":  "EUR",
	}
	for in, want := range tests {
		assert.Equal(t, want, GetCurrencyForCountry(in), "country %q", in)
	}
}

func TestCurrencyTool_Registry(t *testing.T) {
	registry := tools.NewRegistry()
	NewCurrencyTool(registry)

	res, err := registry.ExecuteTool(context.Background(), "get_currency_for_country", map[string]interface{}{
		"country_code": "ch",
	})
	require.NoError(t, err)
	assert.Equal(t, &CurrencyResult{CountryCode: "CH", Currency: "CHF"}, res)
}

func TestNewClient(t *testing.T) {
	registry := tools.NewRegistry()
	c := NewClient(registry)
	assert.NotNil(t, c.DateTool)
	assert.NotNil(t, c.CurrencyTool)
	assert.Equal(t, []string{"calculate_date", "get_currency_for_country"}, registry.Names())
}
