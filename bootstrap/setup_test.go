package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/mountvacation-mcp/config"
	"github.com/va6996/mountvacation-mcp/plugins/mountvacation"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		MountVacation: config.MountVacationConfig{
			APIKey:         "test-key",
			BaseURL:        baseURL,
			Language:       "en",
			TimeoutSeconds: 5,
		},
		Search: config.SearchConfig{MaxResultsDefault: 5, MaxResultsLimit: 20},
		Cache: config.CacheConfig{
			TTLSeconds:      300,
			ErrorTTLSeconds: 60,
			MaxSize:         100,
			Backend:         "memory",
		},
		Server:   config.ServerConfig{Transport: "stdio"},
		Holidays: config.HolidaysConfig{Enabled: true, BaseURL: "http://127.0.0.1:1"},
	}
}

func TestSetup_RegistersAllTools(t *testing.T) {
	app, err := Setup(context.Background(), testConfig("http://127.0.0.1:1"))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{
		"calculate_date",
		"get_accommodation_details",
		"get_currency_for_country",
		"get_facility_details",
		"get_long_weekends",
		"get_public_holidays",
		"list_supported_locations",
		"search_accommodations",
		"search_by_city_id",
		"search_by_geolocation",
		"search_by_resort_id",
	}, app.Registry.Names())
	assert.Nil(t, app.Store)
	assert.NotNil(t, app.MCPServer)
}

func TestSetup_Backends(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Cache.Backend = "sqlite"
		cfg.Cache.DSN = "file:bootstrap_test?mode=memory&cache=shared"

		app, err := Setup(context.Background(), cfg)
		require.NoError(t, err)
		defer app.Close()
		require.NotNil(t, app.Store)
		assert.NoError(t, app.Cache.Ping(context.Background()))
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisAddr = mr.Addr()

		app, err := Setup(context.Background(), cfg)
		require.NoError(t, err)
		defer app.Close()
		require.NotNil(t, app.Store)
		assert.NoError(t, app.Cache.Ping(context.Background()))
	})

	t.Run("RedisUnavailable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig("http://127.0.0.1:1")
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisAddr = addr

		_, err := Setup(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestSetup_SearchEndToEnd(t *testing.T) {
	var calls int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "911", r.URL.Query().Get("region"))
		w.Write([]byte(`{"accommodations": [], "nights": 3}`))
	}))
	defer api.Close()

	app, err := Setup(context.Background(), testConfig(api.URL))
	require.NoError(t, err)
	defer app.Close()

	args := map[string]interface{}{
		"location":       "Madonna di Campiglio",
		"arrival_date":   "2099-02-01",
		"departure_date": "2099-02-04",
		"persons_ages":   "30,30",
	}
	for i := 0; i < 2; i++ {
		res := app.Registry.CallTool(context.Background(), "search_accommodations", args)
		require.False(t, res.IsError)
	}
	assert.Equal(t, 1, calls, "second call should be served from cache")

	out, err := app.Registry.ExecuteTool(context.Background(), "search_accommodations", args)
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)
	var result mountvacation.SearchResult
	require.NoError(t, json.Unmarshal(b, &result))
	assert.Equal(t, "No accommodations found for your search criteria.", result.Message)
}

func TestStartCleanup_NoopForMemory(t *testing.T) {
	app, err := Setup(context.Background(), testConfig("http://127.0.0.1:1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartCleanup(ctx, time.Millisecond)
	assert.NoError(t, app.Close())
}
