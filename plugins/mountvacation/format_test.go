package mountvacation

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, body string) *SearchResponse {
	t.Helper()
	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func TestFormatResults(t *testing.T) {
	result := FormatResults(decodeResponse(t, sampleResponse), 5)

	require.NotNil(t, result.SearchSummary)
	assert.Equal(t, "2026-02-01", result.SearchSummary.ArrivalDate)
	assert.Equal(t, Some(7), result.SearchSummary.Nights)
	assert.Equal(t, 2, result.SearchSummary.PersonsCount)
	assert.Equal(t, 1, result.SearchSummary.TotalFound)
	assert.Equal(t, "EUR", result.SearchSummary.Currency)
	require.Len(t, result.Accommodations, 1)

	acc := result.Accommodations[0]
	assert.Equal(t, Some("Hotel Alpina"), acc.Name)
	assert.Equal(t, "Chamonix, France", acc.Location.FullAddress)
	assert.Equal(t, Some(1400.0), acc.Pricing.TotalPrice)
	assert.Equal(t, Some(200.0), acc.Pricing.PricePerNight)
	assert.Equal(t, Some(2.0), acc.PropertyDetails.MaxOccupancy)
	assert.True(t, acc.Amenities.Wifi)
	assert.True(t, acc.Amenities.BreakfastIncluded)
	assert.False(t, acc.Amenities.Kitchen)
	assert.Equal(t, Distances{ToResortCenter: "150m", ToSkiRuns: "300.5m", ToCityCenter: "200m"}, acc.Distances)
	assert.Equal(t, "2026-01-25", acc.Booking.FreeCancellationUntil)
	assert.Equal(t, "Standard terms apply", acc.Booking.BookingConditions)
	assert.Len(t, acc.Images, 3)
	assert.Equal(t, Some(int64(1234)), acc.PropertyDetails.AccommodationID)
	assert.Equal(t, []FacilityRef{
		{FacilityID: Some(int64(77)), Title: Some("Double room"), TotalPrice: Some(1400.0)},
		{FacilityID: Some(int64(78)), TotalPrice: Some(9999.0)},
	}, acc.Facilities)
	assert.False(t, result.IsError())
}

func TestFormatResults_AccommodationIDPrefersAccommodationIDKey(t *testing.T) {
	result := FormatResults(decodeResponse(t, `{"accommodations": [{"id": 1, "accommodationID": 2}, {"id": 3}, {}]}`), 5)
	require.Len(t, result.Accommodations, 3)
	assert.Equal(t, Some(int64(2)), result.Accommodations[0].PropertyDetails.AccommodationID)
	assert.Equal(t, Some(int64(3)), result.Accommodations[1].PropertyDetails.AccommodationID)
	assert.False(t, result.Accommodations[2].PropertyDetails.AccommodationID.Valid)
	assert.Empty(t, result.Accommodations[2].Facilities)
}

func TestFormatResults_FacilitiesCappedAtThree(t *testing.T) {
	body := `{"accommodations": [{"offers": [{"facilityID": 1}, {"facilityID": 2}, {"facilityID": 3}, {"facilityID": 4}]}]}`
	result := FormatResults(decodeResponse(t, body), 5)
	facilities := result.Accommodations[0].Facilities
	require.Len(t, facilities, 3)
	assert.Equal(t, Some(int64(3)), facilities[2].FacilityID)

	b, err := json.Marshal(facilities[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"facility_id": 1, "facility_title": "N/A", "total_price": "N/A"}`, string(b))
}

func TestFormatResults_Empty(t *testing.T) {
	result := FormatResults(decodeResponse(t, emptyResponse), 5)

	assert.Equal(t, "No accommodations found for your search criteria.", result.Message)
	assert.Empty(t, result.Accommodations)
	assert.Nil(t, result.SearchSummary)
	require.NotNil(t, result.SearchInfo)
	assert.Equal(t, 2, result.SearchInfo.Persons)

	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"accommodations"`)
	assert.Contains(t, string(b), `"message"`)
}

func TestFormatResults_MissingFieldsRenderSentinel(t *testing.T) {
	result := FormatResults(decodeResponse(t, `{"accommodations": [{}]}`), 5)
	require.Len(t, result.Accommodations, 1)

	b, err := json.Marshal(result.Accommodations[0])
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "N/A", out["name"])
	assert.Equal(t, "N/A", out["property_url"])
	assert.Equal(t, []interface{}{}, out["images"])

	pricing := out["pricing"].(map[string]interface{})
	assert.Equal(t, "N/A", pricing["total_price"])
	assert.Equal(t, "N/A", pricing["price_per_night"])
	assert.Equal(t, "N/A", pricing["nights"])
	assert.Equal(t, "EUR", pricing["currency"])

	loc := out["location"].(map[string]interface{})
	assert.Equal(t, "N/A, N/A", loc["full_address"])

	details := out["property_details"].(map[string]interface{})
	for _, k := range []string{"category", "type", "beds", "bedrooms", "size_sqm", "max_occupancy"} {
		assert.Equal(t, "N/A", details[k], k)
	}

	booking := out["booking"].(map[string]interface{})
	assert.Equal(t, "Check policy", booking["free_cancellation_until"])
	assert.Equal(t, "N/A", out["distances"].(map[string]interface{})["to_ski_runs"])
}

func TestFormatResults_Truncates(t *testing.T) {
	var accs []string
	for i := 0; i < 30; i++ {
		accs = append(accs, fmt.Sprintf(`{"title": "Chalet %d"}`, i))
	}
	body := `{"nights": 3, "accommodations": [` + strings.Join(accs, ",") + `]}`

	result := FormatResults(decodeResponse(t, body), 20)
	assert.Len(t, result.Accommodations, 20)
	assert.Equal(t, 20, result.SearchSummary.TotalFound)
	assert.Equal(t, Some("Chalet 0"), result.Accommodations[0].Name)
}

func TestPricePerNight(t *testing.T) {
	n := func(v int) *int { return &v }
	p := func(v float64) *float64 { return &v }

	assert.Equal(t, Some(200.0), pricePerNight(p(1400), n(7)))
	assert.Equal(t, Some(333.33), pricePerNight(p(1000), n(3)))
	assert.Equal(t, Some(500.0), pricePerNight(p(500), n(0)))
	assert.Equal(t, Some(500.0), pricePerNight(p(500), nil))
	assert.Equal(t, Field[float64]{}, pricePerNight(nil, n(7)))
	assert.Equal(t, Field[float64]{}, pricePerNight(p(0), n(7)))
}

func TestPersonsAges_Unmarshal(t *testing.T) {
	var p PersonsAges
	require.NoError(t, json.Unmarshal([]byte(`"18, 18,12"`), &p))
	assert.Len(t, p, 3)
	require.NoError(t, json.Unmarshal([]byte(`[30, 8]`), &p))
	assert.Len(t, p, 2)
	assert.Error(t, json.Unmarshal([]byte(`{}`), &p))
}

func TestSearchResult_RoundTrip(t *testing.T) {
	result := FormatResults(decodeResponse(t, sampleResponse), 5)
	first, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded SearchResult
	require.NoError(t, json.Unmarshal(first, &decoded))
	second, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, string(first), string(second))
}

func TestSearchResponse_HasError(t *testing.T) {
	assert.False(t, decodeResponse(t, `{}`).HasError())
	assert.False(t, decodeResponse(t, `{"error": null}`).HasError())
	assert.False(t, decodeResponse(t, `{"error": ""}`).HasError())

	resp := decodeResponse(t, `{"error": "Unknown region"}`)
	assert.True(t, resp.HasError())
	assert.Equal(t, "Unknown region", resp.ErrorMessage())

	resp = decodeResponse(t, `{"error": {"code": 4}}`)
	assert.True(t, resp.HasError())
	assert.Equal(t, `{"code": 4}`, resp.ErrorMessage())
}

func TestSearchResponse_HasErrorFalsyValues(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"error": {}}`, false},
		{`{"error": []}`, false},
		{`{"error": 0.0}`, false},
		{`{"error": 0}`, false},
		{`{"error": false}`, false},
		{`{"error": ""}`, false},
		{`{"error": null}`, false},
		{`{"error": "x"}`, true},
		{`{"error": ["bad dates"]}`, true},
		{`{"error": {"code": 1}}`, true},
		{`{"error": 1.5}`, true},
		{`{"error": true}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeResponse(t, tt.body).HasError())
		})
	}
}
