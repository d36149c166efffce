package mountvacation

import (
	"encoding/json"
	"math"
	"strconv"
)

const (
	defaultCurrency      = "EUR"
	defaultCancellation  = "Check policy"
	defaultConditions    = "Standard terms apply"
	noResultsMessage     = "No accommodations found for your search criteria."
	maxImagesPerProperty = 3
	maxFacilities        = 3
)

// FormatResults flattens a raw search response into the caller-facing payload,
// keeping at most maxResults accommodations.
func FormatResults(resp *SearchResponse, maxResults int) *SearchResult {
	accommodations := resp.Accommodations
	if maxResults >= 0 && len(accommodations) > maxResults {
		accommodations = accommodations[:maxResults]
	}

	nights := FromPtr(resp.Nights)

	if len(accommodations) == 0 {
		return &SearchResult{
			Message: noResultsMessage,
			SearchInfo: &SearchInfo{
				Arrival:   resp.Arrival,
				Departure: resp.Departure,
				Nights:    nights,
				Persons:   len(resp.PersonsAges),
			},
		}
	}

	currency := resp.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	result := &SearchResult{
		SearchSummary: &SearchSummary{
			ArrivalDate:   resp.Arrival,
			DepartureDate: resp.Departure,
			Nights:        nights,
			PersonsCount:  len(resp.PersonsAges),
			TotalFound:    len(accommodations),
			Currency:      currency,
		},
		Accommodations: make([]FormattedAccommodation, 0, len(accommodations)),
	}

	for i := range accommodations {
		result.Accommodations = append(result.Accommodations, formatAccommodation(&accommodations[i], resp.Nights, currency))
	}
	return result
}

func formatAccommodation(acc *Accommodation, nights *int, currency string) FormattedAccommodation {
	// The first offer is the best one.
	var offer Offer
	if len(acc.Offers) > 0 {
		offer = acc.Offers[0]
	}

	city := FromPtr(acc.City)
	country := FromPtr(acc.Country)

	images := acc.Images
	if len(images) > maxImagesPerProperty {
		images = images[:maxImagesPerProperty]
	}
	if images == nil {
		images = []json.RawMessage{}
	}

	facilities := make([]FacilityRef, 0, maxFacilities)
	for i := 0; i < len(acc.Offers) && i < maxFacilities; i++ {
		o := acc.Offers[i]
		facilities = append(facilities, FacilityRef{
			FacilityID: FromPtr(o.FacilityID),
			Title:      FromPtr(o.FacilityTitle),
			TotalPrice: FromPtr(o.TotalPrice),
		})
	}

	accID := acc.AccommodationID
	if accID == nil {
		accID = acc.ID
	}

	return FormattedAccommodation{
		Name: FromPtr(acc.Title),
		Location: LocationInfo{
			City:        city,
			Country:     country,
			Resort:      FromPtr(acc.Resort),
			FullAddress: orNA(acc.City) + ", " + orNA(acc.Country),
		},
		PropertyDetails: PropertyDetails{
			AccommodationID: FromPtr(accID),
			Category:        rawField(acc.Category),
			Type:            rawField(acc.Type),
			Beds:            FromPtr(offer.Beds),
			Bedrooms:        FromPtr(offer.Bedrooms),
			SizeSqM:         FromPtr(offer.SizeSqM),
			MaxOccupancy:    FromPtr(offer.MaxPersons),
		},
		Pricing: Pricing{
			TotalPrice:    FromPtr(offer.TotalPrice),
			Currency:      currency,
			Nights:        FromPtr(nights),
			PricePerNight: pricePerNight(offer.TotalPrice, nights),
		},
		Amenities: Amenities{
			Wifi:              acc.InternetWifi,
			Parking:           acc.Parking,
			PetsAllowed:       acc.Pets,
			BreakfastIncluded: offer.BreakfastIncluded,
			Balcony:           acc.Balcony,
			Kitchen:           acc.Kitchen,
		},
		Distances: Distances{
			ToResortCenter: metres(acc.DistResort),
			ToSkiRuns:      metres(acc.DistRuns),
			ToCityCenter:   metres(acc.DistCentre),
		},
		Booking: Booking{
			ReservationURL:        FromPtr(offer.ReservationURL),
			FreeCancellationUntil: orDefault(offer.FreeCancellationBefore, defaultCancellation),
			BookingConditions:     orDefault(offer.Conditions, defaultConditions),
		},
		Facilities:  facilities,
		PropertyURL: FromPtr(acc.URL),
		Images:      images,
	}
}

// pricePerNight divides the total by the number of nights, floored at one night,
// rounded to cents. A missing or zero total yields N/A.
func pricePerNight(total *float64, nights *int) Field[float64] {
	if total == nil || *total == 0 {
		return Field[float64]{}
	}
	n := 1
	if nights != nil && *nights > 1 {
		n = *nights
	}
	return Some(math.Round(*total/float64(n)*100) / 100)
}

func metres(d *float64) string {
	if d == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*d, 'f', -1, 64) + "m"
}

func rawField(raw json.RawMessage) Field[json.RawMessage] {
	if len(raw) == 0 || string(raw) == "null" {
		return Field[json.RawMessage]{}
	}
	return Some(raw)
}

func orNA(s *string) string {
	return orDefault(s, NotAvailable)
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
