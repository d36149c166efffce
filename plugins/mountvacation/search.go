package mountvacation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/va6996/mountvacation-mcp/log"
	"golang.org/x/text/currency"
)

const (
	dateLayout   = "2006-01-02"
	maxPersonAge = 120
)

var notFoundSuggestions = []string{
	"Try a nearby city or resort name",
	"Check if the location is a mountain destination",
	"Verify the spelling of the location",
}

// Upstream is the search endpoint the orchestrator queries.
type Upstream interface {
	Search(ctx context.Context, p SearchParams) (*SearchResponse, error)
}

// SearchRequest is one accommodation search. Either Location or Direct must be set.
type SearchRequest struct {
	Location    string
	Direct      *Strategy
	Arrival     string
	Departure   string
	PersonsAges []int
	Currency    string
	MaxResults  int
}

// StrategyAttempt is the outcome of one failed strategy.
type StrategyAttempt struct {
	Strategy Strategy
	Err      error
}

// Searcher runs the cache, validation, resolution and strategy fallback pipeline.
type Searcher struct {
	Upstream          Upstream
	Resolver          *Resolver
	Cache             *ResultCache
	MaxResultsDefault int
	MaxResultsLimit   int

	// Now is the clock for the arrival-in-the-past check.
	Now func() time.Time
}

// NewSearcher wires a searcher. Result limits fall back to 5 and 20 when unset.
func NewSearcher(upstream Upstream, resolver *Resolver, cache *ResultCache, defaultResults, limit int) *Searcher {
	if limit <= 0 {
		limit = 20
	}
	if defaultResults <= 0 || defaultResults > limit {
		defaultResults = min(5, limit)
	}
	if resolver == nil {
		resolver = NewResolver(nil, nil)
	}
	return &Searcher{
		Upstream:          upstream,
		Resolver:          resolver,
		Cache:             cache,
		MaxResultsDefault: defaultResults,
		MaxResultsLimit:   limit,
		Now:               time.Now,
	}
}

// Normalize validates request fields that don't need the clock and canonicalizes the rest.
func (s *Searcher) Normalize(req SearchRequest) (SearchRequest, error) {
	req.Location = strings.TrimSpace(req.Location)
	req.Arrival = strings.TrimSpace(req.Arrival)
	req.Departure = strings.TrimSpace(req.Departure)

	if req.Location == "" && req.Direct == nil {
		return req, fmt.Errorf("location is required")
	}
	if len(req.PersonsAges) == 0 {
		return req, fmt.Errorf("persons_ages must list at least one guest age")
	}
	for _, age := range req.PersonsAges {
		if age < 0 || age > maxPersonAge {
			return req, fmt.Errorf("invalid guest age %d: must be between 0 and %d", age, maxPersonAge)
		}
	}

	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}
	if _, err := currency.ParseISO(req.Currency); err != nil {
		return req, fmt.Errorf("unsupported currency %q: must be an ISO 4217 code", req.Currency)
	}

	switch {
	case req.MaxResults <= 0:
		req.MaxResults = s.MaxResultsDefault
	case req.MaxResults > s.MaxResultsLimit:
		req.MaxResults = s.MaxResultsLimit
	}
	return req, nil
}

// CacheKey identifies the equivalence class of a normalized request.
func CacheKey(req SearchRequest) string {
	loc := normalizeLocation(req.Location)
	if req.Direct != nil {
		loc = "@" + req.Direct.String()
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%d", loc, req.Arrival, req.Departure, joinAges(req.PersonsAges), req.Currency, req.MaxResults)
}

// Search returns a formatted result or an error payload; it never returns nil.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) *SearchResult {
	req, err := s.Normalize(req)
	if err != nil {
		log.Warnf(ctx, "Searcher: rejected request: %v", err)
		return &SearchResult{Error: err.Error()}
	}

	key := CacheKey(req)
	return s.Cache.Do(ctx, key, func(ctx context.Context) (*SearchResult, bool) {
		return s.run(ctx, req)
	})
}

func (s *Searcher) run(ctx context.Context, req SearchRequest) (*SearchResult, bool) {
	if err := s.validateDates(req.Arrival, req.Departure); err != nil {
		log.Warnf(ctx, "Searcher: %v", err)
		return &SearchResult{Error: "Invalid date format or range: " + err.Error()}, true
	}

	var strategies []Strategy
	if req.Direct != nil {
		strategies = []Strategy{*req.Direct}
	} else {
		strategies = s.Resolver.Resolve(ctx, req.Location)
	}
	log.Infof(ctx, "Searcher: %d strategies for %q", len(strategies), req.Location)

	var attempts []StrategyAttempt
	for _, st := range strategies {
		params := SearchParams{
			Strategy:    st,
			Arrival:     req.Arrival,
			Departure:   req.Departure,
			PersonsAges: req.PersonsAges,
			Currency:    req.Currency,
		}
		resp, err := s.Upstream.Search(ctx, params)
		if err == nil {
			fillFromRequest(resp, req)
			result := FormatResults(resp, req.MaxResults)
			log.Infof(ctx, "Searcher: strategy %s succeeded with %d accommodations", st, len(result.Accommodations))
			return result, true
		}

		log.Warnf(ctx, "Searcher: strategy %s failed: %v", st, err)
		attempts = append(attempts, StrategyAttempt{Strategy: st, Err: err})

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Terminal() {
			return &SearchResult{Error: apiErr.Message}, false
		}
		if ctx.Err() != nil {
			return &SearchResult{Error: CancelledMessage, AttemptedStrategies: reports(attempts)}, false
		}
	}

	name := req.Location
	if req.Direct != nil {
		name = req.Direct.String()
	}
	return &SearchResult{
		Error:               fmt.Sprintf("No accommodations found for '%s'. Please try a different location or check the spelling.", name),
		Suggestions:         append([]string(nil), notFoundSuggestions...),
		AttemptedStrategies: reports(attempts),
	}, true
}

func (s *Searcher) validateDates(arrival, departure string) error {
	a, err := time.Parse(dateLayout, arrival)
	if err != nil {
		return fmt.Errorf("arrival date %q is not YYYY-MM-DD", arrival)
	}
	d, err := time.Parse(dateLayout, departure)
	if err != nil {
		return fmt.Errorf("departure date %q is not YYYY-MM-DD", departure)
	}
	if !a.Before(d) {
		return errors.New("Departure date must be after arrival date")
	}
	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if a.Before(today) {
		return errors.New("Arrival date cannot be in the past")
	}
	return nil
}

// fillFromRequest supplies echo fields the API left out.
func fillFromRequest(resp *SearchResponse, req SearchRequest) {
	if resp.Arrival == "" {
		resp.Arrival = req.Arrival
	}
	if resp.Departure == "" {
		resp.Departure = req.Departure
	}
	if resp.Currency == "" {
		resp.Currency = req.Currency
	}
	if len(resp.PersonsAges) == 0 {
		resp.PersonsAges = make(PersonsAges, len(req.PersonsAges))
		for i, a := range req.PersonsAges {
			resp.PersonsAges[i] = []byte(fmt.Sprint(a))
		}
	}
}

func reports(attempts []StrategyAttempt) []AttemptReport {
	out := make([]AttemptReport, len(attempts))
	for i, a := range attempts {
		out[i] = AttemptReport{Strategy: a.Strategy.String(), Error: a.Err.Error()}
	}
	return out
}
