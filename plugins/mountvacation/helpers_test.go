package mountvacation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/va6996/mountvacation-mcp/config"
)

// Saturday; arrivals before 2026-01-10 are in the past.
var fixedNow = func() time.Time { return time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC) }

const sampleResponse = `{
	"arrival": "2026-02-01",
	"departure": "2026-02-08",
	"nights": 7,
	"personsAges": "18,18",
	"currency": "EUR",
	"accommodations": [{
		"id": 1234,
		"title": "Hotel Alpina",
		"city": "Chamonix",
		"country": "France",
		"resort": "Chamonix Mont Blanc",
		"category": "4*",
		"type": "Hotel",
		"internetWifi": true,
		"parking": true,
		"balcony": true,
		"distResort": 150,
		"distRuns": 300.5,
		"distCentre": 200,
		"url": "https://www.mountvacation.com/a/1",
		"images": ["https://img/1.jpg", "https://img/2.jpg", "https://img/3.jpg", "https://img/4.jpg"],
		"offers": [{
			"facilityID": 77,
			"facilityTitle": "Double room",
			"beds": 2,
			"bedrooms": 1,
			"sizeSqM": 35,
			"maxPersons": 2,
			"totalPrice": 1400,
			"breakfastIncluded": true,
			"reservationUrl": "https://www.mountvacation.com/r/1",
			"freeCancellationBefore": "2026-01-25"
		}, {
			"facilityID": 78,
			"totalPrice": 9999
		}]
	}]
}`

const emptyResponse = `{"arrival": "2026-02-01", "departure": "2026-02-08", "nights": 7, "personsAges": [18, 18], "accommodations": []}`

// fakeAPI is an httptest upstream that records every request it sees.
type fakeAPI struct {
	*httptest.Server
	calls   atomic.Int32
	mu      sync.Mutex
	queries []url.Values
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) Calls() int {
	return int(f.calls.Load())
}

func (f *fakeAPI) Queries() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.queries...)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newTestClient(baseURL string) *Client {
	c := NewClient(config.MountVacationConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Language:       "en",
		TimeoutSeconds: 5,
	})
	c.HTTPClient.RetryWaitMin = time.Millisecond
	c.HTTPClient.RetryWaitMax = 5 * time.Millisecond
	return c
}

func newTestSearcher(api *fakeAPI, table *LocationTable, store Store) *Searcher {
	cache := NewResultCache(100, 5*time.Minute, time.Minute, store)
	s := NewSearcher(newTestClient(api.URL), NewResolver(table, nil), cache, 5, 20)
	s.Now = fixedNow
	return s
}

func validRequest(location string) SearchRequest {
	return SearchRequest{
		Location:    location,
		Arrival:     "2026-02-01",
		Departure:   "2026-02-08",
		PersonsAges: []int{18, 18},
		Currency:    "eur",
	}
}

// memStore is an in-memory Store. It reports each entry's TTL as written, or remaining when set.
type memStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	ttls      map[string]time.Duration
	remaining time.Duration
	sets      int
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, time.Duration, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, 0, false, m.getErr
	}
	v, ok := m.data[key]
	ttl := m.ttls[key]
	if m.remaining > 0 {
		ttl = m.remaining
	}
	return v, ttl, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	m.sets++
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func (m *memStore) Ping(context.Context) error {
	return nil
}
