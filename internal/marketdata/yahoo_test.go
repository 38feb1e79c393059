package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
)

const chartPayload = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "ACME",
				"regularMarketPrice": %s,
				"regularMarketTime": 1756500000
			},
			"indicators": {
				"quote": [{"close": [null, 41.25, 42.10]}]
			}
		}],
		"error": null
	}
}`

func chartServer(t *testing.T, price string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/ACME" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, chartPayload, price)
	}))
}

func TestGetQuoteRegularMarketPrice(t *testing.T) {
	server := chartServer(t, "43.50")
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	quote, err := client.GetQuote(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Price != 43.50 {
		t.Errorf("expected price 43.50, got %v", quote.Price)
	}
	if quote.Symbol != "ACME" {
		t.Errorf("expected symbol ACME, got %s", quote.Symbol)
	}
	if quote.AsOf.Unix() != 1756500000 {
		t.Errorf("expected as-of from regularMarketTime, got %v", quote.AsOf)
	}
}

func TestGetQuoteFallsBackToLastClose(t *testing.T) {
	// Zero market price forces the fallback to the last non-nil close.
	server := chartServer(t, "0")
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	quote, err := client.GetQuote(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Price != 42.10 {
		t.Errorf("expected last close 42.10, got %v", quote.Price)
	}
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	server := chartServer(t, "43.50")
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	_, err := client.GetQuote(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected error for unknown symbol")
	}
	var qe *errors.QuoteError
	if !errors.As(err, &qe) {
		t.Errorf("expected *QuoteError, got %T", err)
	}
}

func TestGetQuoteDoesNotRetryUnknownSymbol(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	_, err := client.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	if calls != 1 {
		t.Errorf("unknown symbol must not be retried, got %d requests", calls)
	}
}

func TestGetQuoteRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, chartPayload, "43.50")
	}))
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	quote, err := client.GetQuote(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Price != 43.50 {
		t.Errorf("expected price 43.50 after retries, got %v", quote.Price)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests, got %d", calls)
	}
}

func TestGetQuoteChartError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`)
	}))
	defer server.Close()

	client := NewYahooClient(server.URL, 5*time.Second)
	_, err := client.GetQuote(context.Background(), "GONE")
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

// stubProvider counts calls and returns a fixed quote.
type stubProvider struct {
	calls int32
	err   error
}

func (s *stubProvider) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Quote{Symbol: symbol, Price: 10, AsOf: time.Now()}, nil
}

func TestCachedProviderServesFromCache(t *testing.T) {
	stub := &stubProvider{}
	cached := NewCachedProvider(stub, time.Hour)

	clock := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if _, err := cached.GetQuote(context.Background(), "ACME"); err != nil {
			t.Fatalf("GetQuote failed: %v", err)
		}
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", stub.calls)
	}

	// Advance past the TTL; the next call must refetch.
	clock = clock.Add(2 * time.Hour)
	if _, err := cached.GetQuote(context.Background(), "ACME"); err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("expected refetch after TTL, got %d calls", stub.calls)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	stub := &stubProvider{err: errors.ErrConnectionFailed}
	cached := NewCachedProvider(stub, time.Hour)

	for i := 0; i < 2; i++ {
		if _, err := cached.GetQuote(context.Background(), "ACME"); err == nil {
			t.Fatal("expected error from upstream")
		}
	}
	if stub.calls != 2 {
		t.Errorf("errors must not be cached, got %d calls", stub.calls)
	}
}
