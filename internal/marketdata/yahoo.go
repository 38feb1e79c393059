package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
	"biotrial-analyzer/pkg/utils"
)

// YahooClient fetches quotes from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	retry      utils.RetryConfig
}

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Indicators struct {
				Quote []chartQuote `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	retry := utils.DefaultRetryConfig()
	// An unknown symbol never resolves on retry; only transient failures do.
	retry.RetryableErrors = []error{
		errors.ErrRateLimited,
		errors.ErrConnectionFailed,
		errors.ErrTimeout,
	}
	return &YahooClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
	}
}

// GetQuote fetches the latest price for a symbol. The regular market price is
// preferred; when absent the last non-nil daily close is used instead.
func (c *YahooClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if symbol == "" {
		return nil, errors.NewQuoteError(symbol, "empty symbol", nil)
	}

	u, err := url.Parse(fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, errors.NewQuoteError(symbol, "invalid provider URL", err)
	}
	q := u.Query()
	q.Set("range", "1d")
	q.Set("interval", "1d")
	u.RawQuery = q.Encode()

	payload, err := utils.RetryWithResult(ctx, c.retry, func() (*chartResponse, error) {
		return c.fetch(ctx, u.String())
	})
	if err != nil {
		return nil, errors.NewQuoteError(symbol, "fetch failed", err)
	}

	if payload.Chart.Error != nil {
		return nil, errors.NewQuoteError(symbol, payload.Chart.Error.Description, errors.ErrSymbolNotFound)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, errors.NewQuoteError(symbol, "no chart data", errors.ErrSymbolNotFound)
	}

	result := payload.Chart.Result[0]
	price := result.Meta.RegularMarketPrice
	if price == 0 {
		price = lastClose(result.Indicators.Quote)
	}
	if price == 0 {
		return nil, errors.NewQuoteError(symbol, "no price available", errors.ErrDataNotFound)
	}

	asOf := time.Now()
	if result.Meta.RegularMarketTime > 0 {
		asOf = time.Unix(result.Meta.RegularMarketTime, 0)
	}

	return &models.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   asOf,
	}, nil
}

func (c *YahooClient) fetch(ctx context.Context, urlStr string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "biotrial-analyzer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConnectionFailed, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.ErrSymbolNotFound
	case resp.StatusCode >= 500:
		return nil, errors.Wrapf(errors.ErrConnectionFailed, "server error %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	return &payload, nil
}

type chartQuote struct {
	Close []*float64 `json:"close"`
}

// lastClose returns the most recent non-nil close, or 0 when none exists.
func lastClose(quotes []chartQuote) float64 {
	for _, q := range quotes {
		for i := len(q.Close) - 1; i >= 0; i-- {
			if q.Close[i] != nil && *q.Close[i] > 0 {
				return *q.Close[i]
			}
		}
	}
	return 0
}
