package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Hyperliquid info endpoint.
const DefaultBaseURL = "https://api.hyperliquid.xyz/info"

// Client wraps REST access to the Hyperliquid info API. It is stateless and
// performs no retries; pacing and backoff belong to the polling caller.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds an info-API client. reqPerSec bounds outbound request
// rate; pass 0 to disable pacing.
func NewClient(baseURL string, reqPerSec float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	var limiter *rate.Limiter
	if reqPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(reqPerSec), 1)
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
	}
}

type candleRequest struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

type infoRequest struct {
	Type string         `json:"type"`
	Dex  string         `json:"dex,omitempty"`
	Req  *candleRequest `json:"req,omitempty"`
}

// GetAllMids fetches the current mid price for every listed symbol. Any
// transport or decode failure returns nil; callers can only observe "no data".
func (c *Client) GetAllMids(ctx context.Context) map[string]string {
	var mids map[string]string
	if err := c.post(ctx, infoRequest{Type: "allMids", Dex: ""}, &mids); err != nil {
		return nil
	}
	return mids
}

// GetCandles fetches OHLCV history for a coin. The API returns rows of
// 6-tuples [timestamp, open, high, low, close, volume]; any failure yields
// an empty slice.
func (c *Client) GetCandles(ctx context.Context, coin, interval string, startTime, endTime int64) []Candle {
	req := infoRequest{
		Type: "candleSnapshot",
		Req: &candleRequest{
			Coin:      coin,
			Interval:  interval,
			StartTime: startTime,
			EndTime:   endTime,
		},
	}

	var raw [][]any
	if err := c.post(ctx, req, &raw); err != nil {
		return []Candle{}
	}

	candles := make([]Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			continue
		}
		candles = append(candles, Candle{
			OpenTime: toInt64(row[0]),
			Open:     toFloat(row[1]),
			High:     toFloat(row[2]),
			Low:      toFloat(row[3]),
			Close:    toFloat(row[4]),
			Volume:   toFloat(row[5]),
		})
	}
	return candles
}

func (c *Client) post(ctx context.Context, body infoRequest, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errStatus(res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type errStatus int

func (e errStatus) Error() string { return "hyperliquid info status " + strconv.Itoa(int(e)) }

func toFloat(v any) float64 {
	switch t := v.(type) {
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	default:
		return 0
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case json.Number:
		i, _ := t.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(t, 10, 64)
		return i
	default:
		return 0
	}
}
