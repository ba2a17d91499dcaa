package hyperliquid

// Candle is one OHLCV bar returned by the candle snapshot endpoint.
type Candle struct {
	OpenTime int64   `json:"openTime"` // ms
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}
