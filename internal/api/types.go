package api

import "time"

// QuoteResponse from GET /quotes/{symbol}
type QuoteResponse struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"` // RFC 3339; zero when the source omits it
}
