// Package api provides the REST client for the equity quote source.
//
// Endpoints:
//   - GET /quotes/{symbol}: last trade price and its timestamp
//
// Requests are paced by an optional token-bucket limiter and retried with jittered
// exponential backoff on 5xx and 429 responses.
package api
