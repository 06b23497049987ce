// Package server exposes health, metrics and contract lookups over HTTP.
//
// Routes:
//   - GET /health
//   - GET /version
//   - GET /metrics (path configurable)
//   - GET /v1/contracts/decode/{symbol}
//   - GET /v1/contracts/resolve?underlying=&price=[&date=&expiration=&type=&itm=]
//   - GET /v1/contracts/{symbol}/series
package server
