package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/rickgao/marketdata/internal/contract"
	"github.com/rickgao/marketdata/internal/model"
)

type contractResponse struct {
	Symbol     string          `json:"symbol"`
	Underlying string          `json:"underlying"`
	Expiration string          `json:"expiration"`
	Type       string          `json:"type"`
	Strike     decimal.Decimal `json:"strike"`
}

func newContractResponse(symbol string, c contract.Contract) contractResponse {
	return contractResponse{
		Symbol:     symbol,
		Underlying: c.Underlying,
		Expiration: c.Expiration.Format(time.DateOnly),
		Type:       string(c.Type),
		Strike:     c.Strike,
	}
}

type seriesResponse struct {
	Symbol string              `json:"symbol"`
	Quotes []model.OptionQuote `json:"quotes"`
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	c, err := contract.Decode(symbol)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, newContractResponse(symbol, c))
}

func (h *handlers) resolve(w http.ResponseWriter, r *http.Request) {
	req, err := parseResolveRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	symbol, err := h.deps.Resolver.FindSymbol(r.Context(), req)
	if err != nil {
		h.deps.Logger.Debug("resolve failed", "underlying", req.Underlying, "err", err)
		writeError(w, r, err)
		return
	}

	c, err := contract.Decode(symbol)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, newContractResponse(symbol, c))
}

func (h *handlers) series(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	quotes, err := h.deps.Resolver.Series(r.Context(), symbol)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if quotes == nil {
		quotes = []model.OptionQuote{}
	}
	render.JSON(w, r, seriesResponse{Symbol: symbol, Quotes: quotes})
}

func parseResolveRequest(r *http.Request) (contract.Request, error) {
	q := r.URL.Query()
	req := contract.Request{Underlying: q.Get("underlying")}
	if req.Underlying == "" {
		return req, fmt.Errorf("underlying is required: %w", contract.ErrMalformedInput)
	}

	price, err := decimal.NewFromString(q.Get("price"))
	if err != nil || !price.IsPositive() {
		return req, fmt.Errorf("price %q: %w", q.Get("price"), contract.ErrMalformedInput)
	}
	req.Price = price

	if s := q.Get("date"); s != "" {
		if req.Date, err = time.Parse(time.DateOnly, s); err != nil {
			return req, fmt.Errorf("date %q: %w", s, contract.ErrMalformedInput)
		}
	}
	if s := q.Get("expiration"); s != "" {
		if req.Expiration, err = time.Parse(time.DateOnly, s); err != nil {
			return req, fmt.Errorf("expiration %q: %w", s, contract.ErrMalformedInput)
		}
	}
	if s := q.Get("type"); s != "" {
		if req.Type, err = contract.ParseOptionType(s); err != nil {
			return req, err
		}
	}
	if s := q.Get("itm"); s != "" {
		if req.InTheMoneyOnly, err = strconv.ParseBool(s); err != nil {
			return req, fmt.Errorf("itm %q: %w", s, contract.ErrMalformedInput)
		}
	}
	return req, nil
}
