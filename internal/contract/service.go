package contract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/marketdata/internal/cache"
	"github.com/rickgao/marketdata/internal/model"
)

// CacheName is the named cache shared by option lookups.
const CacheName = "option"

// DefaultCacheTTL bounds how long option chain lookups are reused.
const DefaultCacheTTL = 10 * time.Minute

// OptionStore is the option chain collaborator.
type OptionStore interface {
	StrikeCandidates(ctx context.Context, underlying string, expiration time.Time, typ OptionType) ([]StrikeCandidate, error)
	Expirations(ctx context.Context, underlying string, from time.Time) ([]time.Time, error)
	SeriesBySymbol(ctx context.Context, symbol string) ([]model.OptionQuote, error)
	SeriesByContract(ctx context.Context, c Contract) ([]model.OptionQuote, error)
}

// Request asks for the contract of Underlying nearest Price as of Date.
type Request struct {
	Underlying     string
	Price          decimal.Decimal
	Date           time.Time  // Zero means now
	Expiration     time.Time  // Zero means the following expiration after Date
	Type           OptionType // Empty means Call
	InTheMoneyOnly bool
}

// Service resolves and loads option contracts through a store and a shared cache.
type Service struct {
	store        OptionStore
	cache        *cache.Cache
	ttl          time.Duration
	lookbackDays int
	logger       *slog.Logger
	now          func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheTTL sets how long lookups are cached.
func WithCacheTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithLookbackDays sets the strike eligibility lookback.
func WithLookbackDays(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.lookbackDays = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for requests without a date.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service using the CacheName cache of caches.
func NewService(store OptionStore, caches *cache.Manager, opts ...ServiceOption) *Service {
	s := &Service{
		store:        store,
		cache:        caches.Cache(CacheName),
		ttl:          DefaultCacheTTL,
		lookbackDays: DefaultLookbackDays,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FollowingExpiration returns the expiration the resolver uses for underlying as of from.
func (s *Service) FollowingExpiration(ctx context.Context, underlying string, from time.Time) (time.Time, error) {
	key := fmt.Sprintf("expirations:%s:%s", underlying, from.Format(time.DateOnly))
	dates, err := cache.Lookup(ctx, s.cache, key, s.ttl, func(ctx context.Context, _ string) ([]time.Time, error) {
		return s.store.Expirations(ctx, underlying, from)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("load expirations for %s: %w", underlying, err)
	}
	return FollowingExpiration(underlying, dates, from)
}

// FindSymbol resolves req to a canonical contract symbol.
func (s *Service) FindSymbol(ctx context.Context, req Request) (string, error) {
	underlying := strings.ToUpper(req.Underlying)
	if err := validUnderlying(underlying); err != nil {
		return "", err
	}

	typ := req.Type
	if typ == "" {
		typ = Call
	}
	if !typ.Valid() {
		return "", fmt.Errorf("option type %q: %w", typ, ErrMalformedInput)
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	expiration := req.Expiration
	if expiration.IsZero() {
		exp, err := s.FollowingExpiration(ctx, underlying, date)
		if err != nil {
			return "", err
		}
		expiration = exp
	}

	key := fmt.Sprintf("strikes:%s:%s:%s", underlying, expiration.Format(time.DateOnly), typ)
	candidates, err := cache.Lookup(ctx, s.cache, key, s.ttl, func(ctx context.Context, _ string) ([]StrikeCandidate, error) {
		return s.store.StrikeCandidates(ctx, underlying, expiration, typ)
	})
	if err != nil {
		return "", fmt.Errorf("load strikes for %s: %w", underlying, err)
	}

	symbol, err := FindSymbol(underlying, expiration, candidates, Query{
		ReferenceDate:  date,
		ReferencePrice: req.Price,
		LookbackDays:   s.lookbackDays,
		InTheMoneyOnly: req.InTheMoneyOnly,
		Type:           typ,
	})
	if err != nil {
		return "", fmt.Errorf("resolve %s %s: %w", underlying, expiration.Format(time.DateOnly), err)
	}

	s.logger.Debug("resolved contract",
		"underlying", underlying,
		"price", req.Price,
		"expiration", expiration.Format(time.DateOnly),
		"symbol", symbol,
	)
	return symbol, nil
}

// Series returns the quote series of a canonical symbol. Digit-only underlyings are
// looked up by their decoded fields.
func (s *Service) Series(ctx context.Context, symbol string) ([]model.OptionQuote, error) {
	c, err := Decode(symbol)
	if err != nil {
		return nil, err
	}

	return cache.Lookup(ctx, s.cache, "series:"+symbol, s.ttl, func(ctx context.Context, _ string) ([]model.OptionQuote, error) {
		if IsNumeric(c.Underlying) {
			return s.store.SeriesByContract(ctx, c)
		}
		return s.store.SeriesBySymbol(ctx, symbol)
	})
}
