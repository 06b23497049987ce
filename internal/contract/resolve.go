package contract

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound means no strike or expiration satisfies the selection constraints.
var ErrNotFound = errors.New("not found")

// DefaultLookbackDays is how long a strike must have traded before it is eligible.
const DefaultLookbackDays = 30

// StrikeCandidate is one distinct strike of an underlying/expiration pair.
type StrikeCandidate struct {
	Strike         decimal.Decimal
	FirstTradeDate time.Time
}

// Query describes a strike selection.
type Query struct {
	ReferenceDate  time.Time
	ReferencePrice decimal.Decimal
	LookbackDays   int
	InTheMoneyOnly bool
	Type           OptionType
}

// ResolveStrike selects the strike nearest q.ReferencePrice among eligible candidates.
//
// A candidate is eligible when it first traded on or before the cutoff
// max(ReferenceDate-LookbackDays, earliest FirstTradeDate). Candidates are scanned in
// ascending strike order and the first of equally good strikes wins.
//
// With InTheMoneyOnly, a call takes the smallest strike strictly above the reference
// price and a put the largest strike strictly below it.
func ResolveStrike(candidates []StrikeCandidate, q Query) (decimal.Decimal, error) {
	eligible, err := filter(candidates, q)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var (
		best  decimal.Decimal
		score decimal.Decimal
		found bool
	)
	for _, c := range eligible {
		var d decimal.Decimal
		if q.InTheMoneyOnly {
			if q.Type == Put {
				d = q.ReferencePrice.Sub(c.Strike)
			} else {
				d = c.Strike.Sub(q.ReferencePrice)
			}
			if !d.IsPositive() {
				continue
			}
		} else {
			d = c.Strike.Sub(q.ReferencePrice).Abs()
		}

		if !found || d.LessThan(score) {
			best, score, found = c.Strike, d, true
		}
	}

	if !found {
		return decimal.Decimal{}, fmt.Errorf("no strike %s reference price %s: %w", modeName(q), q.ReferencePrice, ErrNotFound)
	}
	return best, nil
}

// ResolveEarliest selects the eligible candidate with the earliest first trade date,
// breaking ties by the smaller strike. It serves digit-only underlyings, whose listed
// strikes are not addressed by distance from the price.
func ResolveEarliest(candidates []StrikeCandidate, q Query) (StrikeCandidate, error) {
	eligible, err := filter(candidates, q)
	if err != nil {
		return StrikeCandidate{}, err
	}

	best := eligible[0]
	for _, c := range eligible[1:] {
		if c.FirstTradeDate.Before(best.FirstTradeDate) {
			best = c
		}
	}
	return best, nil
}

// FindSymbol resolves a strike for underlying/expiration and returns its canonical symbol.
func FindSymbol(underlying string, expiration time.Time, candidates []StrikeCandidate, q Query) (string, error) {
	var strike decimal.Decimal
	if IsNumeric(underlying) {
		c, err := ResolveEarliest(candidates, q)
		if err != nil {
			return "", err
		}
		strike = c.Strike
	} else {
		s, err := ResolveStrike(candidates, q)
		if err != nil {
			return "", err
		}
		strike = s
	}

	typ := q.Type
	if typ == "" {
		typ = Call
	}
	return Encode(Contract{
		Underlying: underlying,
		Expiration: expiration,
		Type:       typ,
		Strike:     strike,
	})
}

// filter applies the lookback cutoff and returns the surviving candidates sorted by strike.
func filter(candidates []StrikeCandidate, q Query) ([]StrikeCandidate, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no strike candidates: %w", ErrNotFound)
	}

	earliest := candidates[0].FirstTradeDate
	for _, c := range candidates[1:] {
		if c.FirstTradeDate.Before(earliest) {
			earliest = c.FirstTradeDate
		}
	}

	cutoff := q.ReferenceDate.AddDate(0, 0, -q.LookbackDays)
	if cutoff.Before(earliest) {
		cutoff = earliest
	}

	eligible := make([]StrikeCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.FirstTradeDate.After(cutoff) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no strike traded by %s: %w", cutoff.Format(time.DateOnly), ErrNotFound)
	}

	slices.SortStableFunc(eligible, func(a, b StrikeCandidate) int {
		return a.Strike.Cmp(b.Strike)
	})
	return eligible, nil
}

func modeName(q Query) string {
	if !q.InTheMoneyOnly {
		return "near"
	}
	if q.Type == Put {
		return "below"
	}
	return "above"
}
