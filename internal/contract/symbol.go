package contract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedInput means a symbol or contract cannot be expressed in canonical form.
var ErrMalformedInput = errors.New("malformed input")

// OptionType is Call or Put, spelled as stored in option_data.optionType.
type OptionType string

const (
	Call OptionType = "Call"
	Put  OptionType = "Put"
)

// Char returns the symbol character for t.
func (t OptionType) Char() byte {
	if t == Put {
		return 'P'
	}
	return 'C'
}

// Valid reports whether t is Call or Put.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// ParseOptionType accepts "Call"/"Put" and their one-letter forms, case-insensitively.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(s) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return "", fmt.Errorf("option type %q: %w", s, ErrMalformedInput)
}

// Contract is the structured identity of an option.
type Contract struct {
	Underlying string
	Expiration time.Time // Date only; decoded values are midnight UTC
	Type       OptionType
	Strike     decimal.Decimal
}

// Equal reports whether two contracts name the same option.
func (c Contract) Equal(o Contract) bool {
	cy, cm, cd := c.Expiration.Date()
	oy, om, od := o.Expiration.Date()
	return c.Underlying == o.Underlying &&
		cy == oy && cm == om && cd == od &&
		c.Type == o.Type &&
		c.Strike.Equal(o.Strike)
}

// String returns the canonical symbol, or a diagnostic form if c is not encodable.
func (c Contract) String() string {
	s, err := Encode(c)
	if err != nil {
		return fmt.Sprintf("%s %s %s %s", c.Underlying, c.Expiration.Format(time.DateOnly), c.Type, c.Strike)
	}
	return s
}

const (
	dateWidth   = 6
	strikeWidth = 8
	suffixWidth = dateWidth + 1 + strikeWidth
	maxStrike   = 99999999 // strike*1000 in 8 digits
)

var thousand = decimal.NewFromInt(1000)

// Encode returns the canonical symbol for c.
func Encode(c Contract) (string, error) {
	if err := validUnderlying(c.Underlying); err != nil {
		return "", err
	}
	if !c.Type.Valid() {
		return "", fmt.Errorf("option type %q: %w", c.Type, ErrMalformedInput)
	}
	if y := c.Expiration.Year(); y < 2000 || y > 2099 {
		return "", fmt.Errorf("expiration year %d outside 2000-2099: %w", y, ErrMalformedInput)
	}

	scaled := c.Strike.Mul(thousand)
	if c.Strike.IsNegative() || !scaled.IsInteger() || scaled.GreaterThan(decimal.NewFromInt(maxStrike)) {
		return "", fmt.Errorf("strike %s not representable in %d digits of thousandths: %w", c.Strike, strikeWidth, ErrMalformedInput)
	}

	var b strings.Builder
	b.Grow(len(c.Underlying) + suffixWidth)
	b.WriteString(c.Underlying)
	b.WriteString(c.Expiration.Format("060102"))
	b.WriteByte(c.Type.Char())
	fmt.Fprintf(&b, "%0*d", strikeWidth, scaled.IntPart())
	return b.String(), nil
}

// Decode parses a canonical symbol.
func Decode(symbol string) (Contract, error) {
	if len(symbol) <= suffixWidth {
		return Contract{}, fmt.Errorf("symbol %q too short: %w", symbol, ErrMalformedInput)
	}

	split := len(symbol) - suffixWidth
	underlying := symbol[:split]
	date := symbol[split : split+dateWidth]
	typeChar := symbol[split+dateWidth]
	strike := symbol[split+dateWidth+1:]

	if err := validUnderlying(underlying); err != nil {
		return Contract{}, err
	}

	expiration, err := parseDate(date)
	if err != nil {
		return Contract{}, fmt.Errorf("symbol %q: %w", symbol, err)
	}

	var typ OptionType
	switch typeChar {
	case 'C':
		typ = Call
	case 'P':
		typ = Put
	default:
		return Contract{}, fmt.Errorf("symbol %q: type %q: %w", symbol, typeChar, ErrMalformedInput)
	}

	if !allDigits(strike) {
		return Contract{}, fmt.Errorf("symbol %q: strike %q: %w", symbol, strike, ErrMalformedInput)
	}
	thousandths, err := strconv.ParseInt(strike, 10, 64)
	if err != nil {
		return Contract{}, fmt.Errorf("symbol %q: strike %q: %w", symbol, strike, ErrMalformedInput)
	}

	return Contract{
		Underlying: underlying,
		Expiration: expiration,
		Type:       typ,
		Strike:     decimal.New(thousandths, -3),
	}, nil
}

// IsNumeric reports whether underlying is made of digits only.
func IsNumeric(underlying string) bool {
	return underlying != "" && allDigits(underlying)
}

func parseDate(s string) (time.Time, error) {
	if !allDigits(s) {
		return time.Time{}, fmt.Errorf("expiration %q: %w", s, ErrMalformedInput)
	}
	yy, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[2:4])
	dd, _ := strconv.Atoi(s[4:6])

	t := time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range fields; a round trip catches them.
	if t.Month() != time.Month(mm) || t.Day() != dd {
		return time.Time{}, fmt.Errorf("expiration %q not a calendar date: %w", s, ErrMalformedInput)
	}
	return t, nil
}

func validUnderlying(s string) error {
	if s == "" {
		return fmt.Errorf("empty underlying: %w", ErrMalformedInput)
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '.', ch == '^':
		default:
			return fmt.Errorf("underlying %q: character %q: %w", s, ch, ErrMalformedInput)
		}
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
