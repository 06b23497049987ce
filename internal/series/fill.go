package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/marketdata/internal/model"
)

var (
	// ErrInsufficientData means there is no observed price to carry forward.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnordered means an input sequence is not strictly ascending.
	ErrUnordered = errors.New("sequence not strictly ascending")
)

// Fill returns a synthetic bar for every expected minute not covered by an observed sample.
//
// Both inputs must be strictly ascending. A minute t is covered when the next unconsumed
// sample is at or before t; each sample covers at most one minute. A missing minute carries
// the price of the last consumed sample, or of the first sample when none has been consumed.
func Fill(symbol string, expected []time.Time, observed []model.Sample) ([]model.Bar, error) {
	if err := checkMinutes(expected); err != nil {
		return nil, err
	}
	if err := checkSamples(observed); err != nil {
		return nil, err
	}
	if len(expected) == 0 {
		return nil, nil
	}
	if len(observed) == 0 {
		return nil, fmt.Errorf("fill %s: %d minutes without a seed price: %w", symbol, len(expected), ErrInsufficientData)
	}

	var bars []model.Bar
	j := 0
	for _, t := range expected {
		if j < len(observed) && !observed[j].Time.After(t) {
			j++
			continue
		}

		price := observed[0].Price
		if j > 0 {
			price = observed[j-1].Price
		}
		bars = append(bars, syntheticBar(symbol, t, price))
	}

	return bars, nil
}

func syntheticBar(symbol string, t time.Time, price float64) model.Bar {
	return model.Bar{
		Symbol: symbol,
		Time:   t,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
	}
}

func checkMinutes(minutes []time.Time) error {
	for i := 1; i < len(minutes); i++ {
		if !minutes[i].After(minutes[i-1]) {
			return fmt.Errorf("expected minute %d (%s): %w", i, minutes[i].Format(time.DateTime), ErrUnordered)
		}
	}
	return nil
}

func checkSamples(samples []model.Sample) error {
	for i := 1; i < len(samples); i++ {
		if !samples[i].Time.After(samples[i-1].Time) {
			return fmt.Errorf("observed sample %d (%s): %w", i, samples[i].Time.Format(time.DateTime), ErrUnordered)
		}
	}
	return nil
}
