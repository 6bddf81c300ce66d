package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places monetary amounts are rounded to.
const MoneyScale int32 = 2

var (
	hundred = decimal.NewFromInt(100)
)

// PrizeDistribution maps a finishing place (1-based) to its percentage share of the prize pool.
type PrizeDistribution map[int]decimal.Decimal

// PrizeShare is the amount owed to a single finishing place.
type PrizeShare struct {
	Place  int             `json:"place"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate checks that every place is positive, every share is within [0,100]
// and the shares sum to at most 100.
func (d PrizeDistribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: prize distribution must have at least one place", ErrValidation)
	}

	total := decimal.Zero
	for place, pct := range d {
		if place < 1 {
			return fmt.Errorf("%w: place %d must be positive", ErrValidation, place)
		}
		if pct.IsNegative() {
			return fmt.Errorf("%w: share for place %d must not be negative", ErrValidation, place)
		}
		total = total.Add(pct)
	}

	if total.GreaterThan(hundred) {
		return fmt.Errorf("%w: prize distribution sums to %s%%, maximum is 100%%", ErrValidation, total.String())
	}
	return nil
}

// Places returns the configured places in ascending order.
func (d PrizeDistribution) Places() []int {
	places := make([]int, 0, len(d))
	for place := range d {
		places = append(places, place)
	}
	sort.Ints(places)
	return places
}

// MaxPlace is the lowest finishing place that is paid.
func (d PrizeDistribution) MaxPlace() int {
	maxPlace := 0
	for place := range d {
		if place > maxPlace {
			maxPlace = place
		}
	}
	return maxPlace
}

// TotalPercent sums every share.
func (d PrizeDistribution) TotalPercent() decimal.Decimal {
	total := decimal.Zero
	for _, pct := range d {
		total = total.Add(pct)
	}
	return total
}

// Allocate splits pool across the places that have a ranked participant.
// Places beyond rankedCount are skipped. Each amount is rounded to MoneyScale
// and the shares add up to exactly pool * (sum of paid percentages) / 100. A
// positive rounding remainder goes to the best paid place; a negative one is
// taken from places in rank order without pushing any share below zero.
func (d PrizeDistribution) Allocate(pool decimal.Decimal, rankedCount int) []PrizeShare {
	if rankedCount <= 0 || pool.IsNegative() {
		return nil
	}

	shares := make([]PrizeShare, 0, len(d))
	paidPercent := decimal.Zero
	allocated := decimal.Zero

	for _, place := range d.Places() {
		if place > rankedCount {
			break
		}
		pct := d[place]
		amount := pool.Mul(pct).Div(hundred).RoundBank(MoneyScale)
		shares = append(shares, PrizeShare{Place: place, Amount: amount})
		paidPercent = paidPercent.Add(pct)
		allocated = allocated.Add(amount)
	}

	if len(shares) == 0 {
		return nil
	}

	target := pool.Mul(paidPercent).Div(hundred).RoundBank(MoneyScale)
	remainder := target.Sub(allocated)
	if remainder.IsPositive() {
		shares[0].Amount = shares[0].Amount.Add(remainder)
		return shares
	}
	for i := range shares {
		if !remainder.IsNegative() {
			break
		}
		take := decimal.Min(shares[i].Amount, remainder.Neg())
		shares[i].Amount = shares[i].Amount.Sub(take)
		remainder = remainder.Add(take)
	}
	return shares
}

// MarshalJSON encodes places as string keys so the table survives a JSONB round trip.
func (d PrizeDistribution) MarshalJSON() ([]byte, error) {
	raw := make(map[string]string, len(d))
	for place, pct := range d {
		raw[strconv.Itoa(place)] = pct.String()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON accepts shares encoded either as JSON numbers or as strings.
func (d *PrizeDistribution) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(PrizeDistribution, len(raw))
	for key, value := range raw {
		place, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("%w: place %q is not an integer", ErrValidation, key)
		}
		var pct decimal.Decimal
		if err := pct.UnmarshalJSON(value); err != nil {
			return fmt.Errorf("%w: share for place %d: %v", ErrValidation, place, err)
		}
		out[place] = pct
	}
	*d = out
	return nil
}

// ParseDistribution builds a distribution from string percentages, as found in config files.
func ParseDistribution(raw map[int]string) (PrizeDistribution, error) {
	out := make(PrizeDistribution, len(raw))
	for place, value := range raw {
		pct, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: share for place %d: %v", ErrValidation, place, err)
		}
		out[place] = pct
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
