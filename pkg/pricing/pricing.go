// Package pricing computes stay quotes from a base nightly price, seasonal
// multipliers and flat fees.
package pricing

import (
	"errors"
	"time"

	"gite/pkg/model"
)

var (
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrNegativePrice    = errors.New("prices and fees cannot be negative")
)

// SeasonalRate applies Multiplier to the base price for nights between
// StartDate and EndDate, both inclusive.
type SeasonalRate struct {
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Multiplier float64
}

func (r SeasonalRate) Contains(night time.Time) bool {
	night = model.TruncateDay(night)
	return !night.Before(model.TruncateDay(r.StartDate)) && !night.After(model.TruncateDay(r.EndDate))
}

type NightlyRate struct {
	Date     string `json:"date"`
	Price    Amount `json:"price"`
	RateName string `json:"rate_name,omitempty"`
}

type Quote struct {
	Nights       int           `json:"nights"`
	NightlyRates []NightlyRate `json:"nightly_rates"`
	Subtotal     Amount        `json:"subtotal"`
	CleaningFee  Amount        `json:"cleaning_fee"`
	ServiceFee   Amount        `json:"service_fee"`
	Total        Amount        `json:"total"`
}

// ComputePrice prices every night in [checkIn, checkOut). The check-out night
// is not charged. Each night takes the multiplier of the first rate in rates
// containing it, or the base price when none does. Fees are added once.
func ComputePrice(checkIn, checkOut time.Time, basePrice float64, rates []SeasonalRate, cleaningFee, serviceFee float64) (*Quote, error) {
	in := model.TruncateDay(checkIn)
	out := model.TruncateDay(checkOut)
	if !out.After(in) {
		return nil, ErrInvalidDateRange
	}
	if basePrice < 0 || cleaningFee < 0 || serviceFee < 0 {
		return nil, ErrNegativePrice
	}

	q := &Quote{
		CleaningFee: FromFloat(cleaningFee),
		ServiceFee:  FromFloat(serviceFee),
	}

	for night := in; night.Before(out); night = night.AddDate(0, 0, 1) {
		line := NightlyRate{
			Date:  model.FormatDate(night),
			Price: FromFloat(basePrice),
		}
		if rate, ok := matchRate(night, rates); ok {
			line.Price = FromFloat(basePrice * rate.Multiplier)
			line.RateName = rate.Name
		}
		q.NightlyRates = append(q.NightlyRates, line)
		q.Subtotal += line.Price
	}

	q.Nights = len(q.NightlyRates)
	q.Total = q.Subtotal + q.CleaningFee + q.ServiceFee
	return q, nil
}

// Nights counts the charged nights between two dates.
func Nights(checkIn, checkOut time.Time) int {
	in := model.TruncateDay(checkIn)
	out := model.TruncateDay(checkOut)
	if !out.After(in) {
		return 0
	}
	n := 0
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func matchRate(night time.Time, rates []SeasonalRate) (SeasonalRate, bool) {
	for _, r := range rates {
		if r.Contains(night) {
			return r, true
		}
	}
	return SeasonalRate{}, false
}
