// Package availability derives calendar markers from reservations.
//
// Nights are charged on [check_in, check_out) by the pricing package, but the
// calendar blocks and labels both ends: the check-out day is shown as a
// departure and cannot be picked as a new arrival.
package availability

import (
	"time"

	"gite/pkg/model"
)

const (
	KindArrival   = "arrival"
	KindStay      = "stay"
	KindDeparture = "departure"
)

var kindLabels = map[string]string{
	KindArrival:   "Arrivée",
	KindStay:      "Séjour",
	KindDeparture: "Départ",
}

type DayEvent struct {
	ReservationID string `json:"reservation_id"`
	GuestName     string `json:"guest_name"`
	Kind          string `json:"kind"`
	Label         string `json:"label"`
}

// IsReserved reports whether day falls inside any range, both ends inclusive.
func IsReserved(day time.Time, ranges []model.DateRange) bool {
	d := model.TruncateDay(day)
	for _, r := range ranges {
		from, err := model.ParseDate(r.From)
		if err != nil {
			continue
		}
		to, err := model.ParseDate(r.To)
		if err != nil {
			continue
		}
		if !d.Before(from) && !d.After(to) {
			return true
		}
	}
	return false
}

// Ranges maps reservations to their date spans. Reservations with
// unparseable dates are skipped.
func Ranges(reservations []*model.Reservation) []model.DateRange {
	ranges := make([]model.DateRange, 0, len(reservations))
	for _, r := range reservations {
		if _, _, ok := span(r); !ok {
			continue
		}
		ranges = append(ranges, model.DateRange{From: r.CheckIn, To: r.CheckOut})
	}
	return ranges
}

// DayEvents labels every day from check-in to check-out inclusive for each
// reservation. A day shared by two stays gets one entry per stay.
func DayEvents(reservations []*model.Reservation) map[string][]DayEvent {
	events := make(map[string][]DayEvent)
	for _, r := range reservations {
		in, out, ok := span(r)
		if !ok {
			continue
		}
		for d := in; !d.After(out); d = d.AddDate(0, 0, 1) {
			kind := KindStay
			switch {
			case d.Equal(in):
				kind = KindArrival
			case d.Equal(out):
				kind = KindDeparture
			}
			key := model.FormatDate(d)
			events[key] = append(events[key], DayEvent{
				ReservationID: r.ID,
				GuestName:     r.Name,
				Kind:          kind,
				Label:         kindLabels[kind],
			})
		}
	}
	return events
}

// Within keeps the days of events between from and to inclusive. A zero
// bound is open.
func Within(events map[string][]DayEvent, from, to time.Time) map[string][]DayEvent {
	if from.IsZero() && to.IsZero() {
		return events
	}
	out := make(map[string][]DayEvent, len(events))
	for key, evs := range events {
		d, err := model.ParseDate(key)
		if err != nil {
			continue
		}
		if !from.IsZero() && d.Before(model.TruncateDay(from)) {
			continue
		}
		if !to.IsZero() && d.After(model.TruncateDay(to)) {
			continue
		}
		out[key] = evs
	}
	return out
}

func span(r *model.Reservation) (time.Time, time.Time, bool) {
	if r == nil {
		return time.Time{}, time.Time{}, false
	}
	in, err := model.ParseDate(r.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	out, err := model.ParseDate(r.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}
