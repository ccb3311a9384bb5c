package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gite/pkg/model"
)

func date(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsReserved(t *testing.T) {
	ranges := []model.DateRange{
		{From: "2024-07-10", To: "2024-07-14"},
		{From: "2024-08-01", To: "2024-08-03"},
	}

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-07-09", false},
		{"2024-07-10", true},
		{"2024-07-12", true},
		{"2024-07-14", true},
		{"2024-07-15", false},
		{"2024-08-02", true},
		{"2024-08-04", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReserved(date(tt.day), ranges))
		})
	}
}

func TestIsReserved_IgnoresTimeOfDayAndBadRanges(t *testing.T) {
	ranges := []model.DateRange{
		{From: "garbage", To: "2024-07-14"},
		{From: "2024-07-10", To: "2024-07-10"},
	}
	assert.True(t, IsReserved(date("2024-07-10").Add(23*time.Hour), ranges))
	assert.False(t, IsReserved(date("2024-07-13"), ranges))
	assert.False(t, IsReserved(date("2024-07-10"), nil))
}

func TestDayEvents(t *testing.T) {
	reservations := []*model.Reservation{
		{ID: "a", Name: "Martin", CheckIn: "2024-07-10", CheckOut: "2024-07-13"},
		{ID: "b", Name: "Bernard", CheckIn: "2024-07-13", CheckOut: "2024-07-14"},
	}

	events := DayEvents(reservations)

	require.Len(t, events["2024-07-10"], 1)
	assert.Equal(t, DayEvent{ReservationID: "a", GuestName: "Martin", Kind: KindArrival, Label: "Arrivée"}, events["2024-07-10"][0])

	require.Len(t, events["2024-07-11"], 1)
	assert.Equal(t, KindStay, events["2024-07-11"][0].Kind)
	assert.Equal(t, "Séjour", events["2024-07-11"][0].Label)

	// Departure of one stay and arrival of the next share the day.
	shared := events["2024-07-13"]
	require.Len(t, shared, 2)
	assert.Equal(t, KindDeparture, shared[0].Kind)
	assert.Equal(t, "Départ", shared[0].Label)
	assert.Equal(t, "a", shared[0].ReservationID)
	assert.Equal(t, KindArrival, shared[1].Kind)
	assert.Equal(t, "b", shared[1].ReservationID)

	assert.Len(t, events["2024-07-14"], 1)
	assert.Len(t, events, 5)
}

func TestDayEvents_SkipsUnparseableReservations(t *testing.T) {
	events := DayEvents([]*model.Reservation{
		{ID: "x", CheckIn: "soon", CheckOut: "2024-07-13"},
		nil,
	})
	assert.Empty(t, events)
}

func TestRanges(t *testing.T) {
	got := Ranges([]*model.Reservation{
		{CheckIn: "2024-07-10", CheckOut: "2024-07-13"},
		{CheckIn: "bad", CheckOut: "2024-07-13"},
	})
	assert.Equal(t, []model.DateRange{{From: "2024-07-10", To: "2024-07-13"}}, got)
}

func TestWithin(t *testing.T) {
	events := DayEvents([]*model.Reservation{
		{ID: "a", Name: "Martin", CheckIn: "2024-07-10", CheckOut: "2024-07-14"},
	})

	got := Within(events, date("2024-07-12"), date("2024-07-13"))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "2024-07-12")
	assert.Contains(t, got, "2024-07-13")

	assert.Len(t, Within(events, time.Time{}, time.Time{}), 5)
	assert.Len(t, Within(events, date("2024-07-13"), time.Time{}), 2)
}
