// Package plans checks that a stay length matches the commercial plan the
// guest picked, and describes the plans offered.
package plans

import (
	"fmt"
	"time"

	"gite/pkg/model"
	"gite/pkg/pricing"
	"gite/pkg/sanitizer"
)

const (
	Daily     = "JOURNALIER"
	TwoNights = "2 NUITS"
	Weekly    = "HEBDOMADAIRE"
	Monthly   = "MENSUEL"
)

// Error is a plan/date mismatch carrying a message meant for the guest.
type Error struct {
	Plan    string
	Nights  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validate reports whether the stay [checkIn, checkOut) fits plan. Labels
// outside the known brackets, MENSUEL included, are not constrained.
func Validate(plan string, checkIn, checkOut time.Time) error {
	in := model.TruncateDay(checkIn)
	out := model.TruncateDay(checkOut)
	nights := pricing.Nights(in, out)

	switch sanitizer.NormalizeLabel(plan) {
	case Daily:
		if nights != 1 || !out.Equal(in.AddDate(0, 0, 1)) {
			return &Error{Plan: Daily, Nights: nights, Message: "Le forfait journalier correspond à une seule nuit : la date de départ doit être le lendemain de l'arrivée."}
		}
	case TwoNights:
		if nights < 2 || nights > 6 {
			return &Error{Plan: TwoNights, Nights: nights, Message: fmt.Sprintf("Le forfait 2 nuits s'applique à un séjour de 2 à 6 nuits (vous avez sélectionné %d nuit(s)).", nights)}
		}
	case Weekly:
		if nights < 7 {
			return &Error{Plan: Weekly, Nights: nights, Message: fmt.Sprintf("Le forfait hebdomadaire nécessite un séjour d'au moins 7 nuits (vous avez sélectionné %d nuit(s)).", nights)}
		}
	}
	return nil
}

// Plan describes an offer as shown to guests.
type Plan struct {
	Name      string `json:"name" yaml:"name"`
	Period    string `json:"period" yaml:"period"`
	MinNights int    `json:"min_nights" yaml:"min_nights"`
	MaxNights int    `json:"max_nights,omitempty" yaml:"max_nights"`
}

// DefaultCatalogue lists the plans offered when the property profile does
// not override them. The weekly bracket advertises 7-29 nights but only the
// lower bound is enforced by Validate.
var DefaultCatalogue = []Plan{
	{Name: Daily, Period: "1 nuit", MinNights: 1, MaxNights: 1},
	{Name: TwoNights, Period: "2 à 6 nuits", MinNights: 2, MaxNights: 6},
	{Name: Weekly, Period: "7 à 29 nuits", MinNights: 7, MaxNights: 29},
	{Name: Monthly, Period: "30 nuits et plus", MinNights: 30},
}

type Catalogue []Plan

// Find looks a plan up by label, ignoring case and extra spaces.
func (c Catalogue) Find(name string) (Plan, bool) {
	name = sanitizer.NormalizeLabel(name)
	for _, p := range c {
		if sanitizer.NormalizeLabel(p.Name) == name {
			return p, true
		}
	}
	return Plan{}, false
}

// PeriodFor returns the display period stored on a reservation. Unknown
// plans fall back to the night count.
func (c Catalogue) PeriodFor(name string, nights int) string {
	if p, ok := c.Find(name); ok && p.Period != "" {
		return p.Period
	}
	if nights == 1 {
		return "1 nuit"
	}
	return fmt.Sprintf("%d nuits", nights)
}
