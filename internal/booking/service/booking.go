// Package service runs the guest booking flow: date and plan checks, pricing,
// then hand-off to the reservation store.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	reservations "gite/internal/reservations/service"
	"gite/pkg/config"
	apperrors "gite/pkg/errors"
	"gite/pkg/model"
	"gite/pkg/plans"
	"gite/pkg/pricing"
	"gite/pkg/property"
)

type Outcome string

const (
	OutcomePersisted    Outcome = "persisted"
	OutcomeNotPersisted Outcome = "not_persisted"
	OutcomeFailed       Outcome = "failed"
)

type BookingRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Message  string `json:"message,omitempty"`
	PlanName string `json:"plan_name"`
}

// SaveResult always carries the reservation as it was meant to be stored,
// except on OutcomeFailed. On OutcomeNotPersisted the record has no id and
// Err holds the store failure.
type SaveResult struct {
	Outcome     Outcome            `json:"outcome"`
	Persisted   bool               `json:"persisted"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
	Quote       *pricing.Quote     `json:"quote,omitempty"`
	Err         error              `json:"-"`
}

type BookingService interface {
	Quote(checkIn, checkOut string) (*pricing.Quote, error)
	Submit(ctx context.Context, req BookingRequest) SaveResult
	Plans() plans.Catalogue
	Property() *property.Profile
}

type bookingService struct {
	reservations reservations.ReservationService
	profile      *property.Profile
	cfg          *config.Config
}

func NewBookingService(reservations reservations.ReservationService, profile *property.Profile, cfg *config.Config) BookingService {
	return &bookingService{
		reservations: reservations,
		profile:      profile,
		cfg:          cfg,
	}
}

func (s *bookingService) Quote(checkIn, checkOut string) (*pricing.Quote, error) {
	in, out, err := parseStay(checkIn, checkOut, s.profile.MaxNights)
	if err != nil {
		return nil, err
	}
	return s.quote(in, out)
}

func (s *bookingService) Submit(ctx context.Context, req BookingRequest) SaveResult {
	in, out, err := parseStay(req.CheckIn, req.CheckOut, s.profile.MaxNights)
	if err != nil {
		return failed(err)
	}

	if req.Guests < 1 {
		return failed(apperrors.Validation("Au moins un voyageur est requis.", map[string]any{
			"field": "guests",
		}))
	}
	if s.profile.MaxGuests > 0 && req.Guests > s.profile.MaxGuests {
		return failed(apperrors.Validation(
			fmt.Sprintf("Le logement accueille au maximum %d voyageurs.", s.profile.MaxGuests),
			map[string]any{"field": "guests", "max_guests": s.profile.MaxGuests},
		))
	}

	if err := plans.Validate(req.PlanName, in, out); err != nil {
		var planErr *plans.Error
		if errors.As(err, &planErr) {
			s.cfg.Log.Info("Booking rejected by plan rules",
				"plan", planErr.Plan,
				"nights", planErr.Nights,
			)
			return failed(apperrors.Validation(planErr.Message, map[string]any{
				"plan":   planErr.Plan,
				"nights": planErr.Nights,
			}))
		}
		return failed(apperrors.Internal("Failed to check plan", err))
	}

	quote, err := s.quote(in, out)
	if err != nil {
		return failed(err)
	}

	res := &model.Reservation{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		CheckIn:  model.FormatDate(in),
		CheckOut: model.FormatDate(out),
		Guests:   req.Guests,
		Message:  req.Message,
		PlanName: req.PlanName,
		Price:    quote.Total.Float(),
		Period:   s.profile.Catalogue().PeriodFor(req.PlanName, quote.Nights),
	}

	err = s.reservations.Create(ctx, res)
	if err == nil {
		return SaveResult{
			Outcome:     OutcomePersisted,
			Persisted:   true,
			Reservation: res,
			Quote:       quote,
		}
	}

	if appErr := apperrors.AsAppError(err); appErr.StatusCode() < http.StatusInternalServerError {
		return failed(err)
	}

	s.cfg.Log.Error("Booking not persisted",
		"check_in", res.CheckIn,
		"check_out", res.CheckOut,
		"plan_name", res.PlanName,
		"error", err,
	)
	res.ID = ""
	res.Status = model.StatusPending
	return SaveResult{
		Outcome:     OutcomeNotPersisted,
		Reservation: res,
		Quote:       quote,
		Err:         err,
	}
}

func (s *bookingService) Plans() plans.Catalogue {
	return s.profile.Catalogue()
}

func (s *bookingService) Property() *property.Profile {
	return s.profile
}

func (s *bookingService) quote(in, out time.Time) (*pricing.Quote, error) {
	q, err := s.profile.Quote(in, out)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			return nil, invalidRange()
		}
		return nil, apperrors.Internal("Failed to compute price", err)
	}
	return q, nil
}

func failed(err error) SaveResult {
	return SaveResult{Outcome: OutcomeFailed, Err: err}
}

// parseStay reads the stay dates. A positive maxNights caps the stay length
// before any night is priced.
func parseStay(checkIn, checkOut string, maxNights int) (time.Time, time.Time, error) {
	var missing []string
	if strings.TrimSpace(checkIn) == "" {
		missing = append(missing, "check_in")
	}
	if strings.TrimSpace(checkOut) == "" {
		missing = append(missing, "check_out")
	}
	if len(missing) > 0 {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("Missing required fields").WithDetails(map[string]any{
			"missing_fields": missing,
		})
	}

	in, err := model.ParseDate(strings.TrimSpace(checkIn))
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("check_in: " + err.Error())
	}
	out, err := model.ParseDate(strings.TrimSpace(checkOut))
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("check_out: " + err.Error())
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, invalidRange()
	}
	if maxNights > 0 && out.After(in.AddDate(0, 0, maxNights)) {
		return time.Time{}, time.Time{}, stayTooLong(maxNights)
	}
	return in, out, nil
}

func stayTooLong(maxNights int) error {
	return apperrors.Validation(fmt.Sprintf("Le séjour ne peut pas dépasser %d nuits.", maxNights), map[string]any{
		"reason":     "StayTooLong",
		"max_nights": maxNights,
	})
}

func invalidRange() error {
	return apperrors.Validation("La date de départ doit être postérieure à la date d'arrivée.", map[string]any{
		"reason": "InvalidDateRange",
	})
}
