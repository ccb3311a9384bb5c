package service

import (
	"context"
	"errors"
	"strings"
	"time"

	reservationserrors "gite/internal/reservations/errors"
	"gite/internal/reservations/repository"
	"gite/internal/reservations/validator"
	"gite/pkg/availability"
	"gite/pkg/cache"
	"gite/pkg/config"
	apperrors "gite/pkg/errors"
	"gite/pkg/events"
	"gite/pkg/model"
	"gite/pkg/sanitizer"
)

type ReservationService interface {
	// Create stores a guest request. The status is always pending.
	Create(ctx context.Context, r *model.Reservation) error
	// CreateByAdmin stores a reservation entered from the back-office, which
	// may carry its own status.
	CreateByAdmin(ctx context.Context, r *model.Reservation) error
	List(ctx context.Context, status string) ([]*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Replace(ctx context.Context, id string, r *model.Reservation) error

	ConfirmedRanges(ctx context.Context) ([]model.DateRange, error)
	IsReserved(ctx context.Context, day time.Time) (bool, error)
	Calendar(ctx context.Context) (map[string][]availability.DayEvent, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cache     cache.AvailabilityCache
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	availabilityCache cache.AvailabilityCache,
	cfg *config.Config,
) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if availabilityCache == nil {
		availabilityCache = cache.NopCache{}
	}
	return &reservationService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cache:     availabilityCache,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, r *model.Reservation) error {
	r.Status = model.StatusPending
	return s.create(ctx, r)
}

func (s *reservationService) CreateByAdmin(ctx context.Context, r *model.Reservation) error {
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	return s.create(ctx, r)
}

func (s *reservationService) create(ctx context.Context, r *model.Reservation) error {
	s.sanitize(r)

	if err := s.validate(r); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"name", r.Name,
			"check_in", r.CheckIn,
			"check_out", r.CheckOut,
			"error", err,
		)
		return apperrors.Internal("Failed to save reservation", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", r.ID,
		"check_in", r.CheckIn,
		"check_out", r.CheckOut,
		"plan_name", r.PlanName,
		"status", r.Status,
	)

	s.afterWrite(ctx, events.ReservationEvent{
		Type:          events.TypeReservationCreated,
		ReservationID: r.ID,
		Status:        r.Status,
		Reservation:   r,
	})
	return nil
}

func (s *reservationService) List(ctx context.Context, status string) ([]*model.Reservation, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" {
		if err := s.validator.ValidateStatus(status); err != nil {
			return nil, apperrors.InvalidInput("Unknown reservation status: " + status)
		}
	}

	reservations, err := s.repo.FindAll(ctx, status)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "status", status, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve reservation")
	}
	return r, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, status string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if err := s.validator.ValidateStatus(status); err != nil {
		return apperrors.Validation("Reservation status is invalid", map[string]any{
			"errors": err,
		})
	}

	previous, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to update reservation status")
	}

	s.cfg.Log.Info("Reservation status updated",
		"id", id,
		"previous_status", previous,
		"status", status,
	)

	s.afterWrite(ctx, events.ReservationEvent{
		Type:           events.TypeReservationStatusChanged,
		ReservationID:  id,
		Status:         status,
		PreviousStatus: previous,
	})
	return nil
}

func (s *reservationService) Replace(ctx context.Context, id string, r *model.Reservation) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to check reservation existence")
	}

	s.sanitize(r)
	if r.Status == "" {
		r.Status = existing.Status
	}
	if err := s.validate(r); err != nil {
		return err
	}

	if err := s.repo.Replace(ctx, id, r); err != nil {
		return s.mapRepoError(err, id, "Failed to update reservation")
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt

	s.cfg.Log.Info("Reservation replaced",
		"id", id,
		"check_in", r.CheckIn,
		"check_out", r.CheckOut,
		"status", r.Status,
	)

	s.afterWrite(ctx, events.ReservationEvent{
		Type:           events.TypeReservationReplaced,
		ReservationID:  id,
		Status:         r.Status,
		PreviousStatus: existing.Status,
		Reservation:    r,
	})
	return nil
}

func (s *reservationService) ConfirmedRanges(ctx context.Context) ([]model.DateRange, error) {
	ranges, ok, err := s.cache.ConfirmedRanges(ctx)
	if err != nil {
		s.cfg.Log.Warn("Availability cache read failed", "error", err)
	}
	if ok {
		return ranges, nil
	}

	confirmed, err := s.repo.FindAll(ctx, model.StatusConfirmed)
	if err != nil {
		s.cfg.Log.Error("Failed to load confirmed reservations", "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	ranges = availability.Ranges(confirmed)
	if err := s.cache.SetConfirmedRanges(ctx, ranges); err != nil {
		s.cfg.Log.Warn("Availability cache write failed", "error", err)
	}
	return ranges, nil
}

func (s *reservationService) IsReserved(ctx context.Context, day time.Time) (bool, error) {
	ranges, err := s.ConfirmedRanges(ctx)
	if err != nil {
		return false, err
	}
	return availability.IsReserved(day, ranges), nil
}

func (s *reservationService) Calendar(ctx context.Context) (map[string][]availability.DayEvent, error) {
	confirmed, err := s.repo.FindAll(ctx, model.StatusConfirmed)
	if err != nil {
		s.cfg.Log.Error("Failed to load confirmed reservations", "error", err)
		return nil, apperrors.Internal("Failed to build calendar", err)
	}
	return availability.DayEvents(confirmed), nil
}

// afterWrite never fails the request: the record is already stored.
func (s *reservationService) afterWrite(ctx context.Context, event events.ReservationEvent) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.cfg.Log.Warn("Availability cache invalidation failed",
			"reservation_id", event.ReservationID,
			"error", err,
		)
	}

	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish reservation event",
			"type", event.Type,
			"reservation_id", event.ReservationID,
			"error", err,
		)
	}
}

func (s *reservationService) validate(r *model.Reservation) error {
	err := s.validator.Validate(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if missing := verrs.MissingFields(); len(missing) > 0 {
			s.cfg.Log.Warn("Reservation rejected: missing fields", "missing_fields", missing)
			return apperrors.InvalidInput("Missing required fields").WithDetails(map[string]any{
				"missing_fields": missing,
			})
		}
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{
			"errors": verrs,
		})
	}
	return apperrors.Internal("Failed to validate reservation", err)
}

func (s *reservationService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.Name = sanitizer.NormalizeName(r.Name)
	r.Email = sanitizer.NormalizeEmail(r.Email)
	r.Phone = sanitizer.NormalizePhone(r.Phone)
	r.CheckIn = strings.TrimSpace(r.CheckIn)
	r.CheckOut = strings.TrimSpace(r.CheckOut)
	r.Message = sanitizer.NormalizeMessage(r.Message)
	r.PlanName = sanitizer.NormalizeLabel(r.PlanName)
	r.Period = sanitizer.TrimAndNormalize(r.Period)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}
