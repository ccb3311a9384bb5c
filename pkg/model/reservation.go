package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

var ReservationStatuses = []string{StatusPending, StatusConfirmed, StatusCancelled}

// Reservation is one guest's request or confirmed stay. Dates are ISO
// calendar dates (YYYY-MM-DD) so that stored values sort chronologically.
type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"required"`
	Phone     string    `json:"phone" bson:"phone" validate:"required"`
	CheckIn   string    `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  string    `json:"check_out" bson:"check_out" validate:"required"`
	Guests    int       `json:"guests" bson:"guests" validate:"required"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	PlanName  string    `json:"plan_name" bson:"plan_name" validate:"required"`
	Price     float64   `json:"price" bson:"price"`
	Period    string    `json:"period" bson:"period"`
	Status    string    `json:"status" bson:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

type ReservationStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

func IsValidStatus(status string) bool {
	for _, s := range ReservationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
