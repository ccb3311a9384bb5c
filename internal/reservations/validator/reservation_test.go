package validator

import (
	"errors"
	"sort"
	"testing"

	"gite/pkg/model"
)

func validReservation() *model.Reservation {
	return &model.Reservation{
		Name:     "Marie Dupont",
		Email:    "marie@example.com",
		Phone:    "+33612345678",
		CheckIn:  "2024-07-10",
		CheckOut: "2024-07-13",
		Guests:   2,
		PlanName: "2 NUITS",
	}
}

func TestValidate_Valid(t *testing.T) {
	v := NewReservationValidator()
	if err := v.Validate(validReservation()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := NewReservationValidator()

	r := validReservation()
	r.Email = ""
	r.Guests = 0
	r.PlanName = ""

	err := v.Validate(r)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	missing := verrs.MissingFields()
	sort.Strings(missing)
	want := []string{"email", "guests", "plan_name"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}

func TestValidate_MessageIsOptional(t *testing.T) {
	v := NewReservationValidator()
	r := validReservation()
	r.Message = ""
	if err := v.Validate(r); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_UnknownStatus(t *testing.T) {
	v := NewReservationValidator()
	r := validReservation()
	r.Status = "archived"

	err := v.Validate(r)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs.MissingFields()) != 0 {
		t.Errorf("status error must not count as missing: %v", verrs.MissingFields())
	}
	if verrs[0].Field != "status" {
		t.Errorf("field = %q, want status", verrs[0].Field)
	}
}

func TestValidateStatus(t *testing.T) {
	v := NewReservationValidator()
	for _, s := range model.ReservationStatuses {
		if err := v.ValidateStatus(s); err != nil {
			t.Errorf("ValidateStatus(%q) = %v", s, err)
		}
	}
	if err := v.ValidateStatus("Confirmed"); err == nil {
		t.Error("expected case-sensitive rejection")
	}
}
