package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gite/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"-"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// MissingFields lists the fields that failed only because they were absent.
func (v ValidationErrors) MissingFields() []string {
	var fields []string
	for _, e := range v {
		if e.Tag == "required" {
			fields = append(fields, e.Field)
		}
	}
	return fields
}

type ReservationValidator struct {
	validate *validator.Validate
}

func NewReservationValidator() *ReservationValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	return &ReservationValidator{
		validate: v,
	}
}

func (v *ReservationValidator) Validate(r *model.Reservation) error {
	if err := v.validate.Struct(r); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) ValidateStatus(status string) error {
	if !model.IsValidStatus(status) {
		return ValidationErrors{{
			Field:   "status",
			Tag:     "oneof",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(model.ReservationStatuses, ", ")),
		}}
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed on %s", err.Tag())
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
