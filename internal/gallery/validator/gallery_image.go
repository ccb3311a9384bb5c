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

type GalleryImageValidator struct {
	validate *validator.Validate
}

func NewGalleryImageValidator() *GalleryImageValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("gallery_category", func(fl validator.FieldLevel) bool {
		return model.IsValidCategory(fl.Field().String())
	})

	return &GalleryImageValidator{
		validate: v,
	}
}

func (v *GalleryImageValidator) Validate(img *model.GalleryImage) error {
	return v.check(img)
}

func (v *GalleryImageValidator) ValidateMeta(meta *model.GalleryImageMeta) error {
	return v.check(meta)
}

func (v *GalleryImageValidator) ValidateUpdate(update *model.GalleryImageUpdate) error {
	return v.check(update)
}

func (v *GalleryImageValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "gallery_category":
		return fmt.Sprintf("must be one of: %s", strings.Join(model.GalleryCategories, ", "))
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on %s", err.Tag())
	}
}
