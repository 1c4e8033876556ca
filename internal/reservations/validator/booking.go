package validator

import (
	"errors"
	"fmt"
	"strings"

	"bonzai/pkg/logger"
	"bonzai/pkg/model"

	"github.com/go-playground/validator/v10"
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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookingValidator checks request shape and cross-field booking rules.
// Rules that need inventory data (room-type capacity, availability) live in
// the reservation service, which has the records at hand.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("bookdate", validateBookDate); err != nil {
		log.Fatal("Failed to register 'bookdate' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateBookDate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

// ValidateCreate enforces the create rules: well-formed fields, at least
// one night, and the declared guest count equal to the sum of people
// assigned across rooms.
func (v *BookingValidator) ValidateCreate(req *model.CreateBookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := v.validateStay(req.CheckInDate, req.CheckOutDate); err != nil {
		return err
	}

	assigned := 0
	for _, room := range req.Rooms {
		assigned += room.PeopleAssigned
	}
	if assigned != req.Guests {
		return ValidationErrors{
			ValidationError{
				Field:   "Guests",
				Message: fmt.Sprintf("guests (%d) must equal the sum of peopleAssigned across rooms (%d)", req.Guests, assigned),
			},
		}
	}

	return nil
}

// ValidateModify enforces the modify rules; the guest total is derived
// from the replacement lines, so no equality check applies.
func (v *BookingValidator) ValidateModify(req *model.ModifyBookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateStay(req.CheckInDate, req.CheckOutDate)
}

func (v *BookingValidator) validateStay(checkInDate, checkOutDate string) error {
	checkIn, err := model.ParseDate(checkInDate)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "CheckInDate", Message: "checkInDate must be a valid YYYY-MM-DD date"},
		}
	}
	checkOut, err := model.ParseDate(checkOutDate)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "CheckOutDate", Message: "checkOutDate must be a valid YYYY-MM-DD date"},
		}
	}

	if model.Nights(checkIn, checkOut) < 1 {
		return ValidationErrors{
			ValidationError{Field: "CheckOutDate", Message: "checkOutDate must be at least one day after checkInDate"},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "bookdate":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
