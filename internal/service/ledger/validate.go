package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"tour": func(fl validator.FieldLevel) bool {
			return domain.Tour(fl.Field().String()).Valid()
		},
		"payment_status": func(fl validator.FieldLevel) bool {
			return domain.PaymentStatus(fl.Field().String()).Valid()
		},
	}
	var errs []error
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", tag, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		panic(err)
	}
	return v
}

// checkPatch validates the sub-objects present in p. When complete is set, all
// three must be present.
func checkPatch(p domain.Patch, complete bool) error {
	if complete {
		switch {
		case p.Customer == nil:
			return invalid("customer is required")
		case p.Booking == nil:
			return invalid("booking is required")
		case p.Financial == nil:
			return invalid("financial is required")
		}
	}

	var parts []interface{}
	if p.Customer != nil {
		parts = append(parts, p.Customer)
	}
	if p.Booking != nil {
		parts = append(parts, p.Booking)
	}
	if p.Financial != nil {
		parts = append(parts, p.Financial)
	}

	for _, part := range parts {
		err := validate.Struct(part)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return invalid(describe(fieldErrs[0]))
		}
		return err
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() {
	case "FirstName":
		return "first name is required"
	case "LastName":
		return "last name is required"
	case "Phone":
		return "phone is required"
	case "Hotel":
		return "hotel is required"
	case "Room":
		return "room is required"
	case "Pax":
		return "pax must be at least 1"
	case "Tour":
		return fmt.Sprintf("unknown tour %q", fe.Value())
	case "Date":
		return "travel date must be YYYY-MM-DD"
	case "CostPrice", "SellingPrice", "AmountPaid":
		return "amounts must not be negative"
	case "Status":
		return fmt.Sprintf("unknown payment status %q", fe.Value())
	}
	return fe.Error()
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
