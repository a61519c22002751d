package usecase

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/phenrril/medwear/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSelection checks a product page selection before it becomes an
// add-to-cart intent.
func ValidateSelection(sel domain.CartSelection) error {
	return check(sel)
}

// ValidateCheckout checks the shipping and payment form.
func ValidateCheckout(form domain.CheckoutForm) error {
	return check(form)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &domain.ValidationError{Fields: fields}
}
