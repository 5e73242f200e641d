package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/models"

	"github.com/go-playground/validator/v10"
)

// fieldMessages holds the user-facing message per contact field and failed tag.
// The empty tag is the fallback for a field.
var fieldMessages = map[string]map[string]string{
	"name": {
		"":    "Name is required",
		"max": "Name must be at most 100 characters",
	},
	"phone": {
		"": "Valid phone number required",
	},
	"address": {
		"":    "Address is required",
		"max": "Address must be at most 500 characters",
	},
	"pincode": {
		"": "Valid pincode required",
	},
}

// CheckoutValidator checks the contact form and the cart before an order is submitted.
type CheckoutValidator struct {
	validate       *validator.Validate
	requireAddress bool
	requirePincode bool
}

// NewCheckoutValidator creates a validator. Address and pincode requirements are
// deployment choices.
func NewCheckoutValidator(requireAddress, requirePincode bool) *CheckoutValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CheckoutValidator{
		validate:       v,
		requireAddress: requireAddress,
		requirePincode: requirePincode,
	}
}

// RequiresAddress reports whether checkout needs a delivery address.
func (v *CheckoutValidator) RequiresAddress() bool {
	return v.requireAddress
}

// ValidateCart blocks checkout for an empty cart or lines under their minimum order.
func (v *CheckoutValidator) ValidateCart(lines []models.CartItem) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	if violations := moqViolations(lines); len(violations) > 0 {
		names := make([]string, 0, len(violations))
		for _, item := range violations {
			names = append(names, fmt.Sprintf("%s (min %d)", item.Name, item.MOQ()))
		}
		return fmt.Errorf("%w: %s", ErrMOQViolation, strings.Join(names, ", "))
	}
	return nil
}

// ValidateContact trims the contact in place and returns field errors, or nil.
func (v *CheckoutValidator) ValidateContact(contact *models.OrderContact) ValidationErrors {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Address = strings.TrimSpace(contact.Address)
	contact.Pincode = strings.TrimSpace(contact.Pincode)

	errs := ValidationErrors{}
	if err := v.validate.Struct(contact); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs["form"] = "Invalid order details"
			return errs
		}
		for _, e := range fieldErrs {
			errs[e.Field()] = messageFor(e.Field(), e.Tag())
		}
	}
	if v.requireAddress && contact.Address == "" {
		errs["address"] = messageFor("address", "required")
	}
	if v.requirePincode && contact.Pincode == "" {
		errs["pincode"] = messageFor("pincode", "required")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate runs the cart-level checks first, then the contact fields.
func (v *CheckoutValidator) Validate(contact *models.OrderContact, lines []models.CartItem) error {
	if err := v.ValidateCart(lines); err != nil {
		return err
	}
	if errs := v.ValidateContact(contact); errs != nil {
		return errs
	}
	return nil
}

func messageFor(field, tag string) string {
	messages, ok := fieldMessages[field]
	if !ok {
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, tag)
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	return messages[""]
}
