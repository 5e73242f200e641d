package services_test

import (
	"errors"
	"strings"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() models.OrderContact {
	return models.OrderContact{
		Name:    "Ravi Kumar",
		Phone:   "9876543210",
		Address: "12 MG Road, Pune",
	}
}

func TestValidateContactAcceptsValidForm(t *testing.T) {
	v := services.NewCheckoutValidator(true, false)
	contact := validContact()
	contact.Name = "  Ravi Kumar  "

	assert.Nil(t, v.ValidateContact(&contact))
	assert.Equal(t, "Ravi Kumar", contact.Name)
}

func TestValidateContactFieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.OrderContact)
		field   string
		message string
	}{
		{"blank name", func(c *models.OrderContact) { c.Name = "   " }, "name", "Name is required"},
		{"long name", func(c *models.OrderContact) { c.Name = strings.Repeat("a", 101) }, "name", "Name must be at most 100 characters"},
		{"short phone", func(c *models.OrderContact) { c.Phone = "123" }, "phone", "Valid phone number required"},
		{"long phone", func(c *models.OrderContact) { c.Phone = "1234567890123456" }, "phone", "Valid phone number required"},
		{"missing address", func(c *models.OrderContact) { c.Address = "" }, "address", "Address is required"},
		{"short address", func(c *models.OrderContact) { c.Address = "abc" }, "address", "Address is required"},
		{"long address", func(c *models.OrderContact) { c.Address = strings.Repeat("x", 501) }, "address", "Address must be at most 500 characters"},
		{"bad pincode", func(c *models.OrderContact) { c.Pincode = "41100" }, "pincode", "Valid pincode required"},
	}

	v := services.NewCheckoutValidator(true, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := validContact()
			tt.mutate(&contact)

			errs := v.ValidateContact(&contact)
			require.NotNil(t, errs)
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestValidateContactOptionalFields(t *testing.T) {
	contact := validContact()
	contact.Address = ""
	assert.Nil(t, services.NewCheckoutValidator(false, false).ValidateContact(&contact))

	errs := services.NewCheckoutValidator(false, true).ValidateContact(&contact)
	require.NotNil(t, errs)
	assert.Equal(t, "Valid pincode required", errs["pincode"])

	contact.Pincode = "411001"
	assert.Nil(t, services.NewCheckoutValidator(false, true).ValidateContact(&contact))
}

func TestValidateCart(t *testing.T) {
	v := services.NewCheckoutValidator(true, false)

	assert.ErrorIs(t, v.ValidateCart(nil), services.ErrEmptyCart)

	lines := []models.CartItem{{Product: jeans(), Qty: 2}}
	err := v.ValidateCart(lines)
	assert.ErrorIs(t, err, services.ErrMOQViolation)
	assert.Contains(t, err.Error(), "Casual Jeans (min 5)")

	lines[0].Qty = 5
	assert.NoError(t, v.ValidateCart(lines))
}

func TestValidateChecksCartBeforeContact(t *testing.T) {
	v := services.NewCheckoutValidator(true, false)
	contact := models.OrderContact{Phone: "123"}

	err := v.Validate(&contact, nil)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	err = v.Validate(&contact, []models.CartItem{{Product: shirt(), Qty: 1}})
	var fieldErrs services.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "phone")
	assert.Contains(t, fieldErrs, "address")
}
