package handlers

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const orderFailedMessage = "Failed to place order. Please try again."

// respondError maps a service error to its HTTP status and body.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErrs services.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrs,
		})
	}

	switch {
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrMOQViolation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":  "Please fix your cart before checking out",
			"error":    err.Error(),
			"redirect": "/cart",
		})
	case errors.Is(err, services.ErrBelowMinimumOrder), errors.Is(err, services.ErrExceedsStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Cart update rejected",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrCheckoutInProgress), errors.Is(err, services.ErrNoPendingPayment):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A checkout is in progress for this cart",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrPaymentDisabled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "online payment not configured",
		})
	case errors.Is(err, services.ErrSinkUnavailable),
		errors.Is(err, services.ErrSinkRejected),
		errors.Is(err, services.ErrGatewayFailed),
		errors.Is(err, services.ErrOrderFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": orderFailedMessage,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrPhoneRequired), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrLookupUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}

	log.Printf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func failedValidation(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
