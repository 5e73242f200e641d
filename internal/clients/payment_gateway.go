package clients

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"
)

// PopupGateway prepares checkout popup options for a hosted payment widget.
// The popup itself runs in the browser; the outcome comes back through
// the payment callback endpoint.
type PopupGateway struct {
	keyID     string
	currency  string
	storeName string
}

// NewPopupGateway creates a gateway for the public key id.
func NewPopupGateway(keyID, currency, storeName string) *PopupGateway {
	if currency == "" {
		currency = "INR"
	}
	return &PopupGateway{
		keyID:     keyID,
		currency:  strings.ToUpper(currency),
		storeName: storeName,
	}
}

// Open returns the popup options for order. Amounts are sent in the minor unit.
func (g *PopupGateway) Open(ctx context.Context, order models.Order) (*models.PaymentRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.keyID == "" {
		return nil, fmt.Errorf("%w: payment key is not configured", services.ErrGatewayFailed)
	}
	if order.Total <= 0 {
		return nil, fmt.Errorf("%w: order total must be positive", services.ErrGatewayFailed)
	}
	return &models.PaymentRequest{
		Key:         g.keyID,
		OrderID:     order.OrderID,
		Amount:      order.Total * 100,
		Currency:    g.currency,
		Name:        g.storeName,
		Description: "Order " + order.OrderID,
		Prefill: models.PaymentPrefill{
			Name:    order.Contact.Name,
			Contact: order.Contact.Phone,
		},
	}, nil
}
