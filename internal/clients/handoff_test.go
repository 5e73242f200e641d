package clients_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/clients"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppComposeURL(t *testing.T) {
	handoff := clients.NewWhatsAppHandoff("+918624091826")
	message := "🛒 *New Order*\n\n*Total: ₹1198*"

	link := handoff.ComposeURL(message)
	require.True(t, strings.HasPrefix(link, "https://wa.me/918624091826?text="))
	assert.NotContains(t, link, "+")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, message, parsed.Query().Get("text"))
}

func TestPopupGatewayOpen(t *testing.T) {
	gateway := clients.NewPopupGateway("rzp_test_key", "inr", "Akash Traders & Sai Collection")
	order := models.Order{
		OrderID: "ORD-2025-001",
		Contact: models.OrderContact{Name: "Ravi Kumar", Phone: "9876543210"},
		Total:   1198,
	}

	req, err := gateway.Open(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", req.Key)
	assert.Equal(t, 119800, req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.Equal(t, "Order ORD-2025-001", req.Description)
	assert.Equal(t, "Ravi Kumar", req.Prefill.Name)
	assert.Equal(t, "9876543210", req.Prefill.Contact)
}

func TestPopupGatewayWithoutKey(t *testing.T) {
	_, err := clients.NewPopupGateway("", "INR", "Store").Open(context.Background(), models.Order{OrderID: "x", Total: 1})
	assert.ErrorIs(t, err, services.ErrGatewayFailed)
}
