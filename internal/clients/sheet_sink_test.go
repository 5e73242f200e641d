package clients_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/clients"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetServer(t *testing.T, status int, reply string, got *map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if got != nil {
			require.NoError(t, json.Unmarshal(body, got))
		}
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func sampleRecord() models.OrderRecord {
	return models.OrderRecord{
		OrderID:       "ORD-1",
		CustomerName:  "Ravi Kumar",
		Phone:         "9876543210",
		ProductName:   "Formal Shirt",
		Quantity:      2,
		Price:         599,
		Total:         1198,
		Date:          "01/06/2025, 2:30:00 pm",
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentCODMessaging,
	}
}

func TestSheetWritePostsRecord(t *testing.T) {
	var got map[string]interface{}
	server := sheetServer(t, http.StatusOK, `{"success":true}`, &got)

	sink := clients.NewSheetOrderClient(server.URL, clients.SinkConfirmed, 5*time.Second)
	require.NoError(t, sink.Write(context.Background(), sampleRecord()))

	assert.Equal(t, "ORD-1", got["orderId"])
	assert.Equal(t, "Ravi Kumar", got["customerName"])
	assert.Equal(t, "Formal Shirt", got["productName"])
	assert.Equal(t, float64(1198), got["total"])
	assert.Equal(t, "sheet", sink.Name())
}

func TestSheetWriteModes(t *testing.T) {
	tests := []struct {
		name   string
		mode   clients.SinkMode
		status int
		reply  string
		want   error
	}{
		{"confirmed success", clients.SinkConfirmed, 200, `{"success":true}`, nil},
		{"confirmed rejection", clients.SinkConfirmed, 200, `{"success":false,"error":"sheet locked"}`, services.ErrSinkRejected},
		{"confirmed unreadable", clients.SinkConfirmed, 200, `<html>ok</html>`, nil},
		{"confirmed server error", clients.SinkConfirmed, 503, ``, services.ErrSinkUnavailable},
		{"confirmed client error", clients.SinkConfirmed, 400, `bad`, services.ErrSinkRejected},
		{"fire and forget ignores rejection", clients.SinkFireAndForget, 200, `{"success":false}`, nil},
		{"fire and forget ignores status", clients.SinkFireAndForget, 500, ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := sheetServer(t, tt.status, tt.reply, nil)
			err := clients.NewSheetOrderClient(server.URL, tt.mode, 5*time.Second).Write(context.Background(), sampleRecord())
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSheetWriteUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	err := clients.NewSheetOrderClient(url, clients.SinkFireAndForget, time.Second).Write(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, services.ErrSinkUnavailable)
}

func TestSheetFindByPhone(t *testing.T) {
	var got map[string]interface{}
	server := sheetServer(t, http.StatusOK, `{"orders":[
		{"OrderID":"ORD-1","Date":"01/06/2025","CustomerName":"Ravi","Phone":9876543210,"Address":"Pune","ProductName":"Formal Shirt","Price":599,"Quantity":"2","TotalAmount":1198,"Status":"Processing"},
		{"OrderID":"ORD-2","Phone":"9876543210","ProductName":"Kurta","Price":450,"Quantity":1,"TotalAmount":450,"Status":""}
	]}`, &got)

	records, err := clients.NewSheetOrderClient(server.URL, clients.SinkFireAndForget, 5*time.Second).
		FindByPhone(context.Background(), "9876543210")
	require.NoError(t, err)

	assert.Equal(t, "getOrders", got["action"])
	assert.Equal(t, "9876543210", got["phone"])
	require.Len(t, records, 2)
	assert.Equal(t, "9876543210", records[0].Phone)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, 1198, records[0].Total)
	assert.Equal(t, models.OrderStatusProcessing, records[0].Status)
	assert.Equal(t, models.OrderStatusPending, records[1].Status)
}

func TestSheetFindByPhoneError(t *testing.T) {
	server := sheetServer(t, http.StatusOK, `{"error":"sheet missing"}`, nil)
	_, err := clients.NewSheetOrderClient(server.URL, clients.SinkFireAndForget, 5*time.Second).
		FindByPhone(context.Background(), "9876543210")
	assert.Error(t, err)
}

func TestParseSinkMode(t *testing.T) {
	mode, err := clients.ParseSinkMode("")
	require.NoError(t, err)
	assert.Equal(t, clients.SinkFireAndForget, mode)

	mode, err = clients.ParseSinkMode("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, clients.SinkConfirmed, mode)

	_, err = clients.ParseSinkMode("maybe")
	assert.Error(t, err)
}
