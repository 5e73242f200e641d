package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SinkMode decides how much the sheet endpoint's reply is trusted.
type SinkMode string

const (
	// SinkFireAndForget treats any delivered request as accepted.
	SinkFireAndForget SinkMode = "fire_and_forget"
	// SinkConfirmed reads the reply and honours an explicit rejection.
	SinkConfirmed SinkMode = "confirmed"
)

// ParseSinkMode maps a configuration value to a SinkMode.
func ParseSinkMode(raw string) (SinkMode, error) {
	switch SinkMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SinkFireAndForget:
		return SinkFireAndForget, nil
	case SinkConfirmed:
		return SinkConfirmed, nil
	default:
		return "", fmt.Errorf("unknown sink mode %q", raw)
	}
}

// SheetOrderClient posts order records to a spreadsheet web app and reads
// orders back from it.
type SheetOrderClient struct {
	url     string
	mode    SinkMode
	timeout time.Duration
}

// NewSheetOrderClient creates a sheet sink for url.
func NewSheetOrderClient(url string, mode SinkMode, timeout time.Duration) *SheetOrderClient {
	if mode == "" {
		mode = SinkFireAndForget
	}
	return &SheetOrderClient{
		url:     url,
		mode:    mode,
		timeout: timeout,
	}
}

// Name identifies the sink in logs and metrics.
func (c *SheetOrderClient) Name() string { return "sheet" }

type sheetReply struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Write posts one record. A reply that cannot be read is counted as success.
func (c *SheetOrderClient) Write(ctx context.Context, record models.OrderRecord) error {
	code, body, err := do(ctx, fiber.Post(c.url).JSON(record), c.timeout)
	if err != nil {
		return fmt.Errorf("%w: sheet: %v", services.ErrSinkUnavailable, err)
	}
	if c.mode == SinkFireAndForget {
		return nil
	}

	if code >= fiber.StatusInternalServerError {
		return fmt.Errorf("%w: sheet returned status %d", services.ErrSinkUnavailable, code)
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("%w: sheet returned status %d", services.ErrSinkRejected, code)
	}

	var reply sheetReply
	if err := json.Unmarshal(body, &reply); err != nil || reply.Success == nil {
		log.Printf("Sheet reply for order %s unreadable, assuming accepted", record.OrderID)
		return nil
	}
	if !*reply.Success {
		return fmt.Errorf("%w: %s", services.ErrSinkRejected, reply.Error)
	}
	return nil
}

type sheetOrder struct {
	OrderID      string      `json:"OrderID"`
	Date         string      `json:"Date"`
	CustomerName string      `json:"CustomerName"`
	Phone        interface{} `json:"Phone"`
	Address      string      `json:"Address"`
	ProductName  string      `json:"ProductName"`
	Price        interface{} `json:"Price"`
	Quantity     interface{} `json:"Quantity"`
	TotalAmount  interface{} `json:"TotalAmount"`
	Status       string      `json:"Status"`
}

// FindByPhone asks the sheet for the orders submitted with phone.
func (c *SheetOrderClient) FindByPhone(ctx context.Context, phone string) ([]models.OrderRecord, error) {
	payload := fiber.Map{"action": "getOrders", "phone": phone}
	code, body, err := do(ctx, fiber.Post(c.url).JSON(payload), c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("order lookup returned status %d", code)
	}

	var reply struct {
		Orders []sheetOrder `json:"orders"`
		Error  string       `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode order lookup: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("order lookup failed: %s", reply.Error)
	}

	records := make([]models.OrderRecord, 0, len(reply.Orders))
	for _, o := range reply.Orders {
		status := models.OrderStatus(strings.ToLower(strings.TrimSpace(o.Status)))
		if status == "" {
			status = models.OrderStatusPending
		}
		records = append(records, models.OrderRecord{
			OrderID:      o.OrderID,
			Date:         o.Date,
			CustomerName: o.CustomerName,
			Phone:        looseString(o.Phone),
			Address:      o.Address,
			ProductName:  o.ProductName,
			Price:        looseInt(o.Price),
			Quantity:     looseInt(o.Quantity),
			Total:        looseInt(o.TotalAmount),
			Status:       status,
		})
	}
	return records, nil
}

// Sheet cells come back as numbers or strings depending on formatting.
func looseString(v interface{}) string {
	return cellString(&gvizCell{V: v})
}

func looseInt(v interface{}) int {
	f, ok := cellNumber(&gvizCell{V: v})
	if !ok {
		return 0
	}
	return int(math.Round(f))
}
