package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SheetFeedClient reads the product catalogue from a Google Sheets gviz endpoint.
// Columns are id, name, price, image, season, stock, minimum order.
type SheetFeedClient struct {
	url     string
	timeout time.Duration
}

// NewSheetFeedClient creates a feed client for url.
func NewSheetFeedClient(url string, timeout time.Duration) *SheetFeedClient {
	return &SheetFeedClient{
		url:     url,
		timeout: timeout,
	}
}

// FetchProducts downloads and normalizes the feed.
func (c *SheetFeedClient) FetchProducts(ctx context.Context) ([]models.Product, error) {
	code, body, err := do(ctx, fiber.Get(c.url), c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalogue feed: %w", err)
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("catalogue feed returned status %d", code)
	}
	return ParseGvizProducts(body)
}

type gvizResponse struct {
	Status string `json:"status"`
	Table  struct {
		Rows []struct {
			C []*gvizCell `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

type gvizCell struct {
	V interface{} `json:"v"`
}

// ParseGvizProducts parses a gviz response body. The JSON object is wrapped in
// a JavaScript callback, which is stripped. Missing or malformed cells fall
// back to safe defaults instead of failing the row.
func ParseGvizProducts(body []byte) ([]models.Product, error) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("feed body has no JSON payload")
	}

	var resp gvizResponse
	if err := json.Unmarshal(body[start:end+1], &resp); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("feed status %q", resp.Status)
	}

	products := make([]models.Product, 0, len(resp.Table.Rows))
	for _, row := range resp.Table.Rows {
		products = append(products, normalizeRow(row.C))
	}
	return products, nil
}

func normalizeRow(cells []*gvizCell) models.Product {
	cell := func(i int) *gvizCell {
		if i < len(cells) {
			return cells[i]
		}
		return nil
	}

	p := models.Product{
		ID:           strings.TrimSpace(cellString(cell(0))),
		Name:         strings.TrimSpace(cellString(cell(1))),
		ImageURL:     strings.TrimSpace(cellString(cell(3))),
		Season:       models.ParseSeason(cellString(cell(4))),
		MinimumOrder: 1,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()[:8]
	}
	if p.Name == "" {
		p.Name = "Unnamed Product"
	}
	if p.ImageURL == "" {
		p.ImageURL = services.FallbackImageURL
	}
	if price, ok := cellNumber(cell(2)); ok && price > 0 {
		p.Price = int(math.Round(price))
	}
	if stock, ok := cellNumber(cell(5)); ok {
		s := int(math.Max(0, math.Floor(stock)))
		p.Stock = &s
	}
	if moq, ok := cellNumber(cell(6)); ok && moq >= 1 {
		p.MinimumOrder = int(math.Floor(moq))
	}
	return p
}

func cellString(c *gvizCell) string {
	if c == nil || c.V == nil {
		return ""
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func cellNumber(c *gvizCell) (float64, bool) {
	if c == nil || c.V == nil {
		return 0, false
	}
	switch v := c.V.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
