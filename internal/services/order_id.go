package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// OrderIDFormat selects how client-side order ids look.
type OrderIDFormat string

const (
	// OrderIDTimestamp yields "ORD-" followed by the base36 millisecond clock.
	OrderIDTimestamp OrderIDFormat = "timestamp"
	// OrderIDSequence yields "ORD-<year>-<NNN>" with a per-year counter.
	OrderIDSequence OrderIDFormat = "sequence"
)

// OrderIDGenerator issues display ids for orders. Ids are unique within one
// process only; the sink is the place for canonical ids.
type OrderIDGenerator struct {
	format OrderIDFormat
	now    func() time.Time

	mu     sync.Mutex
	lastMs int64
	year   int
	seq    int
}

// NewOrderIDGenerator creates a generator. issuedThisYear seeds the sequence
// format so a restart continues numbering.
func NewOrderIDGenerator(format OrderIDFormat, issuedThisYear int) *OrderIDGenerator {
	return &OrderIDGenerator{
		format: format,
		now:    time.Now,
		year:   time.Now().Year(),
		seq:    issuedThisYear,
	}
}

// WithClock replaces the time source.
func (g *OrderIDGenerator) WithClock(now func() time.Time) *OrderIDGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
	g.year = now().Year()
	return g
}

// Next returns a new order id.
func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.format == OrderIDSequence {
		if now.Year() != g.year {
			g.year = now.Year()
			g.seq = 0
		}
		g.seq++
		return fmt.Sprintf("ORD-%d-%03d", g.year, g.seq)
	}

	ms := now.UnixMilli()
	if ms <= g.lastMs {
		ms = g.lastMs + 1
	}
	g.lastMs = ms
	return "ORD-" + strings.ToUpper(strconv.FormatInt(ms, 36))
}
