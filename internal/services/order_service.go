package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/models"
)

// OrderSink persists order records. Write is one call per record; an error
// wrapping ErrSinkRejected or ErrSinkUnavailable aborts the checkout.
type OrderSink interface {
	Name() string
	Write(ctx context.Context, record models.OrderRecord) error
}

// OrderSettler is implemented by sinks that can amend written records after
// the payment outcome is known.
type OrderSettler interface {
	Settle(ctx context.Context, orderID string, status models.OrderStatus, reference string) error
}

// MessagingHandoff builds the deep link that opens a pre-filled chat message.
type MessagingHandoff interface {
	ComposeURL(message string) string
}

// PaymentGateway prepares the popup options for an order.
type PaymentGateway interface {
	Open(ctx context.Context, order models.Order) (*models.PaymentRequest, error)
}

// OrderEventPublisher announces completed orders.
type OrderEventPublisher interface {
	PublishOrderPlaced(event interface{}) error
}

// SinkGranularity selects whether sinks receive one record per line or per order.
type SinkGranularity string

const (
	SinkPerLine  SinkGranularity = "per_line"
	SinkPerOrder SinkGranularity = "per_order"
)

// IST is the timezone used for the human-readable order date.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// OrderServiceConfig holds the deployment choices of the orchestrator.
type OrderServiceConfig struct {
	Granularity    SinkGranularity
	PaymentEnabled bool
	Location       *time.Location
}

// CheckoutResult is what a checkout step produced: a confirmation once the
// order is completed, or popup options while payment is awaited.
type CheckoutResult struct {
	State        CheckoutState              `json:"state"`
	Confirmation *models.OrderConfirmation `json:"confirmation,omitempty"`
	Payment      *models.PaymentRequest    `json:"payment,omitempty"`
}

// OrderService sequences validation, sink writes, payment and messaging
// handoff for one checkout attempt of a session.
type OrderService struct {
	validator *CheckoutValidator
	ids       *OrderIDGenerator
	sinks     []OrderSink
	handoff   MessagingHandoff
	gateway   PaymentGateway
	publisher OrderEventPublisher
	cfg       OrderServiceConfig
	now       func() time.Time
}

// NewOrderService creates the orchestrator. Sinks are written in order; gateway,
// handoff and publisher may be nil.
func NewOrderService(validator *CheckoutValidator, ids *OrderIDGenerator, sinks []OrderSink, handoff MessagingHandoff, gateway PaymentGateway, publisher OrderEventPublisher, cfg OrderServiceConfig) *OrderService {
	if cfg.Granularity == "" {
		cfg.Granularity = SinkPerLine
	}
	if cfg.Location == nil {
		cfg.Location = IST
	}
	return &OrderService{
		validator: validator,
		ids:       ids,
		sinks:     sinks,
		handoff:   handoff,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// PaymentEnabled reports whether the gateway path can be selected.
func (s *OrderService) PaymentEnabled() bool {
	return s.cfg.PaymentEnabled && s.gateway != nil
}

// PlaceOrder runs one checkout attempt for the session's cart.
//
// Validation failures return ValidationErrors, ErrEmptyCart or ErrMOQViolation
// without touching sinks or the cart. Sink and gateway failures release the
// cart unchanged. With the gateway method the result is AwaitingPayment and
// the cart stays held until ResolvePayment.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *Session, contact models.OrderContact, method models.PaymentMethod) (result *CheckoutResult, err error) {
	sess.checkoutMu.Lock()
	defer sess.checkoutMu.Unlock()

	if sess.state == CheckoutAwaitingPayment {
		return nil, ErrCheckoutInProgress
	}

	switch method {
	case "":
		method = models.PaymentCODMessaging
	case models.PaymentCODMessaging:
	case models.PaymentGateway:
		if !s.PaymentEnabled() {
			return nil, ErrPaymentDisabled
		}
	default:
		return nil, ValidationErrors{"payment_method": "Unknown payment method"}
	}

	sess.state = CheckoutValidating
	lines, err := sess.Cart.BeginCheckout()
	if err != nil {
		sess.state = CheckoutIdle
		return nil, err
	}

	var placed *models.OrderConfirmation
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if placed != nil {
			log.Printf("Recovered after order %s was placed: %v", placed.OrderID, r)
			result, err = &CheckoutResult{State: CheckoutCompleted, Confirmation: placed}, nil
			return
		}
		log.Printf("Recovered during checkout of session %s: %v", sess.ID, r)
		s.abort(sess)
		metrics.CheckoutOutcomes.WithLabelValues("failed").Inc()
		result, err = nil, fmt.Errorf("%w: %v", ErrOrderFailed, r)
	}()

	if err := s.validator.Validate(&contact, lines); err != nil {
		sess.Cart.AbortCheckout()
		sess.state = CheckoutIdle
		metrics.CheckoutOutcomes.WithLabelValues("blocked").Inc()
		return nil, err
	}

	order := s.newOrder(contact, lines, method)
	sess.state = CheckoutSubmitting

	if err := s.writeSinks(ctx, order); err != nil {
		log.Printf("Order %s not placed: %v", order.OrderID, err)
		s.settle(ctx, order.OrderID, models.OrderStatusCancelled, "")
		s.abort(sess)
		metrics.CheckoutOutcomes.WithLabelValues("sink_failed").Inc()
		return nil, err
	}

	if method == models.PaymentGateway {
		req, err := s.gateway.Open(ctx, order)
		if err != nil {
			log.Printf("Payment gateway failed to open for order %s: %v", order.OrderID, err)
			s.settle(ctx, order.OrderID, models.OrderStatusCancelled, "")
			s.abort(sess)
			metrics.CheckoutOutcomes.WithLabelValues("gateway_failed").Inc()
			if errors.Is(err, ErrGatewayFailed) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
		}
		sess.state = CheckoutAwaitingPayment
		sess.pending = &order
		return &CheckoutResult{State: CheckoutAwaitingPayment, Payment: req}, nil
	}

	placed = s.dispatch(sess, order)
	s.announce(order)
	return &CheckoutResult{State: CheckoutCompleted, Confirmation: placed}, nil
}

// ResolvePayment applies the gateway callback to the session's pending order.
// Success completes the order; failure or cancellation returns the session to
// idle with the cart exactly as it was before the payment attempt.
func (s *OrderService) ResolvePayment(ctx context.Context, sess *Session, outcome models.PaymentOutcome) (*CheckoutResult, error) {
	sess.checkoutMu.Lock()
	defer sess.checkoutMu.Unlock()

	if sess.state != CheckoutAwaitingPayment || sess.pending == nil || sess.pending.OrderID != outcome.OrderID {
		return nil, fmt.Errorf("%w: %s", ErrNoPendingPayment, outcome.OrderID)
	}
	metrics.PaymentOutcomes.WithLabelValues(string(outcome.Status)).Inc()

	switch outcome.Status {
	case models.PaymentSucceeded:
		order := *sess.pending
		order.PaymentReference = outcome.Reference
		s.settle(ctx, order.OrderID, "", outcome.Reference)
		conf := s.dispatch(sess, order)
		s.announce(order)
		return &CheckoutResult{State: CheckoutCompleted, Confirmation: conf}, nil
	case models.PaymentCancelled:
		log.Printf("Payment cancelled for order %s", outcome.OrderID)
		s.settle(ctx, outcome.OrderID, models.OrderStatusCancelled, "")
		s.abort(sess)
		return nil, ErrGatewayCancelled
	default:
		log.Printf("Payment failed for order %s: %s", outcome.OrderID, outcome.Reason)
		s.settle(ctx, outcome.OrderID, models.OrderStatusCancelled, "")
		s.abort(sess)
		if outcome.Reason == "" {
			return nil, ErrGatewayFailed
		}
		return nil, fmt.Errorf("%w: %s", ErrGatewayFailed, outcome.Reason)
	}
}

// settle amends the records already written for a gateway order. Failures are
// logged only: the payment outcome stands either way.
func (s *OrderService) settle(ctx context.Context, orderID string, status models.OrderStatus, reference string) {
	for _, sink := range s.sinks {
		settler, ok := sink.(OrderSettler)
		if !ok {
			continue
		}
		if err := settler.Settle(ctx, orderID, status, reference); err != nil {
			log.Printf("Warning: Failed to settle order %s in %s sink: %v", orderID, sink.Name(), err)
		}
	}
}

func (s *OrderService) abort(sess *Session) {
	sess.Cart.AbortCheckout()
	sess.pending = nil
	sess.state = CheckoutIdle
}

// dispatch hands the order to messaging, then clears the cart. The caller
// holds the session's checkout lock.
func (s *OrderService) dispatch(sess *Session, order models.Order) *models.OrderConfirmation {
	summary := ComposeOrderSummary(order)
	var link string
	if s.handoff != nil {
		link = s.handoff.ComposeURL(summary)
	}
	sess.state = CheckoutDispatched

	sess.Cart.CompleteCheckout()
	sess.pending = nil
	sess.state = CheckoutCompleted

	return &models.OrderConfirmation{
		OrderID:          order.OrderID,
		Total:            order.Total,
		TotalItems:       order.TotalItems,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		Summary:          summary,
		WhatsAppURL:      link,
	}
}

// announce records a completed order and publishes its event. The order is
// already placed, so nothing here may turn it into a failure.
func (s *OrderService) announce(order models.Order) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: Recovered while announcing order %s: %v", order.OrderID, r)
		}
	}()

	metrics.CheckoutOutcomes.WithLabelValues("completed").Inc()
	log.Printf("Order %s placed: %d items, total %d, payment %s", order.OrderID, order.TotalItems, order.Total, order.PaymentMethod)
	s.publishPlaced(order)
}

func (s *OrderService) newOrder(contact models.OrderContact, lines []models.CartItem, method models.PaymentMethod) models.Order {
	order := models.Order{
		OrderID:       s.ids.Next(),
		Contact:       contact,
		Lines:         lines,
		PaymentMethod: method,
		CreatedAt:     s.now(),
	}
	for _, line := range lines {
		order.Total += line.Subtotal()
		order.TotalItems += line.Qty
	}
	return order
}

// writeSinks writes every record to every sink, in order, and stops at the first failure.
func (s *OrderService) writeSinks(ctx context.Context, order models.Order) error {
	if len(s.sinks) == 0 {
		return nil
	}
	date := order.CreatedAt.In(s.cfg.Location).Format("02/01/2006, 3:04:05 pm")
	records := BuildOrderRecords(order, s.cfg.Granularity, date)

	for _, sink := range s.sinks {
		for _, record := range records {
			if err := sink.Write(ctx, record); err != nil {
				metrics.SinkWrites.WithLabelValues(sink.Name(), "error").Inc()
				if errors.Is(err, ErrSinkRejected) || errors.Is(err, ErrSinkUnavailable) {
					return err
				}
				return fmt.Errorf("%w: %s: %v", ErrSinkUnavailable, sink.Name(), err)
			}
			metrics.SinkWrites.WithLabelValues(sink.Name(), "ok").Inc()
		}
	}
	return nil
}

func (s *OrderService) publishPlaced(order models.Order) {
	if s.publisher == nil {
		return
	}
	event := models.OrderPlacedEvent{
		OrderID:       order.OrderID,
		Phone:         order.Contact.Phone,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		PlacedAt:      order.CreatedAt,
	}
	for _, line := range order.Lines {
		event.Lines = append(event.Lines, models.OrderLine{
			ProductID: line.ID,
			Name:      line.Name,
			Quantity:  line.Qty,
			Price:     line.Price,
		})
	}
	if err := s.publisher.PublishOrderPlaced(event); err != nil {
		log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.OrderID, err)
	}
}

// BuildOrderRecords shapes an order into sink records. Per line, each record
// carries the line's product, quantity, unit price and line total. Per order,
// a single record lists all items and carries the grand total.
func BuildOrderRecords(order models.Order, granularity SinkGranularity, date string) []models.OrderRecord {
	base := models.OrderRecord{
		OrderID:          order.OrderID,
		CustomerName:     order.Contact.Name,
		Phone:            order.Contact.Phone,
		Address:          order.Contact.Address,
		Pincode:          order.Contact.Pincode,
		Date:             date,
		Status:           models.OrderStatusPending,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
	}

	if granularity == SinkPerOrder {
		items := make([]string, 0, len(order.Lines))
		for _, line := range order.Lines {
			items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Qty))
		}
		rec := base
		rec.ProductName = strings.Join(items, ", ")
		rec.Quantity = order.TotalItems
		rec.Price = order.Total
		rec.Total = order.Total
		return []models.OrderRecord{rec}
	}

	records := make([]models.OrderRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		rec := base
		rec.ProductName = line.Name
		rec.Quantity = line.Qty
		rec.Price = line.Price
		rec.Total = line.Subtotal()
		records = append(records, rec)
	}
	return records
}

// ComposeOrderSummary renders the order as the pre-filled chat message.
func ComposeOrderSummary(order models.Order) string {
	var b strings.Builder
	b.WriteString("🛒 *New Order*\n\n")
	fmt.Fprintf(&b, "*Order ID:* %s\n", order.OrderID)
	fmt.Fprintf(&b, "*Payment:* %s\n", paymentLabel(order))
	fmt.Fprintf(&b, "*Name:* %s\n", order.Contact.Name)
	fmt.Fprintf(&b, "*Phone:* %s\n", order.Contact.Phone)
	if order.Contact.Address != "" {
		fmt.Fprintf(&b, "*Address:* %s\n", order.Contact.Address)
	}
	if order.Contact.Pincode != "" {
		fmt.Fprintf(&b, "*Pincode:* %s\n", order.Contact.Pincode)
	}
	b.WriteString("\n*Items:*\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "• %s x%d = ₹%d\n", line.Name, line.Qty, line.Subtotal())
	}
	fmt.Fprintf(&b, "\n*Total: ₹%d*", order.Total)
	return b.String()
}

func paymentLabel(order models.Order) string {
	if order.PaymentMethod == models.PaymentGateway {
		if order.PaymentReference != "" {
			return fmt.Sprintf("Online (%s)", order.PaymentReference)
		}
		return "Online"
	}
	return "WhatsApp (COD)"
}
