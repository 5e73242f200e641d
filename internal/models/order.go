package models

import "time"

// PaymentMethod selects how a checkout completes.
type PaymentMethod string

const (
	PaymentCODMessaging PaymentMethod = "cod_messaging"
	PaymentGateway      PaymentMethod = "gateway"
)

// OrderStatus is the lifecycle status of a persisted order record.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderContact holds the customer details entered at checkout.
// Address and pincode requirements are decided by deployment configuration.
type OrderContact struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	Address string `json:"address,omitempty" validate:"omitempty,min=5,max=500"`
	Pincode string `json:"pincode,omitempty" validate:"omitempty,len=6"`
}

// Order is the ephemeral order handed to sinks and the confirmation view.
type Order struct {
	OrderID          string        `json:"order_id"`
	Contact          OrderContact  `json:"contact"`
	Lines            []CartItem    `json:"lines"`
	Total            int           `json:"total"`
	TotalItems       int           `json:"total_items"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// OrderRecord is one row written to an order sink.
type OrderRecord struct {
	ID               uint          `json:"-" gorm:"primaryKey"`
	OrderID          string        `json:"orderId" gorm:"type:varchar(32);index"`
	CustomerName     string        `json:"customerName" gorm:"type:varchar(100)"`
	Phone            string        `json:"phone" gorm:"type:varchar(15);index"`
	Address          string        `json:"address,omitempty" gorm:"type:varchar(500)"`
	Pincode          string        `json:"pincode,omitempty" gorm:"type:varchar(6)"`
	ProductName      string        `json:"productName"`
	Quantity         int           `json:"quantity"`
	Price            int           `json:"price"`
	Total            int           `json:"total"`
	Date             string        `json:"date"`
	Status           OrderStatus   `json:"status" gorm:"type:varchar(16)"`
	PaymentMethod    PaymentMethod `json:"paymentMethod" gorm:"type:varchar(16)"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	CreatedAt        time.Time     `json:"-"`
	UpdatedAt        time.Time     `json:"-"`
}

// OrderConfirmation carries a completed order forward to the confirmation view.
type OrderConfirmation struct {
	OrderID          string        `json:"order_id"`
	Total            int           `json:"total"`
	TotalItems       int           `json:"total_items"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	Summary          string        `json:"summary"`
	WhatsAppURL      string        `json:"whatsapp_url,omitempty"`
}

// OrderPlacedEvent is published once an order reaches Completed.
type OrderPlacedEvent struct {
	OrderID       string        `json:"order_id"`
	Phone         string        `json:"phone"`
	Total         int           `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Lines         []OrderLine   `json:"lines"`
	PlacedAt      time.Time     `json:"placed_at"`
}

// OrderLine is the event view of a cart line.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}
