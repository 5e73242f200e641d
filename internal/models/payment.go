package models

// PaymentStatus is the single outcome a payment popup emits.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failure"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentPrefill pre-populates the gateway form.
type PaymentPrefill struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// PaymentRequest holds the options the client needs to open the gateway popup.
// Amount is in the currency's minor unit.
type PaymentRequest struct {
	Key         string         `json:"key"`
	OrderID     string         `json:"order_id"`
	Amount      int            `json:"amount"`
	Currency    string         `json:"currency"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Prefill     PaymentPrefill `json:"prefill"`
}

// PaymentOutcome is the gateway callback reported back by the client.
type PaymentOutcome struct {
	OrderID   string        `json:"order_id" validate:"required"`
	Status    PaymentStatus `json:"status" validate:"required,oneof=success failure cancelled"`
	Reference string        `json:"reference" validate:"required_if=Status success"`
	Reason    string        `json:"reason"`
}
