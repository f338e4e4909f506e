package entity

import "fmt"

// ValidationError reports a field-level rejection before persistence.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

var currencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "INR": true, "PKR": true,
}

var paymentMethods = map[string]bool{
	"credit_card": true, "paypal": true, "stripe": true, "wallet": true, "bank_transfer": true,
}

var paymentStatuses = map[string]bool{
	PaymentPending: true, PaymentCompleted: true, PaymentFailed: true, PaymentRefunded: true,
}

var orderStatuses = map[string]bool{
	OrderPending: true, OrderCompleted: true, OrderCancelled: true, OrderRefunded: true,
}

var payoutStatuses = map[string]bool{
	PayoutPending: true, PayoutProcessed: true, PayoutRejected: true,
}

// Validate checks a new order before persistence and fills in defaults
// (currency, statuses, order id). The revenue split percentages must both be
// present; they are recorded as-is and deliberately not forced to sum to 100.
func (o *Order) Validate() error {
	if o.UserID == 0 {
		return &ValidationError{Field: "user", Reason: "required"}
	}
	if o.CourseID == 0 {
		return &ValidationError{Field: "course", Reason: "required"}
	}
	if o.InstructorID == 0 {
		return &ValidationError{Field: "instructor", Reason: "required"}
	}
	if o.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if o.DiscountedAmount < 0 {
		return &ValidationError{Field: "discountedAmount", Reason: "must not be negative"}
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	if !currencies[o.Currency] {
		return &ValidationError{Field: "currency", Reason: "unknown currency " + o.Currency}
	}
	if !paymentMethods[o.PaymentMethod] {
		return &ValidationError{Field: "paymentMethod", Reason: "unknown payment method " + o.PaymentMethod}
	}
	if o.RevenueSplit.Platform < 0 || o.RevenueSplit.Instructor < 0 {
		return &ValidationError{Field: "revenueSplit", Reason: "percentages must not be negative"}
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if !paymentStatuses[o.PaymentStatus] {
		return &ValidationError{Field: "paymentStatus", Reason: "unknown payment status " + o.PaymentStatus}
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	if !orderStatuses[o.Status] {
		return &ValidationError{Field: "status", Reason: "unknown status " + o.Status}
	}
	if o.PayoutStatus == "" {
		o.PayoutStatus = PayoutPending
	}
	if !payoutStatuses[o.PayoutStatus] {
		return &ValidationError{Field: "payoutStatus", Reason: "unknown payout status " + o.PayoutStatus}
	}
	if o.OrderID == "" {
		o.OrderID = NewOrderID()
	}
	return nil
}

// OrderPatch is a partial update to an existing order. Nil fields are left
// untouched; createdAt is never patchable.
type OrderPatch struct {
	PaymentStatus *string  `json:"paymentStatus,omitempty"`
	Status        *string  `json:"status,omitempty"`
	PayoutStatus  *string  `json:"payoutStatus,omitempty"`
	TransactionID *string  `json:"transactionId,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Discounted    *float64 `json:"discountedAmount,omitempty"`
}

func (p *OrderPatch) Validate() error {
	if p.PaymentStatus != nil && !paymentStatuses[*p.PaymentStatus] {
		return &ValidationError{Field: "paymentStatus", Reason: "unknown payment status " + *p.PaymentStatus}
	}
	if p.Status != nil && !orderStatuses[*p.Status] {
		return &ValidationError{Field: "status", Reason: "unknown status " + *p.Status}
	}
	if p.PayoutStatus != nil && !payoutStatuses[*p.PayoutStatus] {
		return &ValidationError{Field: "payoutStatus", Reason: "unknown payout status " + *p.PayoutStatus}
	}
	if p.Amount != nil && *p.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if p.Discounted != nil && *p.Discounted < 0 {
		return &ValidationError{Field: "discountedAmount", Reason: "must not be negative"}
	}
	return nil
}
