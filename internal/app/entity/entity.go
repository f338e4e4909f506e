package entity

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Payment settlement states reported by the gateway.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Fulfillment (enrollment) states. Independent axis from payment settlement:
// aggregations filter on one or the other per view, never interchangeably.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

// Payout accrual states for instructor earnings.
const (
	PayoutPending   = "pending"
	PayoutProcessed = "processed"
	PayoutRejected  = "rejected"
)

const (
	RoleAdmin      = "admin"
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

const (
	CoursePending   = "pending"
	CoursePublished = "published"
	CourseRejected  = "rejected"
)

// RevenueSplit holds the per-order percentages for platform and instructor.
// The two numbers are recorded as-is and are not required to sum to 100.
type RevenueSplit struct {
	Platform   float64 `json:"platform" db:"revenue_platform"`
	Instructor float64 `json:"instructor" db:"revenue_instructor"`
}

type Order struct {
	OrderID          string       `json:"orderId" db:"order_id"`
	UserID           int64        `json:"user" db:"user_id"`
	CourseID         int64        `json:"course" db:"course_id"`
	InstructorID     int64        `json:"instructor" db:"instructor_id"`
	Amount           float64      `json:"amount" db:"amount"`
	DiscountedAmount float64      `json:"discountedAmount,omitempty" db:"discounted_amount"`
	Currency         string       `json:"currency" db:"currency"`
	PaymentMethod    string       `json:"paymentMethod" db:"payment_method"`
	PaymentStatus    string       `json:"paymentStatus" db:"payment_status"`
	Status           string       `json:"status" db:"status"`
	PayoutStatus     string       `json:"payoutStatus" db:"payout_status"`
	TransactionID    string       `json:"transactionId,omitempty" db:"transaction_id"`
	CouponCode       string       `json:"couponCode,omitempty" db:"coupon_code"`
	CouponDiscount   float64      `json:"couponDiscount,omitempty" db:"coupon_discount"`
	RevenueSplit     RevenueSplit `json:"revenueSplit"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
}

type User struct {
	UserID         int64     `json:"id" db:"user_id"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Profile        string    `json:"profile,omitempty" db:"profile"`
	Role           string    `json:"role" db:"role"`
	TotalEarnings  float64   `json:"totalEarnings" db:"total_earnings"`
	PendingBalance float64   `json:"pendingBalance" db:"pending_balance"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type Course struct {
	CourseID     int64     `json:"id" db:"course_id"`
	Title        string    `json:"title" db:"title"`
	InstructorID int64     `json:"instructor" db:"instructor_id"`
	Category     string    `json:"category" db:"category"`
	Status       string    `json:"status" db:"status"`
	Price        float64   `json:"price" db:"price"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Review struct {
	ReviewID  int64     `json:"id" db:"review_id"`
	CourseID  int64     `json:"course" db:"course_id"`
	UserID    int64     `json:"user" db:"user_id"`
	Rating    float64   `json:"rating" db:"rating"`
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Notice struct {
	NoticeID  int64     `json:"id" db:"notice_id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Priority  string    `json:"priority" db:"priority"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EffectiveAmount is the single source of truth for the charged amount:
// the discounted price when positive, the list price otherwise. Every
// money-derived figure (settlement and revenue aggregation alike) goes
// through this rule.
func (o *Order) EffectiveAmount() float64 {
	if o.DiscountedAmount > 0 {
		return o.DiscountedAmount
	}
	return o.Amount
}

// InstructorEarnings is the instructor's share of the effective amount.
// A zero instructor split yields zero, not a skipped accrual.
func (o *Order) InstructorEarnings() float64 {
	return o.EffectiveAmount() * o.RevenueSplit.Instructor / 100
}

// PlatformRevenue is the platform's share of the effective amount.
func (o *Order) PlatformRevenue() float64 {
	return o.EffectiveAmount() * o.RevenueSplit.Platform / 100
}

// NewOrderID mirrors the checkout id format: timestamp plus a random suffix.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// Round1 rounds to one decimal place for presentation (mean ratings).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
