package storage

import (
	"context"
	"errors"
	"time"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderExists = errors.New("order id already exists")
var ErrAlreadySettled = errors.New("order payment already settled")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email already in use")

// OrderFilter narrows order queries. Zero values mean "no constraint".
// Results are sorted by created_at descending (newest first).
type OrderFilter struct {
	PaymentStatus string
	Status        string
	UserID        int64
	CourseID      int64
	InstructorID  int64
	From          time.Time
	To            time.Time
	Limit         int
}

// InstructorStats is one row of the top-instructors ranking.
type InstructorStats struct {
	UserID        int64   `json:"id" db:"user_id"`
	FirstName     string  `json:"firstName" db:"first_name"`
	LastName      string  `json:"lastName" db:"last_name"`
	Profile       string  `json:"profile" db:"profile"`
	StudentCount  int     `json:"studentCount" db:"student_count"`
	CourseCount   int     `json:"courseCount" db:"course_count"`
	ReviewCount   int     `json:"reviewCount" db:"review_count"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
}

// CategoryCount is one slice of the course category distribution.
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}

// PurchaseInfo is a recent-purchases feed row with display identities resolved.
type PurchaseInfo struct {
	OrderID        string    `json:"orderId" db:"order_id"`
	Amount         float64   `json:"amount" db:"amount"`
	Currency       string    `json:"currency" db:"currency"`
	CourseTitle    string    `json:"courseTitle" db:"course_title"`
	BuyerName      string    `json:"buyerName" db:"buyer_name"`
	BuyerEmail     string    `json:"buyerEmail" db:"buyer_email"`
	InstructorName string    `json:"instructorName" db:"instructor_name"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// CourseState is a per-course enrollment/rating summary row.
type CourseState struct {
	CourseID      int64   `json:"id" db:"course_id"`
	Title         string  `json:"title" db:"title"`
	InstructorID  int64   `json:"instructor" db:"instructor_id"`
	Enrolled      int     `json:"enrolled" db:"enrolled"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
}

// DashboardCounts are the simple totals the dashboard composer consumes.
type DashboardCounts struct {
	TotalCourses     int `json:"totalCourses"`
	ActiveCourses    int `json:"activeCourses"`
	PendingCourses   int `json:"pendingCourses"`
	TotalStudents    int `json:"totalStudents"`
	TotalInstructors int `json:"totalInstructors"`
	TotalPurchases   int `json:"totalPurchases"`
}

type Repository interface {
	CreateUser(ctx context.Context, user entity.User, passwordHash string) (int64, error)
	AuthUser(ctx context.Context, email string) (entity.User, string, error)

	CreateOrder(ctx context.Context, order *entity.Order) error
	UpdateOrder(ctx context.Context, orderID string, patch entity.OrderPatch) (entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (entity.Order, error)
	GetOrders(ctx context.Context, filter OrderFilter) ([]entity.Order, error)

	// CompleteOrderPayment flips payment_status to completed and accrues
	// instructor earnings, exactly once per order, atomically. Returns
	// ErrAlreadySettled when the order has already been through the
	// transition.
	CompleteOrderPayment(ctx context.Context, orderID string) (entity.Order, error)

	CreateCourse(ctx context.Context, course *entity.Course) error
	CreateReview(ctx context.Context, review *entity.Review) error

	MonthlyEnrollments(ctx context.Context, year int) ([12]int, error)
	MonthlyRevenue(ctx context.Context, year int) ([12]float64, error)
	TopInstructors(ctx context.Context, limit int) ([]InstructorStats, error)
	CourseDistribution(ctx context.Context, limit int) ([]CategoryCount, error)
	RecentPurchases(ctx context.Context, limit int) ([]PurchaseInfo, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CourseStates(ctx context.Context, limit int) ([]CourseState, error)
	Counts(ctx context.Context) (DashboardCounts, error)

	CreateNotice(ctx context.Context, notice *entity.Notice) error
	GetNotices(ctx context.Context, limit int) ([]entity.Notice, error)
	MarkNoticeRead(ctx context.Context, noticeID int64) error

	Close()
}
