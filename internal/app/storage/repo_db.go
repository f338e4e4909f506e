package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
)

var schema = `
CREATE TABLE IF NOT EXISTS users(
	user_id			SERIAL PRIMARY KEY,
	email			TEXT NOT NULL UNIQUE,
	password_hash	TEXT NOT NULL,
	first_name		TEXT NOT NULL DEFAULT '',
	last_name		TEXT NOT NULL DEFAULT '',
	profile			TEXT NOT NULL DEFAULT '',
	role			VARCHAR(16) NOT NULL DEFAULT 'student',
	total_earnings	NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	pending_balance	NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	created_at		TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courses(
	course_id		SERIAL PRIMARY KEY,
	title			TEXT NOT NULL,
	instructor_id	INTEGER NOT NULL,
	category		TEXT NOT NULL DEFAULT 'All',
	status			VARCHAR(16) NOT NULL DEFAULT 'pending',
	price			NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	created_at		TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders(
	order_id			TEXT NOT NULL UNIQUE,
	user_id				INTEGER NOT NULL,
	course_id			INTEGER NOT NULL,
	instructor_id		INTEGER NOT NULL,
	amount				NUMERIC(15,2) NOT NULL,
	discounted_amount	NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	currency			VARCHAR(8) NOT NULL,
	payment_method		VARCHAR(16) NOT NULL,
	payment_status		VARCHAR(10) NOT NULL,
	status				VARCHAR(10) NOT NULL,
	payout_status		VARCHAR(10) NOT NULL,
	transaction_id		TEXT NOT NULL DEFAULT '',
	coupon_code			TEXT NOT NULL DEFAULT '',
	coupon_discount		NUMERIC(15,2) NOT NULL DEFAULT 0.00,
	revenue_platform	NUMERIC(6,2) NOT NULL,
	revenue_instructor	NUMERIC(6,2) NOT NULL,
	created_at			TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_course ON orders(course_id);
CREATE INDEX IF NOT EXISTS idx_orders_instructor ON orders(instructor_id);
CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);

CREATE TABLE IF NOT EXISTS reviews(
	review_id		SERIAL PRIMARY KEY,
	course_id		INTEGER NOT NULL,
	user_id			INTEGER NOT NULL,
	rating			NUMERIC(3,1) NOT NULL,
	review			TEXT NOT NULL DEFAULT '',
	created_at		TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notices(
	notice_id		SERIAL PRIMARY KEY,
	title			TEXT NOT NULL,
	type			VARCHAR(16) NOT NULL DEFAULT 'general',
	priority		VARCHAR(8) NOT NULL DEFAULT 'normal',
	is_read			BOOLEAN NOT NULL DEFAULT FALSE,
	created_at		TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

// effectiveAmountSQL mirrors entity.EffectiveAmount; the CASE expression and
// the Go function must stay in lockstep.
const effectiveAmountSQL = `CASE WHEN discounted_amount > 0 THEN discounted_amount ELSE amount END`

const orderColumns = `order_id, user_id, course_id, instructor_id, amount, discounted_amount,
	currency, payment_method, payment_status, status, payout_status,
	transaction_id, coupon_code, coupon_discount, revenue_platform, revenue_instructor, created_at`

// orderRow is the flat scan target for the orders table.
type orderRow struct {
	OrderID           string    `db:"order_id"`
	UserID            int64     `db:"user_id"`
	CourseID          int64     `db:"course_id"`
	InstructorID      int64     `db:"instructor_id"`
	Amount            float64   `db:"amount"`
	DiscountedAmount  float64   `db:"discounted_amount"`
	Currency          string    `db:"currency"`
	PaymentMethod     string    `db:"payment_method"`
	PaymentStatus     string    `db:"payment_status"`
	Status            string    `db:"status"`
	PayoutStatus      string    `db:"payout_status"`
	TransactionID     string    `db:"transaction_id"`
	CouponCode        string    `db:"coupon_code"`
	CouponDiscount    float64   `db:"coupon_discount"`
	RevenuePlatform   float64   `db:"revenue_platform"`
	RevenueInstructor float64   `db:"revenue_instructor"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r orderRow) toEntity() entity.Order {
	return entity.Order{
		OrderID:          r.OrderID,
		UserID:           r.UserID,
		CourseID:         r.CourseID,
		InstructorID:     r.InstructorID,
		Amount:           r.Amount,
		DiscountedAmount: r.DiscountedAmount,
		Currency:         r.Currency,
		PaymentMethod:    r.PaymentMethod,
		PaymentStatus:    r.PaymentStatus,
		Status:           r.Status,
		PayoutStatus:     r.PayoutStatus,
		TransactionID:    r.TransactionID,
		CouponCode:       r.CouponCode,
		CouponDiscount:   r.CouponDiscount,
		RevenueSplit: entity.RevenueSplit{
			Platform:   r.RevenuePlatform,
			Instructor: r.RevenueInstructor,
		},
		CreatedAt: r.CreatedAt,
	}
}

type RepoDB struct {
	db *sqlx.DB
}

func NewRepoDB(databaseURI string) (*RepoDB, error) {
	db, err := sqlx.Connect("pgx", databaseURI)
	if err != nil {
		return nil, err
	}

	db.MustExec(schema)

	return &RepoDB{db: db}, nil
}

func (r *RepoDB) CreateUser(ctx context.Context, user entity.User, passwordHash string) (int64, error) {
	var userID int64
	querySaveUser := `INSERT INTO users (email, password_hash, first_name, last_name, profile, role)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING user_id`
	err := r.db.GetContext(ctx, &userID, querySaveUser,
		user.Email, passwordHash, user.FirstName, user.LastName, user.Profile, user.Role)
	if err != nil {
		return 0, err
	}

	return userID, nil
}

func (r *RepoDB) AuthUser(ctx context.Context, email string) (entity.User, string, error) {
	var row struct {
		entity.User
		PasswordHash string `db:"password_hash"`
	}
	queryAuthUser := `SELECT user_id, email, password_hash, first_name, last_name, profile, role,
		total_earnings, pending_balance, created_at FROM users WHERE email = ($1)`
	err := r.db.GetContext(ctx, &row, queryAuthUser, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, "", ErrUserNotFound
		}
		return entity.User{}, "", err
	}

	return row.User, row.PasswordHash, nil
}

func (r *RepoDB) CreateOrder(ctx context.Context, order *entity.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().Truncate(time.Second)
	}

	querySaveOrder := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.ExecContext(ctx, querySaveOrder,
		order.OrderID, order.UserID, order.CourseID, order.InstructorID,
		order.Amount, order.DiscountedAmount, order.Currency, order.PaymentMethod,
		order.PaymentStatus, order.Status, order.PayoutStatus,
		order.TransactionID, order.CouponCode, order.CouponDiscount,
		order.RevenueSplit.Platform, order.RevenueSplit.Instructor, order.CreatedAt)

	return err
}

func (r *RepoDB) UpdateOrder(ctx context.Context, orderID string, patch entity.OrderPatch) (entity.Order, error) {
	if err := patch.Validate(); err != nil {
		return entity.Order{}, err
	}

	// The transition into a settled payment goes through the settlement
	// trigger so the accrual guard cannot be bypassed by a plain patch.
	if patch.PaymentStatus != nil && *patch.PaymentStatus == entity.PaymentCompleted {
		if _, err := r.CompleteOrderPayment(ctx, orderID); err != nil && !errors.Is(err, ErrAlreadySettled) {
			return entity.Order{}, err
		}
		patch.PaymentStatus = nil
	}

	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.PaymentStatus != nil {
		add("payment_status", *patch.PaymentStatus)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PayoutStatus != nil {
		add("payout_status", *patch.PayoutStatus)
	}
	if patch.TransactionID != nil {
		add("transaction_id", *patch.TransactionID)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Discounted != nil {
		add("discounted_amount", *patch.Discounted)
	}

	if len(set) == 0 {
		return r.GetOrder(ctx, orderID)
	}

	args = append(args, orderID)
	queryUpdateOrder := fmt.Sprintf(`UPDATE orders SET %s WHERE order_id = $%d RETURNING `+orderColumns,
		strings.Join(set, ", "), len(args))

	var row orderRow
	err := r.db.GetContext(ctx, &row, queryUpdateOrder, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, ErrOrderNotFound
		}
		return entity.Order{}, err
	}

	return row.toEntity(), nil
}

func (r *RepoDB) GetOrder(ctx context.Context, orderID string) (entity.Order, error) {
	var row orderRow
	queryGetOrder := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ($1)`
	err := r.db.GetContext(ctx, &row, queryGetOrder, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, ErrOrderNotFound
		}
		return entity.Order{}, err
	}

	return row.toEntity(), nil
}

func (r *RepoDB) GetOrders(ctx context.Context, filter OrderFilter) ([]entity.Order, error) {
	where := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.PaymentStatus != "" {
		add("payment_status = $%d", filter.PaymentStatus)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UserID != 0 {
		add("user_id = $%d", filter.UserID)
	}
	if filter.CourseID != 0 {
		add("course_id = $%d", filter.CourseID)
	}
	if filter.InstructorID != 0 {
		add("instructor_id = $%d", filter.InstructorID)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at < $%d", filter.To)
	}

	queryGetOrders := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		queryGetOrders += " WHERE " + strings.Join(where, " AND ")
	}
	queryGetOrders += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		queryGetOrders += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, queryGetOrders, args...); err != nil {
		return nil, err
	}

	orders := make([]entity.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	return orders, nil
}

// CompleteOrderPayment claims the pending->completed payment transition and
// accrues instructor earnings in one transaction. The claiming UPDATE is
// conditional, so concurrent completion events for the same order settle at
// most once; losers observe ErrAlreadySettled. A failed balance increment
// rolls the whole transition back.
func (r *RepoDB) CompleteOrderPayment(ctx context.Context, orderID string) (entity.Order, error) {
	queryClaimOrder := `UPDATE orders SET payment_status = ($1)
		WHERE order_id = ($2) AND payment_status <> ($1) AND payout_status = ($3)
		RETURNING ` + orderColumns
	queryAccrueEarnings := `UPDATE users
		SET pending_balance = pending_balance + ($1), total_earnings = total_earnings + ($1)
		WHERE user_id = ($2)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Order{}, err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Logger.Err(err).Str("orderID", orderID).Msg("settlement rollback")
		}
	}()

	var row orderRow
	err = tx.GetContext(ctx, &row, queryClaimOrder, entity.PaymentCompleted, orderID, entity.PayoutPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, r.classifySettlementMiss(ctx, orderID)
		}
		return entity.Order{}, err
	}

	order := row.toEntity()
	earnings := order.InstructorEarnings()

	res, err := tx.ExecContext(ctx, queryAccrueEarnings, earnings, order.InstructorID)
	if err != nil {
		return entity.Order{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return entity.Order{}, err
	}
	if affected == 0 {
		return entity.Order{}, fmt.Errorf("accrue earnings for order %s: %w", orderID, ErrUserNotFound)
	}

	if err = tx.Commit(); err != nil {
		return entity.Order{}, err
	}

	return order, nil
}

func (r *RepoDB) classifySettlementMiss(ctx context.Context, orderID string) error {
	var exists bool
	queryOrderExists := `SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = ($1))`
	if err := r.db.GetContext(ctx, &exists, queryOrderExists, orderID); err != nil {
		return err
	}
	if !exists {
		return ErrOrderNotFound
	}
	return ErrAlreadySettled
}

func (r *RepoDB) CreateCourse(ctx context.Context, course *entity.Course) error {
	querySaveCourse := `INSERT INTO courses (title, instructor_id, category, status, price)
		VALUES ($1, $2, $3, $4, $5) RETURNING course_id, created_at`
	return r.db.QueryRowxContext(ctx, querySaveCourse,
		course.Title, course.InstructorID, course.Category, course.Status, course.Price).
		Scan(&course.CourseID, &course.CreatedAt)
}

func (r *RepoDB) CreateReview(ctx context.Context, review *entity.Review) error {
	querySaveReview := `INSERT INTO reviews (course_id, user_id, rating, review)
		VALUES ($1, $2, $3, $4) RETURNING review_id, created_at`
	return r.db.QueryRowxContext(ctx, querySaveReview,
		review.CourseID, review.UserID, review.Rating, review.Review).
		Scan(&review.ReviewID, &review.CreatedAt)
}

type monthBucket struct {
	Month   int     `db:"month"`
	Count   int     `db:"count"`
	Revenue float64 `db:"revenue"`
}

func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// MonthlyEnrollments buckets fulfilled orders of one calendar year by month.
// The filter is the fulfillment status, not the payment status.
func (r *RepoDB) MonthlyEnrollments(ctx context.Context, year int) ([12]int, error) {
	var result [12]int
	queryEnrollments := `SELECT EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count
		FROM orders
		WHERE status = ($1) AND created_at >= ($2) AND created_at < ($3)
		GROUP BY month ORDER BY month`

	from, to := yearBounds(year)
	var buckets []monthBucket
	if err := r.db.SelectContext(ctx, &buckets, queryEnrollments, entity.OrderCompleted, from, to); err != nil {
		return result, err
	}

	for _, b := range buckets {
		result[b.Month-1] = b.Count
	}
	return result, nil
}

// MonthlyRevenue buckets the platform share of fulfilled orders by month.
func (r *RepoDB) MonthlyRevenue(ctx context.Context, year int) ([12]float64, error) {
	var result [12]float64
	queryRevenue := `SELECT EXTRACT(MONTH FROM created_at)::int AS month,
		SUM(` + effectiveAmountSQL + ` * revenue_platform / 100) AS revenue
		FROM orders
		WHERE status = ($1) AND created_at >= ($2) AND created_at < ($3)
		GROUP BY month ORDER BY month`

	from, to := yearBounds(year)
	var buckets []monthBucket
	if err := r.db.SelectContext(ctx, &buckets, queryRevenue, entity.OrderCompleted, from, to); err != nil {
		return result, err
	}

	for _, b := range buckets {
		result[b.Month-1] = b.Revenue
	}
	return result, nil
}

// TopInstructors ranks instructors by enrollment count over their courses.
// Instructors without courses or reviews still rank, with zeroed stats.
func (r *RepoDB) TopInstructors(ctx context.Context, limit int) ([]InstructorStats, error) {
	queryTopInstructors := `SELECT u.user_id, u.first_name, u.last_name, u.profile,
			COALESCE(e.enrollments, 0) AS student_count,
			COALESCE(c.courses, 0) AS course_count,
			COALESCE(rv.reviews, 0) AS review_count,
			COALESCE(rv.avg_rating, 0) AS average_rating
		FROM users u
		LEFT JOIN (
			SELECT instructor_id, COUNT(*) AS courses FROM courses GROUP BY instructor_id
		) c ON c.instructor_id = u.user_id
		LEFT JOIN (
			SELECT cs.instructor_id, COUNT(*) AS enrollments
			FROM orders o JOIN courses cs ON cs.course_id = o.course_id
			WHERE o.status = ($1)
			GROUP BY cs.instructor_id
		) e ON e.instructor_id = u.user_id
		LEFT JOIN (
			SELECT cs.instructor_id, COUNT(*) AS reviews, AVG(rv.rating) AS avg_rating
			FROM reviews rv JOIN courses cs ON cs.course_id = rv.course_id
			GROUP BY cs.instructor_id
		) rv ON rv.instructor_id = u.user_id
		WHERE u.role = ($2)
		ORDER BY student_count DESC, u.user_id ASC
		LIMIT ($3)`

	var instructors []InstructorStats
	err := r.db.SelectContext(ctx, &instructors, queryTopInstructors,
		entity.OrderCompleted, entity.RoleInstructor, limit)
	if err != nil {
		return nil, err
	}

	return instructors, nil
}

func (r *RepoDB) CourseDistribution(ctx context.Context, limit int) ([]CategoryCount, error) {
	queryDistribution := `SELECT category, COUNT(*) AS count FROM courses
		GROUP BY category ORDER BY count DESC LIMIT ($1)`

	var categories []CategoryCount
	if err := r.db.SelectContext(ctx, &categories, queryDistribution, limit); err != nil {
		return nil, err
	}

	return categories, nil
}

// RecentPurchases lists the newest orders that are both paid and fulfilled.
func (r *RepoDB) RecentPurchases(ctx context.Context, limit int) ([]PurchaseInfo, error) {
	queryRecent := `SELECT o.order_id,
			` + effectiveAmountSQL + ` AS amount,
			o.currency,
			c.title AS course_title,
			u.first_name || ' ' || u.last_name AS buyer_name,
			u.email AS buyer_email,
			i.first_name || ' ' || i.last_name AS instructor_name,
			o.created_at
		FROM orders o
		JOIN users u ON u.user_id = o.user_id
		JOIN courses c ON c.course_id = o.course_id
		JOIN users i ON i.user_id = o.instructor_id
		WHERE o.payment_status = ($1) AND o.status = ($2)
		ORDER BY o.created_at DESC
		LIMIT ($3)`

	var purchases []PurchaseInfo
	err := r.db.SelectContext(ctx, &purchases, queryRecent,
		entity.PaymentCompleted, entity.OrderCompleted, limit)
	if err != nil {
		return nil, err
	}

	return purchases, nil
}

// TotalRevenue is the all-time platform share over paid and fulfilled orders.
func (r *RepoDB) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	queryTotalRevenue := `SELECT COALESCE(SUM(` + effectiveAmountSQL + ` * revenue_platform / 100), 0)
		FROM orders WHERE payment_status = ($1) AND status = ($2)`
	err := r.db.GetContext(ctx, &total, queryTotalRevenue, entity.PaymentCompleted, entity.OrderCompleted)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *RepoDB) CourseStates(ctx context.Context, limit int) ([]CourseState, error) {
	queryStates := `SELECT c.course_id, c.title, c.instructor_id,
			COALESCE(e.enrollments, 0) AS enrolled,
			COALESCE(rv.avg_rating, 0) AS average_rating
		FROM courses c
		LEFT JOIN (
			SELECT course_id, COUNT(*) AS enrollments FROM orders
			WHERE status = ($1) GROUP BY course_id
		) e ON e.course_id = c.course_id
		LEFT JOIN (
			SELECT course_id, AVG(rating) AS avg_rating FROM reviews GROUP BY course_id
		) rv ON rv.course_id = c.course_id
		ORDER BY enrolled DESC, c.course_id ASC
		LIMIT ($2)`

	var states []CourseState
	if err := r.db.SelectContext(ctx, &states, queryStates, entity.OrderCompleted, limit); err != nil {
		return nil, err
	}

	return states, nil
}

func (r *RepoDB) Counts(ctx context.Context) (DashboardCounts, error) {
	var counts DashboardCounts
	queryCounts := `SELECT
		(SELECT COUNT(*) FROM courses) AS total_courses,
		(SELECT COUNT(*) FROM courses WHERE status = 'published') AS active_courses,
		(SELECT COUNT(*) FROM courses WHERE status = 'pending') AS pending_courses,
		(SELECT COUNT(*) FROM users WHERE role = 'student') AS total_students,
		(SELECT COUNT(*) FROM users WHERE role = 'instructor') AS total_instructors,
		(SELECT COUNT(*) FROM orders WHERE payment_status = 'completed' AND status = 'completed') AS total_purchases`

	err := r.db.QueryRowxContext(ctx, queryCounts).Scan(
		&counts.TotalCourses, &counts.ActiveCourses, &counts.PendingCourses,
		&counts.TotalStudents, &counts.TotalInstructors, &counts.TotalPurchases)
	if err != nil {
		return counts, err
	}

	return counts, nil
}

func (r *RepoDB) CreateNotice(ctx context.Context, notice *entity.Notice) error {
	querySaveNotice := `INSERT INTO notices (title, type, priority)
		VALUES ($1, $2, $3) RETURNING notice_id, created_at`
	return r.db.QueryRowxContext(ctx, querySaveNotice,
		notice.Title, notice.Type, notice.Priority).
		Scan(&notice.NoticeID, &notice.CreatedAt)
}

func (r *RepoDB) GetNotices(ctx context.Context, limit int) ([]entity.Notice, error) {
	var notices []entity.Notice
	queryGetNotices := `SELECT notice_id, title, type, priority, is_read, created_at
		FROM notices ORDER BY created_at DESC LIMIT ($1)`
	if err := r.db.SelectContext(ctx, &notices, queryGetNotices, limit); err != nil {
		return nil, err
	}

	return notices, nil
}

func (r *RepoDB) MarkNoticeRead(ctx context.Context, noticeID int64) error {
	queryMarkRead := `UPDATE notices SET is_read = TRUE WHERE notice_id = ($1)`
	res, err := r.db.ExecContext(ctx, queryMarkRead, noticeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *RepoDB) Close() {
	r.db.Close()
}
