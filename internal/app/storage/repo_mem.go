package storage

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
)

// RepoMem is an in-memory Repository with the same semantics as RepoDB,
// including the settle-at-most-once guard. Used by tests and as a fixture
// store; the mutex stands in for the database's atomic conditional update.
type RepoMem struct {
	mu           sync.Mutex
	users        map[int64]*entity.User
	passwords    map[int64]string
	emails       map[string]int64
	orders       map[string]*entity.Order
	orderSeq     []string
	courses      map[int64]*entity.Course
	reviews      []entity.Review
	notices      []*entity.Notice
	nextUserID   int64
	nextCourseID int64
	nextReviewID int64
	nextNoticeID int64
}

func NewRepoMem() *RepoMem {
	return &RepoMem{
		users:        make(map[int64]*entity.User),
		passwords:    make(map[int64]string),
		emails:       make(map[string]int64),
		orders:       make(map[string]*entity.Order),
		courses:      make(map[int64]*entity.Course),
		nextUserID:   1,
		nextCourseID: 1,
		nextReviewID: 1,
		nextNoticeID: 1,
	}
}

func (r *RepoMem) CreateUser(_ context.Context, user entity.User, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emails[user.Email]; ok {
		return 0, ErrUserExists
	}

	user.UserID = r.nextUserID
	r.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.UserID] = &user
	r.passwords[user.UserID] = passwordHash
	r.emails[user.Email] = user.UserID

	return user.UserID, nil
}

func (r *RepoMem) AuthUser(_ context.Context, email string) (entity.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.emails[email]
	if !ok {
		return entity.User{}, "", ErrUserNotFound
	}

	return *r.users[userID], r.passwords[userID], nil
}

func (r *RepoMem) CreateOrder(_ context.Context, order *entity.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.OrderID]; ok {
		return ErrOrderExists
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	o := *order
	r.orders[o.OrderID] = &o
	r.orderSeq = append(r.orderSeq, o.OrderID)

	return nil
}

func (r *RepoMem) UpdateOrder(ctx context.Context, orderID string, patch entity.OrderPatch) (entity.Order, error) {
	if err := patch.Validate(); err != nil {
		return entity.Order{}, err
	}

	if patch.PaymentStatus != nil && *patch.PaymentStatus == entity.PaymentCompleted {
		if _, err := r.CompleteOrderPayment(ctx, orderID); err != nil && err != ErrAlreadySettled {
			return entity.Order{}, err
		}
		patch.PaymentStatus = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return entity.Order{}, ErrOrderNotFound
	}

	if patch.PaymentStatus != nil {
		order.PaymentStatus = *patch.PaymentStatus
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.PayoutStatus != nil {
		order.PayoutStatus = *patch.PayoutStatus
	}
	if patch.TransactionID != nil {
		order.TransactionID = *patch.TransactionID
	}
	if patch.Amount != nil {
		order.Amount = *patch.Amount
	}
	if patch.Discounted != nil {
		order.DiscountedAmount = *patch.Discounted
	}

	return *order, nil
}

func (r *RepoMem) GetOrder(_ context.Context, orderID string) (entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return entity.Order{}, ErrOrderNotFound
	}

	return *order, nil
}

func (r *RepoMem) matches(order *entity.Order, filter OrderFilter) bool {
	if filter.PaymentStatus != "" && order.PaymentStatus != filter.PaymentStatus {
		return false
	}
	if filter.Status != "" && order.Status != filter.Status {
		return false
	}
	if filter.UserID != 0 && order.UserID != filter.UserID {
		return false
	}
	if filter.CourseID != 0 && order.CourseID != filter.CourseID {
		return false
	}
	if filter.InstructorID != 0 && order.InstructorID != filter.InstructorID {
		return false
	}
	if !filter.From.IsZero() && order.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !order.CreatedAt.Before(filter.To) {
		return false
	}
	return true
}

func (r *RepoMem) GetOrders(_ context.Context, filter OrderFilter) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]entity.Order, 0)
	for _, orderID := range r.orderSeq {
		order := r.orders[orderID]
		if r.matches(order, filter) {
			orders = append(orders, *order)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (r *RepoMem) CompleteOrderPayment(_ context.Context, orderID string) (entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return entity.Order{}, ErrOrderNotFound
	}
	if order.PaymentStatus == entity.PaymentCompleted || order.PayoutStatus != entity.PayoutPending {
		return entity.Order{}, ErrAlreadySettled
	}

	instructor, ok := r.users[order.InstructorID]
	if !ok {
		return entity.Order{}, ErrUserNotFound
	}

	order.PaymentStatus = entity.PaymentCompleted
	earnings := order.InstructorEarnings()
	instructor.PendingBalance += earnings
	instructor.TotalEarnings += earnings

	return *order, nil
}

func (r *RepoMem) CreateCourse(_ context.Context, course *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course.CourseID = r.nextCourseID
	r.nextCourseID++
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	if course.Category == "" {
		course.Category = "All"
	}
	if course.Status == "" {
		course.Status = entity.CoursePending
	}

	c := *course
	r.courses[c.CourseID] = &c

	return nil
}

func (r *RepoMem) CreateReview(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review.ReviewID = r.nextReviewID
	r.nextReviewID++
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	r.reviews = append(r.reviews, *review)

	return nil
}

func (r *RepoMem) MonthlyEnrollments(_ context.Context, year int) ([12]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result [12]int
	for _, order := range r.orders {
		if order.Status == entity.OrderCompleted && order.CreatedAt.UTC().Year() == year {
			result[order.CreatedAt.UTC().Month()-1]++
		}
	}
	return result, nil
}

func (r *RepoMem) MonthlyRevenue(_ context.Context, year int) ([12]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result [12]float64
	for _, order := range r.orders {
		if order.Status == entity.OrderCompleted && order.CreatedAt.UTC().Year() == year {
			result[order.CreatedAt.UTC().Month()-1] += order.PlatformRevenue()
		}
	}
	return result, nil
}

func (r *RepoMem) TopInstructors(_ context.Context, limit int) ([]InstructorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courseOwner := make(map[int64]int64)
	stats := make(map[int64]*InstructorStats)

	ids := make([]int64, 0)
	for id, user := range r.users {
		if user.Role == entity.RoleInstructor {
			ids = append(ids, id)
			stats[id] = &InstructorStats{
				UserID:    id,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Profile:   user.Profile,
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, course := range r.courses {
		courseOwner[course.CourseID] = course.InstructorID
		if s, ok := stats[course.InstructorID]; ok {
			s.CourseCount++
		}
	}
	for _, order := range r.orders {
		if order.Status != entity.OrderCompleted {
			continue
		}
		if s, ok := stats[courseOwner[order.CourseID]]; ok {
			s.StudentCount++
		}
	}

	ratingSums := make(map[int64]float64)
	for _, review := range r.reviews {
		if s, ok := stats[courseOwner[review.CourseID]]; ok {
			s.ReviewCount++
			ratingSums[s.UserID] += review.Rating
		}
	}
	for id, s := range stats {
		if s.ReviewCount > 0 {
			s.AverageRating = ratingSums[id] / float64(s.ReviewCount)
		}
	}

	result := make([]InstructorStats, 0, len(ids))
	for _, id := range ids {
		result = append(result, *stats[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StudentCount > result[j].StudentCount
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *RepoMem) CourseDistribution(_ context.Context, limit int) ([]CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byCategory := make(map[string]int)
	for _, course := range r.courses {
		byCategory[course.Category]++
	}

	categories := make([]CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		categories = append(categories, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})

	if len(categories) > limit {
		categories = categories[:limit]
	}
	return categories, nil
}

func (r *RepoMem) RecentPurchases(_ context.Context, limit int) ([]PurchaseInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]*entity.Order, 0)
	for _, order := range r.orders {
		if order.PaymentStatus == entity.PaymentCompleted && order.Status == entity.OrderCompleted {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}

	purchases := make([]PurchaseInfo, 0, len(orders))
	for _, order := range orders {
		info := PurchaseInfo{
			OrderID:   order.OrderID,
			Amount:    order.EffectiveAmount(),
			Currency:  order.Currency,
			CreatedAt: order.CreatedAt,
		}
		if buyer, ok := r.users[order.UserID]; ok {
			info.BuyerName = buyer.FirstName + " " + buyer.LastName
			info.BuyerEmail = buyer.Email
		}
		if course, ok := r.courses[order.CourseID]; ok {
			info.CourseTitle = course.Title
		}
		if instructor, ok := r.users[order.InstructorID]; ok {
			info.InstructorName = instructor.FirstName + " " + instructor.LastName
		}
		purchases = append(purchases, info)
	}
	return purchases, nil
}

func (r *RepoMem) TotalRevenue(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, order := range r.orders {
		if order.PaymentStatus == entity.PaymentCompleted && order.Status == entity.OrderCompleted {
			total += order.PlatformRevenue()
		}
	}
	return total, nil
}

func (r *RepoMem) CourseStates(_ context.Context, limit int) ([]CourseState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make([]CourseState, 0, len(r.courses))
	for _, course := range r.courses {
		state := CourseState{
			CourseID:     course.CourseID,
			Title:        course.Title,
			InstructorID: course.InstructorID,
		}
		for _, order := range r.orders {
			if order.CourseID == course.CourseID && order.Status == entity.OrderCompleted {
				state.Enrolled++
			}
		}
		var sum float64
		var n int
		for _, review := range r.reviews {
			if review.CourseID == course.CourseID {
				sum += review.Rating
				n++
			}
		}
		if n > 0 {
			state.AverageRating = sum / float64(n)
		}
		states = append(states, state)
	}

	sort.Slice(states, func(i, j int) bool {
		if states[i].Enrolled != states[j].Enrolled {
			return states[i].Enrolled > states[j].Enrolled
		}
		return states[i].CourseID < states[j].CourseID
	})

	if len(states) > limit {
		states = states[:limit]
	}
	return states, nil
}

func (r *RepoMem) Counts(_ context.Context) (DashboardCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var counts DashboardCounts
	counts.TotalCourses = len(r.courses)
	for _, course := range r.courses {
		switch course.Status {
		case entity.CoursePublished:
			counts.ActiveCourses++
		case entity.CoursePending:
			counts.PendingCourses++
		}
	}
	for _, user := range r.users {
		switch user.Role {
		case entity.RoleStudent:
			counts.TotalStudents++
		case entity.RoleInstructor:
			counts.TotalInstructors++
		}
	}
	for _, order := range r.orders {
		if order.PaymentStatus == entity.PaymentCompleted && order.Status == entity.OrderCompleted {
			counts.TotalPurchases++
		}
	}
	return counts, nil
}

func (r *RepoMem) CreateNotice(_ context.Context, notice *entity.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notice.NoticeID = r.nextNoticeID
	r.nextNoticeID++
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now()
	}

	n := *notice
	r.notices = append(r.notices, &n)

	return nil
}

func (r *RepoMem) GetNotices(_ context.Context, limit int) ([]entity.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notices := make([]entity.Notice, 0, len(r.notices))
	for i := len(r.notices) - 1; i >= 0 && len(notices) < limit; i-- {
		notices = append(notices, *r.notices[i])
	}
	return notices, nil
}

func (r *RepoMem) MarkNoticeRead(_ context.Context, noticeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, notice := range r.notices {
		if notice.NoticeID == noticeID {
			notice.IsRead = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *RepoMem) Close() {}
