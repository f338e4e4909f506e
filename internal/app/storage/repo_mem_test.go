package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
)

func newUser(t *testing.T, repo *RepoMem, email, role string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), entity.User{
		Email:     email,
		FirstName: "Test",
		LastName:  role,
		Role:      role,
	}, "hash")
	require.NoError(t, err)
	return id
}

func newCourse(t *testing.T, repo *RepoMem, instructorID int64, category string) int64 {
	t.Helper()
	course := entity.Course{Title: "course", InstructorID: instructorID, Category: category, Status: entity.CoursePublished}
	require.NoError(t, repo.CreateCourse(context.Background(), &course))
	return course.CourseID
}

type orderSpec struct {
	amount     float64
	discounted float64
	platform   float64
	instructor float64
	createdAt  time.Time
	status     string
}

func newOrder(t *testing.T, repo *RepoMem, userID, courseID, instructorID int64, spec orderSpec) string {
	t.Helper()
	order := entity.Order{
		UserID:           userID,
		CourseID:         courseID,
		InstructorID:     instructorID,
		Amount:           spec.amount,
		DiscountedAmount: spec.discounted,
		PaymentMethod:    "stripe",
		Status:           spec.status,
		RevenueSplit:     entity.RevenueSplit{Platform: spec.platform, Instructor: spec.instructor},
		CreatedAt:        spec.createdAt,
	}
	require.NoError(t, repo.CreateOrder(context.Background(), &order))
	return order.OrderID
}

func instructorBalances(t *testing.T, repo *RepoMem, email string) (pending, total float64) {
	t.Helper()
	user, _, err := repo.AuthUser(context.Background(), email)
	require.NoError(t, err)
	return user.PendingBalance, user.TotalEarnings
}

func TestSettlementAccruesInstructorShare(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderPending,
	})

	order, err := repo.CompleteOrderPayment(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, entity.PayoutPending, order.PayoutStatus)

	pending, total := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 80.0, pending)
	assert.Equal(t, 80.0, total)
}

func TestSettlementUsesDiscountedAmount(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, discounted: 60, platform: 30, instructor: 70, status: entity.OrderCompleted,
	})

	_, err := repo.CompleteOrderPayment(ctx, orderID)
	require.NoError(t, err)

	pending, total := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 42.0, pending)
	assert.Equal(t, 42.0, total)

	// The revenue aggregation must apply the same effective-amount rule.
	revenue, err := repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 18.0, revenue)
}

func TestSettlementIdempotentOnReplay(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderPending,
	})

	_, err := repo.CompleteOrderPayment(ctx, orderID)
	require.NoError(t, err)
	_, err = repo.CompleteOrderPayment(ctx, orderID)
	assert.ErrorIs(t, err, ErrAlreadySettled)

	pending, total := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 80.0, pending)
	assert.Equal(t, 80.0, total)
}

func TestSettlementIdempotentUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderPending,
	})

	var wg sync.WaitGroup
	settled := make(chan struct{}, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CompleteOrderPayment(ctx, orderID); err == nil {
				settled <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(settled)

	wins := 0
	for range settled {
		wins++
	}
	assert.Equal(t, 1, wins)

	pending, total := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 80.0, pending)
	assert.Equal(t, 80.0, total)
}

func TestSettlementZeroInstructorSplit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 100, instructor: 0, status: entity.OrderPending,
	})

	// Runs the accrual with a zero increment and still claims the order.
	_, err := repo.CompleteOrderPayment(ctx, orderID)
	require.NoError(t, err)
	_, err = repo.CompleteOrderPayment(ctx, orderID)
	assert.ErrorIs(t, err, ErrAlreadySettled)

	pending, total := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 0.0, pending)
	assert.Equal(t, 0.0, total)
}

func TestSettlementMissingOrder(t *testing.T) {
	repo := NewRepoMem()
	_, err := repo.CompleteOrderPayment(context.Background(), "ORD-0-000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSettlementMissingInstructorFailsTransition(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)

	orderID := newOrder(t, repo, student, 7, 999, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderPending,
	})

	_, err := repo.CompleteOrderPayment(ctx, orderID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The failed accrual must not leave the payment marked completed.
	order, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, order.PaymentStatus)
}

func TestUpdateOrderRoutesCompletionThroughSettlement(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderPending,
	})

	completed := entity.PaymentCompleted
	fulfilled := entity.OrderCompleted
	order, err := repo.UpdateOrder(ctx, orderID, entity.OrderPatch{
		PaymentStatus: &completed,
		Status:        &fulfilled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, entity.OrderCompleted, order.Status)

	pending, _ := instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 80.0, pending)

	// A second identical patch must not accrue again.
	_, err = repo.UpdateOrder(ctx, orderID, entity.OrderPatch{PaymentStatus: &completed})
	require.NoError(t, err)
	pending, _ = instructorBalances(t, repo, "i@x.io")
	assert.Equal(t, 80.0, pending)
}

func TestMonthlyEnrollmentsBucketSumMatchesYearCount(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	months := []time.Month{time.January, time.January, time.March, time.July, time.December}
	for _, m := range months {
		newOrder(t, repo, student, courseID, instructor, orderSpec{
			amount: 10, platform: 20, instructor: 80,
			status:    entity.OrderCompleted,
			createdAt: time.Date(2025, m, 15, 12, 0, 0, 0, time.UTC),
		})
	}
	// Out-of-year and unfulfilled orders must not count.
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 10, platform: 20, instructor: 80,
		status:    entity.OrderCompleted,
		createdAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 10, platform: 20, instructor: 80,
		status:    entity.OrderCancelled,
		createdAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})

	buckets, err := repo.MonthlyEnrollments(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2, buckets[0])
	assert.Equal(t, 1, buckets[2])
	assert.Equal(t, 1, buckets[6])
	assert.Equal(t, 1, buckets[11])

	sum := 0
	for _, c := range buckets {
		sum += c
	}
	assert.Equal(t, len(months), sum)
}

func TestMonthlyRevenueIsPlatformShareOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80,
		status:    entity.OrderCompleted,
		createdAt: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	})
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, discounted: 60, platform: 30, instructor: 70,
		status:    entity.OrderCompleted,
		createdAt: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})

	buckets, err := repo.MonthlyRevenue(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, 38.0, buckets[1]) // 100*0.20 + 60*0.30
	for i, v := range buckets {
		if i != 1 {
			assert.Zero(t, v)
		}
	}
}

func TestMonthlyRevenueEmptyYearIsAllZeros(t *testing.T) {
	repo := NewRepoMem()
	buckets, err := repo.MonthlyRevenue(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, [12]float64{}, buckets)
}

func TestTopInstructorsTruncatesToLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)

	// 8 instructors with distinct enrollment counts 1..8.
	for i := 1; i <= 8; i++ {
		instructor := newUser(t, repo, fmt.Sprintf("i%d@x.io", i), entity.RoleInstructor)
		courseID := newCourse(t, repo, instructor, "Go")
		for j := 0; j < i; j++ {
			newOrder(t, repo, student, courseID, instructor, orderSpec{
				amount: 10, platform: 20, instructor: 80, status: entity.OrderCompleted,
			})
		}
	}

	top, err := repo.TopInstructors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)

	for i, want := range []int{8, 7, 6, 5, 4} {
		assert.Equal(t, want, top[i].StudentCount)
	}
}

func TestTopInstructorsZeroCoursesZeroStats(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	newUser(t, repo, "bare@x.io", entity.RoleInstructor)

	top, err := repo.TopInstructors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)

	assert.Zero(t, top[0].StudentCount)
	assert.Zero(t, top[0].CourseCount)
	assert.Zero(t, top[0].ReviewCount)
	assert.Zero(t, top[0].AverageRating)
}

func TestTopInstructorsRatings(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	for _, rating := range []float64{5, 4, 4} {
		require.NoError(t, repo.CreateReview(ctx, &entity.Review{
			CourseID: courseID, UserID: student, Rating: rating,
		}))
	}

	top, err := repo.TopInstructors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 3, top[0].ReviewCount)
	assert.InDelta(t, 13.0/3.0, top[0].AverageRating, 1e-9)
	assert.Equal(t, 1, top[0].CourseCount)
}

func TestCourseDistributionTopCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)

	counts := map[string]int{"Go": 4, "Rust": 3, "Python": 2, "JS": 2, "C": 1, "Zig": 1}
	for category, n := range counts {
		for i := 0; i < n; i++ {
			newCourse(t, repo, instructor, category)
		}
	}

	distribution, err := repo.CourseDistribution(ctx, 5)
	require.NoError(t, err)
	require.Len(t, distribution, 5)
	assert.Equal(t, "Go", distribution[0].Category)
	assert.Equal(t, 4, distribution[0].Count)
	assert.Equal(t, "Rust", distribution[1].Category)
}

func TestRecentPurchasesFeed(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		orderID := newOrder(t, repo, student, courseID, instructor, orderSpec{
			amount: float64(10 + i), platform: 20, instructor: 80,
			status:    entity.OrderCompleted,
			createdAt: base.Add(time.Duration(i) * time.Hour),
		})
		_, err := repo.CompleteOrderPayment(ctx, orderID)
		require.NoError(t, err)
	}
	// Paid but not fulfilled: excluded from the feed.
	pendingID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 99, platform: 20, instructor: 80,
		status:    entity.OrderPending,
		createdAt: base.Add(100 * time.Hour),
	})
	_, err := repo.CompleteOrderPayment(ctx, pendingID)
	require.NoError(t, err)

	recent, err := repo.RecentPurchases(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)

	assert.Equal(t, 16.0, recent[0].Amount)
	assert.True(t, recent[0].CreatedAt.After(recent[4].CreatedAt))
	assert.Equal(t, "Test student", recent[0].BuyerName)
	assert.Equal(t, "course", recent[0].CourseTitle)
	assert.Equal(t, "Test instructor", recent[0].InstructorName)
}

func TestTotalRevenueRequiresBothAxesCompleted(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	// Fulfilled but unpaid: counts for trends, not for total revenue.
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderCompleted,
	})

	total, err := repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	paidID := newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 200, platform: 25, instructor: 75, status: entity.OrderCompleted,
	})
	_, err = repo.CompleteOrderPayment(ctx, paidID)
	require.NoError(t, err)

	total, err = repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, total)
}

func TestTotalRevenueEmptyStoreIsZero(t *testing.T) {
	repo := NewRepoMem()
	total, err := repo.TotalRevenue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	newUser(t, repo, "a@x.io", entity.RoleAdmin)

	published := newCourse(t, repo, instructor, "Go")
	pending := entity.Course{Title: "draft", InstructorID: instructor}
	require.NoError(t, repo.CreateCourse(ctx, &pending))

	orderID := newOrder(t, repo, student, published, instructor, orderSpec{
		amount: 100, platform: 20, instructor: 80, status: entity.OrderCompleted,
	})
	_, err := repo.CompleteOrderPayment(ctx, orderID)
	require.NoError(t, err)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardCounts{
		TotalCourses:     2,
		ActiveCourses:    1,
		PendingCourses:   1,
		TotalStudents:    1,
		TotalInstructors: 1,
		TotalPurchases:   1,
	}, counts)
}

func TestGetOrdersFilterAndSort(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	other := newUser(t, repo, "o@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)
	courseID := newCourse(t, repo, instructor, "Go")

	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 10, platform: 20, instructor: 80, status: entity.OrderCompleted, createdAt: base,
	})
	newOrder(t, repo, student, courseID, instructor, orderSpec{
		amount: 20, platform: 20, instructor: 80, status: entity.OrderPending, createdAt: base.Add(time.Hour),
	})
	newOrder(t, repo, other, courseID, instructor, orderSpec{
		amount: 30, platform: 20, instructor: 80, status: entity.OrderCompleted, createdAt: base.Add(2 * time.Hour),
	})

	mine, err := repo.GetOrders(ctx, OrderFilter{UserID: student})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt))

	fulfilled, err := repo.GetOrders(ctx, OrderFilter{Status: entity.OrderCompleted})
	require.NoError(t, err)
	assert.Len(t, fulfilled, 2)

	ranged, err := repo.GetOrders(ctx, OrderFilter{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, 20.0, ranged[0].Amount)
}

func TestCourseStates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	student := newUser(t, repo, "s@x.io", entity.RoleStudent)
	instructor := newUser(t, repo, "i@x.io", entity.RoleInstructor)

	popular := newCourse(t, repo, instructor, "Go")
	quiet := newCourse(t, repo, instructor, "Rust")

	for i := 0; i < 3; i++ {
		newOrder(t, repo, student, popular, instructor, orderSpec{
			amount: 10, platform: 20, instructor: 80, status: entity.OrderCompleted,
		})
	}
	require.NoError(t, repo.CreateReview(ctx, &entity.Review{CourseID: popular, UserID: student, Rating: 4}))

	states, err := repo.CourseStates(ctx, 20)
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, popular, states[0].CourseID)
	assert.Equal(t, 3, states[0].Enrolled)
	assert.Equal(t, 4.0, states[0].AverageRating)
	assert.Equal(t, quiet, states[1].CourseID)
	assert.Zero(t, states[1].Enrolled)
	assert.Zero(t, states[1].AverageRating)
}

func TestNotices(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()

	notice := entity.Notice{Title: "Premium order placed: $600.00", Type: "financial", Priority: "high"}
	require.NoError(t, repo.CreateNotice(ctx, &notice))
	require.NotZero(t, notice.NoticeID)

	notices, err := repo.GetNotices(ctx, 20)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.False(t, notices[0].IsRead)

	require.NoError(t, repo.MarkNoticeRead(ctx, notice.NoticeID))
	notices, err = repo.GetNotices(ctx, 20)
	require.NoError(t, err)
	assert.True(t, notices[0].IsRead)

	assert.Error(t, repo.MarkNoticeRead(ctx, 404))
}
