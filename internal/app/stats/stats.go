// Package stats shapes aggregation results into the admin dashboard payloads.
// It applies no business logic beyond formatting and zero-defaulting.
package stats

import (
	"context"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
	"github.com/learnhub-dev/learnhub/internal/app/storage"
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var categoryPalette = []string{"#5F2DED", "#4BC0C0", "#FFCE56", "#FF6384", "#36A2EB"}

const (
	topInstructorsLimit = 5
	recentLimit         = 5
	categoryLimit       = 5
	courseStatesLimit   = 20
)

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type StatCard struct {
	Title   string  `json:"title"`
	Value   float64 `json:"value"`
	Icon    string  `json:"icon"`
	IsMoney bool    `json:"isMoney,omitempty"`
}

type DashboardStats struct {
	TotalCourses     int                    `json:"totalCourses"`
	ActiveCourses    int                    `json:"activeCourses"`
	PendingCourses   int                    `json:"pendingCourses"`
	TotalStudents    int                    `json:"totalStudents"`
	TotalInstructors int                    `json:"totalInstructors"`
	TotalPurchases   int                    `json:"totalPurchases"`
	TotalRevenue     float64                `json:"totalRevenue"`
	RecentPurchases  []storage.PurchaseInfo `json:"recentPurchases"`
	Stats            []StatCard             `json:"stats"`
}

// Service derives the admin dashboard views from the repository's
// aggregation queries.
type Service struct {
	repo storage.Repository
}

func NewService(repo storage.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	recent, err := s.repo.RecentPurchases(ctx, recentLimit)
	if err != nil {
		return DashboardStats{}, err
	}
	if recent == nil {
		recent = []storage.PurchaseInfo{}
	}

	return DashboardStats{
		TotalCourses:     counts.TotalCourses,
		ActiveCourses:    counts.ActiveCourses,
		PendingCourses:   counts.PendingCourses,
		TotalStudents:    counts.TotalStudents,
		TotalInstructors: counts.TotalInstructors,
		TotalPurchases:   counts.TotalPurchases,
		TotalRevenue:     revenue,
		RecentPurchases:  recent,
		Stats: []StatCard{
			{Title: "Total Courses", Value: float64(counts.TotalCourses), Icon: "book"},
			{Title: "Active Courses", Value: float64(counts.ActiveCourses), Icon: "check-circle"},
			{Title: "Pending Courses", Value: float64(counts.PendingCourses), Icon: "clock"},
			{Title: "Total Students", Value: float64(counts.TotalStudents), Icon: "users"},
			{Title: "Total Instructors", Value: float64(counts.TotalInstructors), Icon: "user-tie"},
			{Title: "Total Purchases", Value: float64(counts.TotalPurchases), Icon: "shopping-cart"},
			{Title: "Platform Revenue", Value: revenue, Icon: "money-bill-wave", IsMoney: true},
		},
	}, nil
}

func (s *Service) EnrollmentTrends(ctx context.Context, year int) (ChartData, error) {
	buckets, err := s.repo.MonthlyEnrollments(ctx, year)
	if err != nil {
		return ChartData{}, err
	}

	data := make([]float64, 12)
	for i, count := range buckets {
		data[i] = float64(count)
	}

	return ChartData{
		Labels: monthLabels,
		Datasets: []Dataset{{
			Label:           "Course Enrollments",
			Data:            data,
			BorderColor:     "#5F2DED",
			BackgroundColor: []string{"rgba(95, 45, 237, 0.1)"},
		}},
	}, nil
}

func (s *Service) RevenueTrends(ctx context.Context, year int) (ChartData, error) {
	buckets, err := s.repo.MonthlyRevenue(ctx, year)
	if err != nil {
		return ChartData{}, err
	}

	return ChartData{
		Labels: monthLabels,
		Datasets: []Dataset{{
			Label:           "Platform Revenue",
			Data:            buckets[:],
			BorderColor:     "#4BC0C0",
			BackgroundColor: []string{"rgba(75, 192, 192, 0.1)"},
			Fill:            true,
		}},
	}, nil
}

func (s *Service) CourseDistribution(ctx context.Context) (ChartData, error) {
	categories, err := s.repo.CourseDistribution(ctx, categoryLimit)
	if err != nil {
		return ChartData{}, err
	}

	labels := make([]string, 0, len(categories))
	data := make([]float64, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, c.Category)
		data = append(data, float64(c.Count))
	}

	return ChartData{
		Labels: labels,
		Datasets: []Dataset{{
			Data:            data,
			BackgroundColor: categoryPalette,
		}},
	}, nil
}

// TopInstructors returns the enrollment ranking with ratings rounded to one
// decimal for display.
func (s *Service) TopInstructors(ctx context.Context) ([]storage.InstructorStats, error) {
	instructors, err := s.repo.TopInstructors(ctx, topInstructorsLimit)
	if err != nil {
		return nil, err
	}

	for i := range instructors {
		instructors[i].AverageRating = entity.Round1(instructors[i].AverageRating)
	}
	if instructors == nil {
		instructors = []storage.InstructorStats{}
	}
	return instructors, nil
}

func (s *Service) CourseStates(ctx context.Context) ([]storage.CourseState, error) {
	states, err := s.repo.CourseStates(ctx, courseStatesLimit)
	if err != nil {
		return nil, err
	}

	for i := range states {
		states[i].AverageRating = entity.Round1(states[i].AverageRating)
	}
	if states == nil {
		states = []storage.CourseState{}
	}
	return states, nil
}
