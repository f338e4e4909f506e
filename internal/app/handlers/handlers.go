package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
	"github.com/learnhub-dev/learnhub/internal/app/storage"
)

type credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Profile   string `json:"profile"`
	Role      string `json:"role"`
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
	}
	return errors.Is(err, storage.ErrUserExists) || errors.Is(err, storage.ErrOrderExists)
}

func (bh *BaseHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var creds credentials
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if creds.Email == "" || creds.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}
		switch creds.Role {
		case "":
			creds.Role = entity.RoleStudent
		case entity.RoleStudent, entity.RoleInstructor, entity.RoleAdmin:
		default:
			http.Error(w, "Unknown role", http.StatusBadRequest)
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("hash password")
			return
		}

		user := entity.User{
			Email:     creds.Email,
			FirstName: creds.FirstName,
			LastName:  creds.LastName,
			Profile:   creds.Profile,
			Role:      creds.Role,
		}
		userID, err := bh.repo.CreateUser(req.Context(), user, string(passwordHash))
		if err != nil {
			if isUniqueViolation(err) {
				http.Error(w, "Email already in use", http.StatusConflict)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("create user")
			return
		}

		if creds.Role == entity.RoleInstructor {
			bh.notifyInstructorRegistered(req, creds.FirstName+" "+creds.LastName)
		}

		writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]int64{"id": userID}})
	}
}

func (bh *BaseHandler) notifyInstructorRegistered(req *http.Request, name string) {
	notice := entity.Notice{
		Title:    fmt.Sprintf("New instructor registered: %s", name),
		Type:     "user",
		Priority: "high",
	}
	if err := bh.repo.CreateNotice(req.Context(), &notice); err != nil {
		logger.Logger.Err(err).Msg("create instructor notice")
		return
	}
	bh.notifier.Push(notice)
}

func (bh *BaseHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var creds credentials
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		user, passwordHash, err := bh.repo.AuthUser(req.Context(), creds.Email)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				http.Error(w, invalidCredentials, http.StatusUnauthorized)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("auth user")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(creds.Password)); err != nil {
			http.Error(w, invalidCredentials, http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:  cookieName,
			Value: createSession(user.UserID, user.Role, bh.secretKey),
			Path:  cookiePath,
		})

		w.WriteHeader(http.StatusOK)
	}
}

type createOrderRequest struct {
	OrderID          string   `json:"orderId"`
	Course           int64    `json:"course"`
	Instructor       int64    `json:"instructor"`
	Amount           *float64 `json:"amount"`
	DiscountedAmount float64  `json:"discountedAmount"`
	Currency         string   `json:"currency"`
	PaymentMethod    string   `json:"paymentMethod"`
	TransactionID    string   `json:"transactionId"`
	CouponCode       string   `json:"couponCode"`
	CouponDiscount   float64  `json:"couponDiscount"`
	RevenueSplit     *struct {
		Platform   *float64 `json:"platform"`
		Instructor *float64 `json:"instructor"`
	} `json:"revenueSplit"`
}

func (bh *BaseHandler) createOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body createOrderRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		// Presence checks the enum validation cannot express: a zero split
		// percentage is valid, a missing one is not.
		if body.Amount == nil {
			writeValidationError(w, &entity.ValidationError{Field: "amount", Reason: "required"})
			return
		}
		if body.RevenueSplit == nil || body.RevenueSplit.Platform == nil || body.RevenueSplit.Instructor == nil {
			writeValidationError(w, &entity.ValidationError{Field: "revenueSplit", Reason: "platform and instructor percentages are required"})
			return
		}

		order := entity.Order{
			OrderID:          body.OrderID,
			UserID:           sessionUserID(req),
			CourseID:         body.Course,
			InstructorID:     body.Instructor,
			Amount:           *body.Amount,
			DiscountedAmount: body.DiscountedAmount,
			Currency:         body.Currency,
			PaymentMethod:    body.PaymentMethod,
			TransactionID:    body.TransactionID,
			CouponCode:       body.CouponCode,
			CouponDiscount:   body.CouponDiscount,
			RevenueSplit: entity.RevenueSplit{
				Platform:   *body.RevenueSplit.Platform,
				Instructor: *body.RevenueSplit.Instructor,
			},
		}

		if err := bh.repo.CreateOrder(req.Context(), &order); err != nil {
			var vErr *entity.ValidationError
			if errors.As(err, &vErr) {
				writeValidationError(w, vErr)
				return
			}
			if isUniqueViolation(err) {
				http.Error(w, "Order already exists", http.StatusConflict)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("create order")
			return
		}

		if bh.metrics != nil {
			bh.metrics.OrdersCreated.Inc()
		}

		writeJSON(w, http.StatusCreated, response{Success: true, Data: order})
	}
}

func writeValidationError(w http.ResponseWriter, vErr *entity.ValidationError) {
	writeJSON(w, http.StatusBadRequest, response{
		Success: false,
		Message: vErr.Error(),
		Data:    vErr,
	})
}

func (bh *BaseHandler) getOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		filter, err := orderFilterFromQuery(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Non-admin callers only ever see their own purchase history.
		if sessionRole(req) != entity.RoleAdmin {
			filter.UserID = sessionUserID(req)
		}

		orders, err := bh.repo.GetOrders(req.Context(), filter)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("get orders")
			return
		}
		if orders == nil {
			orders = []entity.Order{}
		}

		writeData(w, orders)
	}
}

func orderFilterFromQuery(req *http.Request) (storage.OrderFilter, error) {
	var filter storage.OrderFilter
	q := req.URL.Query()

	filter.PaymentStatus = q.Get("paymentStatus")
	filter.Status = q.Get("status")

	for param, dst := range map[string]*int64{
		"user":       &filter.UserID,
		"course":     &filter.CourseID,
		"instructor": &filter.InstructorID,
	} {
		if v := q.Get(param); v != "" {
			if _, err := fmt.Sscanf(v, "%d", dst); err != nil {
				return filter, fmt.Errorf("invalid %s id", param)
			}
		}
	}
	for param, dst := range map[string]*time.Time{
		"from": &filter.From,
		"to":   &filter.To,
	} {
		if v := q.Get(param); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return filter, fmt.Errorf("invalid %s date, want RFC3339", param)
			}
			*dst = t
		}
	}
	if v := q.Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &filter.Limit); err != nil {
			return filter, fmt.Errorf("invalid limit")
		}
	}

	return filter, nil
}

func (bh *BaseHandler) getOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		orderID := chi.URLParam(req, "orderID")

		order, err := bh.repo.GetOrder(req.Context(), orderID)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("get order")
			return
		}

		if sessionRole(req) != entity.RoleAdmin && order.UserID != sessionUserID(req) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}

		writeData(w, order)
	}
}

func (bh *BaseHandler) patchOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		orderID := chi.URLParam(req, "orderID")

		var patch entity.OrderPatch
		if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		order, err := bh.repo.UpdateOrder(req.Context(), orderID, patch)
		if err != nil {
			var vErr *entity.ValidationError
			if errors.As(err, &vErr) {
				writeValidationError(w, vErr)
				return
			}
			if errors.Is(err, storage.ErrOrderNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			// Includes settlement failures: the completion transition failed
			// as a whole and the order was not left half-settled.
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Str("orderID", orderID).Msg("update order")
			return
		}

		writeData(w, order)
	}
}

// completeOrder is the settlement entry point for payment gateway callbacks.
// Replayed completion events return 200 without accruing twice.
func (bh *BaseHandler) completeOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		orderID := chi.URLParam(req, "orderID")

		order, err := bh.repo.CompleteOrderPayment(req.Context(), orderID)
		if err != nil {
			if errors.Is(err, storage.ErrAlreadySettled) {
				order, err = bh.repo.GetOrder(req.Context(), orderID)
				if err == nil {
					writeData(w, order)
					return
				}
			}
			if errors.Is(err, storage.ErrOrderNotFound) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Str("orderID", orderID).Msg("complete order payment")
			return
		}

		if bh.metrics != nil {
			bh.metrics.Settlements.Inc()
			bh.metrics.SettlementAmount.Observe(order.InstructorEarnings())
		}
		if order.EffectiveAmount() > 500 {
			bh.notifyPremiumOrder(req, order)
		}

		writeData(w, order)
	}
}

func (bh *BaseHandler) notifyPremiumOrder(req *http.Request, order entity.Order) {
	notice := entity.Notice{
		Title:    fmt.Sprintf("Premium order placed: $%.2f", order.EffectiveAmount()),
		Type:     "financial",
		Priority: "high",
	}
	if err := bh.repo.CreateNotice(req.Context(), &notice); err != nil {
		logger.Logger.Err(err).Msg("create premium order notice")
		return
	}
	bh.notifier.Push(notice)
}

type createCourseRequest struct {
	Title      string  `json:"title"`
	Instructor int64   `json:"instructor"`
	Category   string  `json:"category"`
	Status     string  `json:"status"`
	Price      float64 `json:"price"`
}

func (bh *BaseHandler) createCourse() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		role := sessionRole(req)
		if role != entity.RoleAdmin && role != entity.RoleInstructor {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var body createCourseRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if body.Title == "" {
			writeValidationError(w, &entity.ValidationError{Field: "title", Reason: "required"})
			return
		}
		if body.Price < 0 {
			writeValidationError(w, &entity.ValidationError{Field: "price", Reason: "must not be negative"})
			return
		}
		if body.Instructor == 0 {
			body.Instructor = sessionUserID(req)
		}
		if body.Category == "" {
			body.Category = "All"
		}
		if body.Status == "" {
			body.Status = entity.CoursePending
		}

		course := entity.Course{
			Title:        body.Title,
			InstructorID: body.Instructor,
			Category:     body.Category,
			Status:       body.Status,
			Price:        body.Price,
		}
		if err := bh.repo.CreateCourse(req.Context(), &course); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("create course")
			return
		}

		writeJSON(w, http.StatusCreated, response{Success: true, Data: course})
	}
}

type createReviewRequest struct {
	Course int64   `json:"course"`
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

func (bh *BaseHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body createReviewRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if body.Course == 0 {
			writeValidationError(w, &entity.ValidationError{Field: "course", Reason: "required"})
			return
		}
		if body.Rating < 1 || body.Rating > 5 {
			writeValidationError(w, &entity.ValidationError{Field: "rating", Reason: "must be between 1 and 5"})
			return
		}

		review := entity.Review{
			CourseID: body.Course,
			UserID:   sessionUserID(req),
			Rating:   body.Rating,
			Review:   body.Review,
		}
		if err := bh.repo.CreateReview(req.Context(), &review); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			logger.Logger.Err(err).Msg("create review")
			return
		}

		writeJSON(w, http.StatusCreated, response{Success: true, Data: review})
	}
}
