// internal/handler/expense.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage"

	val "expense-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// errorBody is the error envelope every endpoint returns on failure.
func errorBody(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail, "status_code": status})
}

func abortErrorBody(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail, "status_code": status})
}

// currentUserID reads the authenticated user id the middleware stored.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		abortErrorBody(c, http.StatusInternalServerError, "user_id missing")
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		abortErrorBody(c, http.StatusInternalServerError, "invalid user_id")
		return uuid.Nil, false
	}
	return userID, true
}

// readUpload pulls the optional invoice_image file out of the multipart form.
func readUpload(c *gin.Context) (*service.Upload, error) {
	fileHeader, err := c.FormFile("invoice_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &service.Upload{Filename: fileHeader.Filename, Data: data}, nil
}

// Create handles POST /expenses: a multipart form with an "expense" JSON
// field and an optional "invoice_image" file.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := json.Unmarshal([]byte(c.PostForm("expense")), &req); err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid JSON in expense data")
		return
	}
	if err := validateStruct(req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	upload, err := readUpload(c)
	if err != nil {
		slog.Error("Reading invoice image failed", "error", err)
		errorBody(c, http.StatusBadRequest, "Could not read invoice image")
		return
	}

	created, err := h.svc.Create(c.Request.Context(), userID, service.CreateExpenseInput{
		CategoryID:   req.CategoryID,
		Subject:      req.Subject,
		ExpenseDate:  req.ExpenseDate,
		Amount:       req.Amount,
		Reimbursable: req.Reimbursable,
		Description:  req.Description,
		Employee:     req.Employee,
	}, upload)
	if err != nil {
		slog.Error("Create expense failed", "error", err, "subject", req.Subject, "user_id", userID)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while creating the expense '%s'. Please try again later.", req.Subject))
		return
	}

	slog.Info("Expense created", "expenses_id", created.ExpenseID, "subject", created.Subject)
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	expense, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No expense found with ID '%s'. Please check the ID and try again.", id))
			return
		}
		slog.Error("Get expense failed", "error", err, "expenses_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while retrieving the expense with ID '%s'. Please try again later.", id))
		return
	}
	c.JSON(http.StatusOK, expense)
}

// List handles GET /expenses with page/size/search/sort_order query params.
func (h *ExpenseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	sortOrder := c.DefaultQuery("sort_order", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		errorBody(c, http.StatusBadRequest, "sort_order must be 'asc' or 'desc'")
		return
	}

	result, err := h.svc.List(c.Request.Context(), storage.ListParams{
		Page:   page,
		Size:   size,
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   storage.SortOrder(sortOrder),
	})
	if err != nil {
		slog.Error("List expenses failed", "error", err)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving the list of expenses. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAll handles GET /expenses/all, the unpaginated export.
func (h *ExpenseHandler) ListAll(c *gin.Context) {
	expenses, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound, "No expenses found. Please enter expense and try again.")
			return
		}
		slog.Error("List all expenses failed", "error", err)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving the list of expenses. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Update handles PUT /expenses/:id: a multipart form with an
// "expense_update" JSON field of optional fields plus an optional new
// invoice_image.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.Unmarshal([]byte(c.PostForm("expense_update")), &req); err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid JSON in expense data")
		return
	}
	if err := validateStruct(req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	upload, err := readUpload(c)
	if err != nil {
		slog.Error("Reading invoice image failed", "error", err)
		errorBody(c, http.StatusBadRequest, "Could not read invoice image")
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, service.UpdateExpenseInput{
		CategoryID:   req.CategoryID,
		Subject:      req.Subject,
		ExpenseDate:  req.ExpenseDate,
		Amount:       req.Amount,
		Reimbursable: req.Reimbursable,
		Description:  req.Description,
		Employee:     req.Employee,
	}, upload)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No expense found with ID '%s' for update. Please check the ID and try again.", id))
			return
		}
		slog.Error("Update expense failed", "error", err, "expenses_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while updating the expense with ID '%s'. Please try again later.", id))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No expense found with ID '%s' for deletion. Please check the ID and try again.", id))
			return
		}
		slog.Error("Delete expense failed", "error", err, "expenses_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while deleting the expense with ID '%s'. Please try again later.", id))
		return
	}

	slog.Info("Expense deleted", "expenses_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully", "result": true})
}

// Recent handles GET /expenses/recent.
func (h *ExpenseHandler) Recent(c *gin.Context) {
	recent, err := h.svc.Recent(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			errorBody(c, http.StatusNotFound, "No recent expenses found. Please check your data or try again later.")
			return
		}
		slog.Error("Recent expenses failed", "error", err)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving the recent expenses. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, recent)
}

// AvailableYears handles GET /expenses/available-years.
func (h *ExpenseHandler) AvailableYears(c *gin.Context) {
	years, err := h.svc.AvailableYears(c.Request.Context())
	if err != nil {
		slog.Error("Available years failed", "error", err)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving available years. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, years)
}

// parseYearParam reads an optional integer "year" query parameter.
func parseYearParam(c *gin.Context) (*int, bool) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		errorBody(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid year format '%s'. Please provide a valid year and try again.", raw))
		return nil, false
	}
	return &year, true
}

// GeneralSummary handles GET /expenses/general-summary?year=. Without a year
// the most recent year with data is summarized.
func (h *ExpenseHandler) GeneralSummary(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	result, resolved, err := h.svc.GeneralSummary(c.Request.Context(), year)
	if err != nil {
		h.summaryError(c, err, year, resolved)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ByCategory handles GET /expenses/by-category?year=.
func (h *ExpenseHandler) ByCategory(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	result, resolved, err := h.svc.ByCategory(c.Request.Context(), year)
	if err != nil {
		h.summaryError(c, err, year, resolved)
		return
	}
	if result == nil {
		result = []domain.CategorySpending{}
	}
	c.JSON(http.StatusOK, result)
}

// LastFiveMonths handles GET /expenses/last_5_months?year= (year required).
func (h *ExpenseHandler) LastFiveMonths(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		errorBody(c, http.StatusBadRequest, "year query param required")
		return
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		errorBody(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid year format '%s'. Please provide a valid year and try again.", raw))
		return
	}

	result, err := h.svc.LastFiveMonths(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			errorBody(c, http.StatusNotFound, fmt.Sprintf("No data found for year %d", year))
			return
		}
		slog.Error("Last 5 months summary failed", "error", err, "year", year)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while retrieving the last 5 months summary for year '%d'. Please try again later.", year))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExpenseHandler) summaryError(c *gin.Context, err error, requested *int, resolved int) {
	switch {
	case errors.Is(err, service.ErrNoData):
		errorBody(c, http.StatusNotFound, "No expense data available.")
	case errors.Is(err, service.ErrYearNotAvailable):
		errorBody(c, http.StatusBadRequest, fmt.Sprintf("No data available for year %d", *requested))
	default:
		slog.Error("Summary failed", "error", err, "year", resolved)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving the general summary. Please try again later.")
	}
}

// === DTO ===

type CreateExpenseRequest struct {
	CategoryID   uuid.UUID   `json:"category_id" validate:"required"`
	Subject      string      `json:"subject" validate:"required,min=2,max=100"`
	ExpenseDate  domain.Date `json:"expense_date" validate:"required"`
	Amount       float64     `json:"amount" validate:"required,gt=0"`
	Reimbursable bool        `json:"reimbursable"`
	Description  *string     `json:"description" validate:"omitempty,twowords,max=500"`
	Employee     *string     `json:"employee" validate:"omitempty,humanname,max=100"`
}

type UpdateExpenseRequest struct {
	CategoryID   *uuid.UUID   `json:"category_id"`
	Subject      *string      `json:"subject" validate:"omitempty,min=2,max=100"`
	ExpenseDate  *domain.Date `json:"expense_date"`
	Amount       *float64     `json:"amount" validate:"omitempty,gt=0"`
	Reimbursable *bool        `json:"reimbursable"`
	Description  *string      `json:"description" validate:"omitempty,twowords,max=500"`
	Employee     *string      `json:"employee" validate:"omitempty,humanname,max=100"`
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var errs []string
		for _, e := range err.(validator.ValidationErrors) {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s is too short", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "twowords":
		return fmt.Sprintf("%s must contain at least two words", e.Field())
	case "humanname":
		return fmt.Sprintf("%s must contain at least two characters and cannot start with a number", e.Field())
	case "password":
		return fmt.Sprintf("%s must contain an uppercase letter, a lowercase letter, a digit and a special character", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
