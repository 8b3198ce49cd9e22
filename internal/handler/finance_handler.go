package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

// FinanceHandler exposes fee structure, invoicing, payment and expense
// endpoints.
type FinanceHandler struct {
	service *service.FinanceService
}

// NewFinanceHandler constructs a finance handler.
func NewFinanceHandler(svc *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: svc}
}

// FeeStructures godoc
// @Summary List a school's fee structures
// @Tags Finance
// @Produce json
// @Param id path string true "School ID"
// @Param program_level query string false "Filter by program level"
// @Param optional query bool false "Only optional fees"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/fees [get]
func (h *FinanceHandler) FeeStructures(c *gin.Context) {
	fees, err := h.service.FeeStructures(c.Request.Context(), c.Param("id"),
		c.Query("program_level"), c.Query("optional") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, nil)
}

// CreateFeeStructure godoc
// @Summary Create a fee structure line
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body service.CreateFeeStructureRequest true "Fee"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/fees [post]
func (h *FinanceHandler) CreateFeeStructure(c *gin.Context) {
	var req service.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	fee, err := h.service.CreateFeeStructure(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// DeleteFeeStructure godoc
// @Summary Delete a fee structure line
// @Tags Finance
// @Param feeId path string true "Fee ID"
// @Success 204
// @Security BearerAuth
// @Router /fees/{feeId} [delete]
func (h *FinanceHandler) DeleteFeeStructure(c *gin.Context) {
	if err := h.service.DeleteFeeStructure(c.Request.Context(), c.Param("feeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Invoices godoc
// @Summary List invoices
// @Tags Finance
// @Produce json
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param school_id query string false "Filter by school"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status" Enums(Pending, Partial, Paid, Overdue)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /invoices [get]
func (h *FinanceHandler) Invoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.InvoiceFilter{
		SchoolID:  c.Query("school_id"),
		StudentID: c.Query("student_id"),
		Status:    models.InvoiceStatus(c.Query("status")),
		Page:      page,
		PageSize:  pageSize,
	}

	invoices, pagination, err := h.service.Invoices(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, pagination)
}

// Invoice godoc
// @Summary Get an invoice with its payments
// @Tags Finance
// @Produce json
// @Param invoiceId path string true "Invoice number"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /invoices/{invoiceId} [get]
func (h *FinanceHandler) Invoice(c *gin.Context) {
	invoice, payments, err := h.service.Invoice(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"invoice": invoice, "payments": payments}, nil)
}

// CreateInvoice godoc
// @Summary Bill a student
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body service.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	invoice, err := h.service.CreateInvoice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// RecordPayment godoc
// @Summary Record a payment against an invoice
// @Tags Finance
// @Accept json
// @Produce json
// @Param invoiceId path string true "Invoice number"
// @Param payload body service.RecordPaymentRequest true "Payment"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /invoices/{invoiceId}/payments [post]
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.service.RecordPayment(c.Request.Context(), c.Param("invoiceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

type createExpenseCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ExpenseCategories godoc
// @Summary List a school's expense categories
// @Tags Finance
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/expense-categories [get]
func (h *FinanceHandler) ExpenseCategories(c *gin.Context) {
	categories, err := h.service.ExpenseCategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreateExpenseCategory godoc
// @Summary Create an expense category
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body createExpenseCategoryRequest true "Category"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/expense-categories [post]
func (h *FinanceHandler) CreateExpenseCategory(c *gin.Context) {
	var req createExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	category, err := h.service.CreateExpenseCategory(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Expenses godoc
// @Summary List a school's expenses
// @Tags Finance
// @Produce json
// @Param id path string true "School ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/expenses [get]
func (h *FinanceHandler) Expenses(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, appErrors.Validationf("from", "expected YYYY-MM-DD"))
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, appErrors.Validationf("to", "expected YYYY-MM-DD"))
			return
		}
		to = &t
	}

	expenses, err := h.service.Expenses(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expenses, nil)
}

// RecordExpense godoc
// @Summary Record a school expense
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body service.RecordExpenseRequest true "Expense"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/expenses [post]
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	var req service.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	expense, err := h.service.RecordExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, expense)
}
