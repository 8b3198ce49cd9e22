package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type financeRepository interface {
	ListFeeStructures(ctx context.Context, schoolID, programLevel string, optionalOnly bool) ([]models.FeeStructure, error)
	FindFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error)
	ExistsFeeStructure(ctx context.Context, schoolID, programLevel string, feeType models.FeeType, excludeID string) (bool, error)
	CreateFeeStructure(ctx context.Context, fee *models.FeeStructure) error
	UpdateFeeStructure(ctx context.Context, fee *models.FeeStructure) error
	DeleteFeeStructure(ctx context.Context, id string) error
	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error)
	FindInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error
	SumPayments(ctx context.Context, invoiceID string) (float64, error)
	ListPayments(ctx context.Context, invoiceID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListExpenseCategories(ctx context.Context, schoolID string) ([]models.ExpenseCategory, error)
	CreateExpenseCategory(ctx context.Context, category *models.ExpenseCategory) error
	ListExpenses(ctx context.Context, schoolID string, from, to *time.Time) ([]models.SchoolExpense, error)
	CreateExpense(ctx context.Context, expense *models.SchoolExpense) error
}

type financeStudentLoader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// CreateFeeStructureRequest defines one fee line.
type CreateFeeStructureRequest struct {
	ProgramLevel string         `json:"program_level" validate:"required"`
	FeeType      models.FeeType `json:"fee_type" validate:"required"`
	IsOptional   bool           `json:"is_optional"`
	Amount       float64        `json:"amount" validate:"required,gt=0"`
	Description  *string        `json:"description"`
}

// CreateInvoiceRequest bills a student. Mandatory fee lines for the
// program level are always included; optional lines only when selected.
type CreateInvoiceRequest struct {
	StudentID      string    `json:"student_id" validate:"required"`
	ProgramLevel   string    `json:"program_level" validate:"required"`
	DueDate        time.Time `json:"due_date" validate:"required"`
	OptionalFeeIDs []string  `json:"optional_fee_ids"`
}

// RecordPaymentRequest records money received against an invoice.
type RecordPaymentRequest struct {
	Amount      float64              `json:"amount" validate:"required,gt=0"`
	PaymentDate time.Time            `json:"payment_date" validate:"required"`
	Method      models.PaymentMethod `json:"payment_method" validate:"required,oneof=Cash Check Online 'Bank Transfer' POS"`
}

// RecordExpenseRequest records a school spend.
type RecordExpenseRequest struct {
	CategoryID   string    `json:"category_id" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	DateIncurred time.Time `json:"date_incurred" validate:"required"`
}

// FinanceService manages fee structures, invoicing, payments and
// expenses for schools.
type FinanceService struct {
	repo        financeRepository
	students    financeStudentLoader
	identifiers *IdentifierService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewFinanceService constructs a FinanceService.
func NewFinanceService(repo financeRepository, students financeStudentLoader, identifiers *IdentifierService, validate *validator.Validate, logger *zap.Logger) *FinanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{repo: repo, students: students, identifiers: identifiers, validator: validate, logger: logger}
}

// FeeStructures lists a school's fee lines.
func (s *FinanceService) FeeStructures(ctx context.Context, schoolID, programLevel string, optionalOnly bool) ([]models.FeeStructure, error) {
	fees, err := s.repo.ListFeeStructures(ctx, schoolID, programLevel, optionalOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fee structures")
	}
	return fees, nil
}

// CreateFeeStructure adds a fee line, unique per school, program level
// and fee type.
func (s *FinanceService) CreateFeeStructure(ctx context.Context, schoolID string, req CreateFeeStructureRequest) (*models.FeeStructure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	exists, err := s.repo.ExistsFeeStructure(ctx, schoolID, req.ProgramLevel, req.FeeType, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check fee structure")
	}
	if exists {
		return nil, appErrors.Conflictf("fee_type", "fee %s already defined for %s", req.FeeType, req.ProgramLevel)
	}

	fee := &models.FeeStructure{
		SchoolID:     schoolID,
		ProgramLevel: req.ProgramLevel,
		FeeType:      req.FeeType,
		IsOptional:   req.IsOptional,
		Amount:       req.Amount,
		Description:  req.Description,
	}
	if err := s.repo.CreateFeeStructure(ctx, fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee structure")
	}
	return fee, nil
}

// DeleteFeeStructure removes a fee line.
func (s *FinanceService) DeleteFeeStructure(ctx context.Context, id string) error {
	if _, err := s.repo.FindFeeStructure(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "fee structure not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structure")
	}
	if err := s.repo.DeleteFeeStructure(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete fee structure")
	}
	return nil
}

// Invoices lists invoices with filtering.
func (s *FinanceService) Invoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, *models.Pagination, error) {
	invoices, total, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	return invoices, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Invoice returns an invoice with its payments.
func (s *FinanceService) Invoice(ctx context.Context, invoiceID string) (*models.Invoice, []models.Payment, error) {
	invoice, err := s.repo.FindInvoice(ctx, invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	payments, err := s.repo.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments")
	}
	return invoice, payments, nil
}

// CreateInvoice bills a student for a school's fees. The total sums the
// mandatory lines for the program level plus the selected optional ones.
// The invoice identifier is issued here and never changes afterwards.
func (s *FinanceService) CreateInvoice(ctx context.Context, schoolID string, req CreateInvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invoice payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	fees, err := s.repo.ListFeeStructures(ctx, schoolID, req.ProgramLevel, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structures")
	}
	if len(fees) == 0 {
		return nil, appErrors.Validationf("program_level", "no fee structure defined for %s", req.ProgramLevel)
	}

	selected := make(map[string]bool, len(req.OptionalFeeIDs))
	for _, id := range req.OptionalFeeIDs {
		selected[id] = true
	}

	var total float64
	for _, fee := range fees {
		if !fee.IsOptional || selected[fee.ID] {
			total += fee.Amount
		}
	}
	if total <= 0 {
		return nil, appErrors.Validationf("optional_fee_ids", "invoice total must be positive")
	}

	now := time.Now().UTC()
	if !req.DueDate.After(now) {
		return nil, appErrors.Validationf("due_date", "due_date must be in the future")
	}

	invoiceID, err := s.identifiers.InvoiceID(ctx, now)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceID:    invoiceID,
		SchoolID:     schoolID,
		StudentID:    req.StudentID,
		ProgramLevel: req.ProgramLevel,
		InvoiceDate:  now,
		DueDate:      req.DueDate,
		TotalAmount:  total,
		Status:       models.InvoicePending,
	}
	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invoice")
	}

	s.logger.Info("invoice issued",
		zap.String("invoice_id", invoiceID),
		zap.String("student_id", req.StudentID),
		zap.Float64("total", total))
	return invoice, nil
}

// RecordPayment records money received against an invoice and refreshes
// its status from the paid total.
func (s *FinanceService) RecordPayment(ctx context.Context, invoiceID string, req RecordPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	invoice, err := s.repo.FindInvoice(ctx, invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	if invoice.Status == models.InvoicePaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "invoice is already settled")
	}

	receipt, err := s.identifiers.PaymentReceipt(ctx)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		InvoiceID:     invoiceID,
		SchoolID:      invoice.SchoolID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		Method:        req.Method,
		ReceiptNumber: receipt,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if err := s.refreshInvoiceStatus(ctx, invoice); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *FinanceService) refreshInvoiceStatus(ctx context.Context, invoice *models.Invoice) error {
	paid, err := s.repo.SumPayments(ctx, invoice.InvoiceID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total payments")
	}

	status := models.InvoicePending
	switch {
	case paid >= invoice.TotalAmount:
		status = models.InvoicePaid
	case paid > 0:
		status = models.InvoicePartial
	case time.Now().UTC().After(invoice.DueDate):
		status = models.InvoiceOverdue
	}

	if status == invoice.Status {
		return nil
	}
	if err := s.repo.UpdateInvoiceStatus(ctx, invoice.InvoiceID, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invoice status")
	}
	invoice.Status = status
	return nil
}

// ExpenseCategories lists a school's expense categories.
func (s *FinanceService) ExpenseCategories(ctx context.Context, schoolID string) ([]models.ExpenseCategory, error) {
	categories, err := s.repo.ListExpenseCategories(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expense categories")
	}
	return categories, nil
}

// CreateExpenseCategory adds an expense category.
func (s *FinanceService) CreateExpenseCategory(ctx context.Context, schoolID, name string, description *string) (*models.ExpenseCategory, error) {
	if name == "" {
		return nil, appErrors.Validationf("name", "name is required")
	}
	category := &models.ExpenseCategory{SchoolID: schoolID, Name: name, Description: description}
	if err := s.repo.CreateExpenseCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create expense category")
	}
	return category, nil
}

// Expenses lists a school's expenses within an optional date range.
func (s *FinanceService) Expenses(ctx context.Context, schoolID string, from, to *time.Time) ([]models.SchoolExpense, error) {
	expenses, err := s.repo.ListExpenses(ctx, schoolID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expenses")
	}
	return expenses, nil
}

// RecordExpense records a spend with a fresh receipt number.
func (s *FinanceService) RecordExpense(ctx context.Context, schoolID string, req RecordExpenseRequest) (*models.SchoolExpense, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}

	receipt, err := s.identifiers.ExpenseReceipt(ctx)
	if err != nil {
		return nil, err
	}

	expense := &models.SchoolExpense{
		SchoolID:      schoolID,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Amount:        req.Amount,
		DateIncurred:  req.DateIncurred,
		ReceiptNumber: receipt,
	}
	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record expense")
	}
	return expense, nil
}
