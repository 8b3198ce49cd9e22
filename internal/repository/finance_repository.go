package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

const invoiceColumns = `invoice_id, school_id, student_id, program_level, invoice_date, due_date, total_amount, status, created_at, updated_at`

// FinanceRepository manages fee structures, invoices, payments and
// school expenses.
type FinanceRepository struct {
	db *sqlx.DB
}

// NewFinanceRepository constructs a FinanceRepository.
func NewFinanceRepository(db *sqlx.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// ListFeeStructures returns a school's fee lines, optionally filtered by
// program level or restricted to optional fees.
func (r *FinanceRepository) ListFeeStructures(ctx context.Context, schoolID, programLevel string, optionalOnly bool) ([]models.FeeStructure, error) {
	base := "FROM fee_structures WHERE school_id = $1"
	args := []interface{}{schoolID}
	if programLevel != "" {
		base += fmt.Sprintf(" AND program_level = $%d", len(args)+1)
		args = append(args, programLevel)
	}
	if optionalOnly {
		base += " AND is_optional = true"
	}
	query := fmt.Sprintf(`SELECT id, school_id, program_level, fee_type, is_optional, amount, description, created_at, updated_at
        %s ORDER BY program_level ASC, fee_type ASC`, base)
	var fees []models.FeeStructure
	if err := r.db.SelectContext(ctx, &fees, query, args...); err != nil {
		return nil, fmt.Errorf("list fee structures: %w", err)
	}
	return fees, nil
}

// FindFeeStructure loads one fee line.
func (r *FinanceRepository) FindFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	const query = `SELECT id, school_id, program_level, fee_type, is_optional, amount, description, created_at, updated_at
        FROM fee_structures WHERE id = $1`
	var fee models.FeeStructure
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}
	return &fee, nil
}

// ExistsFeeStructure checks the (school, program level, fee type)
// uniqueness, optionally excluding an ID.
func (r *FinanceRepository) ExistsFeeStructure(ctx context.Context, schoolID, programLevel string, feeType models.FeeType, excludeID string) (bool, error) {
	query := "SELECT 1 FROM fee_structures WHERE school_id = $1 AND program_level = $2 AND fee_type = $3"
	args := []interface{}{schoolID, programLevel, feeType}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check fee structure: %w", err)
	}
	return true, nil
}

// CreateFeeStructure inserts a fee line.
func (r *FinanceRepository) CreateFeeStructure(ctx context.Context, fee *models.FeeStructure) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = now
	}
	fee.UpdatedAt = now
	const query = `INSERT INTO fee_structures (id, school_id, program_level, fee_type, is_optional, amount, description, created_at, updated_at)
        VALUES (:id, :school_id, :program_level, :fee_type, :is_optional, :amount, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee structure: %w", err)
	}
	return nil
}

// UpdateFeeStructure modifies a fee line.
func (r *FinanceRepository) UpdateFeeStructure(ctx context.Context, fee *models.FeeStructure) error {
	fee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE fee_structures SET program_level = :program_level, fee_type = :fee_type, is_optional = :is_optional,
        amount = :amount, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("update fee structure: %w", err)
	}
	return nil
}

// DeleteFeeStructure removes a fee line.
func (r *FinanceRepository) DeleteFeeStructure(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fee_structures WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete fee structure: %w", err)
	}
	return nil
}

// ListInvoices returns invoices matching the provided filters.
func (r *FinanceRepository) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error) {
	base := "FROM invoices WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY invoice_date DESC LIMIT %d OFFSET %d", invoiceColumns, base, size, offset)

	var invoices []models.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	return invoices, total, nil
}

// FindInvoice loads an invoice by its invoice ID.
func (r *FinanceRepository) FindInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE invoice_id = $1", invoiceColumns)
	var invoice models.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, invoiceID); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ExistsInvoiceID reports whether an invoice ID is taken.
func (r *FinanceRepository) ExistsInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM invoices WHERE invoice_id = $1 LIMIT 1", invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check invoice id: %w", err)
	}
	return true, nil
}

// CreateInvoice inserts a new invoice.
func (r *FinanceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	now := time.Now().UTC()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.UpdatedAt = now
	const query = `INSERT INTO invoices (invoice_id, school_id, student_id, program_level, invoice_date, due_date, total_amount, status, created_at, updated_at)
        VALUES (:invoice_id, :school_id, :student_id, :program_level, :invoice_date, :due_date, :total_amount, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// UpdateInvoiceStatus sets the payment status of an invoice.
func (r *FinanceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error {
	const query = `UPDATE invoices SET status = $2, updated_at = $3 WHERE invoice_id = $1`
	if _, err := r.db.ExecContext(ctx, query, invoiceID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// SumPayments returns the total amount paid against an invoice.
func (r *FinanceRepository) SumPayments(ctx context.Context, invoiceID string) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1", invoiceID)
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

// ListPayments returns the payments recorded against an invoice.
func (r *FinanceRepository) ListPayments(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	var payments []models.Payment
	const query = `SELECT id, invoice_id, school_id, amount, payment_date, payment_method, receipt_number, created_at
        FROM payments WHERE invoice_id = $1 ORDER BY payment_date ASC`
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ExistsReceiptNumber reports whether a payment receipt number is taken.
func (r *FinanceRepository) ExistsReceiptNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM payments WHERE receipt_number = $1 LIMIT 1", number)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check receipt number: %w", err)
	}
	return true, nil
}

// CreatePayment inserts a payment row.
func (r *FinanceRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (id, invoice_id, school_id, amount, payment_date, payment_method, receipt_number, created_at)
        VALUES (:id, :invoice_id, :school_id, :amount, :payment_date, :payment_method, :receipt_number, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListExpenseCategories returns a school's expense categories.
func (r *FinanceRepository) ListExpenseCategories(ctx context.Context, schoolID string) ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	const query = `SELECT id, school_id, name, description FROM expense_categories WHERE school_id = $1 ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &categories, query, schoolID); err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	return categories, nil
}

// CreateExpenseCategory inserts an expense category.
func (r *FinanceRepository) CreateExpenseCategory(ctx context.Context, category *models.ExpenseCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	const query = `INSERT INTO expense_categories (id, school_id, name, description)
        VALUES (:id, :school_id, :name, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create expense category: %w", err)
	}
	return nil
}

// ListExpenses returns a school's expenses, optionally within a date range.
func (r *FinanceRepository) ListExpenses(ctx context.Context, schoolID string, from, to *time.Time) ([]models.SchoolExpense, error) {
	base := "FROM school_expenses WHERE school_id = $1"
	args := []interface{}{schoolID}
	if from != nil {
		base += fmt.Sprintf(" AND date_incurred >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		base += fmt.Sprintf(" AND date_incurred <= $%d", len(args)+1)
		args = append(args, *to)
	}
	query := fmt.Sprintf(`SELECT id, school_id, category_id, description, amount, date_incurred, receipt_number, created_at
        %s ORDER BY date_incurred DESC`, base)
	var expenses []models.SchoolExpense
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// ExistsExpenseReceipt reports whether an expense receipt number is taken.
func (r *FinanceRepository) ExistsExpenseReceipt(ctx context.Context, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM school_expenses WHERE receipt_number = $1 LIMIT 1", number)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check expense receipt: %w", err)
	}
	return true, nil
}

// CreateExpense inserts an expense row.
func (r *FinanceRepository) CreateExpense(ctx context.Context, expense *models.SchoolExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO school_expenses (id, school_id, category_id, description, amount, date_incurred, receipt_number, created_at)
        VALUES (:id, :school_id, :category_id, :description, :amount, :date_incurred, :receipt_number, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}
