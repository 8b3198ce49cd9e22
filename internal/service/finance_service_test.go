package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockFinanceRepo struct {
	fees          []models.FeeStructure
	feeTaken      bool
	invoice       *models.Invoice
	payments      []models.Payment
	paymentsTotal float64
	createdFee    *models.FeeStructure
	expense       *models.SchoolExpense
	statusUpdates []models.InvoiceStatus
}

func (m *mockFinanceRepo) ListFeeStructures(ctx context.Context, schoolID, programLevel string, optionalOnly bool) ([]models.FeeStructure, error) {
	return m.fees, nil
}

func (m *mockFinanceRepo) FindFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	for i := range m.fees {
		if m.fees[i].ID == id {
			return &m.fees[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockFinanceRepo) ExistsFeeStructure(ctx context.Context, schoolID, programLevel string, feeType models.FeeType, excludeID string) (bool, error) {
	return m.feeTaken, nil
}

func (m *mockFinanceRepo) CreateFeeStructure(ctx context.Context, fee *models.FeeStructure) error {
	m.createdFee = fee
	return nil
}

func (m *mockFinanceRepo) UpdateFeeStructure(ctx context.Context, fee *models.FeeStructure) error {
	return nil
}

func (m *mockFinanceRepo) DeleteFeeStructure(ctx context.Context, id string) error {
	return nil
}

func (m *mockFinanceRepo) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error) {
	return nil, 0, nil
}

func (m *mockFinanceRepo) FindInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	if m.invoice == nil || m.invoice.InvoiceID != invoiceID {
		return nil, sql.ErrNoRows
	}
	return m.invoice, nil
}

func (m *mockFinanceRepo) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	m.invoice = invoice
	return nil
}

func (m *mockFinanceRepo) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockFinanceRepo) SumPayments(ctx context.Context, invoiceID string) (float64, error) {
	return m.paymentsTotal, nil
}

func (m *mockFinanceRepo) ListPayments(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	return m.payments, nil
}

func (m *mockFinanceRepo) ExistsReceiptNumber(ctx context.Context, number string) (bool, error) {
	return false, nil
}

func (m *mockFinanceRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	m.payments = append(m.payments, *payment)
	m.paymentsTotal += payment.Amount
	return nil
}

func (m *mockFinanceRepo) ListExpenseCategories(ctx context.Context, schoolID string) ([]models.ExpenseCategory, error) {
	return nil, nil
}

func (m *mockFinanceRepo) CreateExpenseCategory(ctx context.Context, category *models.ExpenseCategory) error {
	return nil
}

func (m *mockFinanceRepo) ListExpenses(ctx context.Context, schoolID string, from, to *time.Time) ([]models.SchoolExpense, error) {
	return nil, nil
}

func (m *mockFinanceRepo) ExistsExpenseReceipt(ctx context.Context, number string) (bool, error) {
	return false, nil
}

func (m *mockFinanceRepo) CreateExpense(ctx context.Context, expense *models.SchoolExpense) error {
	m.expense = expense
	return nil
}

type mockFinanceStudents struct{}

func (m *mockFinanceStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return &models.Student{ID: id, Active: true}, nil
}

func newTestFinanceService(repo *mockFinanceRepo) *FinanceService {
	identifiers := newTestIdentifierService(&mockNumberCheckers{})
	return NewFinanceService(repo, &mockFinanceStudents{}, identifiers, validator.New(), zap.NewNop())
}

func jssFees() []models.FeeStructure {
	return []models.FeeStructure{
		{ID: "fee-1", ProgramLevel: "JSS1", FeeType: models.FeeTuition, Amount: 20000},
		{ID: "fee-2", ProgramLevel: "JSS1", FeeType: models.FeeExam, Amount: 5000},
		{ID: "fee-3", ProgramLevel: "JSS1", FeeType: models.FeeExtraLesson, Amount: 3000, IsOptional: true},
	}
}

func TestCreateFeeStructureDuplicate(t *testing.T) {
	repo := &mockFinanceRepo{feeTaken: true}
	svc := newTestFinanceService(repo)

	_, err := svc.CreateFeeStructure(context.Background(), "sch-1", CreateFeeStructureRequest{
		ProgramLevel: "JSS1",
		FeeType:      models.FeeTuition,
		Amount:       20000,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCreateInvoiceSumsMandatoryFees(t *testing.T) {
	repo := &mockFinanceRepo{fees: jssFees()}
	svc := newTestFinanceService(repo)

	invoice, err := svc.CreateInvoice(context.Background(), "sch-1", CreateInvoiceRequest{
		StudentID:    "stu-1",
		ProgramLevel: "JSS1",
		DueDate:      time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 25000.0, invoice.TotalAmount)
	assert.Equal(t, models.InvoicePending, invoice.Status)
	assert.Contains(t, invoice.InvoiceID, "INV-")
}

func TestCreateInvoiceIncludesSelectedOptionalFees(t *testing.T) {
	repo := &mockFinanceRepo{fees: jssFees()}
	svc := newTestFinanceService(repo)

	invoice, err := svc.CreateInvoice(context.Background(), "sch-1", CreateInvoiceRequest{
		StudentID:      "stu-1",
		ProgramLevel:   "JSS1",
		DueDate:        time.Now().UTC().Add(30 * 24 * time.Hour),
		OptionalFeeIDs: []string{"fee-3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 28000.0, invoice.TotalAmount)
}

func TestCreateInvoiceNoFeeStructure(t *testing.T) {
	svc := newTestFinanceService(&mockFinanceRepo{})

	_, err := svc.CreateInvoice(context.Background(), "sch-1", CreateInvoiceRequest{
		StudentID:    "stu-1",
		ProgramLevel: "SSS1",
		DueDate:      time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	repo := &mockFinanceRepo{invoice: &models.Invoice{
		InvoiceID:   "INV-20260301-000001",
		SchoolID:    "sch-1",
		TotalAmount: 25000,
		Status:      models.InvoicePending,
		DueDate:     time.Now().UTC().Add(30 * 24 * time.Hour),
	}}
	svc := newTestFinanceService(repo)

	payment, err := svc.RecordPayment(context.Background(), "INV-20260301-000001", RecordPaymentRequest{
		Amount:      10000,
		PaymentDate: time.Now().UTC(),
		Method:      models.PayCash,
	})
	require.NoError(t, err)
	assert.Contains(t, payment.ReceiptNumber, "REC-")
	assert.Equal(t, models.InvoicePartial, repo.invoice.Status)

	_, err = svc.RecordPayment(context.Background(), "INV-20260301-000001", RecordPaymentRequest{
		Amount:      15000,
		PaymentDate: time.Now().UTC(),
		Method:      models.PayBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, repo.invoice.Status)
	assert.Equal(t, []models.InvoiceStatus{models.InvoicePartial, models.InvoicePaid}, repo.statusUpdates)
}

func TestRecordPaymentOnSettledInvoice(t *testing.T) {
	repo := &mockFinanceRepo{invoice: &models.Invoice{
		InvoiceID:   "INV-1",
		TotalAmount: 25000,
		Status:      models.InvoicePaid,
	}}
	svc := newTestFinanceService(repo)

	_, err := svc.RecordPayment(context.Background(), "INV-1", RecordPaymentRequest{
		Amount:      100,
		PaymentDate: time.Now().UTC(),
		Method:      models.PayCash,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestRecordExpenseIssuesReceipt(t *testing.T) {
	repo := &mockFinanceRepo{}
	svc := newTestFinanceService(repo)

	expense, err := svc.RecordExpense(context.Background(), "sch-1", RecordExpenseRequest{
		CategoryID:   "cat-1",
		Description:  "generator fuel",
		Amount:       12000,
		DateIncurred: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Contains(t, expense.ReceiptNumber, "EXP-")
	assert.NotNil(t, repo.expense)
}
