package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
)

func newFinanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFinanceRepositorySumPayments(t *testing.T) {
	db, mock, cleanup := newFinanceMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1")).
		WithArgs("INV-20260115-000042").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7500.0))

	total, err := repo.SumPayments(context.Background(), "INV-20260115-000042")
	require.NoError(t, err)
	assert.Equal(t, 7500.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepositoryUpdateInvoiceStatus(t *testing.T) {
	db, mock, cleanup := newFinanceMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET status = $2")).
		WithArgs("INV-20260115-000042", models.InvoicePaid, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateInvoiceStatus(context.Background(), "INV-20260115-000042", models.InvoicePaid)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepositoryExistsReceiptNumber(t *testing.T) {
	db, mock, cleanup := newFinanceMock(t)
	defer cleanup()
	repo := NewFinanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM payments WHERE receipt_number = $1")).
		WithArgs("REC-0123456789ABCDEF").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsReceiptNumber(context.Background(), "REC-0123456789ABCDEF")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}
