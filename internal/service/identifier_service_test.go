package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockNumberCheckers struct {
	registrationTaken  bool
	admissionTaken     int
	accreditationCalls int
	invoiceTaken       bool
	receiptTaken       bool
	expenseTaken       bool
	checked            []string
}

func (m *mockNumberCheckers) ExistsRegistrationNumber(ctx context.Context, number string) (bool, error) {
	m.checked = append(m.checked, number)
	return m.registrationTaken, nil
}

func (m *mockNumberCheckers) ExistsAdmissionNumber(ctx context.Context, schoolID, number string) (bool, error) {
	m.checked = append(m.checked, number)
	if m.admissionTaken > 0 {
		m.admissionTaken--
		return true, nil
	}
	return false, nil
}

func (m *mockNumberCheckers) ExistsNumber(ctx context.Context, number string) (bool, error) {
	m.accreditationCalls++
	return false, nil
}

func (m *mockNumberCheckers) ExistsInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	return m.invoiceTaken, nil
}

func (m *mockNumberCheckers) ExistsReceiptNumber(ctx context.Context, number string) (bool, error) {
	return m.receiptTaken, nil
}

func (m *mockNumberCheckers) ExistsExpenseReceipt(ctx context.Context, number string) (bool, error) {
	return m.expenseTaken, nil
}

func newTestIdentifierService(checkers *mockNumberCheckers) *IdentifierService {
	return NewIdentifierService(checkers, checkers, checkers, checkers, nil, zap.NewNop())
}

func TestNextSchoolRegistrationNumberFirstOfType(t *testing.T) {
	svc := newTestIdentifierService(&mockNumberCheckers{})

	next, err := svc.NextSchoolRegistrationNumber(models.SchoolTypePublic)
	require.NoError(t, err)

	number, err := next("")
	require.NoError(t, err)
	assert.Equal(t, "1001", number)
}

func TestNextSchoolRegistrationNumberIncrements(t *testing.T) {
	svc := newTestIdentifierService(&mockNumberCheckers{})

	next, err := svc.NextSchoolRegistrationNumber(models.SchoolTypeCommunity)
	require.NoError(t, err)

	number, err := next("3042")
	require.NoError(t, err)
	assert.Equal(t, "3043", number)
}

func TestNextSchoolRegistrationNumberUnknownType(t *testing.T) {
	svc := newTestIdentifierService(&mockNumberCheckers{})

	_, err := svc.NextSchoolRegistrationNumber(models.SchoolType("charter"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentRegistrationNumberFormat(t *testing.T) {
	svc := newTestIdentifierService(&mockNumberCheckers{})

	number, err := svc.StudentRegistrationNumber(context.Background())
	require.NoError(t, err)
	assert.Len(t, number, 11)
}

func TestAdmissionNumberRetriesOnCollision(t *testing.T) {
	checkers := &mockNumberCheckers{admissionTaken: 2}
	svc := newTestIdentifierService(checkers)

	number, err := svc.AdmissionNumber(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.NotEmpty(t, number)
	assert.Len(t, checkers.checked, 3)
}

func TestRegistrationNumberExhaustsRetries(t *testing.T) {
	checkers := &mockNumberCheckers{registrationTaken: true}
	svc := newTestIdentifierService(checkers)

	_, err := svc.StudentRegistrationNumber(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeExhausted.Code, appErrors.FromError(err).Code)
	assert.Len(t, checkers.checked, maxCodeAttempts)
}

func TestAccreditationNumberIssuesFreshNumber(t *testing.T) {
	checkers := &mockNumberCheckers{}
	svc := newTestIdentifierService(checkers)

	first, err := svc.AccreditationNumber(context.Background(), models.SchoolTypePrivate, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := svc.AccreditationNumber(context.Background(), models.SchoolTypePrivate, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, checkers.accreditationCalls)
}

func TestInvoiceIDCarriesDate(t *testing.T) {
	svc := newTestIdentifierService(&mockNumberCheckers{})

	id, err := svc.InvoiceID(context.Background(), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, id, "20260315")
}
