package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/pkg/codes"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

// maxCodeAttempts bounds collision retries for randomly generated codes.
const maxCodeAttempts = 5

type registrationNumberChecker interface {
	ExistsRegistrationNumber(ctx context.Context, number string) (bool, error)
}

type admissionNumberChecker interface {
	ExistsAdmissionNumber(ctx context.Context, schoolID, number string) (bool, error)
}

type accreditationNumberChecker interface {
	ExistsNumber(ctx context.Context, number string) (bool, error)
}

type financeNumberChecker interface {
	ExistsInvoiceID(ctx context.Context, invoiceID string) (bool, error)
	ExistsReceiptNumber(ctx context.Context, number string) (bool, error)
	ExistsExpenseReceipt(ctx context.Context, number string) (bool, error)
}

// IdentifierService issues every identifier the system hands out. Random
// families are checked against the database and retried on collision, a
// bounded number of times. The sequential school family is not generated
// here directly: NextSchoolRegistrationNumber returns a builder the school
// repository invokes inside its insert transaction, so the read of the
// last issued number and the insert of the next one stay atomic.
type IdentifierService struct {
	students       registrationNumberChecker
	enrollments    admissionNumberChecker
	accreditations accreditationNumberChecker
	finance        financeNumberChecker
	metrics        *MetricsService
	logger         *zap.Logger
}

// NewIdentifierService constructs an IdentifierService.
func NewIdentifierService(students registrationNumberChecker, enrollments admissionNumberChecker, accreditations accreditationNumberChecker, finance financeNumberChecker, metrics *MetricsService, logger *zap.Logger) *IdentifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentifierService{
		students:       students,
		enrollments:    enrollments,
		accreditations: accreditations,
		finance:        finance,
		metrics:        metrics,
		logger:         logger,
	}
}

// NextSchoolRegistrationNumber returns the builder that computes a
// school's registration number from the last one issued for its type.
// Sequences restart at 1 per type and extend past three digits when
// needed.
func (s *IdentifierService) NextSchoolRegistrationNumber(schoolType models.SchoolType) (func(last string) (string, error), error) {
	typeCode, ok := codes.SchoolTypeCode(string(schoolType))
	if !ok {
		return nil, appErrors.Validationf("school_type", "unknown school type %q", schoolType)
	}
	return func(last string) (string, error) {
		sequence := 0
		if last != "" {
			parsed, err := codes.ParseSchoolSequence(last)
			if err != nil {
				return "", err
			}
			sequence = parsed
		}
		number := codes.SchoolRegistrationNumber(typeCode, sequence+1)
		s.metrics.RecordCodeGenerated("school_registration")
		return number, nil
	}, nil
}

// StudentRegistrationNumber issues a unique 11-digit student registration
// number.
func (s *IdentifierService) StudentRegistrationNumber(ctx context.Context) (string, error) {
	return s.generate(ctx, "student_registration", codes.StudentRegistrationNumber, func(ctx context.Context, candidate string) (bool, error) {
		return s.students.ExistsRegistrationNumber(ctx, candidate)
	})
}

// AdmissionNumber issues an admission number unique within the school.
// The number carries a Luhn check digit so clerical transpositions are
// caught at entry.
func (s *IdentifierService) AdmissionNumber(ctx context.Context, schoolID string) (string, error) {
	return s.generate(ctx, "admission_number", codes.AdmissionNumber, func(ctx context.Context, candidate string) (bool, error) {
		return s.enrollments.ExistsAdmissionNumber(ctx, schoolID, candidate)
	})
}

// AccreditationNumber issues a fresh accreditation number for a school of
// the given type. A new number is generated on every accreditation grant,
// never reused from a previous one.
func (s *IdentifierService) AccreditationNumber(ctx context.Context, schoolType models.SchoolType, issued time.Time) (string, error) {
	typeCode, ok := codes.SchoolTypeCode(string(schoolType))
	if !ok {
		return "", appErrors.Validationf("school_type", "unknown school type %q", schoolType)
	}
	return s.generate(ctx, "accreditation_number", func() string {
		return codes.AccreditationNumber(typeCode, issued)
	}, func(ctx context.Context, candidate string) (bool, error) {
		return s.accreditations.ExistsNumber(ctx, candidate)
	})
}

// InvoiceID issues a unique invoice identifier for the given date.
func (s *IdentifierService) InvoiceID(ctx context.Context, date time.Time) (string, error) {
	return s.generate(ctx, "invoice_id", func() string {
		return codes.InvoiceID(date)
	}, func(ctx context.Context, candidate string) (bool, error) {
		return s.finance.ExistsInvoiceID(ctx, candidate)
	})
}

// PaymentReceipt issues a unique payment receipt number.
func (s *IdentifierService) PaymentReceipt(ctx context.Context) (string, error) {
	return s.generate(ctx, "payment_receipt", codes.PaymentReceipt, func(ctx context.Context, candidate string) (bool, error) {
		return s.finance.ExistsReceiptNumber(ctx, candidate)
	})
}

// ExpenseReceipt issues a unique expense receipt number.
func (s *IdentifierService) ExpenseReceipt(ctx context.Context) (string, error) {
	return s.generate(ctx, "expense_receipt", codes.ExpenseReceipt, func(ctx context.Context, candidate string) (bool, error) {
		return s.finance.ExistsExpenseReceipt(ctx, candidate)
	})
}

func (s *IdentifierService) generate(ctx context.Context, kind string, produce func() string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate := produce()
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check "+kind)
		}
		if !exists {
			s.metrics.RecordCodeGenerated(kind)
			return candidate, nil
		}
		s.metrics.RecordCodeRetry(kind)
		s.logger.Warn("identifier collision, retrying",
			zap.String("kind", kind),
			zap.Int("attempt", attempt+1))
	}
	return "", appErrors.Clone(appErrors.ErrCodeExhausted, "could not allocate a unique "+kind)
}
