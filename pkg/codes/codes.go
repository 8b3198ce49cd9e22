// Package codes builds the human-legible identifiers handed out across the
// system: school registration numbers, student registration and admission
// numbers, accreditation numbers, invoice IDs and payment/expense receipts.
// The builders here are pure; uniqueness against stored rows is enforced by
// the identifier service that calls them.
package codes

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type codes prefixing school registration and accreditation numbers.
const (
	TypeCodePublic    = "1"
	TypeCodePrivate   = "2"
	TypeCodeCommunity = "3"
)

// SchoolTypeCode maps a school type to its single-digit prefix. The second
// return value is false for unknown types.
func SchoolTypeCode(schoolType string) (string, bool) {
	switch schoolType {
	case "public":
		return TypeCodePublic, true
	case "private":
		return TypeCodePrivate, true
	case "community":
		return TypeCodeCommunity, true
	default:
		return "", false
	}
}

// SchoolRegistrationNumber formats the sequential registration number for a
// school: the type code followed by the zero-padded sequence.
func SchoolRegistrationNumber(typeCode string, sequence int) string {
	return fmt.Sprintf("%s%03d", typeCode, sequence)
}

// ParseSchoolSequence extracts the numeric suffix from a registration
// number produced by SchoolRegistrationNumber.
func ParseSchoolSequence(registrationNumber string) (int, error) {
	if len(registrationNumber) < 2 {
		return 0, fmt.Errorf("registration number %q too short", registrationNumber)
	}
	var seq int
	if _, err := fmt.Sscanf(registrationNumber[1:], "%d", &seq); err != nil {
		return 0, fmt.Errorf("parse registration number %q: %w", registrationNumber, err)
	}
	return seq, nil
}

// RandomDigits returns n decimal digits taken from the integer form of a
// random 128-bit identifier, concatenating further identifiers if the
// requested length exceeds a single one.
func RandomDigits(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		id := uuid.New()
		sb.WriteString(new(big.Int).SetBytes(id[:]).String())
	}
	return sb.String()[:n]
}

// RandomHex returns n uppercase hex characters from a random identifier.
func RandomHex(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		id := uuid.New()
		sb.WriteString(strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")))
	}
	return sb.String()[:n]
}

// StudentRegistrationNumber returns an 11-digit numeric code.
func StudentRegistrationNumber() string {
	return RandomDigits(11)
}

// AdmissionNumber returns a 10-digit random base with its Luhn check digit
// appended, 11 digits total.
func AdmissionNumber() string {
	base := RandomDigits(10)
	return base + fmt.Sprintf("%d", LuhnCheckDigit(base))
}

// AccreditationNumber formats ACCR{YY}{typeCode}-{7 digits} for the given
// issue date.
func AccreditationNumber(typeCode string, issued time.Time) string {
	year := issued.Format("06")
	return fmt.Sprintf("ACCR%s%s-%s", year, typeCode, RandomDigits(7))
}

// InvoiceID formats INV-{YYYYMMDD}-{6 digits} for the given date.
func InvoiceID(date time.Time) string {
	return fmt.Sprintf("INV-%s-%s", date.Format("20060102"), RandomDigits(6))
}

// PaymentReceipt returns REC-{16 hex chars}.
func PaymentReceipt() string {
	return "REC-" + RandomHex(16)
}

// ExpenseReceipt returns EXP-{12 hex chars}.
func ExpenseReceipt() string {
	return "EXP-" + RandomHex(12)
}
