package codes

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchoolTypeCode(t *testing.T) {
	cases := map[string]string{
		"public":    "1",
		"private":   "2",
		"community": "3",
	}
	for schoolType, want := range cases {
		code, ok := SchoolTypeCode(schoolType)
		require.True(t, ok, schoolType)
		assert.Equal(t, want, code)
	}

	_, ok := SchoolTypeCode("federal")
	assert.False(t, ok)
}

func TestSchoolRegistrationNumber(t *testing.T) {
	assert.Equal(t, "1001", SchoolRegistrationNumber(TypeCodePublic, 1))
	assert.Equal(t, "2042", SchoolRegistrationNumber(TypeCodePrivate, 42))
	assert.Equal(t, "31000", SchoolRegistrationNumber(TypeCodeCommunity, 1000))
}

func TestParseSchoolSequence(t *testing.T) {
	seq, err := ParseSchoolSequence("1007")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)

	seq, err = ParseSchoolSequence("2123")
	require.NoError(t, err)
	assert.Equal(t, 123, seq)

	_, err = ParseSchoolSequence("1")
	assert.Error(t, err)
}

func TestRegistrationNumberRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 9, 99, 100, 999, 1000} {
		num := SchoolRegistrationNumber(TypeCodePublic, seq)
		parsed, err := ParseSchoolSequence(num)
		require.NoError(t, err)
		assert.Equal(t, seq, parsed)
	}
}

func TestRandomDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{11}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := RandomDigits(11)
		assert.True(t, pattern.MatchString(code), code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestRandomHex(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{16}$`)
	assert.True(t, pattern.MatchString(RandomHex(16)))
}

func TestAdmissionNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{11}$`)
	for i := 0; i < 50; i++ {
		code := AdmissionNumber()
		require.True(t, pattern.MatchString(code), code)
		assert.True(t, LuhnVerify(code), code)
	}
}

func TestAccreditationNumber(t *testing.T) {
	issued := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	code := AccreditationNumber(TypeCodePrivate, issued)
	assert.Regexp(t, `^ACCR242-\d{7}$`, code)
}

func TestInvoiceID(t *testing.T) {
	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Regexp(t, `^INV-20240101-\d{6}$`, InvoiceID(date))
}

func TestReceipts(t *testing.T) {
	assert.Regexp(t, `^REC-[0-9A-F]{16}$`, PaymentReceipt())
	assert.Regexp(t, `^EXP-[0-9A-F]{12}$`, ExpenseReceipt())
}

func TestLuhnCheckDigit(t *testing.T) {
	// Odd positions from the right are summed as-is and even positions are
	// doubled, so 7992739871 carries check digit 4 under this scheme.
	assert.Equal(t, 4, LuhnCheckDigit("7992739871"))
	assert.True(t, LuhnVerify("79927398714"))
	assert.False(t, LuhnVerify("79927398710"))
}

func TestLuhnDetectsSingleDigitErrors(t *testing.T) {
	base := "4539148803"
	code := base + strconv.Itoa(LuhnCheckDigit(base))
	require.True(t, LuhnVerify(code))

	// Altering any single digit must flip the verification outcome.
	for i := 0; i < len(code); i++ {
		for d := byte('0'); d <= '9'; d++ {
			if code[i] == d {
				continue
			}
			mutated := code[:i] + string(d) + code[i+1:]
			assert.False(t, LuhnVerify(mutated), "mutation at %d to %c passed", i, d)
		}
	}
}
