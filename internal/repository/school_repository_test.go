package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
)

func newSchoolMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSchoolRepositoryCreateWithRegistrationNumber(t *testing.T) {
	db, mock, cleanup := newSchoolMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT registration_number FROM schools WHERE school_type = $1 ORDER BY length(registration_number) DESC, registration_number DESC LIMIT 1 FOR UPDATE")).
		WithArgs(models.SchoolTypePublic).
		WillReturnRows(sqlmock.NewRows([]string{"registration_number"}).AddRow("1007"))
	mock.ExpectExec("INSERT INTO schools").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	school := &models.School{
		Name:          "Govt Secondary School Garki",
		Type:          models.SchoolTypePublic,
		Program:       models.ProgramSSS,
		LGA:           "AMAC",
		Ward:          "Garki",
		StreetAddress: "1 School Road",
		Phone:         "08030000000",
	}
	err := repo.CreateWithRegistrationNumber(context.Background(), school, func(last string) (string, error) {
		assert.Equal(t, "1007", last)
		return "1008", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1008", school.RegistrationNumber)
	assert.NotEmpty(t, school.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryCreateFirstOfType(t *testing.T) {
	db, mock, cleanup := newSchoolMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT registration_number FROM schools")).
		WithArgs(models.SchoolTypeCommunity).
		WillReturnRows(sqlmock.NewRows([]string{"registration_number"}))
	mock.ExpectExec("INSERT INTO schools").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	school := &models.School{Type: models.SchoolTypeCommunity, Program: models.ProgramPrimary}
	err := repo.CreateWithRegistrationNumber(context.Background(), school, func(last string) (string, error) {
		assert.Empty(t, last)
		return "3001", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "3001", school.RegistrationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryCreatePastThreeDigitSequence(t *testing.T) {
	db, mock, cleanup := newSchoolMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	// With 1000+ public schools the longest number ("11000") must win the
	// ordering over the lexicographically larger "1999".
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY length(registration_number) DESC, registration_number DESC")).
		WithArgs(models.SchoolTypePublic).
		WillReturnRows(sqlmock.NewRows([]string{"registration_number"}).AddRow("11000"))
	mock.ExpectExec("INSERT INTO schools").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	school := &models.School{Type: models.SchoolTypePublic, Program: models.ProgramSSS}
	err := repo.CreateWithRegistrationNumber(context.Background(), school, func(last string) (string, error) {
		assert.Equal(t, "11000", last)
		return "11001", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "11001", school.RegistrationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryList(t *testing.T) {
	db, mock, cleanup := newSchoolMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "school_type", "program", "registration_number", "lga", "ward", "street_address", "phone"}).
		AddRow("sch-1", "Govt Secondary School Garki", "public", "sss", "1001", "AMAC", "Garki", "1 School Road", "08030000000")
	mock.ExpectQuery(regexp.QuoteMeta("FROM schools WHERE 1=1 AND school_type = $1")).
		WithArgs(models.SchoolTypePublic).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schools WHERE 1=1 AND school_type = $1")).
		WithArgs(models.SchoolTypePublic).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	schools, total, err := repo.List(context.Background(), models.SchoolFilter{Type: models.SchoolTypePublic})
	require.NoError(t, err)
	assert.Len(t, schools, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
