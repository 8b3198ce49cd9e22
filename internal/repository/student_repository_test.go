package repository

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryExistsIdentity(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	dob := time.Date(2015, time.March, 12, 0, 0, 0, 0, time.UTC)
	student := &models.Student{
		FirstName:     "Amina",
		LastName:      "Bello",
		DateOfBirth:   dob,
		StateOfOrigin: "Kano",
		PlaceOfBirth:  "Kano",
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE LOWER(first_name) = LOWER($1)")).
		WithArgs("Amina", "Bello", dob, "Kano", "Kano").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsIdentity(context.Background(), student, "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsIdentityNotFound(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	dob := time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC)
	student := &models.Student{FirstName: "Chinedu", LastName: "Okafor", DateOfBirth: dob, StateOfOrigin: "Enugu", PlaceOfBirth: "Nsukka"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE LOWER(first_name) = LOWER($1)")).
		WithArgs("Chinedu", "Okafor", dob, "Enugu", "Nsukka").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsIdentity(context.Background(), student, "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsRegistrationNumber(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE registration_number = $1")).
		WithArgs("12345678901").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsRegistrationNumber(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{
		FirstName:          "Amina",
		LastName:           "Bello",
		DateOfBirth:        time.Date(2015, time.March, 12, 0, 0, 0, 0, time.UTC),
		Gender:             models.GenderFemale,
		CountryOfBirth:     "Nigeria",
		StateOfOrigin:      "Kano",
		PlaceOfBirth:       "Kano",
		RegistrationNumber: "12345678901",
		Active:             true,
	}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_registration_number_key"})

	student := &models.Student{
		FirstName:          "Amina",
		LastName:           "Bello",
		DateOfBirth:        time.Date(2015, time.March, 12, 0, 0, 0, 0, time.UTC),
		Gender:             models.GenderFemale,
		CountryOfBirth:     "Nigeria",
		StateOfOrigin:      "Kano",
		PlaceOfBirth:       "Kano",
		RegistrationNumber: "12345678901",
		Active:             true,
	}
	err := repo.Create(context.Background(), student)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "registration_number", appErr.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}
