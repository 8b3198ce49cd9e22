package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	created *models.User
}

func (m *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	m.created = user
	return nil
}

func (m *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (m *stubUserRepo) Delete(ctx context.Context, id string) error         { return nil }

type stubUserSchools struct{}

func (m *stubUserSchools) FindByID(ctx context.Context, id string) (*models.School, error) {
	if id == "sch-1" {
		return &models.School{ID: "sch-1"}, nil
	}
	return nil, sql.ErrNoRows
}

func userTestRouter(repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(service.NewUserService(repo, &stubUserSchools{}, nil, nil))
	r := gin.New()
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.POST("/users", h.Create)
	return r
}

func TestUserHandlerCreate(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	r := userTestRouter(repo)

	body := `{"email":"admin@samses.gov.ng","password":"secret1","full_name":"Ministry Admin","role":"MINISTRY_ADMIN"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.RoleMinistryAdmin, repo.created.Role)
	assert.True(t, repo.created.Active)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestUserHandlerCreateDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{
		byEmail: map[string]*models.User{"admin@samses.gov.ng": {ID: "u1"}},
		byID:    map[string]*models.User{},
	}
	r := userTestRouter(repo)

	body := `{"email":"admin@samses.gov.ng","password":"secret1","full_name":"Ministry Admin","role":"MINISTRY_ADMIN"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestUserHandlerCreateSchoolAdminNeedsSchool(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	r := userTestRouter(repo)

	body := `{"email":"head@school.ng","password":"secret1","full_name":"Head Teacher","role":"SCHOOL_ADMIN"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "school_id")
}

func TestUserHandlerListEnvelope(t *testing.T) {
	repo := &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID: map[string]*models.User{
			"u1": {ID: "u1", Email: "a@samses.gov.ng", Role: models.RoleAuditor, Active: true},
		},
	}
	r := userTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users?page=1&page_size=10", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data       []models.User      `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestUserHandlerGetNotFound(t *testing.T) {
	r := userTestRouter(&stubUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
