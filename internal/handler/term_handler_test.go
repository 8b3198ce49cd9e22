package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
)

type stubTermRepo struct {
	terms   map[string]*models.Term
	created *models.Term
}

func (m *stubTermRepo) ListBySession(ctx context.Context, sessionID string) ([]models.Term, error) {
	var out []models.Term
	for _, t := range m.terms {
		if t.SessionID == sessionID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *stubTermRepo) FindByID(ctx context.Context, id string) (*models.Term, error) {
	t, ok := m.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (m *stubTermRepo) Create(ctx context.Context, term *models.Term) error {
	m.created = term
	return nil
}

func (m *stubTermRepo) Update(ctx context.Context, term *models.Term) error { return nil }
func (m *stubTermRepo) Delete(ctx context.Context, id string) error         { return nil }

type stubTermSessions struct {
	session *models.AcademicSession
}

func (m *stubTermSessions) FindByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	if m.session == nil || m.session.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.session, nil
}

func termTestRouter(repo *stubTermRepo, sessions *stubTermSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTermHandler(service.NewTermService(repo, sessions, nil, nil))
	r := gin.New()
	r.GET("/terms/:id", h.Get)
	r.POST("/terms", h.Create)
	r.DELETE("/terms/:id", h.Delete)
	return r
}

func TestTermHandlerCreate(t *testing.T) {
	repo := &stubTermRepo{terms: map[string]*models.Term{}}
	sessions := &stubTermSessions{session: &models.AcademicSession{
		ID:        "ses-1",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}}
	r := termTestRouter(repo, sessions)

	body := `{"academic_session_id":"ses-1","term_number":1,"start_date":"2026-02-01T00:00:00Z","end_date":"2026-04-30T00:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, 1, repo.created.Number)

	var envelope struct {
		Data models.Term `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "ses-1", envelope.Data.SessionID)
}

func TestTermHandlerCreateRejectsMalformedBody(t *testing.T) {
	r := termTestRouter(&stubTermRepo{terms: map[string]*models.Term{}}, &stubTermSessions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(`{"term_number":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestTermHandlerCreateOutsideSessionRange(t *testing.T) {
	repo := &stubTermRepo{terms: map[string]*models.Term{}}
	sessions := &stubTermSessions{session: &models.AcademicSession{
		ID:        "ses-1",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}}
	r := termTestRouter(repo, sessions)

	body := `{"academic_session_id":"ses-1","term_number":1,"start_date":"2025-02-01T00:00:00Z","end_date":"2026-04-30T00:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/terms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "session range")
}

func TestTermHandlerGetNotFound(t *testing.T) {
	r := termTestRouter(&stubTermRepo{terms: map[string]*models.Term{}}, &stubTermSessions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/terms/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestTermHandlerDelete(t *testing.T) {
	repo := &stubTermRepo{terms: map[string]*models.Term{
		"term-1": {ID: "term-1", SessionID: "ses-1", Number: 1},
	}}
	r := termTestRouter(repo, &stubTermSessions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/terms/term-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
