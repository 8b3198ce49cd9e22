package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/samses-ng/samses-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	})
	handlers := append(guards, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/schools/:id", handlers...)
	return r
}

func TestRequireRolesAdmitsListedRole(t *testing.T) {
	r := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleMinistryAdmin},
		RequireRoles(models.RoleMinistryAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRejectsOtherRoles(t *testing.T) {
	r := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleAuditor},
		RequireRoles(models.RoleMinistryAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	r := rbacRouter(nil, RequireRoles(models.RoleMinistryAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSchoolScopeBindsSchoolAdminToOwnSchool(t *testing.T) {
	schoolID := "sch-1"
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleSchoolAdmin, SchoolID: &schoolID}
	r := rbacRouter(claims, SchoolScope("id"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/schools/sch-2", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "different school")
}

func TestSchoolScopePassesMinistryRoles(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleMinistryAdmin}
	r := rbacRouter(claims, SchoolScope("id"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-9", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSchoolScopeRejectsAdminWithoutBinding(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleSchoolAdmin}
	r := rbacRouter(claims, SchoolScope("id"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schools/sch-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
