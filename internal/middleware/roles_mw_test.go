package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"user_auth_api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// setRole stands in for the JWT middleware so role checks can be tested alone
func setRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AuthRoleKey, role)
		c.Next()
	}
}

func performWithRole(role string, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{}
	if role != "" {
		handlers = append(handlers, setRole(role))
	}
	handlers = append(handlers, guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.GET("/guarded", handlers...)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAdminMiddleware(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole(model.RoleAdmin, AdminMiddleware()).Code)
	assert.Equal(t, http.StatusForbidden, performWithRole(model.RoleUser, AdminMiddleware()).Code)
	assert.Equal(t, http.StatusForbidden, performWithRole(model.RoleVolunteer, AdminMiddleware()).Code)
}

func TestVolunteerMiddleware(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole(model.RoleVolunteer, VolunteerMiddleware()).Code)
	assert.Equal(t, http.StatusOK, performWithRole(model.RoleAdmin, VolunteerMiddleware()).Code)
	assert.Equal(t, http.StatusForbidden, performWithRole(model.RoleUser, VolunteerMiddleware()).Code)
}

func TestRoleMiddleware_NoRoleInContext(t *testing.T) {
	w := performWithRole("", RoleMiddleware(model.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Role not found")
}
