package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "suratdesa/internal/core/context"
	"suratdesa/internal/domain/auth"
)

func newRoleGuardRouter(user *appctx.UserContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	if user != nil {
		r.Use(func(c *gin.Context) {
			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
		})
	}
	r.POST("/guarded", RequireRole(auth.RoleOperator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func postGuarded(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole_OperatorPasses(t *testing.T) {
	r := newRoleGuardRouter(&appctx.UserContext{
		UserID:   "u1",
		Username: "petugas",
		Roles:    []string{auth.RoleOperator},
	})

	w := postGuarded(t, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_AdminBypassesRoleCheck(t *testing.T) {
	r := newRoleGuardRouter(&appctx.UserContext{
		UserID:   "u2",
		Username: "kades",
		Roles:    []string{auth.RoleAdmin},
		IsAdmin:  true,
	})

	w := postGuarded(t, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_MissingRoleForbidden(t *testing.T) {
	r := newRoleGuardRouter(&appctx.UserContext{
		UserID:   "u3",
		Username: "tamu",
		Roles:    []string{"viewer"},
	})

	w := postGuarded(t, r)
	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestRequireRole_NoUserUnauthorized(t *testing.T) {
	r := newRoleGuardRouter(nil)

	w := postGuarded(t, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
