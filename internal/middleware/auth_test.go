package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"photomarket/internal/pkg/jwt"
)

func protectedRouter(tokens *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(tokens))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tokens := jwt.New("test-secret-123", time.Hour)
	token, _ := tokens.Generate(42, "client")
	router := protectedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), `"role":"client"`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router := protectedRouter(jwt.New("test-secret-123", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	other := jwt.New("other-secret", time.Hour)
	token, _ := other.Generate(42, "client")
	router := protectedRouter(jwt.New("test-secret-123", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func cronRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CronSecret(secret))
	router.POST("/jobs/run", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCronSecret_Valid(t *testing.T) {
	router := cronRouter("sweep-secret")

	req := httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	req.Header.Set("X-Cron-Secret", "sweep-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCronSecret_Invalid(t *testing.T) {
	router := cronRouter("sweep-secret")

	req := httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	req.Header.Set("X-Cron-Secret", "guess")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCronSecret_Unconfigured(t *testing.T) {
	router := cronRouter("")

	req := httptest.NewRequest(http.MethodPost, "/jobs/run", nil)
	req.Header.Set("X-Cron-Secret", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
