package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pastvault/asset-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Expire = 3600
	return cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testEnvConfig()
	userID := uuid.New()

	token, err := GenerateToken(userID, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.String(), claims["user_id"])
}

func TestParseToken_WrongSecret(t *testing.T) {
	cfg := testEnvConfig()
	token, err := GenerateToken(uuid.New(), cfg)
	require.NoError(t, err)

	other := testEnvConfig()
	other.JWT.SecretKey = "different-secret"
	_, err = ParseToken(token, other)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Bearer header
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(c))

	// Cookie wins over header
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	c.Request.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "cookie-token", ExtractToken(c))

	// Nothing present
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ExtractToken(c))
}

func TestInjectClaimsToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.NoError(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": userID.String()}))

	got, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	assert.Error(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": "not-a-uuid"}))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	assert.Error(t, InjectClaimsToContext(c, jwt.MapClaims{}))
}
