package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aperturelog/aperture/config"
)

func testEnvConfig(secret string) *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = secret
	cfg.JWT.Expire = 3600
	return cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testEnvConfig("test-secret")
	userID := uuid.New()
	sessionID := uuid.New()

	tokenString, err := GenerateToken(userID, sessionID, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := ParseToken(tokenString, cfg)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.String(), claims["user_id"])
	assert.Equal(t, sessionID.String(), claims["session_id"])
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken(uuid.New(), uuid.New(), testEnvConfig(""))
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(uuid.New(), uuid.New(), testEnvConfig("secret-a"))
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testEnvConfig("secret-b"))
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		return c
	}

	t.Run("from cookie", func(t *testing.T) {
		c := newContext()
		c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		assert.Equal(t, "cookie-token", ExtractToken(c))
	})

	t.Run("from bearer header", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", ExtractToken(c))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		c := newContext()
		c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		c.Request.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", ExtractToken(c))
	})

	t.Run("malformed header", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("Authorization", "header-token")
		assert.Equal(t, "", ExtractToken(c))
	})

	t.Run("nothing present", func(t *testing.T) {
		assert.Equal(t, "", ExtractToken(newContext()))
	})
}

func TestInjectClaimsToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	sessionID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	err := InjectClaimsToContext(c, jwt.MapClaims{
		"user_id":    userID.String(),
		"session_id": sessionID.String(),
	})
	require.NoError(t, err)

	got, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, sessionID.String(), c.GetString("session_id"))
}

func TestInjectClaimsToContextRejectsBadClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	err := InjectClaimsToContext(c, jwt.MapClaims{
		"user_id":    "not-a-uuid",
		"session_id": uuid.New().String(),
	})
	assert.Error(t, err)
}
