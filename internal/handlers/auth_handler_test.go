package handlers

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/middleware"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthHandler(db *gorm.DB) *AuthHandler {
	return NewAuthHandler(repositories.NewPostgresUserRepository(db), nil)
}

const registerBody = `{"name":"Alice","username":"alice","email":"alice@example.com","password":"secret1"}`

func TestRegisterAndLogin(t *testing.T) {
	e, db := setupTestEnv(t)
	h := newAuthHandler(db)

	c, rec := newContext(e, http.MethodPost, "/api/v1/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var stored models.User
	require.NoError(t, db.First(&stored).Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Equal(t, models.RoleStandard, stored.Role)

	c, rec = newContext(e, http.MethodPost, "/api/v1/auth/login", `{"email":"alice@example.com","password":"secret1"}`, 0, "")
	require.NoError(t, h.Login(c))
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	tokenString, _ := data["token"].(string)
	require.NotEmpty(t, tokenString)

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(middleware.Secret()), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, models.RoleStandard, claims.Role)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	e, db := setupTestEnv(t)
	h := newAuthHandler(db)

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))

	c, _ = newContext(e, http.MethodPost, "/api/v1/auth/register", registerBody, 0, "")
	err := h.Register(c)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e, db := setupTestEnv(t)
	h := newAuthHandler(db)

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))

	c, _ = newContext(e, http.MethodPost, "/api/v1/auth/login", `{"email":"alice@example.com","password":"wrong"}`, 0, "")
	err := h.Login(c)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	c, _ = newContext(e, http.MethodPost, "/api/v1/auth/login", `{"email":"ghost@example.com","password":"secret1"}`, 0, "")
	err = h.Login(c)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	e, db := setupTestEnv(t)
	h := newAuthHandler(db)

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/register", registerBody, 0, "")
	require.NoError(t, h.Register(c))
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").Update("active", false).Error)

	c, _ = newContext(e, http.MethodPost, "/api/v1/auth/login", `{"email":"alice@example.com","password":"secret1"}`, 0, "")
	err := h.Login(c)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestFirebaseLoginUnconfigured(t *testing.T) {
	e, db := setupTestEnv(t)
	h := newAuthHandler(db)

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/firebase-login", `{"id_token":"x"}`, 0, "")
	err := h.FirebaseLogin(c)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
