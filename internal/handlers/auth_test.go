package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"projectdesk/internal/constants"
	"projectdesk/internal/database"
	"projectdesk/internal/models"
	"projectdesk/internal/repository"
	"projectdesk/internal/services"
)

func setupAuthTestEnv(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	accountRepo := repository.NewAccountRepository(db)
	authService := services.NewAuthService(accountRepo)
	handler := NewAuthHandler(authService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)

	return db, r
}

func seedLoginAccount(t *testing.T, db *gorm.DB, email, password string, disabled bool) *models.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	account := &models.Account{
		Email:         email,
		PasswordHash:  string(hash),
		SecurityStamp: "stamp-1",
		Role:          models.RoleWorker,
		IsDisabled:    disabled,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	db, r := setupAuthTestEnv(t)
	seedLoginAccount(t, db, "worker1@example.com", "password123", false)

	w := postLogin(r, `{"email":"worker1@example.com","password":"password123"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "worker1@example.com")
	require.NotEmpty(t, w.Result().Cookies(), "login should set a session cookie")
	require.NotContains(t, w.Body.String(), "password", "response must not leak credentials")
}

func TestLogin_WrongPassword(t *testing.T) {
	db, r := setupAuthTestEnv(t)
	seedLoginAccount(t, db, "worker1@example.com", "password123", false)

	w := postLogin(r, `{"email":"worker1@example.com","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, r := setupAuthTestEnv(t)

	w := postLogin(r, `{"email":"nobody@example.com","password":"password123"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	db, r := setupAuthTestEnv(t)
	seedLoginAccount(t, db, "worker1@example.com", "password123", true)

	// Disabled accounts fail exactly like bad credentials
	w := postLogin(r, `{"email":"worker1@example.com","password":"password123"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InvalidBody(t *testing.T) {
	_, r := setupAuthTestEnv(t)

	w := postLogin(r, `{"email":"not-an-email"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	db, r := setupAuthTestEnv(t)
	seedLoginAccount(t, db, "worker1@example.com", "password123", false)

	login := postLogin(r, `{"email":"worker1@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	db, _ := setupAuthTestEnv(t)
	account := seedLoginAccount(t, db, "worker1@example.com", "password123", false)

	accountRepo := repository.NewAccountRepository(db)
	handler := NewAuthHandler(services.NewAuthService(accountRepo))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(constants.ContextKeyIdentity, models.Identity{
		AccountID: account.ID,
		Username:  account.Email,
		Role:      account.Role,
	})

	handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "worker1@example.com")
}
