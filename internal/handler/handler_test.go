package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pickleball/backend/internal/auth"
	"pickleball/backend/internal/config"
	"pickleball/backend/internal/database"
	"pickleball/backend/internal/models"
	"pickleball/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter swaps the global DB for an in-memory SQLite database and
// wires the same routes as cmd/server.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret", AppURL: "http://localhost:3000"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Session{}, &models.RSVP{}))
	database.DB = db
	Notifier = nil

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", RegisterUser)
	authRoutes.POST("/login", LoginUser)

	apiV1.GET("/sessions/private", auth.OptionalAuthMiddleware(), GetPrivateSession)

	profileRoutes := apiV1.Group("/profiles")
	profileRoutes.Use(auth.AuthMiddleware())
	profileRoutes.GET("", ListProfiles)
	profileRoutes.GET("/me", GetMe)
	profileRoutes.PUT("/me", UpdateMe)
	profileRoutes.GET("/:id", GetProfileByID)

	sessionRoutes := apiV1.Group("/sessions")
	sessionRoutes.Use(auth.AuthMiddleware())
	sessionRoutes.POST("", CreateSession)
	sessionRoutes.GET("", SearchSessions)
	sessionRoutes.GET("/:id", GetSessionByID)
	sessionRoutes.PUT("/:id", UpdateSession)
	sessionRoutes.DELETE("/:id", DeleteSession)
	sessionRoutes.PUT("/:id/rsvp", SetRSVP)

	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	adminRoutes.GET("/profiles", AdminListProfiles)

	return router
}

// createTestProfile inserts a profile and returns it with a valid token.
func createTestProfile(t *testing.T, name, email, role string) (models.Profile, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	profile := models.Profile{
		Name:               name,
		Email:              email,
		PasswordHash:       string(hash),
		Role:               role,
		WantsNotifications: true,
		WantsRsvpUpdates:   true,
	}
	require.NoError(t, database.DB.Create(&profile).Error)

	token, err := jwt.GenerateToken(profile.ID)
	require.NoError(t, err)

	return profile, token
}

// doRequest performs a JSON request against the router.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
