package main

import (
	"fmt"
	"log"
	"net/http"

	"pickleball/backend/internal/auth"
	"pickleball/backend/internal/config"
	"pickleball/backend/internal/database"
	"pickleball/backend/internal/handler"
	"pickleball/backend/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "pickleball/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Pickleball Crew API
// @version         1.0
// @description     Session booking and RSVP coordination for the Pickleball Crew.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Outbound email goes through Resend; handlers fire notifications in the
	// background after the triggering write is committed.
	handler.Notifier = notify.NewDispatcher(
		notify.NewResendSender(config.AppConfig.ResendAPIKey),
		config.AppConfig.EmailFrom,
		config.AppConfig.AppURL,
	)

	router := gin.Default()

	// The web client runs on a different origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Private-session lookup by shared key; the key is the credential,
		// a token only adds the viewer's identity if present.
		apiV1.GET("/sessions/private", auth.OptionalAuthMiddleware(), handler.GetPrivateSession)

		// Profile routes (protected)
		profileRoutes := apiV1.Group("/profiles")
		profileRoutes.Use(auth.AuthMiddleware())
		{
			profileRoutes.GET("", handler.ListProfiles)
			profileRoutes.GET("/me", handler.GetMe)
			profileRoutes.PUT("/me", handler.UpdateMe)
			profileRoutes.GET("/:id", handler.GetProfileByID)
		}

		// Session routes (protected)
		sessionRoutes := apiV1.Group("/sessions")
		sessionRoutes.Use(auth.AuthMiddleware())
		{
			sessionRoutes.POST("", handler.CreateSession)
			sessionRoutes.GET("", handler.SearchSessions)
			sessionRoutes.GET("/:id", handler.GetSessionByID)
			sessionRoutes.PUT("/:id", handler.UpdateSession)
			sessionRoutes.DELETE("/:id", handler.DeleteSession)
			sessionRoutes.PUT("/:id/rsvp", handler.SetRSVP)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.GET("/profiles", handler.AdminListProfiles)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(addr))
}
