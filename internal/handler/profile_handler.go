package handler

import (
	"net/http"
	"pickleball/backend/internal/database"
	"pickleball/backend/internal/models"
	"pickleball/backend/pkg/jwt"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name     string `json:"name" binding:"required" example:"Bobby"`
	Email    string `json:"email" binding:"required,email" example:"bobby@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"bobby@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the editable fields of the caller's own profile.
// Pointer fields distinguish "not sent" from zero values.
type UpdateProfileInput struct {
	Name               *string `json:"name"`
	Phone              *string `json:"phone"`
	AvatarURL          *string `json:"avatar_url"`
	WantsNotifications *bool   `json:"wants_notifications"`
	WantsRsvpUpdates   *bool   `json:"wants_rsvp_updates"`
}

// PublicProfileResponse defines the structure for a member's public profile.
type PublicProfileResponse struct {
	ID        uint    `json:"id" example:"1"`
	Name      string  `json:"name" example:"Bobby"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// PrivateProfileResponse defines the structure for the authenticated member's own profile.
type PrivateProfileResponse struct {
	ID                 uint    `json:"id" example:"1"`
	Name               string  `json:"name" example:"Bobby"`
	Email              string  `json:"email" example:"bobby@example.com"`
	Phone              *string `json:"phone,omitempty"`
	AvatarURL          *string `json:"avatar_url,omitempty"`
	Role               string  `json:"role" example:"member"`
	WantsNotifications bool    `json:"wants_notifications"`
	WantsRsvpUpdates   bool    `json:"wants_rsvp_updates"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

func newPublicProfileResponse(profile models.Profile) PublicProfileResponse {
	return PublicProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	}
}

func newPrivateProfileResponse(profile models.Profile) PrivateProfileResponse {
	return PrivateProfileResponse{
		ID:                 profile.ID,
		Name:               profile.Name,
		Email:              profile.Email,
		Phone:              profile.Phone,
		AvatarURL:          profile.AvatarURL,
		Role:               profile.Role,
		WantsNotifications: profile.WantsNotifications,
		WantsRsvpUpdates:   profile.WantsRsvpUpdates,
	}
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new member
// @Description  Creates a new profile and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Profile
	if err := database.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	profile := models.Profile{
		Name:               input.Name,
		Email:              input.Email,
		PasswordHash:       string(hashedPassword),
		Role:               "member",
		WantsNotifications: true,
		WantsRsvpUpdates:   true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	token, err := jwt.GenerateToken(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a member
// @Description  Authenticates a member with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "Profile not found"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := database.DB.Where("email = ?", input.Email).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- Profile Handlers ---

// GetMe godoc
// @Summary      Get current member's profile
// @Description  Retrieves the private profile for the currently authenticated member.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var profile models.Profile
	if err := database.DB.First(&profile, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, newPrivateProfileResponse(profile))
}

// UpdateMe godoc
// @Summary      Update current member's profile
// @Description  Updates name, phone, avatar and notification preferences for the authenticated member.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile changes"
// @Success      200  {object}  PrivateProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var profile models.Profile
	if err := database.DB.First(&profile, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.WantsNotifications != nil {
		profile.WantsNotifications = *input.WantsNotifications
	}
	if input.WantsRsvpUpdates != nil {
		profile.WantsRsvpUpdates = *input.WantsRsvpUpdates
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, newPrivateProfileResponse(profile))
}

// GetProfileByID godoc
// @Summary      Get a member's public profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  PublicProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/{id} [get]
func GetProfileByID(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return
	}

	var profile models.Profile
	if err := database.DB.First(&profile, uint(targetID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, newPublicProfileResponse(profile))
}

// ListProfiles godoc
// @Summary      List members
// @Description  Lists public profiles, used for building private-session invite lists.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  PublicProfileResponse
// @Router       /profiles [get]
func ListProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := database.DB.Order("name asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}

	responses := make([]PublicProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, newPublicProfileResponse(p))
	}

	c.JSON(http.StatusOK, responses)
}

// AdminListProfiles godoc
// @Summary      List full member profiles (Admin only)
// @Description  Lists every profile including email and notification preferences.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  PrivateProfileResponse
// @Failure      403  {object} ErrorResponse
// @Router       /admin/profiles [get]
func AdminListProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := database.DB.Order("id asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}

	responses := make([]PrivateProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, newPrivateProfileResponse(p))
	}

	c.JSON(http.StatusOK, responses)
}

// endregion

// isAdmin reports whether the given user holds the admin role.
func isAdmin(userID uint) bool {
	var profile models.Profile
	if err := database.DB.First(&profile, userID).Error; err != nil {
		return false
	}
	return profile.IsAdmin()
}
