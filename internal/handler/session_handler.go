package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"pickleball/backend/internal/database"
	"pickleball/backend/internal/models"
	"pickleball/backend/internal/notify"
	"pickleball/backend/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notifier dispatches notification emails for session events. Set from main
// at startup; handlers skip notifications when it is nil (tests).
var Notifier *notify.Dispatcher

// region --- DTOs ---

type SessionInput struct {
	Title          string    `json:"title" binding:"required"`
	DateTime       time.Time `json:"date_time" binding:"required"`
	Location       string    `json:"location" binding:"required"`
	MaxPlayers     int       `json:"max_players" binding:"required,min=2"`
	DurationHours  float64   `json:"duration_hours" binding:"required"`
	Notes          string    `json:"notes"`
	IsPrivate      bool      `json:"is_private"`
	InvitedUserIDs []uint    `json:"invited_user_ids"`
}

type RSVPResponse struct {
	ID        uint                  `json:"id"`
	UserID    uint                  `json:"user_id"`
	Status    models.RSVPStatus     `json:"status"`
	User      PublicProfileResponse `json:"user"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type SessionResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	DateTime      time.Time `json:"date_time"`
	Location      string    `json:"location"`
	MaxPlayers    int       `json:"max_players"`
	DurationHours float64   `json:"duration_hours"`
	Notes         string    `json:"notes,omitempty"`

	TotalCost     float64 `json:"total_cost"`
	IsPeakTime    bool    `json:"is_peak_time"`
	CostPerPerson float64 `json:"cost_per_person"`
	YesCount      int     `json:"yes_count"`

	IsPrivate      bool   `json:"is_private"`
	PrivateKey     string `json:"private_key,omitempty"`
	InvitedUserIDs []uint `json:"invited_user_ids,omitempty"`

	Creator PublicProfileResponse `json:"creator"`
	RSVPs   []RSVPResponse        `json:"rsvps"`

	CreatedAt time.Time `json:"created_at"`
}

// newSessionResponse maps a session (with Creator and RSVPs preloaded) to its
// API shape. includeKey controls whether the private key and invite list are
// exposed; only the creator, an admin, or a caller who arrived via the key
// should see them.
func newSessionResponse(session models.Session, includeKey bool) SessionResponse {
	rsvpResponses := make([]RSVPResponse, 0, len(session.RSVPs))
	for _, rsvp := range session.RSVPs {
		rsvpResponses = append(rsvpResponses, RSVPResponse{
			ID:        rsvp.ID,
			UserID:    rsvp.UserID,
			Status:    rsvp.Status,
			User:      newPublicProfileResponse(rsvp.User),
			UpdatedAt: rsvp.UpdatedAt,
		})
	}

	yesCount := session.YesCount()
	response := SessionResponse{
		ID:            session.ID,
		Title:         session.Title,
		DateTime:      session.DateTime,
		Location:      session.Location,
		MaxPlayers:    session.MaxPlayers,
		DurationHours: session.DurationHours,
		Notes:         session.Notes,
		TotalCost:     session.TotalCost,
		IsPeakTime:    session.IsPeakTime,
		CostPerPerson: pricing.RoundForDisplay(pricing.CostPerPerson(session.TotalCost, yesCount)),
		YesCount:      yesCount,
		IsPrivate:     session.IsPrivate,
		Creator:       newPublicProfileResponse(session.Creator),
		RSVPs:         rsvpResponses,
		CreatedAt:     session.CreatedAt,
	}

	if includeKey {
		response.PrivateKey = session.PrivateKey
		response.InvitedUserIDs = session.InvitedUserIDs
	}

	return response
}

// endregion

// CreateSession godoc
// @Summary      Create a session
// @Description  Creates a play session. Cost and peak flag are computed server-side from time, duration and venue. Eligible members are emailed in the background.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SessionInput true "Session Info"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /sessions [post]
func CreateSession(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !pricing.ValidDuration(input.DurationHours) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session duration"})
		return
	}

	// No confirmed attendees yet, so attendee-priced venues start at zero heads.
	quote := pricing.Compute(input.DateTime, input.DurationHours, input.Location, 0)

	session := models.Session{
		CreatedBy:     userID.(uint),
		Title:         input.Title,
		DateTime:      input.DateTime,
		Location:      input.Location,
		MaxPlayers:    input.MaxPlayers,
		DurationHours: input.DurationHours,
		Notes:         input.Notes,
		TotalCost:     quote.TotalCost,
		IsPeakTime:    quote.IsPeakTime,
		IsPrivate:     input.IsPrivate,
	}
	if input.IsPrivate {
		session.PrivateKey = uuid.NewString()
		session.InvitedUserIDs = datatypes.JSONSlice[uint](input.InvitedUserIDs)
	}

	if err := database.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	database.DB.Preload("Creator").Preload("RSVPs.User").First(&session, session.ID)

	// Email delivery is detached: the session is committed whatever happens
	// to the notifications.
	if Notifier != nil {
		go notifySessionCreated(session.ID)
	}

	c.JSON(http.StatusCreated, newSessionResponse(session, true))
}

// SearchSessions godoc
// @Summary      List sessions
// @Description  Lists upcoming sessions by default. Private sessions are only visible to their creator; others reach them via the shared key.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        from         query string false "Only sessions starting at or after this RFC3339 time"
// @Param        to           query string false "Only sessions starting before this RFC3339 time"
// @Param        include_past query bool   false "Include sessions that already started"
// @Param        page         query int    false "Page number" default(1)
// @Param        limit        query int    false "Items per page" default(20)
// @Success      200 {object} PaginatedResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /sessions [get]
func SearchSessions(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	query := database.DB.Model(&models.Session{}).
		Preload("Creator").
		Preload("RSVPs.User").
		Where("is_private = ? OR created_by = ?", false, viewerID.(uint)).
		Order("date_time asc")

	if from := c.Query("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
			return
		}
		query = query.Where("date_time >= ?", fromTime)
	} else if c.Query("include_past") != "true" {
		query = query.Where("date_time >= ?", time.Now())
	}
	if to := c.Query("to"); to != "" {
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
			return
		}
		query = query.Where("date_time < ?", toTime)
	}

	result, err := Paginate[models.Session](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	admin := isAdmin(viewerID.(uint))
	responses := make([]SessionResponse, 0, len(result.Data))
	for _, session := range result.Data {
		includeKey := admin || session.CreatedBy == viewerID.(uint)
		responses = append(responses, newSessionResponse(session, includeKey))
	}

	c.JSON(http.StatusOK, PaginatedResponse[SessionResponse]{Data: responses, Meta: result.Meta})
}

// GetSessionByID godoc
// @Summary      Get a session by ID
// @Description  Gets full details for a single session including RSVPs and the cost split. Private sessions require the creator, an invitee, an admin, or the right key.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int    true  "Session ID"
// @Param        key query string false "Private session key"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [get]
func GetSessionByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	var session models.Session
	if err := database.DB.Preload("Creator").Preload("RSVPs.User").First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	admin := isAdmin(viewerID.(uint))
	viaKey := c.Query("key") != "" && c.Query("key") == session.PrivateKey
	if session.IsPrivate {
		allowed := admin || viaKey ||
			session.CreatedBy == viewerID.(uint) ||
			session.IsInvited(viewerID.(uint))
		if !allowed {
			// Hidden, not forbidden: do not leak that the session exists.
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
	}

	includeKey := admin || viaKey || session.CreatedBy == viewerID.(uint)
	c.JSON(http.StatusOK, newSessionResponse(session, includeKey))
}

// GetPrivateSession godoc
// @Summary      Look up a private session by its key
// @Description  Resolves a shared private-session link. No authentication required; possession of the key is the credential.
// @Tags         sessions
// @Produce      json
// @Param        key query string true "Private session key"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} ErrorResponse "Key required"
// @Failure      404 {object} ErrorResponse "Session not found or invalid key"
// @Router       /sessions/private [get]
func GetPrivateSession(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Private key required"})
		return
	}

	var session models.Session
	err := database.DB.Preload("Creator").Preload("RSVPs.User").
		Where("private_key = ? AND is_private = ?", key, true).
		First(&session).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or invalid key"})
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session, true))
}

// UpdateSession godoc
// @Summary      Update a session (creator or admin)
// @Description  Updates session details and recomputes cost and peak flag from the new time, duration and venue.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Session ID"
// @Param        input body SessionInput true "New Session Info"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Only the creator or an admin can update the session"
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [put]
func UpdateSession(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	var session models.Session
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.CreatedBy != viewerID.(uint) && !isAdmin(viewerID.(uint)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an admin can update the session"})
		return
	}

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !pricing.ValidDuration(input.DurationHours) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session duration"})
		return
	}

	var yesCount int64
	database.DB.Model(&models.RSVP{}).
		Where("session_id = ? AND status = ?", session.ID, models.RSVPStatusYes).
		Count(&yesCount)

	// Derived fields follow the new time/duration/venue, never the client.
	quote := pricing.Compute(input.DateTime, input.DurationHours, input.Location, int(yesCount))

	session.Title = input.Title
	session.DateTime = input.DateTime
	session.Location = input.Location
	session.MaxPlayers = input.MaxPlayers
	session.DurationHours = input.DurationHours
	session.Notes = input.Notes
	session.TotalCost = quote.TotalCost
	session.IsPeakTime = quote.IsPeakTime

	if input.IsPrivate && !session.IsPrivate {
		session.PrivateKey = uuid.NewString()
	}
	if !input.IsPrivate {
		session.PrivateKey = ""
		session.InvitedUserIDs = nil
	} else {
		session.InvitedUserIDs = datatypes.JSONSlice[uint](input.InvitedUserIDs)
	}
	session.IsPrivate = input.IsPrivate

	if err := database.DB.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}

	database.DB.Preload("Creator").Preload("RSVPs.User").First(&session, session.ID)
	c.JSON(http.StatusOK, newSessionResponse(session, true))
}

// DeleteSession godoc
// @Summary      Delete a session (creator or admin)
// @Description  Deletes a session and all of its RSVPs.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} map[string]string "{"message": "Session deleted"}"
// @Failure      403 {object} ErrorResponse "Only the creator or an admin can delete the session"
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [delete]
func DeleteSession(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	var session models.Session
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.CreatedBy != viewerID.(uint) && !isAdmin(viewerID.(uint)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an admin can delete the session"})
		return
	}

	// Use a transaction so no orphaned RSVPs survive a partial delete.
	tx := database.DB.Begin()

	if err := tx.Unscoped().Where("session_id = ?", session.ID).Delete(&models.RSVP{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session RSVPs"})
		return
	}
	if err := tx.Delete(&session).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// notifySessionCreated runs detached from the request: it re-reads the
// committed session, gathers the candidate audience and hands off to the
// dispatcher. Failures are logged only.
func notifySessionCreated(sessionID uint) {
	var session models.Session
	if err := database.DB.Preload("Creator").Preload("RSVPs.User").First(&session, sessionID).Error; err != nil {
		log.Printf("notify: session %d vanished before dispatch: %v", sessionID, err)
		return
	}

	var profiles []models.Profile
	if err := database.DB.Where("wants_notifications = ?", true).Find(&profiles).Error; err != nil {
		log.Printf("notify: failed to load recipients for session %d: %v", sessionID, err)
		return
	}

	Notifier.SessionCreated(session, profiles)
}
