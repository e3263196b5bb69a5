package handler

import (
	"log"
	"net/http"
	"strconv"

	"pickleball/backend/internal/database"
	"pickleball/backend/internal/models"
	"pickleball/backend/internal/pricing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// RSVPInput defines the structure for setting an RSVP status.
type RSVPInput struct {
	Status models.RSVPStatus `json:"status" binding:"required" example:"yes"`
}

// SetRSVP godoc
// @Summary      Set the caller's RSVP for a session
// @Description  Creates or updates the caller's RSVP (one row per member per session). Confirming a spot recomputes attendee-priced costs and emails the creator and confirmed players in the background.
// @Tags         rsvps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int       true  "Session ID"
// @Param        key   query string    false "Private session key"
// @Param        input body  RSVPInput true  "RSVP status"
// @Success      200 {object} RSVPResponse
// @Failure      400 {object} ErrorResponse "Invalid status"
// @Failure      404 {object} ErrorResponse "Session not found"
// @Failure      409 {object} ErrorResponse "Session is full"
// @Router       /sessions/{id}/rsvp [put]
func SetRSVP(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	var input RSVPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be yes, maybe or no"})
		return
	}

	var session models.Session
	if err := database.DB.Preload("RSVPs").First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.IsPrivate {
		viaKey := c.Query("key") != "" && c.Query("key") == session.PrivateKey
		allowed := viaKey ||
			session.CreatedBy == userID.(uint) ||
			session.IsInvited(userID.(uint)) ||
			isAdmin(userID.(uint))
		if !allowed {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
	}

	// The previous answer decides whether this transition takes a spot.
	wasYes := false
	for _, rsvp := range session.RSVPs {
		if rsvp.UserID == userID.(uint) {
			wasYes = rsvp.Status == models.RSVPStatusYes
			break
		}
	}

	// Capacity only counts confirmed attendees; maybes hold no spot.
	if input.Status == models.RSVPStatusYes && !wasYes && session.YesCount() >= session.MaxPlayers {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is full"})
		return
	}

	// Upsert keyed by (session, user): a changed answer overwrites the row,
	// it never adds another.
	rsvp := models.RSVP{
		SessionID: session.ID,
		UserID:    userID.(uint),
		Status:    input.Status,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rsvp).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save RSVP"})
		return
	}

	// Reload with the fresh answer and re-quote: attendee-priced venues change
	// cost whenever someone flips in or out of "yes".
	database.DB.Preload("RSVPs").First(&session, session.ID)
	quote := pricing.Compute(session.DateTime, session.DurationHours, session.Location, session.YesCount())
	if quote.TotalCost != session.TotalCost || quote.IsPeakTime != session.IsPeakTime {
		if err := database.DB.Model(&session).Updates(map[string]interface{}{
			"total_cost":   quote.TotalCost,
			"is_peak_time": quote.IsPeakTime,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session cost"})
			return
		}
	}

	// Only a fresh confirmation notifies; maybes, declines and repeated
	// confirmations stay quiet. Delivery is detached from this request.
	if input.Status == models.RSVPStatusYes && !wasYes && Notifier != nil {
		go notifyRSVPConfirmed(session.ID, userID.(uint))
	}

	// Re-read the row: on a conflict-update the Create above does not report
	// the surviving row's ID.
	var saved models.RSVP
	if err := database.DB.Preload("User").
		Where("session_id = ? AND user_id = ?", session.ID, userID.(uint)).
		First(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load RSVP"})
		return
	}

	c.JSON(http.StatusOK, RSVPResponse{
		ID:        saved.ID,
		UserID:    saved.UserID,
		Status:    saved.Status,
		User:      newPublicProfileResponse(saved.User),
		UpdatedAt: saved.UpdatedAt,
	})
}

// notifyRSVPConfirmed runs detached from the request: it re-reads the session
// as committed (including the new RSVP) and emails the creator and the other
// confirmed players. Failures are logged only.
func notifyRSVPConfirmed(sessionID, joinerID uint) {
	var session models.Session
	if err := database.DB.Preload("Creator").Preload("RSVPs.User").First(&session, sessionID).Error; err != nil {
		log.Printf("notify: session %d vanished before dispatch: %v", sessionID, err)
		return
	}

	var joiner models.Profile
	if err := database.DB.First(&joiner, joinerID).Error; err != nil {
		log.Printf("notify: joiner %d not found for session %d: %v", joinerID, sessionID, err)
		return
	}

	Notifier.RSVPConfirmed(session, joiner)
}
