package handler

import (
	"fmt"
	"net/http"
	"testing"

	"pickleball/backend/internal/database"
	"pickleball/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRSVPUpsertsInPlace(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")
	player, playerToken := createTestProfile(t, "Alice", "alice@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)

	rsvpPath := fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID)

	w = doRequest(t, router, http.MethodPut, rsvpPath, playerToken, map[string]string{"status": "maybe"})
	require.Equal(t, http.StatusOK, w.Code)
	var first RSVPResponse
	decodeBody(t, w, &first)
	assert.Equal(t, models.RSVPStatusMaybe, first.Status)

	w = doRequest(t, router, http.MethodPut, rsvpPath, playerToken, map[string]string{"status": "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	var second RSVPResponse
	decodeBody(t, w, &second)
	assert.Equal(t, models.RSVPStatusYes, second.Status)

	// The maybe row was overwritten, not joined by a second row.
	assert.Equal(t, first.ID, second.ID)
	var count int64
	require.NoError(t, database.DB.Model(&models.RSVP{}).
		Where("session_id = ? AND user_id = ?", session.ID, player.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSetRSVPAllTransitionsAllowed(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")
	_, playerToken := createTestProfile(t, "Alice", "alice@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)
	rsvpPath := fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID)

	// yes -> maybe -> no -> yes: no terminal state anywhere.
	for _, status := range []string{"yes", "maybe", "no", "yes"} {
		w = doRequest(t, router, http.MethodPut, rsvpPath, playerToken, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}
}

func TestSetRSVPRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)

	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID), ownerToken, map[string]string{"status": "perhaps"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetRSVPCapacity(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")
	_, aliceToken := createTestProfile(t, "Alice", "alice@example.com", "member")
	_, carolToken := createTestProfile(t, "Carol", "carol@example.com", "member")
	_, daveToken := createTestProfile(t, "Dave", "dave@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(map[string]interface{}{
		"max_players": 2,
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)
	rsvpPath := fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID)

	for _, token := range []string{aliceToken, carolToken} {
		w = doRequest(t, router, http.MethodPut, rsvpPath, token, map[string]string{"status": "yes"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Third confirmation bounces; a maybe holds no spot and still goes through.
	w = doRequest(t, router, http.MethodPut, rsvpPath, daveToken, map[string]string{"status": "yes"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doRequest(t, router, http.MethodPut, rsvpPath, daveToken, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusOK, w.Code)

	// A player already confirmed may re-send yes without hitting the cap.
	w = doRequest(t, router, http.MethodPut, rsvpPath, aliceToken, map[string]string{"status": "yes"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRSVPRecomputesAttendeePricedCost(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")
	_, aliceToken := createTestProfile(t, "Alice", "alice@example.com", "member")
	_, carolToken := createTestProfile(t, "Carol", "carol@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(map[string]interface{}{
		"location":       "Stackd Hopewell",
		"duration_hours": 1,
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)
	// 400 * 1 hour, nobody confirmed.
	assert.Equal(t, 400.0, session.TotalCost)

	rsvpPath := fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID)
	sessionPath := fmt.Sprintf("/api/v1/sessions/%d", session.ID)

	w = doRequest(t, router, http.MethodPut, rsvpPath, aliceToken, map[string]string{"status": "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodPut, rsvpPath, carolToken, map[string]string{"status": "yes"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, sessionPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched SessionResponse
	decodeBody(t, w, &fetched)
	// 400 + 100 per confirmed head, split between the two of them.
	assert.Equal(t, 600.0, fetched.TotalCost)
	assert.Equal(t, 300.0, fetched.CostPerPerson)
	assert.Equal(t, 2, fetched.YesCount)

	// Dropping back out removes the per-head charge again.
	w = doRequest(t, router, http.MethodPut, rsvpPath, carolToken, map[string]string{"status": "no"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, sessionPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &fetched)
	assert.Equal(t, 500.0, fetched.TotalCost)
	assert.Equal(t, 1, fetched.YesCount)
}

func TestSetRSVPOnPrivateSessionNeedsAccess(t *testing.T) {
	router := newTestRouter(t)
	_, ownerToken := createTestProfile(t, "Bobby", "bobby@example.com", "member")
	invited, invitedToken := createTestProfile(t, "Alice", "alice@example.com", "member")
	_, strangerToken := createTestProfile(t, "Mallory", "mallory@example.com", "member")

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions", ownerToken, sessionPayload(map[string]interface{}{
		"is_private":       true,
		"invited_user_ids": []uint{invited.ID},
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	var session SessionResponse
	decodeBody(t, w, &session)
	rsvpPath := fmt.Sprintf("/api/v1/sessions/%d/rsvp", session.ID)

	w = doRequest(t, router, http.MethodPut, rsvpPath, strangerToken, map[string]string{"status": "yes"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPut, rsvpPath, invitedToken, map[string]string{"status": "yes"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The shared key grants the same access an invite does.
	w = doRequest(t, router, http.MethodPut, rsvpPath+"?key="+session.PrivateKey, strangerToken, map[string]string{"status": "yes"})
	assert.Equal(t, http.StatusOK, w.Code)
}
