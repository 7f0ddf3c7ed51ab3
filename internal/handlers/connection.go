package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/types"
	"github.com/peerlink-dev/peerlink/internal/utils"
	"gorm.io/gorm"
)

type ProfileWithStatus struct {
	Profile types.ProfileResponse `json:"profile"`
	Status  string                `json:"status"`
}

type ConnectionSummary struct {
	ID            uint            `json:"id"`
	FromUserID    uint            `json:"from_user_id"`
	ToUserID      uint            `json:"to_user_id"`
	IsAccepted    bool            `json:"is_accepted"`
	MeetScheduled bool            `json:"meet_scheduled"`
	Meeting       *MeetingSummary `json:"meeting"`
}

type MeetingSummary struct {
	ID            uint      `json:"id"`
	ConnectionID  uint      `json:"connection_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Description   string    `json:"description"`
}

type ConnectionsResponse struct {
	Profile            types.ProfileResponse   `json:"profile"`
	ProfilesWithStatus []ProfileWithStatus     `json:"profiles_with_status"`
	PendingRequests    []ConnectionSummary     `json:"pending_requests"`
	SentRequests       []ConnectionSummary     `json:"sent_requests"`
	ConnectedProfiles  []types.ProfileResponse `json:"connected_profiles"`
	Connections        []ConnectionSummary     `json:"connections"`
}

// ListConnections renders the connections page state: every other student
// bucketed by request status, the pending request lists in both directions,
// and the accepted connections with their current meeting.
func ListConnections(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var ownProfile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&ownProfile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			log.Printf("Failed to fetch profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var pendingIncoming []models.Connection

	if err := db.DB.Where("to_user_id = ? AND is_accepted = ?", userID, false).Find(&pendingIncoming).Error; err != nil {
		log.Printf("Failed to fetch pending requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var pendingOutgoing []models.Connection

	if err := db.DB.Where("from_user_id = ? AND is_accepted = ?", userID, false).Find(&pendingOutgoing).Error; err != nil {
		log.Printf("Failed to fetch sent requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	accepted, err := acceptedConnections(userID)

	if err != nil {
		log.Printf("Failed to fetch connections: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	connectedIDs := counterpartIDs(accepted, userID)

	var connectedProfiles []models.Profile

	if len(connectedIDs) > 0 {
		if err := db.DB.Where("user_id IN ?", connectedIDs).Find(&connectedProfiles).Error; err != nil {
			log.Printf("Failed to fetch connected profiles: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	var otherProfiles []models.Profile

	if err := db.DB.Where("user_id != ?", userID).Find(&otherProfiles).Error; err != nil {
		log.Printf("Failed to fetch profiles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sentTo := make(map[uint]bool)
	for _, conn := range pendingOutgoing {
		sentTo[conn.ToUserID] = true
	}

	receivedFrom := make(map[uint]bool)
	for _, conn := range pendingIncoming {
		receivedFrom[conn.FromUserID] = true
	}

	connected := make(map[uint]bool)
	for _, id := range connectedIDs {
		connected[id] = true
	}

	profilesWithStatus := make([]ProfileWithStatus, 0, len(otherProfiles))

	for _, profile := range otherProfiles {
		// Precedence: sent > received > connected (hidden) > none.
		switch {
		case sentTo[profile.UserID]:
			profilesWithStatus = append(profilesWithStatus, ProfileWithStatus{profileResponse(profile), types.StatusRequestSent})
		case receivedFrom[profile.UserID]:
			profilesWithStatus = append(profilesWithStatus, ProfileWithStatus{profileResponse(profile), types.StatusRequestReceived})
		case connected[profile.UserID]:
			continue
		default:
			profilesWithStatus = append(profilesWithStatus, ProfileWithStatus{profileResponse(profile), types.StatusNoRequestSent})
		}
	}

	connections := make([]ConnectionSummary, 0, len(accepted))

	for _, conn := range accepted {
		summary := connectionSummary(conn)

		var meeting models.Meeting

		err := db.DB.Where("connection_id = ?", conn.ID).Order("id").First(&meeting).Error

		if err == nil {
			summary.Meeting = &MeetingSummary{
				ID:            meeting.ID,
				ConnectionID:  meeting.ConnectionID,
				ScheduledTime: meeting.ScheduledTime,
				Description:   meeting.Description,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to fetch meeting: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		connections = append(connections, summary)
	}

	pending := make([]ConnectionSummary, 0, len(pendingIncoming))
	for _, conn := range pendingIncoming {
		pending = append(pending, connectionSummary(conn))
	}

	sent := make([]ConnectionSummary, 0, len(pendingOutgoing))
	for _, conn := range pendingOutgoing {
		sent = append(sent, connectionSummary(conn))
	}

	connectedResponses := make([]types.ProfileResponse, 0, len(connectedProfiles))
	for _, profile := range connectedProfiles {
		connectedResponses = append(connectedResponses, profileResponse(profile))
	}

	ctx.JSON(http.StatusOK, ConnectionsResponse{
		Profile:            profileResponse(ownProfile),
		ProfilesWithStatus: profilesWithStatus,
		PendingRequests:    pending,
		SentRequests:       sent,
		ConnectedProfiles:  connectedResponses,
		Connections:        connections,
	})
}

// SendRequest creates a pending connection request addressed by user id.
// Resending while a pending request exists is rejected; anything else,
// including re-requesting after a rejection, goes through.
func SendRequest(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, err := utils.ParseIDParam(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.User

	if err := db.DB.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var existing models.Connection

	err = db.DB.Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", userID, target.ID, false).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "You have already sent a connection request to this user"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	connection := models.Connection{
		FromUserID: userID,
		ToUserID:   target.ID,
		IsAccepted: false,
	}

	if err := db.DB.Create(&connection).Error; err != nil {
		log.Printf("Failed to create connection request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send connection request"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Connection request sent to " + target.Name,
		"connection": connectionSummary(connection),
	})
}

// SendConnection is the profile-addressed variant of SendRequest. Unlike
// SendRequest it refuses while ANY prior row to the target exists, accepted
// or not.
func SendConnection(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profileID, err := utils.ParseIDParam(ctx, "profile_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile

	if err := db.DB.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			log.Printf("Failed to fetch profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var existing models.Connection

	err = db.DB.Where("from_user_id = ? AND to_user_id = ?", userID, profile.UserID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "You have already sent a connection request to this user"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	connection := models.Connection{
		FromUserID: userID,
		ToUserID:   profile.UserID,
		IsAccepted: false,
	}

	if err := db.DB.Create(&connection).Error; err != nil {
		log.Printf("Failed to create connection request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send connection request"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Connection request sent",
		"connection": connectionSummary(connection),
	})
}

// AcceptRequest marks the request accepted and creates the reciprocal row.
// Both writes land in one transaction so an accepted relationship is never
// missing its mirror edge.
func AcceptRequest(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	connID, err := utils.ParseIDParam(ctx, "conn_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var connection models.Connection

	if err := db.DB.First(&connection, connID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Connection request not found"})
		} else {
			log.Printf("Failed to fetch connection: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if connection.ToUserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to accept this request"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&connection).Update("is_accepted", true).Error; err != nil {
			return err
		}

		reciprocal := models.Connection{
			FromUserID: connection.ToUserID,
			ToUserID:   connection.FromUserID,
			IsAccepted: true,
		}

		return tx.Create(&reciprocal).Error
	})

	if err != nil {
		log.Printf("Failed to accept connection: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept connection request"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Connection request accepted"})
}

// RejectRequest removes the request row. A rejected request is therefore
// indistinguishable from one never sent and the sender may try again.
func RejectRequest(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	connID, err := utils.ParseIDParam(ctx, "conn_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var connection models.Connection

	if err := db.DB.First(&connection, connID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Connection request not found"})
		} else {
			log.Printf("Failed to fetch connection: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if connection.ToUserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to reject this request"})
		return
	}

	if err := db.DB.Delete(&connection).Error; err != nil {
		log.Printf("Failed to reject connection: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject connection request"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Connection request rejected"})
}

// acceptedConnections returns every accepted row touching the user, in
// either direction.
func acceptedConnections(userID uint) ([]models.Connection, error) {
	var connections []models.Connection

	err := db.DB.Where("(from_user_id = ? OR to_user_id = ?) AND is_accepted = ?", userID, userID, true).Find(&connections).Error

	return connections, err
}

// counterpartIDs derives the distinct set of users on the other end of the
// given connections.
func counterpartIDs(connections []models.Connection, userID uint) []uint {
	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(connections))

	for _, conn := range connections {
		other := conn.FromUserID
		if other == userID {
			other = conn.ToUserID
		}
		if other == userID || seen[other] {
			continue
		}
		seen[other] = true
		ids = append(ids, other)
	}

	return ids
}

func connectionSummary(conn models.Connection) ConnectionSummary {
	return ConnectionSummary{
		ID:            conn.ID,
		FromUserID:    conn.FromUserID,
		ToUserID:      conn.ToUserID,
		IsAccepted:    conn.IsAccepted,
		MeetScheduled: conn.MeetScheduled,
	}
}
