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

type ScheduleMeetingRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Description   string    `json:"description"`
}

type ScheduleMeetingInfo struct {
	Connection      ConnectionSummary `json:"connection"`
	CounterpartID   uint              `json:"counterpart_id"`
	Subject         string            `json:"subject"`
	MeetingsInUse   int64             `json:"meetings_in_use"`
	MeetingsAllowed int               `json:"meetings_allowed"`
}

// GetScheduleMeeting returns what the scheduling form needs: the connection,
// the counterpart's subject and the caller's standing against the meeting cap.
func GetScheduleMeeting(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	connection, ok := fetchConnectionAsParticipant(ctx, userID)

	if !ok {
		return
	}

	counterpartID := connection.FromUserID
	if counterpartID == userID {
		counterpartID = connection.ToUserID
	}

	var counterpartProfile models.Profile

	subject := ""

	if err := db.DB.Where("user_id = ?", counterpartID).First(&counterpartProfile).Error; err == nil {
		subject = counterpartProfile.Subject
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to fetch counterpart profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	count, err := countUserMeetings(db.DB, userID)

	if err != nil {
		log.Printf("Failed to count meetings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, ScheduleMeetingInfo{
		Connection:      connectionSummary(*connection),
		CounterpartID:   counterpartID,
		Subject:         subject,
		MeetingsInUse:   count,
		MeetingsAllowed: types.MaxMeetingsPerUser,
	})
}

// ScheduleMeeting creates a meeting on the connection. Refused when the
// connection already has one scheduled or the caller is at the cap across
// all of their connections. Meeting creation and the meet_scheduled flag
// flip commit together.
func ScheduleMeeting(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	connection, ok := fetchConnectionAsParticipant(ctx, userID)

	if !ok {
		return
	}

	if connection.MeetScheduled {
		ctx.JSON(http.StatusConflict, gin.H{"error": "A meeting has already been scheduled for this connection"})
		return
	}

	var req ScheduleMeetingRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var meeting models.Meeting

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		count, err := countUserMeetings(tx, userID)

		if err != nil {
			return err
		}

		if count >= types.MaxMeetingsPerUser {
			return errMeetingCapReached
		}

		meeting = models.Meeting{
			ConnectionID:  connection.ID,
			ScheduledTime: req.ScheduledTime,
			Description:   req.Description,
		}

		if err := tx.Create(&meeting).Error; err != nil {
			return err
		}

		return tx.Model(connection).Update("meet_scheduled", true).Error
	})

	if err != nil {
		if errors.Is(err, errMeetingCapReached) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "You can only schedule 2 meetings at a time"})
			return
		}
		log.Printf("Failed to schedule meeting: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule meeting"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Meeting scheduled successfully",
		"meeting": MeetingSummary{
			ID:            meeting.ID,
			ConnectionID:  meeting.ConnectionID,
			ScheduledTime: meeting.ScheduledTime,
			Description:   meeting.Description,
		},
	})
}

// CompleteMeeting deletes the meeting and frees the connection for another
// one, both in one transaction.
func CompleteMeeting(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	meetingID, err := utils.ParseIDParam(ctx, "meeting_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var meeting models.Meeting

	if err := db.DB.Preload("Connection").First(&meeting, meetingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			log.Printf("Failed to fetch meeting: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if meeting.Connection.FromUserID != userID && meeting.Connection.ToUserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to complete this meeting"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Meeting{}, meeting.ID).Error; err != nil {
			return err
		}

		return tx.Model(&models.Connection{}).Where("id = ?", meeting.ConnectionID).Update("meet_scheduled", false).Error
	})

	if err != nil {
		log.Printf("Failed to complete meeting: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete meeting"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Meeting marked as completed and deleted"})
}

var errMeetingCapReached = errors.New("meeting cap reached")

// countUserMeetings counts live meetings on any connection the user is
// party to.
func countUserMeetings(tx *gorm.DB, userID uint) (int64, error) {
	var count int64

	err := tx.Model(&models.Meeting{}).
		Joins("JOIN connections ON connections.id = meetings.connection_id").
		Where("connections.from_user_id = ? OR connections.to_user_id = ?", userID, userID).
		Count(&count).Error

	return count, err
}

// fetchConnectionAsParticipant loads the conn_id path parameter and enforces
// that the caller is one of the two parties. Responds and returns false on
// any failure.
func fetchConnectionAsParticipant(ctx *gin.Context, userID uint) (*models.Connection, bool) {
	connID, err := utils.ParseIDParam(ctx, "conn_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var connection models.Connection

	if err := db.DB.First(&connection, connID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
		} else {
			log.Printf("Failed to fetch connection: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	if connection.FromUserID != userID && connection.ToUserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to schedule a meeting for this connection"})
		return nil, false
	}

	return &connection, true
}
