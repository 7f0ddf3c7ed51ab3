package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/utils"
)

type DashboardResponse struct {
	Connections     int   `json:"connections"`
	PendingIncoming int64 `json:"pending_incoming"`
	PendingOutgoing int64 `json:"pending_outgoing"`
	Meetings        int64 `json:"meetings"`
	OpenTasks       int64 `json:"open_tasks"`
	DoneTasks       int64 `json:"done_tasks"`
	VisibleNotes    int64 `json:"visible_notes"`
}

// GetDashboard aggregates the counts shown on the landing page.
func GetDashboard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	accepted, err := acceptedConnections(userID)

	if err != nil {
		log.Printf("Failed to fetch connections: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	var response DashboardResponse

	response.Connections = len(counterpartIDs(accepted, userID))

	if err := db.DB.Model(&models.Connection{}).Where("to_user_id = ? AND is_accepted = ?", userID, false).Count(&response.PendingIncoming).Error; err != nil {
		log.Printf("Failed to count pending requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	if err := db.DB.Model(&models.Connection{}).Where("from_user_id = ? AND is_accepted = ?", userID, false).Count(&response.PendingOutgoing).Error; err != nil {
		log.Printf("Failed to count sent requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	if err := db.DB.Model(&models.Task{}).Where("user_id = ? AND is_done = ?", userID, false).Count(&response.OpenTasks).Error; err != nil {
		log.Printf("Failed to count tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	if err := db.DB.Model(&models.Task{}).Where("user_id = ? AND is_done = ?", userID, true).Count(&response.DoneTasks).Error; err != nil {
		log.Printf("Failed to count tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	response.Meetings, err = countUserMeetings(db.DB, userID)

	if err != nil {
		log.Printf("Failed to count meetings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	visibleIDs, err := visibleUploaderIDs(userID)

	if err != nil {
		log.Printf("Failed to resolve visible uploaders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	if err := db.DB.Model(&models.Note{}).Where("uploaded_by_id IN ?", visibleIDs).Count(&response.VisibleNotes).Error; err != nil {
		log.Printf("Failed to count notes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
