package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/types"
	"github.com/peerlink-dev/peerlink/internal/utils"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=30"`
	LastName   string `json:"last_name" binding:"required,max=30"`
	Year       string `json:"year" binding:"required,max=10"`
	Department string `json:"department" binding:"required,max=100"`
	Division   string `json:"division" binding:"required,max=10"`
	Subject    string `json:"subject" binding:"required,max=100"`
}

func GetProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			log.Printf("Failed to fetch profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(profile))
}

// UpdateProfile creates or replaces the current user's profile. A user
// holds at most one profile row, so repeated submissions update in place.
func UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var profile models.Profile

	err = db.DB.Where("user_id = ?", userID).First(&profile).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to fetch profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	profile.UserID = userID
	profile.FirstName = strings.TrimSpace(req.FirstName)
	profile.LastName = strings.TrimSpace(req.LastName)
	profile.Year = req.Year
	profile.Department = req.Department
	profile.Division = req.Division
	profile.Subject = req.Subject

	if err := db.DB.Save(&profile).Error; err != nil {
		log.Printf("Failed to save profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(profile))
}

func profileResponse(profile models.Profile) types.ProfileResponse {
	return types.ProfileResponse{
		ID:         profile.ID,
		UserID:     profile.UserID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Year:       profile.Year,
		Department: profile.Department,
		Division:   profile.Division,
		Subject:    profile.Subject,
	}
}
