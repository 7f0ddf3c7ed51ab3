package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/storage"
	"github.com/peerlink-dev/peerlink/internal/utils"
	"gorm.io/gorm"
)

type NoteResponse struct {
	ID           uint      `json:"id"`
	UploadedByID uint      `json:"uploaded_by_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FileName     string    `json:"file_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ListNotes returns the caller's notes plus every note uploaded by a user
// they hold an accepted connection with, in either direction.
func ListNotes(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	visibleIDs, err := visibleUploaderIDs(userID)

	if err != nil {
		log.Printf("Failed to resolve visible uploaders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	var notes []models.Note

	if err := db.DB.Where("uploaded_by_id IN ?", visibleIDs).Order("created_at DESC").Find(&notes).Error; err != nil {
		log.Printf("Failed to fetch notes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	response := make([]NoteResponse, 0, len(notes))

	for _, note := range notes {
		response = append(response, noteResponse(note))
	}

	ctx.JSON(http.StatusOK, response)
}

// UploadNote accepts a multipart form with title, description and file.
func UploadNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))

	if title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note title is required"})
		return
	}

	file, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note file is required"})
		return
	}

	storedPath, err := storage.SaveNoteFile(file)

	if err != nil {
		log.Printf("Failed to store note file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	note := models.Note{
		UploadedByID: userID,
		Title:        title,
		Description:  ctx.PostForm("description"),
		FileName:     file.Filename,
		FilePath:     storedPath,
	}

	if err := db.DB.Create(&note).Error; err != nil {
		log.Printf("Failed to create note: %v", err)

		if removeErr := storage.RemoveFile(storedPath); removeErr != nil {
			log.Printf("Failed to remove orphaned file %s: %v", storedPath, removeErr)
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload note"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Note uploaded successfully",
		"note":    noteResponse(note),
	})
}

// DownloadNote serves the stored file to the owner or to any accepted
// connection of the owner.
func DownloadNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	note, ok := fetchNote(ctx)

	if !ok {
		return
	}

	if note.UploadedByID != userID {
		connectedIDs, err := visibleUploaderIDs(userID)

		if err != nil {
			log.Printf("Failed to resolve visible uploaders: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		visible := false
		for _, id := range connectedIDs {
			if id == note.UploadedByID {
				visible = true
				break
			}
		}

		if !visible {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to download this note"})
			return
		}
	}

	ctx.FileAttachment(storage.AbsolutePath(note.FilePath), note.FileName)
}

// DeleteNote removes the note and its stored file. Owner only; anyone else
// gets a permission error rather than a not-found.
func DeleteNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	note, ok := fetchNote(ctx)

	if !ok {
		return
	}

	if note.UploadedByID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this note"})
		return
	}

	if err := db.DB.Delete(note).Error; err != nil {
		log.Printf("Failed to delete note: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	if err := storage.RemoveFile(note.FilePath); err != nil {
		log.Printf("Failed to remove stored file %s: %v", note.FilePath, err)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// visibleUploaderIDs is the note visibility set: the user plus every
// counterpart of an accepted connection.
func visibleUploaderIDs(userID uint) ([]uint, error) {
	accepted, err := acceptedConnections(userID)

	if err != nil {
		return nil, err
	}

	return append(counterpartIDs(accepted, userID), userID), nil
}

func fetchNote(ctx *gin.Context) (*models.Note, bool) {
	noteID, err := utils.ParseIDParam(ctx, "note_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var note models.Note

	if err := db.DB.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			log.Printf("Failed to fetch note: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &note, true
}

func noteResponse(note models.Note) NoteResponse {
	return NoteResponse{
		ID:           note.ID,
		UploadedByID: note.UploadedByID,
		Title:        note.Title,
		Description:  note.Description,
		FileName:     note.FileName,
		UploadedAt:   note.CreatedAt,
	}
}
