package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type TaskResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task

	if err := db.DB.Where("user_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		log.Printf("Failed to fetch tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Task title cannot be empty"})
		return
	}

	title := strings.TrimSpace(req.Title)

	if title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Task title cannot be empty"})
		return
	}

	task := models.Task{
		UserID: userID,
		Title:  title,
		IsDone: false,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func ToggleTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := fetchOwnedTask(ctx, userID, "task_id")

	if !ok {
		return
	}

	if err := db.DB.Model(task).Update("is_done", !task.IsDone).Error; err != nil {
		log.Printf("Failed to toggle task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(*task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := fetchOwnedTask(ctx, userID, "task_id")

	if !ok {
		return
	}

	if err := db.DB.Delete(task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// fetchOwnedTask loads the task and enforces ownership. A task belonging to
// someone else is a permission error, not a not-found.
func fetchOwnedTask(ctx *gin.Context, userID uint, param string) (*models.Task, bool) {
	taskID, err := utils.ParseIDParam(ctx, param)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to fetch task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	if task.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this task"})
		return nil, false
	}

	return &task, true
}

func taskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:     task.ID,
		Title:  task.Title,
		IsDone: task.IsDone,
	}
}
