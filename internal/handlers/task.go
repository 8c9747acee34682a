package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/models"
)

type AddTaskRequest struct {
	UserID      uint   `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RemoveTaskRequest struct {
	UserID uint `json:"userId"`
	TaskID uint `json:"taskId"`
}

type EditTaskRequest struct {
	UserID      uint   `json:"userId"`
	TaskID      uint   `json:"taskId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CompleteTaskRequest struct {
	UserID uint `json:"userId"`
	TaskID uint `json:"taskId"`
	// The caller-reported previous status; 0 marks the task done, anything
	// else marks it pending. The stored value is not consulted.
	TaskStatus int `json:"taskStatus"`
}

type GetTasksRequest struct {
	UserID uint `json:"userId"`
}

// userTasks re-reads the full task list for a user. Every task operation
// responds with this list rather than the affected row.
func userTasks(ctx *gin.Context, userID uint) ([]models.Task, error) {
	tasks := []models.Task{}

	if err := store(ctx).Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func respondWithTasks(ctx *gin.Context, userID uint, message string) {
	tasks, err := userTasks(ctx, userID)

	if err != nil {
		log.Printf("Failed to fetch tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
		"tasks":   tasks,
	})
}

func AddTask(ctx *gin.Context) {
	var body AddTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	task := models.Task{
		UserID:      body.UserID,
		Title:       body.Title,
		Description: body.Description,
		Completed:   false,
	}

	if err := store(ctx).Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	respondWithTasks(ctx, body.UserID, "Task added successfully")
}

func RemoveTask(ctx *gin.Context) {
	var body RemoveTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	// Deleting a task that does not exist is a silent no-op.
	if err := store(ctx).Delete(&models.Task{}, "task_id = ?", body.TaskID).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	respondWithTasks(ctx, body.UserID, "Task removed successfully")
}

func EditTask(ctx *gin.Context) {
	var body EditTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	err := store(ctx).Model(&models.Task{}).
		Where("task_id = ?", body.TaskID).
		Updates(map[string]interface{}{
			"title":       body.Title,
			"description": body.Description,
		}).Error

	if err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	respondWithTasks(ctx, body.UserID, "Task edited successfully")
}

func CompleteTask(ctx *gin.Context) {
	var body CompleteTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	err := store(ctx).Model(&models.Task{}).
		Where("task_id = ?", body.TaskID).
		Update("completed", body.TaskStatus == 0).Error

	if err != nil {
		log.Printf("Failed to update task status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	respondWithTasks(ctx, body.UserID, "Task completed")
}

func GetTasks(ctx *gin.Context) {
	var body GetTasksRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	respondWithTasks(ctx, body.UserID, "Sending all tasks")
}
