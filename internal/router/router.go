package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/internal/handlers"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	r.POST("/register", handlers.Register)
	r.POST("/auth", handlers.Authenticate)
	r.POST("/change-username", handlers.ChangeUsername)

	r.POST("/add-task", handlers.AddTask)
	r.POST("/remove-task", handlers.RemoveTask)
	r.POST("/edit-task", handlers.EditTask)
	r.POST("/complete-task", handlers.CompleteTask)
	r.POST("/get-tasks", handlers.GetTasks)

	return r
}
