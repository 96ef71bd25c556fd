package http

import (
	"github.com/gin-gonic/gin"

	"cadence/internal/adapter/http/handlers"
	"cadence/internal/adapter/http/middleware"
)

func RegisterRoutes(
	r *gin.Engine,
	jwtSecret string,
	healthHandler *handlers.HealthHandler,
	taskHandler *handlers.TaskHandler,
	completionHandler *handlers.CompletionHandler,
	scheduleHandler *handlers.ScheduleHandler,
	sectionHandler *handlers.SectionHandler,
) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())

	api.GET("/health", healthHandler.CheckHealth)
	api.GET("/health/report", healthHandler.CheckHealthReport)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.POST("/tasks", taskHandler.CreateTask)
		authed.GET("/tasks", taskHandler.ListTasks)
		authed.PATCH("/tasks/:id", taskHandler.UpdateTask)
		authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
		authed.GET("/tasks/:id/subtasks", taskHandler.ListSubtasks)
		authed.POST("/tasks/:id/split", taskHandler.SplitSeries)
		authed.POST("/tasks/:id/toggle", completionHandler.ToggleOccurrence)
		authed.POST("/tasks/:id/offschedule", completionHandler.SetOffSchedule)
		authed.DELETE("/tasks/:id/offschedule", completionHandler.ClearOffSchedule)
		authed.POST("/completions/batch", completionHandler.BatchComplete)
		authed.DELETE("/completions/batch", completionHandler.BatchClear)
		authed.GET("/schedule", scheduleHandler.GetSchedule)
		authed.POST("/sections", sectionHandler.CreateSection)
		authed.GET("/sections", sectionHandler.ListSections)
		authed.PATCH("/sections/:id", sectionHandler.UpdateSection)
		authed.DELETE("/sections/:id", sectionHandler.DeleteSection)
	}
}
