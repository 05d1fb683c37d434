package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logscope/backend/internal/services"
)

type LogController struct {
	pipeline       *services.PipelineService
	projectService *services.ProjectService
	llmService     *services.LLMService
}

func NewLogController(pipeline *services.PipelineService, projectService *services.ProjectService, llmService *services.LLMService) *LogController {
	return &LogController{
		pipeline:       pipeline,
		projectService: projectService,
		llmService:     llmService,
	}
}

// GetClusterLogs runs the clustering pipeline for a project's log group.
// The operation never fails: AI or log-store trouble degrades to an empty
// or fallback-shaped report, always HTTP 200.
func (lc *LogController) GetClusterLogs(c *gin.Context) {
	userID, projectID, ok := requestProjectIDs(c)
	if !ok {
		return
	}

	project, err := lc.projectService.GetProject(projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := lc.pipeline.GetClusterLogs(c.Request.Context(), project.LogGroup)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetLLMStatus reports the health of the Ollama backend and its models.
func (lc *LogController) GetLLMStatus(c *gin.Context) {
	if err := lc.llmService.CheckLLMHealth(); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"available": false,
			"error":     err.Error(),
		})
		return
	}

	models, err := lc.llmService.GetAvailableModels()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"available": true,
			"models":    []string{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"available": true,
		"models":    models,
	})
}
