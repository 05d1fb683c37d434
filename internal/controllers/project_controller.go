package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/logscope/backend/internal/models"
	"github.com/logscope/backend/internal/services"
)

type ProjectController struct {
	projectService *services.ProjectService
}

func NewProjectController(projectService *services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	LogGroup    string `json:"logGroup" binding:"required"`
	Region      string `json:"region"`
	RepoOwner   string `json:"repoOwner"`
	RepoName    string `json:"repoName"`
	Description string `json:"description"`
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:        req.Name,
		LogGroup:    req.LogGroup,
		Region:      req.Region,
		RepoOwner:   req.RepoOwner,
		RepoName:    req.RepoName,
		Description: req.Description,
	}

	if err := pc.projectService.CreateProject(userID.(uint), &project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"project": project,
	})
}

func (pc *ProjectController) GetProjects(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := pc.projectService.GetUserProjects(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
	})
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, projectID, ok := requestProjectIDs(c)
	if !ok {
		return
	}

	project, err := pc.projectService.GetProject(projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	userID, projectID, ok := requestProjectIDs(c)
	if !ok {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := models.Project{
		Name:        req.Name,
		LogGroup:    req.LogGroup,
		Region:      req.Region,
		RepoOwner:   req.RepoOwner,
		RepoName:    req.RepoName,
		Description: req.Description,
	}

	project, err := pc.projectService.UpdateProject(projectID, userID, &updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	userID, projectID, ok := requestProjectIDs(c)
	if !ok {
		return
	}

	if err := pc.projectService.DeleteProject(projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project deleted",
	})
}

// requestProjectIDs pulls the authenticated user and the :id path parameter.
func requestProjectIDs(c *gin.Context) (userID uint, projectID uint, ok bool) {
	id, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, 0, false
	}

	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return 0, 0, false
	}

	return id.(uint), uint(parsed), true
}
