package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logscope/backend/internal/models"
	"github.com/logscope/backend/internal/services"
)

type GitHubController struct {
	githubService  *services.GitHubService
	projectService *services.ProjectService
}

func NewGitHubController(githubService *services.GitHubService, projectService *services.ProjectService) *GitHubController {
	return &GitHubController{
		githubService:  githubService,
		projectService: projectService,
	}
}

func (gc *GitHubController) GetPullRequests(c *gin.Context) {
	project, ok := gc.projectRepo(c)
	if !ok {
		return
	}

	pulls, err := gc.githubService.ListPullRequests(c.Request.Context(), project.RepoOwner, project.RepoName)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"pullRequests": pulls,
	})
}

func (gc *GitHubController) GetVulnerabilityAlerts(c *gin.Context) {
	project, ok := gc.projectRepo(c)
	if !ok {
		return
	}

	alerts, err := gc.githubService.ListVulnerabilityAlerts(c.Request.Context(), project.RepoOwner, project.RepoName)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"alerts":  alerts,
	})
}

func (gc *GitHubController) projectRepo(c *gin.Context) (*models.Project, bool) {
	userID, projectID, ok := requestProjectIDs(c)
	if !ok {
		return nil, false
	}

	project, err := gc.projectService.GetProject(projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}

	if project.RepoOwner == "" || project.RepoName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project has no GitHub repository configured"})
		return nil, false
	}

	return project, true
}
