package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/logscope/backend/internal/logger"
	"github.com/logscope/backend/internal/models"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		db: db,
	}
}

// CreateProject creates a new project configuration for a user
func (ps *ProjectService) CreateProject(userID uint, project *models.Project) error {
	if project.Name == "" || project.LogGroup == "" {
		return fmt.Errorf("project name and log group are required")
	}

	project.CreatedBy = userID
	if err := ps.db.Create(project).Error; err != nil {
		logger.WithError(err, "project_service").Error("Failed to create project")
		return fmt.Errorf("failed to create project: %w", err)
	}

	logger.WithUser(userID).Infof("Project %q created (log group %s)", project.Name, project.LogGroup)
	return nil
}

// GetUserProjects returns all projects owned by a user
func (ps *ProjectService) GetUserProjects(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := ps.db.Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error

	if err != nil {
		logger.WithError(err, "project_service").Error("Failed to get user projects")
		return nil, fmt.Errorf("failed to get user projects: %w", err)
	}

	return projects, nil
}

// GetProject returns a specific project owned by the user
func (ps *ProjectService) GetProject(projectID, userID uint) (*models.Project, error) {
	var project models.Project
	err := ps.db.Where("id = ? AND created_by = ?", projectID, userID).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("project not found")
		}
		logger.WithError(err, "project_service").Error("Failed to get project")
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// UpdateProject updates a project's configuration
func (ps *ProjectService) UpdateProject(projectID, userID uint, updates *models.Project) (*models.Project, error) {
	project, err := ps.GetProject(projectID, userID)
	if err != nil {
		return nil, err
	}

	project.Name = updates.Name
	project.LogGroup = updates.LogGroup
	project.Region = updates.Region
	project.RepoOwner = updates.RepoOwner
	project.RepoName = updates.RepoName
	project.Description = updates.Description

	if err := ps.db.Save(project).Error; err != nil {
		logger.WithError(err, "project_service").Error("Failed to update project")
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject soft-deletes a project
func (ps *ProjectService) DeleteProject(projectID, userID uint) error {
	result := ps.db.Where("id = ? AND created_by = ?", projectID, userID).Delete(&models.Project{})
	if result.Error != nil {
		logger.WithError(result.Error, "project_service").Error("Failed to delete project")
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project not found")
	}

	return nil
}
