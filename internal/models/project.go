package models

import (
	"time"

	"gorm.io/gorm"
)

// Project ties a CloudWatch log group and a GitHub repository to an owner.
type Project struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	LogGroup    string         `json:"logGroup" gorm:"not null"`
	Region      string         `json:"region" gorm:"default:'us-east-1'"`
	RepoOwner   string         `json:"repoOwner"`
	RepoName    string         `json:"repoName"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedBy   uint           `json:"createdBy" gorm:"not null"`
	Creator     User           `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}
