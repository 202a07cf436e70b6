package repository

import (
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithRelations inserts the project, its assignments and its
// documents atomically. No partial state survives a failure.
func (r *GormProjectRepository) CreateWithRelations(project *models.Project, users []models.ProjectUser, docs []models.ProjectDocument) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		for i := range users {
			users[i].ProjectID = project.ID
			if err := tx.Create(&users[i]).Error; err != nil {
				return err
			}
		}
		for i := range docs {
			docs[i].ProjectID = project.ID
			if err := tx.Create(&docs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateWithRelations saves the project and wholesale-replaces the
// assignment and document sets where asked: the prior rows are deleted
// and the new set inserted, never diffed or merged.
func (r *GormProjectRepository) UpdateWithRelations(project *models.Project, users []models.ProjectUser, replaceUsers bool, docs []models.ProjectDocument, replaceDocs bool) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		if replaceUsers {
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectUser{}).Error; err != nil {
				return err
			}
			for i := range users {
				users[i].ID = 0
				users[i].ProjectID = project.ID
				if err := tx.Create(&users[i]).Error; err != nil {
					return err
				}
			}
		}
		if replaceDocs {
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectDocument{}).Error; err != nil {
				return err
			}
			for i := range docs {
				docs[i].ID = 0
				docs[i].ProjectID = project.ID
				if err := tx.Create(&docs[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListAll returns every project, newest first
func (r *GormProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Creator").Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListForUser returns the projects the user is assigned to
func (r *GormProjectRepository) ListForUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	sub := r.db.Model(&models.ProjectUser{}).
		Select("project_id").
		Where("user_id = ?", userID)
	err := r.db.Preload("Creator").
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project and everything it transitively owns:
// assignments, documents, tasks, task comments and their media rows.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("task_id IN (?)", taskIDs)

		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.MediaFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectUser{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDocument{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddAssignment inserts one assignment
func (r *GormProjectRepository) AddAssignment(assignment *models.ProjectUser) error {
	if err := r.db.Create(assignment).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindAssignment finds a specific project assignment
func (r *GormProjectRepository) FindAssignment(projectID, userID uint64) (*models.ProjectUser, error) {
	var assignment models.ProjectUser
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignments lists a project's assignments with their users
func (r *GormProjectRepository) ListAssignments(projectID uint64) ([]models.ProjectUser, error) {
	var assignments []models.ProjectUser
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListDocuments lists a project's documents
func (r *GormProjectRepository) ListDocuments(projectID uint64) ([]models.ProjectDocument, error) {
	var docs []models.ProjectDocument
	if err := r.db.Where("project_id = ?", projectID).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// TaskStats aggregates task counts and progress for a project
func (r *GormProjectRepository) TaskStats(projectID uint64) (*ProjectTaskStats, error) {
	var stats ProjectTaskStats
	err := r.db.Model(&models.Task{}).
		Select("COUNT(*) as total_tasks, COALESCE(AVG(progress_percentage), 0) as avg_progress, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as completed_tasks", models.TaskStatusCompleted).
		Where("project_id = ?", projectID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CountAll counts all projects
func (r *GormProjectRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

// CountForUser counts distinct projects the user is assigned to
func (r *GormProjectRepository) CountForUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectUser{}).
		Where("user_id = ?", userID).
		Distinct("project_id").
		Count(&count).Error
	return count, err
}

// StatusBreakdown groups all projects by project_status
func (r *GormProjectRepository) StatusBreakdown() ([]StatusCount, error) {
	var breakdown []StatusCount
	err := r.db.Model(&models.Project{}).
		Select("project_status as status, COUNT(*) as count").
		Group("project_status").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// RecentProjects returns the most recently created projects
func (r *GormProjectRepository) RecentProjects(limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("created_at DESC").Limit(limit).Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}
