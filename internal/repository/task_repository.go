package repository

import (
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAll returns every task with its project and people, newest first
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Project").Preload("Assignee").Preload("Creator").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForAssignee returns tasks assigned to the user, newest first
func (r *GormTaskRepository) ListForAssignee(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Project").Preload("Assignee").Preload("Creator").
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject returns a project's tasks, newest first
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Assignee").Preload("Creator").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task together with its comments and media rows
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("task_id = ?", id)

		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.MediaFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountAll counts all tasks
func (r *GormTaskRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountForAssignee counts the user's tasks, optionally by status
func (r *GormTaskRepository) CountForAssignee(userID uint64, status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Task{}).Where("assigned_to = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// StatusBreakdownForAssignee groups the user's tasks by status
func (r *GormTaskRepository) StatusBreakdownForAssignee(userID uint64) ([]StatusCount, error) {
	var breakdown []StatusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("assigned_to = ?", userID).
		Group("status").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// RecentUpdated returns the most recently updated tasks
func (r *GormTaskRepository) RecentUpdated(limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Order("updated_at DESC").Limit(limit).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
