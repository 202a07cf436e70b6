package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create inserts a new session row
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// DeleteByToken removes the session with the given token. Idempotent:
// a missing token deletes zero rows and reports no error.
func (r *GormSessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// FindValidByToken returns the unexpired session matching token, with
// its user preloaded. Expired rows are not swept; they simply never
// match here.
func (r *GormSessionRepository) FindValidByToken(token string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.Preload("User").
		Where("token = ? AND expires_at > ?", token, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
