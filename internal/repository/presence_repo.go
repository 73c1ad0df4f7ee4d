package repository

import (
	"context"
	"time"

	"edlink/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert writes lastSeen for (subjectID, userID) in a single statement.
func (r *PresenceRepository) Upsert(ctx context.Context, subjectID, userID uint, lastSeen time.Time) error {
	p := models.ChatPresence{SubjectID: subjectID, UserID: userID, LastSeen: lastSeen}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
	}).Create(&p).Error
}

func (r *PresenceRepository) Get(ctx context.Context, subjectID, userID uint) (*models.ChatPresence, error) {
	var p models.ChatPresence
	err := r.db.WithContext(ctx).Where("subject_id = ? AND user_id = ?", subjectID, userID).First(&p).Error
	if err != nil {
		return nil, notFound(err, "presence for user", userID)
	}
	return &p, nil
}

// ListSeenAfter returns the ids of users whose last heartbeat in the subject is after t.
func (r *PresenceRepository) ListSeenAfter(ctx context.Context, subjectID uint, t time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ChatPresence{}).
		Where("subject_id = ? AND last_seen > ?", subjectID, t).
		Pluck("user_id", &ids).Error
	return ids, err
}
