package repository

import (
	"context"

	"edlink/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts m; the database assigns m.ID.
func (r *MessageRepository) Create(ctx context.Context, m *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListBySubject returns the subject's messages with id > afterID (all when
// afterID is nil), ascending by id.
func (r *MessageRepository) ListBySubject(ctx context.Context, subjectID uint, afterID *uint) ([]models.ChatMessage, error) {
	q := r.db.WithContext(ctx).Where("subject_id = ?", subjectID)
	if afterID != nil {
		q = q.Where("id > ?", *afterID)
	}
	list := make([]models.ChatMessage, 0)
	err := q.Order("id ASC").Find(&list).Error
	return list, err
}
