package service

import (
	"context"
	"time"

	"edlink/internal/models"
)

// UserDirectory resolves accounts. Implemented by repository.UserRepository.
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindAllByID(ctx context.Context, ids []uint) ([]models.User, error)
}

// SubjectDirectory resolves subjects. Implemented by repository.SubjectRepository.
type SubjectDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.Subject, error)
}

// EnrollmentDirectory answers membership questions. Implemented by repository.EnrollmentRepository.
type EnrollmentDirectory interface {
	ExistsByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (bool, error)
	ListStudentIDsBySubject(ctx context.Context, subjectID uint) ([]uint, error)
}

// MessageRepository persists chat messages. Implemented by repository.MessageRepository.
type MessageRepository interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	ListBySubject(ctx context.Context, subjectID uint, afterID *uint) ([]models.ChatMessage, error)
}

// PresenceRepository persists heartbeats. Implemented by repository.PresenceRepository.
type PresenceRepository interface {
	Upsert(ctx context.Context, subjectID, userID uint, lastSeen time.Time) error
	Get(ctx context.Context, subjectID, userID uint) (*models.ChatPresence, error)
	ListSeenAfter(ctx context.Context, subjectID uint, t time.Time) ([]uint, error)
}
