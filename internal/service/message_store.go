package service

import (
	"context"
	"strings"
	"time"

	"edlink/internal/domain"
	"edlink/internal/models"
)

// MessageStore is the append-only, subject-scoped message log. Ids come from
// the database key, never from this process.
type MessageStore struct {
	repo MessageRepository
	now  func() time.Time
}

func NewMessageStore(repo MessageRepository, now func() time.Time) *MessageStore {
	return &MessageStore{repo: repo, now: now}
}

// Append trims content, rejects blank bodies and stores the message.
func (s *MessageStore) Append(ctx context.Context, subjectID, senderID uint, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	m := &models.ChatMessage{
		SubjectID: subjectID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListSince returns messages with id > afterID (everything when afterID is
// nil) in ascending id order.
func (s *MessageStore) ListSince(ctx context.Context, subjectID uint, afterID *uint) ([]models.ChatMessage, error) {
	return s.repo.ListBySubject(ctx, subjectID, afterID)
}
