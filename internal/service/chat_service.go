package service

import (
	"context"
	"fmt"
	"time"

	"edlink/internal/domain"
	"edlink/internal/models"
)

// ChatService is the only writer of chat messages and presence rows. Every
// operation resolves the caller, loads the subject and checks access before
// touching the store.
type ChatService struct {
	users       UserDirectory
	subjects    SubjectDirectory
	enrollments EnrollmentDirectory
	policy      *AccessPolicy
	messages    *MessageStore
	presence    *PresenceTracker
	now         func() time.Time
}

type Option func(*ChatService)

// WithClock replaces time.Now, used by tests to drive presence decay.
func WithClock(now func() time.Time) Option {
	return func(s *ChatService) { s.now = now }
}

func NewChatService(
	users UserDirectory,
	subjects SubjectDirectory,
	enrollments EnrollmentDirectory,
	messages MessageRepository,
	presence PresenceRepository,
	opts ...Option,
) *ChatService {
	s := &ChatService{
		users:       users,
		subjects:    subjects,
		enrollments: enrollments,
		policy:      NewAccessPolicy(enrollments),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	clock := func() time.Time { return s.now() }
	s.messages = NewMessageStore(messages, clock)
	s.presence = NewPresenceTracker(presence, domain.PresenceThreshold, clock)
	return s
}

// authorize resolves the caller and subject and applies the access policy.
func (s *ChatService) authorize(ctx context.Context, caller domain.Identity, subjectID uint) (*models.User, *models.Subject, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve caller: %w", err)
	}
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("load subject: %w", err)
	}
	if err := s.policy.Authorize(ctx, user, subject); err != nil {
		return nil, nil, err
	}
	return user, subject, nil
}

// Authorize checks that caller may use the subject's chat.
func (s *ChatService) Authorize(ctx context.Context, caller domain.Identity, subjectID uint) error {
	_, _, err := s.authorize(ctx, caller, subjectID)
	return err
}

// GetMessages returns the subject's messages after afterID (all when nil).
func (s *ChatService) GetMessages(ctx context.Context, caller domain.Identity, subjectID uint, afterID *uint) ([]MessageView, error) {
	user, _, err := s.authorize(ctx, caller, subjectID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListSince(ctx, subjectID, afterID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	seen := make(map[uint]struct{}, len(msgs))
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			ids = append(ids, m.SenderID)
		}
	}
	senders, err := s.users.FindAllByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve senders: %w", err)
	}
	byID := make(map[uint]*models.User, len(senders))
	for i := range senders {
		byID[senders[i].ID] = &senders[i]
	}

	views := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		views = append(views, newMessageView(m, byID[m.SenderID], m.SenderID == user.ID))
	}
	return views, nil
}

// SendMessage is the request/response path: the view is marked own.
func (s *ChatService) SendMessage(ctx context.Context, caller domain.Identity, subjectID uint, content string) (MessageView, error) {
	return s.send(ctx, caller, subjectID, content, true)
}

// BroadcastMessage is the push path: receivers decide ownership themselves.
func (s *ChatService) BroadcastMessage(ctx context.Context, caller domain.Identity, subjectID uint, content string) (MessageView, error) {
	return s.send(ctx, caller, subjectID, content, false)
}

func (s *ChatService) send(ctx context.Context, caller domain.Identity, subjectID uint, content string, own bool) (MessageView, error) {
	user, _, err := s.authorize(ctx, caller, subjectID)
	if err != nil {
		return MessageView{}, err
	}
	m, err := s.messages.Append(ctx, subjectID, user.ID, content)
	if err != nil {
		return MessageView{}, fmt.Errorf("append message: %w", err)
	}
	return newMessageView(m, user, own), nil
}

func (s *ChatService) RecordHeartbeat(ctx context.Context, caller domain.Identity, subjectID uint) error {
	user, _, err := s.authorize(ctx, caller, subjectID)
	if err != nil {
		return err
	}
	if err := s.presence.Heartbeat(ctx, subjectID, user.ID); err != nil {
		return fmt.Errorf("record heartbeat: %w", err)
	}
	return nil
}

// GetParticipants lists enrolled students in enrollment order followed by
// the owning teacher. Counts cover students only; enrolled students missing
// from the directory are counted but not listed.
func (s *ChatService) GetParticipants(ctx context.Context, caller domain.Identity, subjectID uint) (ParticipantsView, error) {
	_, subject, err := s.authorize(ctx, caller, subjectID)
	if err != nil {
		return ParticipantsView{}, err
	}
	studentIDs, err := s.enrollments.ListStudentIDsBySubject(ctx, subjectID)
	if err != nil {
		return ParticipantsView{}, fmt.Errorf("list enrollments: %w", err)
	}
	online, err := s.presence.ListOnline(ctx, subjectID, s.now())
	if err != nil {
		return ParticipantsView{}, fmt.Errorf("list online: %w", err)
	}

	// The owning teacher is never counted as a student, even with an
	// enrollment row.
	ids := make([]uint, 0, len(studentIDs)+1)
	for _, id := range studentIDs {
		if subject.TeacherID != nil && id == *subject.TeacherID {
			continue
		}
		ids = append(ids, id)
	}
	totalStudents := len(ids)
	if subject.TeacherID != nil {
		ids = append(ids, *subject.TeacherID)
	}
	users, err := s.users.FindAllByID(ctx, ids)
	if err != nil {
		return ParticipantsView{}, fmt.Errorf("resolve participants: %w", err)
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	view := ParticipantsView{
		TotalStudents: totalStudents,
		Participants:  make([]ParticipantView, 0, len(ids)),
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		_, isOnline := online[id]
		view.Participants = append(view.Participants, ParticipantView{
			UserID: u.ID,
			Name:   u.Name,
			Role:   roleName(u),
			Online: isOnline,
		})
		if role, err := u.ParsedRole(); err == nil && role == domain.RoleStudent && isOnline {
			view.OnlineStudents++
		}
	}
	return view, nil
}

// GetPresenceSnapshot reports the caller's own presence in the subject.
func (s *ChatService) GetPresenceSnapshot(ctx context.Context, caller domain.Identity, subjectID uint) (PresenceView, error) {
	user, _, err := s.authorize(ctx, caller, subjectID)
	if err != nil {
		return PresenceView{}, err
	}
	online, err := s.presence.IsOnline(ctx, subjectID, user.ID, s.now())
	if err != nil {
		return PresenceView{}, fmt.Errorf("presence lookup: %w", err)
	}
	return PresenceView{
		UserID:    user.ID,
		SubjectID: subjectID,
		UserName:  user.Name,
		Role:      roleName(user),
		Online:    online,
	}, nil
}
