package service

import (
	"time"

	"edlink/internal/models"
)

const unknownSender = "Unknown"

type MessageView struct {
	ID         uint   `json:"id"`
	SubjectID  uint   `json:"subject_id"`
	SenderID   uint   `json:"sender_id"`
	SenderName string `json:"sender_name"`
	SenderRole string `json:"sender_role"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	Own        bool   `json:"own"`
}

type ParticipantView struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Online bool   `json:"online"`
}

type ParticipantsView struct {
	TotalStudents  int               `json:"total_students"`
	OnlineStudents int               `json:"online_students"`
	Participants   []ParticipantView `json:"participants"`
}

type PresenceView struct {
	UserID    uint   `json:"user_id"`
	SubjectID uint   `json:"subject_id"`
	UserName  string `json:"user_name"`
	Role      string `json:"role"`
	Online    bool   `json:"online"`
}

// newMessageView renders m; sender may be nil when the account is gone.
func newMessageView(m *models.ChatMessage, sender *models.User, own bool) MessageView {
	v := MessageView{
		ID:         m.ID,
		SubjectID:  m.SubjectID,
		SenderID:   m.SenderID,
		SenderName: unknownSender,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
		Own:        own,
	}
	if sender != nil {
		v.SenderName = sender.Name
		v.SenderRole = roleName(sender)
	}
	return v
}

// roleName normalizes the stored role; unparseable values pass through.
func roleName(u *models.User) string {
	if r, err := u.ParsedRole(); err == nil {
		return r.String()
	}
	return u.Role
}
