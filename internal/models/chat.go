package models

import "time"

// ChatMessage is immutable once inserted. ID and CreatedAt are assigned by
// the insert itself.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;index:idx_chat_messages_subject_id_id,priority:2" json:"id"`
	SubjectID uint      `gorm:"not null;index:idx_chat_messages_subject_id_id,priority:1" json:"subject_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatPresence holds the latest heartbeat for one user in one subject.
type ChatPresence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"not null;uniqueIndex:idx_chat_presence_subject_user" json:"subject_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_chat_presence_subject_user" json:"user_id"`
	LastSeen  time.Time `gorm:"not null;index" json:"last_seen"`
}

func (ChatPresence) TableName() string {
	return "chat_presence"
}
