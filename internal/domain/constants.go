package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role is the closed set of account roles known to the chat core.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps a stored role string onto Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// PresenceThreshold is how long a heartbeat keeps a user online.
const PresenceThreshold = 60 * time.Second

// Realtime event types (server -> client).
const (
	EventMessageCreated  = "message_created"
	EventPresenceChanged = "presence_changed"
	EventSubscribed      = "subscribed"
	EventUnsubscribed    = "unsubscribed"
	EventError           = "error"
	EventPong            = "pong"
)

// Realtime operation types (client -> server).
const (
	OpSubscribe      = "subscribe"
	OpUnsubscribe    = "unsubscribe"
	OpSendMessage    = "send_message"
	OpUpdatePresence = "update_presence"
	OpPing           = "ping"
)

const subjectTopicPrefix = "subject:"

// SubjectTopic is the broadcast scope for one subject's chat.
func SubjectTopic(subjectID uint) string {
	return fmt.Sprintf("%s%d", subjectTopicPrefix, subjectID)
}

// ParseSubjectTopic is the inverse of SubjectTopic.
func ParseSubjectTopic(topic string) (uint, bool) {
	s, ok := strings.CutPrefix(topic, subjectTopicPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Identity is a caller resolved from a bearer credential by the auth layer.
type Identity struct {
	UserID uint
	Email  string
	Role   Role
}
