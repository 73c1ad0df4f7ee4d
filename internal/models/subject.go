package models

import "time"

type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Standard    string    `gorm:"size:32;index" json:"standard"`
	TeacherID   *uint     `gorm:"index" json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_subject" json:"student_id"`
	SubjectID  uint      `gorm:"not null;index;uniqueIndex:idx_enrollment_student_subject" json:"subject_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
