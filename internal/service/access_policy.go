package service

import (
	"context"
	"fmt"

	"edlink/internal/domain"
	"edlink/internal/models"
)

// AccessPolicy decides who may read and write a subject's chat. Nothing is
// cached: ownership and enrollment can change between calls.
type AccessPolicy struct {
	enrollments EnrollmentDirectory
}

func NewAccessPolicy(enrollments EnrollmentDirectory) *AccessPolicy {
	return &AccessPolicy{enrollments: enrollments}
}

// CanAccess grants the owning teacher and enrolled students.
func (p *AccessPolicy) CanAccess(ctx context.Context, user *models.User, subject *models.Subject) (bool, error) {
	role, err := user.ParsedRole()
	if err != nil {
		return false, nil
	}
	switch role {
	case domain.RoleTeacher:
		return subject.TeacherID != nil && *subject.TeacherID == user.ID, nil
	case domain.RoleStudent:
		ok, err := p.enrollments.ExistsByStudentAndSubject(ctx, user.ID, subject.ID)
		if err != nil {
			return false, fmt.Errorf("check enrollment: %w", err)
		}
		return ok, nil
	case domain.RoleAdmin:
		return false, nil
	}
	return false, nil
}

// Authorize is CanAccess returning domain.ErrAccessDenied on refusal.
func (p *AccessPolicy) Authorize(ctx context.Context, user *models.User, subject *models.Subject) error {
	ok, err := p.CanAccess(ctx, user, subject)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d, subject %d: %w", user.ID, subject.ID, domain.ErrAccessDenied)
	}
	return nil
}
