package repository

import (
	"context"

	"edlink/internal/models"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*models.Subject, error) {
	var s models.Subject
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "subject", id)
	}
	return &s, nil
}

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) ExistsByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (bool, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Count(&c).Error
	return c > 0, err
}

// ListStudentIDsBySubject returns enrolled student ids in enrollment order.
func (r *EnrollmentRepository) ListStudentIDsBySubject(ctx context.Context, subjectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("subject_id = ?", subjectID).
		Order("id ASC").
		Pluck("student_id", &ids).Error
	return ids, err
}
