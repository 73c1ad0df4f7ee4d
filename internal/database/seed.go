package database

import (
	"errors"
	"fmt"
	"time"

	"edlink/internal/domain"
	"edlink/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

// SeedDemo inserts a teacher, two students and one subject with a single
// enrollment so the chat can be tried locally. It does nothing when the
// demo teacher already exists.
func SeedDemo(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "teacher@edlink.local").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		teacher := models.User{Name: "Demo Teacher", Email: "teacher@edlink.local", PasswordHash: string(hash), Role: domain.RoleTeacher.String(), Status: "APPROVED"}
		alice := models.User{Name: "Alice", Email: "alice@edlink.local", PasswordHash: string(hash), Role: domain.RoleStudent.String(), Standard: "9th", Status: "APPROVED"}
		bob := models.User{Name: "Bob", Email: "bob@edlink.local", PasswordHash: string(hash), Role: domain.RoleStudent.String(), Standard: "9th", Status: "APPROVED"}
		for _, u := range []*models.User{&teacher, &alice, &bob} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}
		subject := models.Subject{Name: "Mathematics", Standard: "9th", TeacherID: &teacher.ID}
		if err := tx.Create(&subject).Error; err != nil {
			return err
		}
		return tx.Create(&models.Enrollment{StudentID: alice.ID, SubjectID: subject.ID, EnrolledAt: time.Now().UTC()}).Error
	})
}
