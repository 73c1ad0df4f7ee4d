// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"edlink/config"
	"edlink/internal/database"
	"edlink/internal/domain"
	"edlink/internal/models"

	"gorm.io/gorm"
)

// OpenDB returns a migrated sqlite database that lives for the duration of t.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "chat.db") + "?_busy_timeout=5000",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name string, role domain.Role) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@test.local", Role: role.String(), Status: "APPROVED"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func CreateSubject(t testing.TB, db *gorm.DB, name string, teacherID uint) models.Subject {
	t.Helper()
	s := models.Subject{Name: name, TeacherID: &teacherID}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create subject %s: %v", name, err)
	}
	return s
}

func Enroll(t testing.TB, db *gorm.DB, studentID, subjectID uint) {
	t.Helper()
	e := models.Enrollment{StudentID: studentID, SubjectID: subjectID, EnrolledAt: time.Now().UTC()}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("enroll %d in %d: %v", studentID, subjectID, err)
	}
}

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

func NewClock() *Clock {
	return &Clock{T: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
