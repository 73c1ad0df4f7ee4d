package database

import (
	"path/filepath"
	"testing"

	"edlink/config"
	"edlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewDBUnsupportedDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "seed.db"), MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, Ping(db))

	require.NoError(t, SeedDemo(db))
	require.NoError(t, SeedDemo(db))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)

	var subject models.Subject
	require.NoError(t, db.First(&subject).Error)
	require.NotNil(t, subject.TeacherID)

	var teacher models.User
	require.NoError(t, db.First(&teacher, *subject.TeacherID).Error)
	assert.Equal(t, "TEACHER", teacher.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(demoPassword)))

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("subject_id = ?", subject.ID).Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)
}
