package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"edlink/internal/domain"
	"edlink/internal/models"
	"edlink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepositoryOrderingAndSince(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	var ids []uint
	for i, body := range []string{"a", "b", "c", "d"} {
		m := &models.ChatMessage{SubjectID: 10, SenderID: 1, Content: body, CreatedAt: now.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.Create(ctx, m))
		ids = append(ids, m.ID)
	}
	require.NoError(t, repo.Create(ctx, &models.ChatMessage{SubjectID: 11, SenderID: 1, Content: "other", CreatedAt: now}))

	all, err := repo.ListBySubject(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, m := range all {
		assert.Equal(t, ids[i], m.ID)
	}

	after := ids[1]
	tail, err := repo.ListBySubject(ctx, 10, &after)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, "c", tail[0].Content)
	assert.Equal(t, "d", tail[1].Content)

	last := ids[3]
	none, err := repo.ListBySubject(ctx, 10, &last)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMessageRepositoryConcurrentCreates(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, &models.ChatMessage{SubjectID: 10, SenderID: 1, Content: "x", CreatedAt: time.Now().UTC()}))
		}()
	}
	wg.Wait()

	list, err := repo.ListBySubject(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, list, n)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i].ID, list[i-1].ID)
	}
}

func TestPresenceRepositoryUpsert(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPresenceRepository(db)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx, 10, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, 10, 7, t0))
	require.NoError(t, repo.Upsert(ctx, 10, 7, t0.Add(30*time.Second)))
	require.NoError(t, repo.Upsert(ctx, 10, 8, t0))

	var rows int64
	require.NoError(t, db.Model(&models.ChatPresence{}).Where("subject_id = ? AND user_id = ?", 10, 7).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	p, err := repo.Get(ctx, 10, 7)
	require.NoError(t, err)
	assert.True(t, p.LastSeen.Equal(t0.Add(30*time.Second)))

	ids, err := repo.ListSeenAfter(ctx, 10, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, ids)
}

func TestDirectoryRepositories(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	teacher := testutil.CreateUser(t, db, "teacher", domain.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", domain.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", domain.RoleStudent)
	math := testutil.CreateSubject(t, db, "math", teacher.ID)
	testutil.Enroll(t, db, bob.ID, math.ID)
	testutil.Enroll(t, db, alice.ID, math.ID)

	users := NewUserRepository(db)
	_, err := users.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := users.FindAllByID(ctx, []uint{alice.ID, bob.ID, 999})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	subjects := NewSubjectRepository(db)
	s, err := subjects.FindByID(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, *s.TeacherID)
	_, err = subjects.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	enrollments := NewEnrollmentRepository(db)
	ok, err := enrollments.ExistsByStudentAndSubject(ctx, alice.ID, math.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = enrollments.ExistsByStudentAndSubject(ctx, teacher.ID, math.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ids, err := enrollments.ListStudentIDsBySubject(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID, alice.ID}, ids)
}
