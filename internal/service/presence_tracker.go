package service

import (
	"context"
	"errors"
	"time"

	"edlink/internal/domain"
)

// PresenceTracker derives online state from the last heartbeat per
// (subject, user). Staleness is evaluated at read time.
type PresenceTracker struct {
	repo      PresenceRepository
	threshold time.Duration
	now       func() time.Time
}

func NewPresenceTracker(repo PresenceRepository, threshold time.Duration, now func() time.Time) *PresenceTracker {
	return &PresenceTracker{repo: repo, threshold: threshold, now: now}
}

func (t *PresenceTracker) Heartbeat(ctx context.Context, subjectID, userID uint) error {
	return t.repo.Upsert(ctx, subjectID, userID, t.now().UTC())
}

// IsOnline reports whether now - lastSeen < threshold.
func (t *PresenceTracker) IsOnline(ctx context.Context, subjectID, userID uint, now time.Time) (bool, error) {
	p, err := t.repo.Get(ctx, subjectID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return now.Sub(p.LastSeen) < t.threshold, nil
}

// ListOnline returns the set of users online in the subject at now.
func (t *PresenceTracker) ListOnline(ctx context.Context, subjectID uint, now time.Time) (map[uint]struct{}, error) {
	ids, err := t.repo.ListSeenAfter(ctx, subjectID, now.Add(-t.threshold).UTC())
	if err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
