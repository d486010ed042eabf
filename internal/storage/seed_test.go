package storage_test

import (
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_LoadsSampleData(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := storage.NewMemoryStore()

	require.NoError(t, storage.Seed(ctx, s, now))

	student, err := s.FindUserByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.Equal(t, "John Doe", student.Name)

	admin, err := s.FindUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	list, err := s.ListComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		assert.Equal(t, id, list[i].ID)
	}

	for _, c := range list {
		assert.Equal(t, c.IsAnonymous, c.StudentName == nil, "complaint %s breaks the anonymity rule", c.ID)
		assert.False(t, c.UpdatedAt.Before(c.CreatedAt), "complaint %s updated before created", c.ID)
		assert.False(t, c.CreatedAt.After(now))
	}
	assert.NotNil(t, list[2].Feedback, "c3 ships with feedback")
	assert.Equal(t, models.StatusResolved, list[2].Status)
}

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	now := time.Now()

	require.NoError(t, storage.Seed(ctx, s, now))
	require.NoError(t, storage.Seed(ctx, s, now))

	users, _ := s.CountUsers(ctx)
	complaints, _ := s.CountComplaints(ctx)
	assert.Equal(t, 2, users)
	assert.Equal(t, 5, complaints)
}
