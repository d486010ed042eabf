package main

import (
	"bytes"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*storage.MemoryStore, *localization.Localizer) {
	t.Helper()
	s := storage.NewMemoryStore()
	require.NoError(t, storage.Seed(context.Background(), s, time.Now()))
	labels, err := localization.Default()
	require.NoError(t, err)
	return s, labels
}

func TestRun_List(t *testing.T) {
	s, labels := setup(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), s, nil, labels, zerolog.Nop(), []string{"list"}, &out))
	assert.Contains(t, out.String(), "Slow Wi-Fi in Library")
	assert.Contains(t, out.String(), "Under Review")

	out.Reset()
	require.NoError(t, run(context.Background(), s, nil, labels, zerolog.Nop(), []string{"list", "resolved"}, &out))
	assert.Contains(t, out.String(), "c3")
	assert.NotContains(t, out.String(), "c1 ")

	err := run(context.Background(), s, nil, labels, zerolog.Nop(), []string{"list", "closed"}, &out)
	assert.ErrorIs(t, err, complaint.ErrInvalidStatus)
}

func TestRun_SetStatusAndRespond(t *testing.T) {
	s, labels := setup(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, run(ctx, s, nil, labels, zerolog.Nop(), []string{"set-status", "admin@example.com", "c1", "in-progress"}, &out))
	assert.Contains(t, out.String(), "Complaint c1 is now In Progress.")

	out.Reset()
	require.NoError(t, run(ctx, s, nil, labels, zerolog.Nop(), []string{"respond", "admin@example.com", "c1", "Router", "replaced"}, &out))
	assert.Contains(t, out.String(), "Response r1 added to complaint c1.")

	c, err := s.GetComplaintByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, c.Status)
	require.Len(t, c.Responses, 1)
	assert.Equal(t, "Router replaced", c.Responses[0].Content)
	assert.Equal(t, "Jane Smith", c.Responses[0].AdminName)
}

func TestRun_Errors(t *testing.T) {
	s, labels := setup(t)
	ctx := context.Background()
	var out bytes.Buffer

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no command", args: nil, want: errUsage},
		{name: "unknown command", args: []string{"ban"}, want: errUsage},
		{name: "missing args", args: []string{"set-status", "admin@example.com"}, want: errUsage},
		{name: "student acting", args: []string{"set-status", "student@example.com", "c1", "resolved"}, want: complaint.ErrForbidden},
		{name: "unknown complaint", args: []string{"respond", "admin@example.com", "c99", "hello"}, want: complaint.ErrNotFound},
		{name: "bad status", args: []string{"set-status", "admin@example.com", "c1", "done"}, want: complaint.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(ctx, s, nil, labels, zerolog.Nop(), tt.args, &out)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	err := run(ctx, s, nil, labels, zerolog.Nop(), []string{"respond", "nobody@example.com", "c1", "hi"}, &out)
	assert.Error(t, err)
}

func TestRun_Stats(t *testing.T) {
	s, labels := setup(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), s, nil, labels, zerolog.Nop(), []string{"stats"}, &out))
	assert.Contains(t, out.String(), "Total")
	assert.Regexp(t, `Resolved\s+1 \(20%\)`, out.String())
	assert.Contains(t, out.String(), "Average rating")
	assert.Contains(t, out.String(), "Computer Science")
}
