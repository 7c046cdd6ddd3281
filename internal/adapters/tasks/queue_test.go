package tasks

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

type recordingEmailService struct {
	mu   sync.Mutex
	sent []domain.ConfirmationEmailData
}

func (s *recordingEmailService) SendConfirmationEmail(_ context.Context, data *domain.ConfirmationEmailData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, *data)
	return nil
}

func (s *recordingEmailService) SendLoginCode(context.Context, *domain.LoginCodeEmailData) error {
	return nil
}

func (s *recordingEmailService) sentCopy() []domain.ConfirmationEmailData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConfirmationEmailData(nil), s.sent...)
}

func TestQueue_DeliversEnqueuedTasks(t *testing.T) {
	emails := &recordingEmailService{}
	q := NewQueue(emails, 8, slog.New(slog.DiscardHandler))
	q.Start()

	ctx := context.Background()
	require.NoError(t, q.EnqueueConfirmationEmail(ctx, domain.ConfirmationEmailData{
		Email:          "a@example.com",
		ConferenceInfo: "GopherCon",
	}))
	require.NoError(t, q.EnqueueConfirmationEmail(ctx, domain.ConfirmationEmailData{
		Email:          "b@example.com",
		ConferenceInfo: "RustConf",
	}))

	q.Close()

	sent := emails.sentCopy()
	require.Len(t, sent, 2)
	assert.Equal(t, "a@example.com", sent[0].Email)
	assert.Equal(t, "b@example.com", sent[1].Email)
}

func TestQueue_EnqueueFailsWhenFull(t *testing.T) {
	// No worker started, so the buffer never drains.
	q := NewQueue(&recordingEmailService{}, 1, slog.New(slog.DiscardHandler))

	ctx := context.Background()
	require.NoError(t, q.EnqueueConfirmationEmail(ctx, domain.ConfirmationEmailData{Email: "a@example.com"}))
	err := q.EnqueueConfirmationEmail(ctx, domain.ConfirmationEmailData{Email: "b@example.com"})
	require.Error(t, err)
}

func TestQueue_CloseDrainsBuffer(t *testing.T) {
	emails := &recordingEmailService{}
	q := NewQueue(emails, 16, slog.New(slog.DiscardHandler))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, q.EnqueueConfirmationEmail(ctx, domain.ConfirmationEmailData{Email: "a@example.com"}))
	}

	// Start after enqueueing so the buffer holds all five tasks, then Close
	// must not return until the worker has drained them.
	q.Start()
	q.Close()

	require.Len(t, emails.sentCopy(), 5)
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	q := NewQueue(&recordingEmailService{}, 1, slog.New(slog.DiscardHandler))
	q.Start()

	done := make(chan struct{})
	go func() {
		q.Close()
		q.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
}
