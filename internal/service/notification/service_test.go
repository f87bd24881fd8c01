package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/notification"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/sse"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	rows     []*notification.Notification
	batches  int
	failNext bool
	markedID []string
}

func (r *memRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, n)
	return nil
}

func (r *memRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errors.New("connection reset")
	}
	r.batches++
	r.rows = append(r.rows, ns...)
	return nil
}

func (r *memRepo) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.rows {
		if n.RecipientID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	unread, _, _ := r.GetByUserID(ctx, userID, 1, 100, true)
	return len(unread), nil
}

func (r *memRepo) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedID = append(r.markedID, ids...)
	return nil
}

func (r *memRepo) MarkAllAsRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.RecipientID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func TestQueueNotification_FlushesOnStop(t *testing.T) {
	repo := &memRepo{}
	hub := sse.NewHub[notification.NotificationResponse](10)
	svc := NewNotificationService(repo, hub, Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			RecipientID: "emp-1",
			Type:        notification.TypeLeaveApproved,
			Title:       "Leave approved",
		}))
	}
	svc.Stop()
	svc.Stop()

	assert.Equal(t, 3, repo.count())
	assert.Equal(t, 1, repo.batches)
}

func TestQueueNotification_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&memRepo{}, sse.NewHub[notification.NotificationResponse](1), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{Title: "orphan"})
	assert.ErrorIs(t, err, notification.ErrRecipientRequired)
}

func TestQueueNotification_BatchSizeTriggersInsertAndPush(t *testing.T) {
	repo := &memRepo{}
	hub := sse.NewHub[notification.NotificationResponse](10)
	svc := NewNotificationService(repo, hub, Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	for _, title := range []string{"first", "second"} {
		require.NoError(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: "emp-1",
			Type:        notification.TypePayrollCalculated,
			Title:       title,
		}))
	}

	var titles []string
	timeout := time.After(2 * time.Second)
	for len(titles) < 2 {
		select {
		case ev := <-events:
			assert.Equal(t, "notification", ev.Event)
			titles = append(titles, ev.Data.Title)
		case <-timeout:
			t.Fatal("no event received")
		}
	}
	assert.ElementsMatch(t, []string{"first", "second"}, titles)
}

func TestQueueNotification_FullQueueInsertsDirectly(t *testing.T) {
	repo := &memRepo{}
	s := &service{
		repo:   repo,
		hub:    sse.NewHub[notification.NotificationResponse](1),
		config: Config{BatchSize: 1},
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest),
		stopCh: make(chan struct{}),
	}

	err := s.QueueNotification(context.Background(), notification.CreateNotificationRequest{RecipientID: "emp-1", Title: "direct"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count())
}

func TestGetNotifications_DefaultsPaging(t *testing.T) {
	repo := &memRepo{rows: []*notification.Notification{
		{ID: "n1", RecipientID: "emp-1", Title: "a"},
		{ID: "n2", RecipientID: "emp-1", Title: "b", IsRead: true},
		{ID: "n3", RecipientID: "emp-2", Title: "c"},
	}}
	svc := NewNotificationService(repo, sse.NewHub[notification.NotificationResponse](1), Config{WorkerCount: 1})
	defer svc.Stop()

	res, err := svc.GetNotifications(context.Background(), "emp-1", 0, 500, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.PageSize)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.UnreadCount)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "emp-1"))
	count, err := svc.GetUnreadCount(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAsRead_Validates(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub[notification.NotificationResponse](1), Config{WorkerCount: 1})
	defer svc.Stop()

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, svc.MarkAsRead(context.Background(), "emp-1", notification.MarkAsReadRequest{}), &verrs)

	require.NoError(t, svc.MarkAsRead(context.Background(), "emp-1", notification.MarkAsReadRequest{NotificationIDs: []string{"n1"}}))
	assert.Equal(t, []string{"n1"}, repo.markedID)
}
