package usecase

import (
	"context"
	"sync"
	"time"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

// NotificationHub manages one live notification aggregator per signed-in
// resident. Aggregators are started on login (or first use) and must be
// stopped on logout so no subscription leaks across account switches.
type NotificationHub struct {
	repo      repository.NotificationRepository
	feedLimit int
	logger    logger.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*NotificationsAggregator
}

// NewNotificationHub creates the hub
func NewNotificationHub(repo repository.NotificationRepository, feedLimit int, logger logger.Logger, m *metrics.Metrics) *NotificationHub {
	return &NotificationHub{
		repo:      repo,
		feedLimit: feedLimit,
		logger:    logger,
		metrics:   m,
		sessions:  make(map[string]*NotificationsAggregator),
	}
}

// StartSession returns the user's aggregator, starting one if needed. The
// subscription lives until StopSession or StopAll, not per request.
func (h *NotificationHub) StartSession(claims entity.SessionClaims) (*NotificationsAggregator, error) {
	if err := claims.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if agg, ok := h.sessions[claims.UserID]; ok {
		return agg, nil
	}

	agg := newNotificationsAggregator(claims.UserID, h.repo, h.feedLimit, h.logger, h.metrics)
	if err := agg.start(); err != nil {
		return nil, err
	}
	h.sessions[claims.UserID] = agg

	h.logger.Info("Notification session started", "userId", claims.UserID)
	return agg, nil
}

// StopSession tears down the user's aggregator on logout
func (h *NotificationHub) StopSession(userID string) {
	h.mu.Lock()
	agg, ok := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()

	if ok {
		agg.Stop()
		h.logger.Info("Notification session stopped", "userId", userID)
	}
}

// StopAll tears down every aggregator; used on shutdown
func (h *NotificationHub) StopAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*NotificationsAggregator)
	h.mu.Unlock()

	for _, agg := range sessions {
		agg.Stop()
	}
}

// NotificationsAggregator keeps a live snapshot of one user's notification
// feed and the unread count derived from it. The count is recomputed from
// the latest snapshot, never patched optimistically, so a just-read item
// counts as unread until the next change event lands.
type NotificationsAggregator struct {
	userID    string
	repo      repository.NotificationRepository
	feedLimit int
	logger    logger.Logger
	metrics   *metrics.Metrics

	cancel context.CancelFunc

	mu      sync.RWMutex
	records []*entity.NotificationRecord
	unread  int

	subMu   sync.Mutex
	subs    map[int64]chan entity.NotificationEvent
	nextSub int64
}

func newNotificationsAggregator(userID string, repo repository.NotificationRepository, feedLimit int, logger logger.Logger, m *metrics.Metrics) *NotificationsAggregator {
	return &NotificationsAggregator{
		userID:    userID,
		repo:      repo,
		feedLimit: feedLimit,
		logger:    logger,
		metrics:   m,
		subs:      make(map[int64]chan entity.NotificationEvent),
	}
}

func (a *NotificationsAggregator) start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.refresh(ctx); err != nil {
		cancel()
		return err
	}

	events, err := a.repo.Watch(ctx, a.userID)
	if err != nil {
		cancel()
		return err
	}

	go func() {
		for event := range events {
			// Delete events are matched broadly in the change stream and
			// carry only an id; ones not in this user's snapshot belong to
			// someone else's feed
			if event.Type == entity.NotificationDeleted && !a.hasRecord(event.ID) {
				continue
			}
			a.metrics.NotificationEvents.Inc()
			if err := a.refresh(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("Failed to refresh notification snapshot",
					"userId", a.userID, "error", err)
			}
			a.broadcast(event)
		}
	}()

	return nil
}

// Stop cancels the live subscription and closes all stream subscribers
func (a *NotificationsAggregator) Stop() {
	if a.cancel != nil {
		a.cancel()
	}

	a.subMu.Lock()
	for id, ch := range a.subs {
		close(ch)
		delete(a.subs, id)
	}
	a.subMu.Unlock()
}

// Snapshot returns the current feed, newest first, and the unread count
func (a *NotificationsAggregator) Snapshot() ([]*entity.NotificationRecord, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*entity.NotificationRecord(nil), a.records...), a.unread
}

// UnreadCount returns the derived unread count
func (a *NotificationsAggregator) UnreadCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.unread
}

// MarkOneAsRead flips one read flag. Fire-and-forget: the write happens in
// the background and the snapshot catches up via the change stream.
func (a *NotificationsAggregator) MarkOneAsRead(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.repo.MarkRead(ctx, a.userID, id); err != nil {
			a.metrics.ErrorsCount.WithLabelValues("notification_mark_read").Inc()
			a.logger.Error("Failed to mark notification read",
				"userId", a.userID, "id", id, "error", err)
		}
	}()
}

// MarkAllAsRead flips every unread flag, fire-and-forget
func (a *NotificationsAggregator) MarkAllAsRead() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.repo.MarkAllRead(ctx, a.userID); err != nil {
			a.metrics.ErrorsCount.WithLabelValues("notification_mark_all").Inc()
			a.logger.Error("Failed to mark all notifications read",
				"userId", a.userID, "error", err)
		}
	}()
}

// ClearAll deletes the feed. Destructive and irreversible; callers must
// pass an explicit confirmation.
func (a *NotificationsAggregator) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return &entity.DomainError{
			Kind:    entity.KindValidation,
			Message: "clearing notifications requires confirmation",
		}
	}
	return a.repo.ClearAll(ctx, a.userID)
}

// Subscribe attaches a consumer to the live event stream; the returned
// function detaches it
func (a *NotificationsAggregator) Subscribe() (<-chan entity.NotificationEvent, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan entity.NotificationEvent, 16)
	a.subs[id] = ch

	return ch, func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		if sub, ok := a.subs[id]; ok {
			close(sub)
			delete(a.subs, id)
		}
	}
}

func (a *NotificationsAggregator) hasRecord(id string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, r := range a.records {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (a *NotificationsAggregator) refresh(ctx context.Context) error {
	records, err := a.repo.FindByUser(ctx, a.userID, a.feedLimit)
	if err != nil {
		return err
	}

	unread := 0
	for _, r := range records {
		if !r.Read {
			unread++
		}
	}

	a.mu.Lock()
	a.records = records
	a.unread = unread
	a.mu.Unlock()
	return nil
}

func (a *NotificationsAggregator) broadcast(event entity.NotificationEvent) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- event:
		default:
			// Slow consumer; drop rather than stall the feed
		}
	}
}
