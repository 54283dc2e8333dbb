package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// streamEvent is the named SSE event carrying notification payloads.
const streamEvent = "notification"

// Feed maintains the notification list from two sources: a fixed-interval
// poll of the list endpoint and a long-lived push stream keyed by user id.
// Both feed the same id-deduplicated collection; subscribers receive
// coalesced snapshots.
type Feed struct {
	svc      *api.NotificationsService
	tokens   api.TokenSource
	interval time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	items []models.Notification
	index map[string]int

	updates chan []models.Notification

	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewFeed builds a feed polling at the given interval.
func NewFeed(svc *api.NotificationsService, tokens api.TokenSource, interval time.Duration, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Feed{
		svc:      svc,
		tokens:   tokens,
		interval: interval,
		logger:   logger,
		index:    make(map[string]int),
		updates:  make(chan []models.Notification, 1),
	}
}

// Start schedules the poll loop and opens the push stream for the given
// user. It returns immediately; failures inside either source are logged
// and retried on the next cycle (the stream transport handles its own
// reconnects).
func (f *Feed) Start(ctx context.Context, userID string) error {
	ctx, f.cancel = context.WithCancel(ctx)

	f.cron = cron.New()
	if _, err := f.cron.AddFunc(fmt.Sprintf("@every %s", f.interval), func() { f.poll(ctx) }); err != nil {
		return fmt.Errorf("schedule notification poll: %w", err)
	}
	f.cron.Start()

	go f.poll(ctx)
	go f.stream(ctx, userID)

	f.logger.Info("notification feed started",
		zap.String("user_id", userID),
		zap.Duration("poll_interval", f.interval))
	return nil
}

// Stop tears down the poll loop and the push stream. Safe to call more than
// once.
func (f *Feed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.cron != nil {
		f.cron.Stop()
	}
}

// Updates returns the snapshot channel. Only the latest snapshot is kept
// when the consumer lags.
func (f *Feed) Updates() <-chan []models.Notification {
	return f.updates
}

// Snapshot returns a copy of the current feed contents.
func (f *Feed) Snapshot() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Unread counts notifications not yet marked read.
func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n
}

func (f *Feed) poll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, f.interval)
	defer cancel()

	items, err := f.svc.List(pollCtx)
	if err != nil {
		if ctx.Err() == nil {
			f.logger.Warn("notification poll failed", zap.Error(err))
		}
		return
	}
	f.Merge(items...)
}

func (f *Feed) stream(ctx context.Context, userID string) {
	client := sse.NewClient(f.svc.StreamURL(userID))
	if token := f.tokens.Token(); token != "" {
		client.Headers["Authorization"] = "Bearer " + token
	}

	err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		if string(msg.Event) != streamEvent || len(msg.Data) == 0 {
			return
		}
		var item models.Notification
		if err := json.Unmarshal(msg.Data, &item); err != nil {
			f.logger.Warn("discarding malformed push notification", zap.Error(err))
			return
		}
		f.Merge(item)
	})
	if err != nil && ctx.Err() == nil {
		f.logger.Warn("notification stream closed", zap.Error(err))
	}
}

// Merge upserts notifications into the feed, deduplicating by id: a known
// id updates the existing entry in place (read flags may change), an
// unknown one is prepended as newest.
func (f *Feed) Merge(items ...models.Notification) {
	f.mu.Lock()
	changed := false
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if pos, ok := f.index[item.ID]; ok {
			if f.items[pos] != item {
				f.items[pos] = item
				changed = true
			}
			continue
		}
		f.items = append([]models.Notification{item}, f.items...)
		changed = true
	}
	if changed {
		f.reindexLocked()
	}
	var snap []models.Notification
	if changed {
		snap = f.snapshotLocked()
	}
	f.mu.Unlock()

	if changed {
		f.publish(snap)
	}
}

// MarkRead flags a notification read locally and at the backend.
func (f *Feed) MarkRead(ctx context.Context, id string) error {
	if err := f.svc.MarkRead(ctx, id); err != nil {
		return err
	}

	f.mu.Lock()
	var snap []models.Notification
	if pos, ok := f.index[id]; ok && !f.items[pos].Read {
		f.items[pos].Read = true
		snap = f.snapshotLocked()
	}
	f.mu.Unlock()

	if snap != nil {
		f.publish(snap)
	}
	return nil
}

func (f *Feed) reindexLocked() {
	f.index = make(map[string]int, len(f.items))
	for i, item := range f.items {
		f.index[item.ID] = i
	}
}

func (f *Feed) snapshotLocked() []models.Notification {
	snap := make([]models.Notification, len(f.items))
	copy(snap, f.items)
	return snap
}

func (f *Feed) publish(snap []models.Notification) {
	for {
		select {
		case f.updates <- snap:
			return
		default:
			select {
			case <-f.updates:
			default:
			}
		}
	}
}
