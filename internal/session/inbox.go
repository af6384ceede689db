package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NotificationKind identifies an asynchronous outcome reported by the backend.
type NotificationKind string

const (
	NotifyReferralInvited   NotificationKind = "referral_invited"
	NotifyReferralActivated NotificationKind = "referral_activated"
	NotifyPaymentCompleted  NotificationKind = "payment_completed"
	NotifyGiftCompleted     NotificationKind = "gift_completed"
	NotifyPaymentDeclined   NotificationKind = "payment_declined"
	NotifyDevicesUpdated    NotificationKind = "devices_updated"
)

var ErrUnknownNotification = errors.New("unknown notification kind")

// Notification is a discrete outcome delivered by an external collaborator.
// Only the fields relevant to Kind are read.
type Notification struct {
	Kind NotificationKind

	ReferralID string
	Name       string

	TierID      int
	Periods     int
	Recipient   string
	Description string

	Devices int

	// At is when the backend observed the outcome. Zero means "now".
	At time.Time
}

// Event reports the result of applying one notification, or the single
// terminal failure of the external channel.
type Event struct {
	Notification Notification

	// Err is the domain error from applying the notification, or the
	// ExternalChannelError when Terminal is set.
	Err error

	// Terminal marks the last event the inbox will deliver.
	Terminal bool
}

// InboxObserver receives the outcome of every applied notification.
type InboxObserver interface {
	ObserveNotification(kind string, err error)
}

type nopInboxObserver struct{}

func (nopInboxObserver) ObserveNotification(string, error) {}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithInboxLogger sets the logger. Defaults to slog.Default().
func WithInboxLogger(logger *slog.Logger) InboxOption {
	return func(i *Inbox) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithInboxObserver registers an observer for applied notifications.
func WithInboxObserver(o InboxObserver) InboxOption {
	return func(i *Inbox) {
		if o != nil {
			i.observer = o
		}
	}
}

// WithQueueSize sets the capacity of the notification queue.
func WithQueueSize(n int) InboxOption {
	return func(i *Inbox) {
		if n > 0 {
			i.queueSize = n
		}
	}
}

type inboxItem struct {
	notification Notification
	failure      error
}

// Inbox queues external notifications and applies them to the store one at
// a time, in arrival order. A channel failure is delivered once as a
// terminal event; the inbox accepts nothing after it. There is no retry.
type Inbox struct {
	store *Store

	queueSize int
	queue     chan inboxItem
	events    chan Event
	stopped   chan struct{}

	mu       sync.Mutex
	closed   bool
	stopOnce sync.Once

	logger   *slog.Logger
	observer InboxObserver
}

// NewInbox creates an inbox that applies notifications to store.
func NewInbox(store *Store, opts ...InboxOption) *Inbox {
	i := &Inbox{
		store:     store,
		queueSize: 64,
		stopped:   make(chan struct{}),
		logger:    slog.Default(),
		observer:  nopInboxObserver{},
	}
	for _, opt := range opts {
		opt(i)
	}
	i.queue = make(chan inboxItem, i.queueSize)
	i.events = make(chan Event, i.queueSize)
	return i
}

// Events returns the channel of applied outcomes. It is closed when Run returns.
func (i *Inbox) Events() <-chan Event {
	return i.events
}

// Submit enqueues a notification. It blocks while the queue is full.
func (i *Inbox) Submit(ctx context.Context, n Notification) error {
	return i.enqueue(ctx, inboxItem{notification: n})
}

// Fail enqueues the terminal failure of the external channel. Notifications
// submitted before the failure are still applied first.
func (i *Inbox) Fail(ctx context.Context, channel string, cause error) error {
	var extErr *ExternalChannelError
	if !errors.As(cause, &extErr) {
		extErr = NewExternalChannelError(channel, cause)
	}
	return i.enqueue(ctx, inboxItem{failure: extErr})
}

func (i *Inbox) enqueue(ctx context.Context, item inboxItem) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return ErrInboxClosed
	}
	select {
	case <-i.stopped:
		i.closed = true
		return ErrInboxClosed
	default:
	}
	if item.failure != nil {
		i.closed = true
	}

	select {
	case i.queue <- item:
		return nil
	case <-i.stopped:
		i.closed = true
		return ErrInboxClosed
	case <-ctx.Done():
		if item.failure != nil {
			i.closed = false
		}
		return ctx.Err()
	}
}

// Run applies queued notifications until the terminal failure has been
// delivered or ctx is done. A channel failure is reported through Events,
// not as Run's error.
func (i *Inbox) Run(ctx context.Context) error {
	defer i.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item := <-i.queue:
			if item.failure != nil {
				i.logger.Error("External channel failed", "error", item.failure)
				i.observer.ObserveNotification("channel_failure", item.failure)
				i.emit(ctx, Event{Err: item.failure, Terminal: true})
				return nil
			}

			err := i.apply(item.notification)
			i.observer.ObserveNotification(string(item.notification.Kind), err)
			if err != nil {
				i.logger.Warn("Notification rejected",
					"kind", item.notification.Kind,
					"error", err,
				)
			} else {
				i.logger.Debug("Notification applied", "kind", item.notification.Kind)
			}
			if !i.emit(ctx, Event{Notification: item.notification, Err: err}) {
				return ctx.Err()
			}
		}
	}
}

func (i *Inbox) emit(ctx context.Context, ev Event) bool {
	select {
	case i.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (i *Inbox) stop() {
	i.stopOnce.Do(func() {
		close(i.stopped)
		close(i.events)
	})
}

func (i *Inbox) apply(n Notification) error {
	at := n.At
	if at.IsZero() {
		at = i.store.now()
	}

	switch n.Kind {
	case NotifyReferralInvited:
		_, err := i.store.RecordReferralWithID(n.ReferralID, n.Name, at)
		return err
	case NotifyReferralActivated:
		_, err := i.store.ActivateReferral(n.ReferralID)
		return err
	case NotifyPaymentCompleted:
		periods := n.Periods
		if periods == 0 {
			periods = 1
		}
		_, err := i.store.PurchaseAt(n.TierID, periods, at)
		return err
	case NotifyGiftCompleted:
		_, err := i.store.RecordGift(n.TierID, n.Recipient)
		return err
	case NotifyPaymentDeclined:
		_, err := i.store.RecordFailedPayment(n.TierID, n.Description)
		return err
	case NotifyDevicesUpdated:
		return i.store.UpdateDevices(n.Devices)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNotification, n.Kind)
	}
}
