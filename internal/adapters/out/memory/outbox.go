package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dispatch/internal/core/ports"
)

// Sent is a notification recorded by Outbox.
type Sent struct {
	To           ports.Recipient
	Notification ports.Notification
}

// Outbox is a notifier that records and logs notifications instead of
// pushing them. It stands in for FCM when push is disabled.
type Outbox struct {
	mu           sync.Mutex
	sent         []Sent
	unregistered map[string]bool
	logger       *zap.Logger
}

var _ ports.Notifier = (*Outbox)(nil)

func NewOutbox(logger *zap.Logger) *Outbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Outbox{unregistered: make(map[string]bool), logger: logger}
}

// Unregister makes later notifications to recipientID fail with
// ports.ErrRecipientUnregistered.
func (o *Outbox) Unregister(recipientID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unregistered[recipientID] = true
}

func (o *Outbox) Notify(_ context.Context, to ports.Recipient, n ports.Notification) error {
	if err := to.Audience.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.unregistered[to.ID] {
		return ports.ErrRecipientUnregistered
	}
	o.sent = append(o.sent, Sent{To: to, Notification: n})
	o.logger.Info("notification",
		zap.String("recipient", to.ID),
		zap.Stringer("audience", to.Audience),
		zap.String("title", n.Title))
	return nil
}

// Sent returns the recorded notifications, oldest first.
func (o *Outbox) Sent() []Sent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Sent(nil), o.sent...)
}

// SentTo returns the notifications recorded for recipientID.
func (o *Outbox) SentTo(recipientID string) []Sent {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []Sent
	for _, s := range o.sent {
		if s.To.ID == recipientID {
			out = append(out, s)
		}
	}
	return out
}
