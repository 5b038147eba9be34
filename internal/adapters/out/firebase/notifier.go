package firebase

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const serviceFCM = "fcm"

// messageSender is the part of *messaging.Client the notifier uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier delivers push notifications through Firebase Cloud Messaging.
type Notifier struct {
	sender messageSender
	tokens ports.TokenRegistry
	logger *zap.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(sender messageSender, tokens ports.TokenRegistry, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, tokens: tokens, logger: logger}
}

// Notify resolves the recipient's token and sends a high priority message.
// A recipient without a token, or whose token FCM rejects as unregistered,
// yields ports.ErrRecipientUnregistered.
func (n *Notifier) Notify(ctx context.Context, to ports.Recipient, note ports.Notification) error {
	token, err := n.tokens.Token(ctx, to.Audience, to.ID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s has no token", ports.ErrRecipientUnregistered, to.ID)
	}
	if err != nil {
		return err
	}

	msg := &messaging.Message{
		Token: token,
		Data:  note.Data,
		Notification: &messaging.Notification{
			Title: note.Title,
			Body:  note.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	messageID, err := n.sender.Send(ctx, msg)
	if messaging.IsUnregistered(err) {
		return fmt.Errorf("%w: %s", ports.ErrRecipientUnregistered, to.ID)
	}
	if err != nil {
		return errs.NewExternalServiceError(serviceFCM, err)
	}

	n.logger.Debug("push sent",
		zap.String("recipient", to.ID),
		zap.Stringer("audience", to.Audience),
		zap.String("message_id", messageID))
	return nil
}
