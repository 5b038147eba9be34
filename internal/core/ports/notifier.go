package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrRecipientUnregistered is returned by a Notifier when the recipient's push
// token is no longer valid.
var ErrRecipientUnregistered = errors.New("recipient token is unregistered")

// Audience selects the client application a notification goes to.
type Audience int

const (
	AudienceUser Audience = iota + 1
	AudiencePartner
	AudienceVendor
)

func getAudienceStrings() map[Audience]string {
	return map[Audience]string{
		AudienceUser:    "OrderAppClient",
		AudiencePartner: "DeliveryAppClient",
		AudienceVendor:  "VendorAppClient",
	}
}

// Validate checks that the audience is one of the known client applications.
func (a Audience) Validate() error {
	if _, ok := getAudienceStrings()[a]; !ok {
		return fmt.Errorf("unknown audience %d", int(a))
	}
	return nil
}

// String returns the token mapping name of the client application.
func (a Audience) String() string {
	if s, ok := getAudienceStrings()[a]; ok {
		return s
	}
	return "UnknownClient"
}

type Recipient struct {
	ID       string
	Audience Audience
}

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers push notifications.
type Notifier interface {
	Notify(ctx context.Context, to Recipient, n Notification) error
}

// TokenRegistry owns the mapping from client ids to push tokens.
type TokenRegistry interface {
	// Token returns errs.ObjectNotFoundError when the client has no token.
	Token(ctx context.Context, audience Audience, clientID string) (string, error)
	Remove(ctx context.Context, audience Audience, clientID string) error
}
