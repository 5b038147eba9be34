// Package firebase adapts Cloud Firestore and Firebase Cloud Messaging to the
// dispatch ports.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebasesdk "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Clients are the Firebase clients shared by the adapters.
type Clients struct {
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// NewClients initialises the Firebase Admin SDK. When credentialsFile is empty
// application default credentials are used.
func NewClients(ctx context.Context, projectID string, credentialsFile string) (*Clients, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebasesdk.NewApp(ctx, &firebasesdk.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Firestore: %w", err)
	}

	msg, err := app.Messaging(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}

	return &Clients{Firestore: fs, Messaging: msg}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
