package firebase

import (
	"context"

	"cloud.google.com/go/firestore"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const fieldFCMToken = "fcm_token"

// TokenRegistry reads FCMTokenMapping/{App}, a single document per client app
// whose fields map client ids to {fcm_token}.
type TokenRegistry struct {
	client *firestore.Client
}

var _ ports.TokenRegistry = (*TokenRegistry)(nil)

func NewTokenRegistry(client *firestore.Client) *TokenRegistry {
	return &TokenRegistry{client: client}
}

func (r *TokenRegistry) Token(ctx context.Context, audience ports.Audience, clientID string) (string, error) {
	if err := audience.Validate(); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("audience", err)
	}

	snap, err := r.client.Doc(view.TokenMapping(audience.String()).Path()).Get(ctx)
	if isNotFound(err) {
		return "", errs.NewObjectNotFoundError("clientId", clientID)
	}
	if err != nil {
		return "", errs.NewExternalServiceError(serviceFirestore, err)
	}

	token := decode(snap.Data()).Map(clientID).String(fieldFCMToken)
	if token == "" {
		return "", errs.NewObjectNotFoundError("clientId", clientID)
	}
	return token, nil
}

// Remove deletes the client's entry from the mapping document.
func (r *TokenRegistry) Remove(ctx context.Context, audience ports.Audience, clientID string) error {
	if err := audience.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("audience", err)
	}

	_, err := r.client.Doc(view.TokenMapping(audience.String()).Path()).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{clientID}, Value: firestore.Delete},
	})
	if err != nil && !isNotFound(err) {
		return errs.NewExternalServiceError(serviceFirestore, err)
	}
	return nil
}
