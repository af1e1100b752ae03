// Package firebase is the identity adapter. Authentication itself is
// delegated to Firebase; this client only turns credentials into a user
// id for the ledger store's mode selection.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Client wraps the Firebase Auth service.
type Client struct {
	auth *auth.Client
}

// NewClient initializes a Firebase app and returns its auth client.
// credentialsFile may be empty to use Application Default Credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	cfg := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &Client{auth: authClient}, nil
}

// VerifyToken validates a Firebase ID token and returns the user id it
// belongs to. A failure here is surfaced to the user ("could not verify
// identity") since sign-in is a direct request/response flow.
func (c *Client) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("could not verify identity: %w", err)
	}
	return token.UID, nil
}

// UserExists reports whether a user id is known to the identity
// provider.
func (c *Client) UserExists(ctx context.Context, uid string) (bool, error) {
	_, err := c.auth.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("look up user: %w", err)
	}
	return true, nil
}
