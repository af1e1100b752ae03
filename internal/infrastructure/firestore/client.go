// Package firestore implements the remote document store: one document
// per user under the users collection, replaced wholesale on every write
// (last writer wins, no merge).
package firestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"libreta/internal/domain/ledger"
)

const usersCollection = "users"

// Client wraps a Firestore connection.
type Client struct {
	fs  *firestore.Client
	log zerolog.Logger
}

// NewClient connects to Firestore. credentialsFile may be empty, in
// which case Application Default Credentials are used.
func NewClient(ctx context.Context, projectID, credentialsFile string, log zerolog.Logger) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Client{fs: fs, log: log}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

func (c *Client) userDoc(userID string) *firestore.DocumentRef {
	return c.fs.Collection(usersCollection).Doc(userID)
}

// Read fetches the user document once. Returns (nil, nil) when it does
// not exist; used for the migration existence check.
func (c *Client) Read(ctx context.Context, userID string) (*ledger.Document, error) {
	snap, err := c.userDoc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user document: %w", err)
	}

	var doc ledger.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode user document: %w", err)
	}
	return &doc, nil
}

// Write replaces the user document with doc.
func (c *Client) Write(ctx context.Context, userID string, doc *ledger.Document) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := c.userDoc(userID).Set(ctx, doc); err != nil {
		return fmt.Errorf("write user document: %w", err)
	}
	return nil
}

// Subscribe streams snapshots of the user document. onChange receives
// nil when the document does not exist. The returned stop function
// cancels the stream and waits for the delivery goroutine to exit, so no
// callback can fire after stop returns.
func (c *Client) Subscribe(ctx context.Context, userID string, onChange func(*ledger.Document)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	iter := c.userDoc(userID).Snapshots(subCtx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					c.log.Error().Err(err).Str("user", userID).Msg("document subscription ended")
				}
				return
			}
			if !snap.Exists() {
				onChange(nil)
				continue
			}
			var doc ledger.Document
			if err := snap.DataTo(&doc); err != nil {
				c.log.Warn().Err(err).Str("user", userID).Msg("skipping undecodable snapshot")
				continue
			}
			onChange(&doc)
		}
	}()

	stop := func() {
		cancel()
		wg.Wait()
	}
	return stop, nil
}
