package ledger

import (
	"context"

	"libreta/internal/notify"
)

// Blob keys for the local store. Clients and products are persisted
// independently; there is no cross-collection atomicity.
const (
	BlobKeyClients  = "clients"
	BlobKeyProducts = "products"
)

// ClientCollection is the local blob payload for the client ledger.
type ClientCollection struct {
	Clients []Client `json:"clients"`
}

// ProductCollection is the local blob payload for the catalog.
type ProductCollection struct {
	Products []Product `json:"products"`
}

// Document is the full per-user remote document. Every cloud write
// replaces it wholesale (last writer wins); optional entity fields are
// serialized as explicit nulls so downstream readers see a stable schema.
type Document struct {
	Clients                 []Client  `json:"clients" firestore:"clients"`
	Products                []Product `json:"products" firestore:"products"`
	WhatsAppSaleTemplate    string    `json:"whatsappSaleTemplate,omitempty" firestore:"whatsappSaleTemplate,omitempty"`
	WhatsAppPaymentTemplate string    `json:"whatsappPaymentTemplate,omitempty" firestore:"whatsappPaymentTemplate,omitempty"`
	UpdatedAt               string    `json:"updatedAt" firestore:"updatedAt"`
}

// BlobStore is the local persistence boundary: opaque JSON blobs by key.
// Get returns (nil, nil) when the key has never been written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// DocumentStore is the remote persistence boundary, keyed by user id.
// Read returns (nil, nil) when the document does not exist. Subscribe
// delivers every remote update, including echoes of local writes, and
// passes nil when the document is absent; the returned stop function
// terminates delivery.
type DocumentStore interface {
	Read(ctx context.Context, userID string) (*Document, error)
	Write(ctx context.Context, userID string, doc *Document) error
	Subscribe(ctx context.Context, userID string, onChange func(*Document)) (stop func(), err error)
}

// Sender delivers a message to a phone number. Best effort: failure is
// reported as false and only ever logged.
type Sender interface {
	Send(ctx context.Context, phone, text string) bool
}

// Dispatcher defers task execution off the mutation path.
type Dispatcher interface {
	Submit(task notify.Task) error
}
